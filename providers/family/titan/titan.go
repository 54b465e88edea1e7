// Package titan maps canonical parameters onto the Amazon Titan wire format
// behind the managed endpoint. Titan models are used for embedding only;
// text generation goes through the other families.
package titan

import (
	"encoding/json"
	"fmt"

	"github.com/leofalp/bedrockgate/providers/family"
)

// embeddingRequest is the embedding payload for a single text.
type embeddingRequest struct {
	InputText string `json:"inputText"`
}

// embeddingResponse is the decoded embedding payload.
type embeddingResponse struct {
	Embedding           []float64 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount,omitempty"`
}

// Normalizer implements [family.Normalizer] for the Amazon family.
type Normalizer struct{}

// New returns a ready-to-use Titan normalizer.
func New() *Normalizer { return &Normalizer{} }

// Family implements [family.Normalizer].
func (*Normalizer) Family() family.Family { return family.FamilyAmazon }

// NormalizeCompletion implements [family.Normalizer]. Titan models expose no
// completion operation through this layer.
func (*Normalizer) NormalizeCompletion(family.Params, string) (any, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAmazon, Op: family.OpCompletion}
}

// NormalizeChat implements [family.Normalizer].
func (*Normalizer) NormalizeChat(family.Params) (any, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAmazon, Op: family.OpChat}
}

// NormalizeEmbedding implements [family.Normalizer].
func (*Normalizer) NormalizeEmbedding(text string) (any, error) {
	return embeddingRequest{InputText: text}, nil
}

// ParseCompletion implements [family.Normalizer].
func (*Normalizer) ParseCompletion([]byte) (*family.Completion, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAmazon, Op: family.OpCompletion}
}

// ParseEmbedding implements [family.Normalizer].
func (*Normalizer) ParseEmbedding(body []byte) (*family.Embedding, error) {
	var decoded embeddingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode titan embedding: %w", err)
	}
	return &family.Embedding{
		Values: decoded.Embedding,
		Raw:    json.RawMessage(body),
	}, nil
}
