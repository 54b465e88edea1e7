// Package cohere maps canonical parameters onto the Cohere wire format
// behind the managed endpoint. Cohere is the pass-through family: its
// completion payload uses the canonical field names unchanged.
package cohere

import (
	"encoding/json"
	"fmt"

	"github.com/leofalp/bedrockgate/providers/family"
)

// completionRequest is the single-shot completion payload. Field names match
// the canonical parameter names one-for-one.
type completionRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokensToSample int      `json:"max_tokens_to_sample,omitempty"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	StopSequences     []string `json:"stop,omitempty"`
	NumGenerations    int      `json:"num_generations,omitempty"`
}

// embeddingRequest is the embedding payload for a single text.
type embeddingRequest struct {
	Texts     []string `json:"texts"`
	InputType string   `json:"input_type"`
}

// completionResponse is the decoded completion payload.
type completionResponse struct {
	Generations []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"generations"`
}

// embeddingResponse is the decoded embedding payload.
type embeddingResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Normalizer implements [family.Normalizer] for the Cohere family.
type Normalizer struct{}

// New returns a ready-to-use Cohere normalizer.
func New() *Normalizer { return &Normalizer{} }

// Family implements [family.Normalizer].
func (*Normalizer) Family() family.Family { return family.FamilyCohere }

// NormalizeCompletion implements [family.Normalizer]. The prompt passes
// through unchanged; no turn template is applied.
func (*Normalizer) NormalizeCompletion(params family.Params, prompt string) (any, error) {
	return completionRequest{
		Prompt:            prompt,
		MaxTokensToSample: params.MaxTokens,
		Temperature:       params.Temperature,
		TopP:              params.TopP,
		TopK:              params.TopK,
		StopSequences:     params.StopSequences,
		NumGenerations:    params.NumResults,
	}, nil
}

// NormalizeChat implements [family.Normalizer]. Cohere models behind the
// managed endpoint expose no multi-turn chat operation.
func (*Normalizer) NormalizeChat(family.Params) (any, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyCohere, Op: family.OpChat}
}

// NormalizeEmbedding implements [family.Normalizer].
func (*Normalizer) NormalizeEmbedding(text string) (any, error) {
	return embeddingRequest{
		Texts:     []string{text},
		InputType: "search_document",
	}, nil
}

// ParseCompletion implements [family.Normalizer]. The first generation's text
// becomes the completion text.
func (*Normalizer) ParseCompletion(body []byte) (*family.Completion, error) {
	var decoded completionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode cohere completion: %w", err)
	}

	result := &family.Completion{Raw: json.RawMessage(body)}
	if len(decoded.Generations) > 0 {
		result.Text = decoded.Generations[0].Text
		result.StopReason = decoded.Generations[0].FinishReason
	}
	return result, nil
}

// ParseEmbedding implements [family.Normalizer]. The first embedding vector
// becomes the result; requests always carry exactly one text.
func (*Normalizer) ParseEmbedding(body []byte) (*family.Embedding, error) {
	var decoded embeddingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode cohere embedding: %w", err)
	}

	result := &family.Embedding{Raw: json.RawMessage(body)}
	if len(decoded.Embeddings) > 0 {
		result.Values = decoded.Embeddings[0]
	}
	return result, nil
}
