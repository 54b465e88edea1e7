// Package ai21 maps canonical parameters onto the AI21 wire format behind
// the managed endpoint. AI21 camel-cases every field and nests per-category
// penalties as complete sub-objects:
//
//	max_tokens_to_sample → maxTokens
//	stop                 → stopSequences
//	count_penalty.apply_to_whitespaces → countPenalty.applyToWhitespaces
package ai21

import (
	"encoding/json"
	"fmt"

	"github.com/leofalp/bedrockgate/providers/family"
)

// completionRequest is the single-shot completion payload.
type completionRequest struct {
	Prompt           string   `json:"prompt"`
	MaxTokens        int      `json:"maxTokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"topP,omitempty"`
	StopSequences    []string `json:"stopSequences,omitempty"`
	NumResults       int      `json:"numResults,omitempty"`
	CountPenalty     *penalty `json:"countPenalty,omitempty"`
	PresencePenalty  *penalty `json:"presencePenalty,omitempty"`
	FrequencyPenalty *penalty `json:"frequencyPenalty,omitempty"`
}

// penalty is a camel-cased per-category penalty sub-object. It is always
// built whole from the canonical [family.Penalty], never field-by-field.
type penalty struct {
	Scale               float64 `json:"scale"`
	ApplyToWhitespaces  bool    `json:"applyToWhitespaces,omitempty"`
	ApplyToPunctuations bool    `json:"applyToPunctuations,omitempty"`
	ApplyToNumbers      bool    `json:"applyToNumbers,omitempty"`
	ApplyToStopwords    bool    `json:"applyToStopwords,omitempty"`
	ApplyToEmojis       bool    `json:"applyToEmojis,omitempty"`
}

// completionResponse is the decoded completion payload.
type completionResponse struct {
	Completions []struct {
		Data struct {
			Text string `json:"text"`
		} `json:"data"`
		FinishReason struct {
			Reason string `json:"reason,omitempty"`
		} `json:"finishReason,omitempty"`
	} `json:"completions"`
}

// Normalizer implements [family.Normalizer] for the AI21 family.
type Normalizer struct{}

// New returns a ready-to-use AI21 normalizer.
func New() *Normalizer { return &Normalizer{} }

// Family implements [family.Normalizer].
func (*Normalizer) Family() family.Family { return family.FamilyAI21 }

// NormalizeCompletion implements [family.Normalizer]. The prompt passes
// through unchanged; top-k has no AI21 equivalent and is dropped.
func (*Normalizer) NormalizeCompletion(params family.Params, prompt string) (any, error) {
	return completionRequest{
		Prompt:           prompt,
		MaxTokens:        params.MaxTokens,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		StopSequences:    params.StopSequences,
		NumResults:       params.NumResults,
		CountPenalty:     toPenalty(params.CountPenalty),
		PresencePenalty:  toPenalty(params.PresencePenalty),
		FrequencyPenalty: toPenalty(params.FrequencyPenalty),
	}, nil
}

// toPenalty converts a canonical penalty to its camel-cased wire form.
func toPenalty(p *family.Penalty) *penalty {
	if p == nil {
		return nil
	}
	return &penalty{
		Scale:               p.Scale,
		ApplyToWhitespaces:  p.ApplyToWhitespaces,
		ApplyToPunctuations: p.ApplyToPunctuations,
		ApplyToNumbers:      p.ApplyToNumbers,
		ApplyToStopwords:    p.ApplyToStopwords,
		ApplyToEmojis:       p.ApplyToEmojis,
	}
}

// NormalizeChat implements [family.Normalizer]. AI21 models behind the
// managed endpoint expose no multi-turn chat operation.
func (*Normalizer) NormalizeChat(family.Params) (any, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAI21, Op: family.OpChat}
}

// NormalizeEmbedding implements [family.Normalizer].
func (*Normalizer) NormalizeEmbedding(string) (any, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAI21, Op: family.OpEmbedding}
}

// ParseCompletion implements [family.Normalizer]. The first completion's text
// becomes the completion text.
func (*Normalizer) ParseCompletion(body []byte) (*family.Completion, error) {
	var decoded completionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode ai21 completion: %w", err)
	}

	result := &family.Completion{Raw: json.RawMessage(body)}
	if len(decoded.Completions) > 0 {
		result.Text = decoded.Completions[0].Data.Text
		result.StopReason = decoded.Completions[0].FinishReason.Reason
	}
	return result, nil
}

// ParseEmbedding implements [family.Normalizer].
func (*Normalizer) ParseEmbedding([]byte) (*family.Embedding, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAI21, Op: family.OpEmbedding}
}
