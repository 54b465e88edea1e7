// Package anthropic maps canonical parameters onto Anthropic's two wire
// formats behind the managed endpoint: the legacy single-shot completion API
// and the messages-based chat API.
package anthropic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/bedrockgate/providers/family"
)

const (
	// humanTurn and assistantTurn are the fixed turn delimiters the
	// completion API requires around a bare prompt.
	humanTurn     = "\n\nHuman: "
	assistantTurn = "\n\nAssistant:"

	// defaultVersion is the protocol revision sent when the caller does not
	// pin one. The managed endpoint rejects chat payloads without it.
	defaultVersion = "bedrock-2023-05-31"

	// defaultMaxTokens is applied when no max-token setting survives the
	// defaults/overrides merge; chat requests must always carry one.
	defaultMaxTokens = 4096

	// chatOnlyPrefix marks model generations that only speak the chat API.
	chatOnlyPrefix = "anthropic.claude-3"
)

// Normalizer implements [family.Normalizer] for the Anthropic family.
type Normalizer struct{}

// New returns a ready-to-use Anthropic normalizer.
func New() *Normalizer { return &Normalizer{} }

// Family implements [family.Normalizer].
func (*Normalizer) Family() family.Family { return family.FamilyAnthropic }

// ChatOnly reports whether modelID belongs to a generation that only accepts
// the chat API, making it unusable for single-shot completion.
func ChatOnly(modelID string) bool {
	return strings.HasPrefix(modelID, chatOnlyPrefix)
}

// WrapPrompt wraps a bare prompt in the fixed human/assistant turn template.
// Prompts already carrying the human delimiter pass through unchanged so
// callers that pre-format conversations are not double-wrapped.
func WrapPrompt(prompt string) string {
	if strings.Contains(prompt, strings.TrimSpace(humanTurn)) && strings.Contains(prompt, strings.TrimSpace(assistantTurn)) {
		return prompt
	}
	return humanTurn + prompt + assistantTurn
}

// NormalizeCompletion implements [family.Normalizer]. It fails with
// *family.UnsupportedModelError when the configured model is chat-only.
func (*Normalizer) NormalizeCompletion(params family.Params, prompt string) (any, error) {
	if ChatOnly(params.Model) {
		return nil, &family.UnsupportedModelError{Model: params.Model, Op: family.OpCompletion}
	}

	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return completionRequest{
		Prompt:            WrapPrompt(prompt),
		MaxTokensToSample: maxTokens,
		Temperature:       params.Temperature,
		TopP:              params.TopP,
		TopK:              params.TopK,
		StopSequences:     params.StopSequences,
	}, nil
}

// NormalizeChat implements [family.Normalizer]. Parameters the chat API does
// not accept (sampling count, end-user identifier) are dropped; the stop list
// is renamed to stop_sequences; protocol version and max_tokens are defaulted
// when absent.
func (*Normalizer) NormalizeChat(params family.Params) (any, error) {
	maxTokens := params.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	return chatRequest{
		AnthropicVersion: defaultVersion,
		MaxTokens:        maxTokens,
		Messages:         params.Messages,
		System:           params.System,
		Temperature:      params.Temperature,
		TopP:             params.TopP,
		TopK:             params.TopK,
		StopSequences:    params.StopSequences,
	}, nil
}

// NormalizeEmbedding implements [family.Normalizer]. Anthropic models expose
// no embedding operation.
func (*Normalizer) NormalizeEmbedding(string) (any, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAnthropic, Op: family.OpEmbedding}
}

// ParseCompletion implements [family.Normalizer], wrapping the decoded
// payload verbatim.
func (*Normalizer) ParseCompletion(body []byte) (*family.Completion, error) {
	var decoded completionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode anthropic completion: %w", err)
	}
	return &family.Completion{
		Text:       decoded.Completion,
		StopReason: decoded.StopReason,
		Raw:        json.RawMessage(body),
	}, nil
}

// ParseEmbedding implements [family.Normalizer].
func (*Normalizer) ParseEmbedding([]byte) (*family.Embedding, error) {
	return nil, &family.UnsupportedFamilyError{Family: family.FamilyAnthropic, Op: family.OpEmbedding}
}
