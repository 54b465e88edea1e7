package anthropic

import "github.com/leofalp/bedrockgate/providers/family"

/*
	ANTHROPIC WIRE TYPES

	The completion API (legacy text models) and the chat API (messages-only
	models) take structurally different payloads. Canonical field names map as:

	  max_tokens_to_sample → max_tokens_to_sample  (completion, unchanged)
	  max_tokens_to_sample → max_tokens            (chat)
	  stop                 → stop_sequences        (both)
*/

// completionRequest is the single-shot completion payload. The prompt must
// already be wrapped in the fixed human/assistant turn template.
type completionRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokensToSample int      `json:"max_tokens_to_sample"`
	Temperature       *float64 `json:"temperature,omitempty"`
	TopP              *float64 `json:"top_p,omitempty"`
	TopK              *int     `json:"top_k,omitempty"`
	StopSequences     []string `json:"stop_sequences,omitempty"`
}

// chatRequest is the multi-turn chat payload. anthropic_version pins the
// protocol revision the managed endpoint expects; max_tokens is required on
// every request.
type chatRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []family.Message `json:"messages"`
	System           string           `json:"system,omitempty"`
	Temperature      *float64         `json:"temperature,omitempty"`
	TopP             *float64         `json:"top_p,omitempty"`
	TopK             *int             `json:"top_k,omitempty"`
	StopSequences    []string         `json:"stop_sequences,omitempty"`
}

// completionResponse is the decoded single-shot completion payload.
type completionResponse struct {
	Completion string `json:"completion"`
	StopReason string `json:"stop_reason,omitempty"`
}
