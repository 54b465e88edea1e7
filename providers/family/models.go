package family

import (
	"encoding/json"

	"github.com/leofalp/bedrockgate/internal/utils"
)

/*
	##### CANONICAL REQUEST #####
*/

// Params is the canonical, family-agnostic parameter set for a single call.
// Field names are stable across families even though wire names differ; each
// normalizer maps them to its own payload shape. Optional numeric fields are
// pointers so that an explicit zero is distinguishable from "unset".
//
// A Params value is built once per call by merging instance-level defaults
// with caller overrides (see [Params.Merge]) and is never mutated afterwards.
type Params struct {
	Model            string    `json:"model,omitempty"`
	Messages         []Message `json:"messages,omitempty"`
	System           string    `json:"system,omitempty"`
	MaxTokens        int       `json:"max_tokens_to_sample,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	TopK             *int      `json:"top_k,omitempty"`
	StopSequences    []string  `json:"stop,omitempty"`
	CountPenalty     *Penalty  `json:"count_penalty,omitempty"`
	PresencePenalty  *Penalty  `json:"presence_penalty,omitempty"`
	FrequencyPenalty *Penalty  `json:"frequency_penalty,omitempty"`
	NumResults       int       `json:"num_results,omitempty"` // Sampling count; not accepted by every family
	UserID           string    `json:"user_id,omitempty"`     // End-user identifier; not accepted by every family
}

// Penalty is a per-category penalty configuration. Families that accept
// penalties expect the sub-object whole, so merging replaces a Penalty as a
// unit rather than field-by-field.
type Penalty struct {
	Scale               float64 `json:"scale"`
	ApplyToWhitespaces  bool    `json:"apply_to_whitespaces,omitempty"`
	ApplyToPunctuations bool    `json:"apply_to_punctuations,omitempty"`
	ApplyToNumbers      bool    `json:"apply_to_numbers,omitempty"`
	ApplyToStopwords    bool    `json:"apply_to_stopwords,omitempty"`
	ApplyToEmojis       bool    `json:"apply_to_emojis,omitempty"`
}

// Message is a single turn in a chat conversation.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Merge returns a new Params combining p (the defaults) with overrides.
// Override values win key-by-key whenever they are set; unset override fields
// (nil pointers, zero values, nil slices) leave the default in place. Penalty
// sub-structs are replaced whole, matching each family's expectation of a
// complete sub-object. Neither input is mutated.
func (p Params) Merge(overrides Params) Params {
	merged := p

	if overrides.Model != "" {
		merged.Model = overrides.Model
	}
	if overrides.Messages != nil {
		merged.Messages = overrides.Messages
	}
	if overrides.System != "" {
		merged.System = overrides.System
	}
	if overrides.MaxTokens > 0 {
		merged.MaxTokens = overrides.MaxTokens
	}
	if overrides.Temperature != nil {
		merged.Temperature = overrides.Temperature
	}
	if overrides.TopP != nil {
		merged.TopP = overrides.TopP
	}
	if overrides.TopK != nil {
		merged.TopK = overrides.TopK
	}
	if overrides.StopSequences != nil {
		merged.StopSequences = overrides.StopSequences
	}
	if overrides.CountPenalty != nil {
		merged.CountPenalty = overrides.CountPenalty
	}
	if overrides.PresencePenalty != nil {
		merged.PresencePenalty = overrides.PresencePenalty
	}
	if overrides.FrequencyPenalty != nil {
		merged.FrequencyPenalty = overrides.FrequencyPenalty
	}
	if overrides.NumResults > 0 {
		merged.NumResults = overrides.NumResults
	}
	if overrides.UserID != "" {
		merged.UserID = overrides.UserID
	}

	return merged
}

/*
	##### CANONICAL RESPONSES #####
*/

// ChatResponse mirrors the shape of a non-streamed chat response: top-level
// message fields plus an ordered list of content blocks. It is either decoded
// directly from a single-shot invocation or produced by the [Reassembler].
type ChatResponse struct {
	ID           string         `json:"id"`
	Type         string         `json:"type,omitempty"` // "message"
	Role         string         `json:"role"`
	Model        string         `json:"model,omitempty"`
	Content      []ContentBlock `json:"content"`
	StopReason   string         `json:"stop_reason,omitempty"`
	StopSequence string         `json:"stop_sequence,omitempty"`
	Usage        Usage          `json:"usage"`
}

// Text joins the text of all text blocks, in block order. Tool-use and
// unknown block types contribute nothing.
func (r *ChatResponse) Text() string {
	var out string
	for _, block := range r.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// ContentBlock is one unit of a chat message body, addressed by its zero-based
// index within the message. The Type field discriminates:
//   - "text": Text is populated
//   - "tool_use": ID, Name and Input are populated
//
// Unknown types are preserved verbatim for forward-compatibility.
type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"` // Structured input for tool_use blocks
}

// DecodeInput unmarshals the block's structured input into v. Model-emitted
// JSON is occasionally slightly malformed (unquoted keys, trailing commas),
// so decoding falls back to a repair pass before failing.
func (b ContentBlock) DecodeInput(v any) error {
	return utils.UnmarshalLenient(b.Input, v)
}

// Usage reports token consumption for a single call. Counters may arrive
// spread across several stream events and are merged additively.
type Usage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
}

// merge adds other's counters into u, preserving counts accumulated from
// earlier events. Absent (zero) counters contribute nothing.
func (u *Usage) merge(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Completion is the typed result of a single-shot completion. Text carries
// the generated continuation; Raw preserves the family-specific payload
// verbatim for callers that need fields outside the shared shape.
type Completion struct {
	Text       string
	StopReason string
	Raw        json.RawMessage
}

// Embedding is the typed result of an embedding call.
type Embedding struct {
	Values []float64
	Raw    json.RawMessage
}
