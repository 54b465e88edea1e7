package anthropic

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/leofalp/bedrockgate/internal/utils"
	"github.com/leofalp/bedrockgate/providers/family"
)

// marshalToMap round-trips a wire payload through JSON so tests can assert
// the exact field names that reach the wire.
func marshalToMap(t *testing.T, payload any) map[string]any {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return m
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TestNormalizeChat_WireFields verifies the chat payload carries exactly the
// renamed field set: max_tokens (not max_tokens_to_sample), stop_sequences
// (not stop), a defaulted anthropic_version, and no sampling-count or
// end-user identifier.
func TestNormalizeChat_WireFields(t *testing.T) {
	normalizer := New()

	payload, err := normalizer.NormalizeChat(family.Params{
		Model:         "anthropic.claude-3-sonnet-20240229-v1:0",
		Messages:      []family.Message{{Role: "user", Content: "Hi"}},
		System:        "Be terse.",
		MaxTokens:     512,
		Temperature:   utils.Ptr(0.2),
		TopK:          utils.Ptr(40),
		StopSequences: []string{"END"},
		NumResults:    3,       // Not accepted by the chat API; must be dropped
		UserID:        "u-123", // Not accepted by the chat API; must be dropped
	})
	if err != nil {
		t.Fatalf("NormalizeChat failed: %v", err)
	}

	m := marshalToMap(t, payload)

	wantKeys := []string{"anthropic_version", "max_tokens", "messages", "stop_sequences", "system", "temperature", "top_k"}
	if gotKeys := sortedKeys(m); !reflect.DeepEqual(gotKeys, wantKeys) {
		t.Errorf("wire fields: got %v, want %v", gotKeys, wantKeys)
	}

	if m["anthropic_version"] != defaultVersion {
		t.Errorf("anthropic_version: got %v, want %q", m["anthropic_version"], defaultVersion)
	}
	if m["max_tokens"] != float64(512) {
		t.Errorf("max_tokens: got %v, want 512", m["max_tokens"])
	}
}

// TestNormalizeChat_Defaults verifies max_tokens is defaulted when no setting
// survives the merge.
func TestNormalizeChat_Defaults(t *testing.T) {
	payload, err := New().NormalizeChat(family.Params{
		Messages: []family.Message{{Role: "user", Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("NormalizeChat failed: %v", err)
	}

	m := marshalToMap(t, payload)
	if m["max_tokens"] != float64(defaultMaxTokens) {
		t.Errorf("max_tokens: got %v, want %d", m["max_tokens"], defaultMaxTokens)
	}
	if m["anthropic_version"] != defaultVersion {
		t.Errorf("anthropic_version: got %v, want %q", m["anthropic_version"], defaultVersion)
	}
}

// TestNormalizeChat_Deterministic verifies identical inputs produce identical
// output.
func TestNormalizeChat_Deterministic(t *testing.T) {
	params := family.Params{
		Messages:    []family.Message{{Role: "user", Content: "Hi"}},
		Temperature: utils.Ptr(0.5),
	}

	first, err := New().NormalizeChat(params)
	if err != nil {
		t.Fatalf("NormalizeChat failed: %v", err)
	}
	second, err := New().NormalizeChat(params)
	if err != nil {
		t.Fatalf("NormalizeChat failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("NormalizeChat is not deterministic for identical inputs")
	}
}

// TestNormalizeCompletion_PromptWrapping verifies the fixed human/assistant
// turn template and the legacy max_tokens_to_sample field name.
func TestNormalizeCompletion_PromptWrapping(t *testing.T) {
	payload, err := New().NormalizeCompletion(family.Params{
		Model:     "anthropic.claude-v2",
		MaxTokens: 300,
	}, "What is the capital of France?")
	if err != nil {
		t.Fatalf("NormalizeCompletion failed: %v", err)
	}

	m := marshalToMap(t, payload)
	wantPrompt := "\n\nHuman: What is the capital of France?\n\nAssistant:"
	if m["prompt"] != wantPrompt {
		t.Errorf("prompt: got %q, want %q", m["prompt"], wantPrompt)
	}
	if m["max_tokens_to_sample"] != float64(300) {
		t.Errorf("max_tokens_to_sample: got %v, want 300", m["max_tokens_to_sample"])
	}
	if _, present := m["max_tokens"]; present {
		t.Error("completion payload must not carry max_tokens")
	}
}

// TestNormalizeCompletion_PreWrappedPrompt verifies that prompts already
// carrying the turn delimiters are not wrapped twice.
func TestNormalizeCompletion_PreWrappedPrompt(t *testing.T) {
	pre := "\n\nHuman: Hi\n\nAssistant: Hello\n\nHuman: Bye\n\nAssistant:"
	payload, err := New().NormalizeCompletion(family.Params{Model: "anthropic.claude-v2"}, pre)
	if err != nil {
		t.Fatalf("NormalizeCompletion failed: %v", err)
	}

	m := marshalToMap(t, payload)
	if m["prompt"] != pre {
		t.Errorf("prompt was re-wrapped: got %q", m["prompt"])
	}
}

// TestNormalizeCompletion_ChatOnlyModel verifies the model/operation guard:
// chat-only generations cannot serve single-shot completion.
func TestNormalizeCompletion_ChatOnlyModel(t *testing.T) {
	_, err := New().NormalizeCompletion(family.Params{
		Model: "anthropic.claude-3-sonnet-20240229-v1:0",
	}, "prompt")
	if err == nil {
		t.Fatal("expected UnsupportedModelError, got nil")
	}

	var unsupported *family.UnsupportedModelError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *family.UnsupportedModelError, got %T: %v", err, err)
	}
	if unsupported.Op != family.OpCompletion {
		t.Errorf("Op: got %q, want %q", unsupported.Op, family.OpCompletion)
	}
}

// TestParseCompletion verifies the response wrapper decodes the payload
// verbatim, preserving the raw body.
func TestParseCompletion(t *testing.T) {
	body := []byte(`{"completion":" Paris.","stop_reason":"stop_sequence"}`)

	completion, err := New().ParseCompletion(body)
	if err != nil {
		t.Fatalf("ParseCompletion failed: %v", err)
	}
	if completion.Text != " Paris." {
		t.Errorf("Text: got %q, want %q", completion.Text, " Paris.")
	}
	if completion.StopReason != "stop_sequence" {
		t.Errorf("StopReason: got %q, want %q", completion.StopReason, "stop_sequence")
	}
	if string(completion.Raw) != string(body) {
		t.Error("Raw payload was not preserved verbatim")
	}
}

// TestRoundTrip_CanonicalValues verifies that the canonical values a caller
// supplies survive normalization modulo the documented renames.
func TestRoundTrip_CanonicalValues(t *testing.T) {
	params := family.Params{
		Messages:      []family.Message{{Role: "user", Content: "Hi"}},
		MaxTokens:     777,
		Temperature:   utils.Ptr(0.35),
		TopP:          utils.Ptr(0.8),
		TopK:          utils.Ptr(25),
		StopSequences: []string{"STOP", "HALT"},
	}

	payload, err := New().NormalizeChat(params)
	if err != nil {
		t.Fatalf("NormalizeChat failed: %v", err)
	}
	m := marshalToMap(t, payload)

	if m["max_tokens"] != float64(777) {
		t.Errorf("max_tokens: got %v, want 777", m["max_tokens"])
	}
	if m["temperature"] != 0.35 {
		t.Errorf("temperature: got %v, want 0.35", m["temperature"])
	}
	if m["top_p"] != 0.8 {
		t.Errorf("top_p: got %v, want 0.8", m["top_p"])
	}
	if m["top_k"] != float64(25) {
		t.Errorf("top_k: got %v, want 25", m["top_k"])
	}
	if !reflect.DeepEqual(m["stop_sequences"], []any{"STOP", "HALT"}) {
		t.Errorf("stop_sequences: got %v", m["stop_sequences"])
	}
}

// TestUnsupportedOperations verifies embedding is rejected with the typed
// error.
func TestUnsupportedOperations(t *testing.T) {
	normalizer := New()

	if _, err := normalizer.NormalizeEmbedding("text"); err == nil {
		t.Error("NormalizeEmbedding: expected error, got nil")
	}
	if _, err := normalizer.ParseEmbedding(nil); err == nil {
		t.Error("ParseEmbedding: expected error, got nil")
	}
}
