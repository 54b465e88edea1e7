package titan

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/leofalp/bedrockgate/providers/family"
)

// TestNormalizeEmbedding verifies the inputText payload shape.
func TestNormalizeEmbedding(t *testing.T) {
	payload, err := New().NormalizeEmbedding("hello world")
	if err != nil {
		t.Fatalf("NormalizeEmbedding failed: %v", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"inputText":"hello world"}` {
		t.Errorf("payload: got %s", data)
	}
}

// TestParseEmbedding verifies decoding of the embedding vector.
func TestParseEmbedding(t *testing.T) {
	embedding, err := New().ParseEmbedding([]byte(`{"embedding":[0.5,-0.25],"inputTextTokenCount":2}`))
	if err != nil {
		t.Fatalf("ParseEmbedding failed: %v", err)
	}
	if !reflect.DeepEqual(embedding.Values, []float64{0.5, -0.25}) {
		t.Errorf("Values: got %v", embedding.Values)
	}
}

// TestUnsupportedOperations verifies completion and chat are rejected with
// the typed error.
func TestUnsupportedOperations(t *testing.T) {
	normalizer := New()

	var unsupported *family.UnsupportedFamilyError

	_, err := normalizer.NormalizeCompletion(family.Params{}, "prompt")
	if !errors.As(err, &unsupported) {
		t.Fatalf("NormalizeCompletion: expected *family.UnsupportedFamilyError, got %T", err)
	}

	_, err = normalizer.NormalizeChat(family.Params{})
	if !errors.As(err, &unsupported) {
		t.Fatalf("NormalizeChat: expected *family.UnsupportedFamilyError, got %T", err)
	}

	_, err = normalizer.ParseCompletion([]byte(`{}`))
	if !errors.As(err, &unsupported) {
		t.Fatalf("ParseCompletion: expected *family.UnsupportedFamilyError, got %T", err)
	}
}
