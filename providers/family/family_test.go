package family

import (
	"errors"
	"testing"
)

// TestFromModelID verifies family derivation from the model ID's namespace
// prefix, including unknown prefixes and IDs with no separator at all.
func TestFromModelID(t *testing.T) {
	cases := []struct {
		name    string
		modelID string
		want    Family
		wantErr bool
	}{
		{name: "anthropic", modelID: "anthropic.claude-v2", want: FamilyAnthropic},
		{name: "cohere", modelID: "cohere.command-text-v14", want: FamilyCohere},
		{name: "ai21", modelID: "ai21.j2-ultra-v1", want: FamilyAI21},
		{name: "amazon", modelID: "amazon.titan-embed-text-v1", want: FamilyAmazon},
		{name: "unknown prefix", modelID: "mistral.mistral-7b", wantErr: true},
		{name: "no separator", modelID: "claude-v2", wantErr: true},
		{name: "empty", modelID: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromModelID(tc.modelID)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got family %q", tc.modelID, got)
				}
				var unsupported *UnsupportedFamilyError
				if !errors.As(err, &unsupported) {
					t.Fatalf("expected *UnsupportedFamilyError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

// TestSupports verifies the full capability table: every family/operation
// combination has a fixed, statically known answer.
func TestSupports(t *testing.T) {
	cases := []struct {
		op   Operation
		fam  Family
		want bool
	}{
		{OpCompletion, FamilyAnthropic, true},
		{OpCompletion, FamilyCohere, true},
		{OpCompletion, FamilyAI21, true},
		{OpCompletion, FamilyAmazon, false},
		{OpChat, FamilyAnthropic, true},
		{OpChat, FamilyCohere, false},
		{OpChat, FamilyAI21, false},
		{OpChat, FamilyAmazon, false},
		{OpEmbedding, FamilyAnthropic, false},
		{OpEmbedding, FamilyCohere, true},
		{OpEmbedding, FamilyAI21, false},
		{OpEmbedding, FamilyAmazon, true},
	}

	for _, tc := range cases {
		if got := Supports(tc.op, tc.fam); got != tc.want {
			t.Errorf("Supports(%s, %s): got %v, want %v", tc.op, tc.fam, got, tc.want)
		}
	}

	if Supports(Operation("transcription"), FamilyAnthropic) {
		t.Error("unknown operation should not be supported")
	}
	if Supports(OpChat, Family("mistral")) {
		t.Error("unknown family should not be supported")
	}
}
