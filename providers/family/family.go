package family

import "strings"

// Family identifies one of the model families reachable through the managed
// invocation endpoint. The set is closed: adding a family means adding a
// normalizer subpackage and a row in the capability table.
type Family string

const (
	FamilyAnthropic Family = "anthropic"
	FamilyCohere    Family = "cohere"
	FamilyAI21      Family = "ai21"
	FamilyAmazon    Family = "amazon"
)

// Operation is one of the caller-facing request kinds a family may support.
type Operation string

const (
	OpCompletion Operation = "completion"
	OpChat       Operation = "chat"
	OpEmbedding  Operation = "embedding"
)

// FromModelID derives the model family from a managed-endpoint model
// identifier. Model IDs are namespaced with the family as the segment before
// the first dot, e.g. "anthropic.claude-v2" or "amazon.titan-embed-text-v1".
// Returns an *UnsupportedFamilyError when the prefix is not a known family.
func FromModelID(modelID string) (Family, error) {
	prefix, _, _ := strings.Cut(modelID, ".")

	switch f := Family(prefix); f {
	case FamilyAnthropic, FamilyCohere, FamilyAI21, FamilyAmazon:
		return f, nil
	default:
		return "", &UnsupportedFamilyError{Family: Family(prefix)}
	}
}

// capabilities is the static support table consulted before every operation.
// It is never mutated after init; Supports is the only reader.
var capabilities = map[Operation]map[Family]bool{
	OpCompletion: {
		FamilyAnthropic: true,
		FamilyCohere:    true,
		FamilyAI21:      true,
	},
	OpChat: {
		FamilyAnthropic: true,
	},
	OpEmbedding: {
		FamilyCohere: true,
		FamilyAmazon: true,
	},
}

// Supports reports whether the given family supports the given operation.
// Unknown operations and unknown families both report false.
func Supports(op Operation, f Family) bool {
	return capabilities[op][f]
}
