package family

// Normalizer is the uniform capability every model-family subpackage
// implements: map the canonical [Params] onto the family's wire payload, and
// wrap completed raw payloads in the typed response structs. One Normalizer
// is resolved per call from the model ID's family prefix, which keeps
// family-specific branching local to each subpackage.
//
// Methods for operations a family does not support return an
// *UnsupportedFamilyError; callers are expected to consult [Supports] first,
// so hitting one of those paths indicates a dispatcher bug.
type Normalizer interface {
	// Family returns the tag this normalizer serves.
	Family() Family

	// NormalizeCompletion produces the single-shot completion payload for the
	// given canonical parameters, wrapping prompt per family convention.
	NormalizeCompletion(params Params, prompt string) (any, error)

	// NormalizeChat produces the multi-turn chat payload.
	NormalizeChat(params Params) (any, error)

	// NormalizeEmbedding produces the embedding payload for a single text.
	NormalizeEmbedding(text string) (any, error)

	// ParseCompletion wraps a completed raw completion payload.
	ParseCompletion(body []byte) (*Completion, error)

	// ParseEmbedding wraps a completed raw embedding payload.
	ParseEmbedding(body []byte) (*Embedding, error)
}
