// Package family defines the shared, family-agnostic types used across all
// model-family normalizers (Anthropic, Cohere, AI21, Amazon Titan). Each
// family's normalizer is responsible for mapping the canonical [Params] to
// its own wire format, keeping the rest of the codebase decoupled from
// family-specific field names and nesting.
//
// The package also owns the static capability table ([Supports]) that guards
// every operation before any network interaction, the error taxonomy shared
// by all layers, and the [Reassembler] that folds an ordered stream-event
// sequence into one final [ChatResponse].
package family
