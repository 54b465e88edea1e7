// Package client is the caller-facing surface of the library: one uniform
// request shape (prompt/messages + canonical sampling parameters) dispatched
// to whichever model family the configured model ID belongs to, and one
// uniform response shape back — whether the endpoint answers in one shot or
// as a stream of partial events.
//
// The [Client] derives the family from the model ID's namespace prefix,
// validates it against the capability table, normalizes parameters through
// the family's normalizer, invokes the managed endpoint, and parses the
// result. All statically detectable misuse fails before any network call.
package client
