package family

import "fmt"

// UnsupportedFamilyError reports an operation requested against a family that
// is not in that operation's capability set, or a model ID whose namespace
// prefix is not a known family at all (Op empty in that case).
type UnsupportedFamilyError struct {
	Family Family
	Op     Operation
}

func (e *UnsupportedFamilyError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("unknown model family %q", e.Family)
	}
	return fmt.Sprintf("family %q does not support %s", e.Family, e.Op)
}

// UnsupportedModelError reports a model/operation mismatch, e.g. a chat-only
// model used for single-shot completion.
type UnsupportedModelError struct {
	Model string
	Op    Operation
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("model %q cannot be used for %s", e.Model, e.Op)
}

// InvalidRequestError reports a statically detectable request defect, such as
// a required field being absent. It is always raised before any network call.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// MalformedStreamError reports that the concatenated input_json_delta
// fragments for a content block did not form a valid JSON document once the
// stream ended. Index identifies the offending block.
type MalformedStreamError struct {
	Index int
	Err   error
}

func (e *MalformedStreamError) Error() string {
	return fmt.Sprintf("malformed stream: content block %d input is not valid JSON: %v", e.Index, e.Err)
}

func (e *MalformedStreamError) Unwrap() error { return e.Err }
