package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalLenient decodes data into v, falling back to a JSON repair pass
// when strict decoding fails. Model-emitted JSON is frequently slightly
// malformed (unquoted keys, single quotes, trailing commas); the repair pass
// recovers those cases without loosening the decode for well-formed input.
//
// Empty input decodes as an empty object, matching the contract for
// structured inputs that streamed zero fragments.
func UnmarshalLenient(data []byte, v any) error {
	if len(data) == 0 {
		data = []byte(`{}`)
	}

	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return fmt.Errorf("failed to unmarshal as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", v, err, repairErr)
	}

	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("failed to unmarshal repaired JSON as %T: %w", v, err)
	}
	return nil
}
