package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field from an explicit null or
// value, which a plain *string cannot. Update requests use it so that fields
// left out of the payload are left untouched:
//   - Present=false: field absent (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value=&s: field has a value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler. Being called at all means the
// field was present.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
