package types

import (
	"encoding/json"
	"fmt"
)

// FlexStringList is a string slice that can be unmarshaled from either a JSON
// array or a JSON string containing a serialized array. The categories
// endpoint serves related tags in both shapes depending on backend revision.
type FlexStringList []string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexStringList) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Plain array first
	if data[0] == '[' {
		var slice []string
		if err := json.Unmarshal(data, &slice); err != nil {
			return err
		}
		*f = FlexStringList(slice)
		return nil
	}

	// Otherwise expect an array serialized into a string
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("FlexStringList: unexpected type, expected array or string: %w", err)
	}
	if s == "" {
		*f = nil
		return nil
	}

	var slice []string
	if err := json.Unmarshal([]byte(s), &slice); err != nil {
		return fmt.Errorf("FlexStringList: invalid serialized array %q: %w", s, err)
	}
	*f = FlexStringList(slice)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexStringList) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(f))
}

// Slice converts FlexStringList back to []string.
func (f FlexStringList) Slice() []string {
	return []string(f)
}
