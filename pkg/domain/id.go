package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is the opaque identifier assigned to projects, weeks, categories and tasks.
// The canonical form is a string and comparisons are exact.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id == "" }

// MarshalJSON always encodes the identifier as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or a JSON number. Numbers are kept in
// their literal decimal form so that an identifier written as 1729432342123
// compares equal to "1729432342123".
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}
