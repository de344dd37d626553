// Package imdb holds the scalar types shared by the ingest pipeline and the
// query façade: the title identifier and the title-kind enumeration.
package imdb

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an IMDb title identifier: an unsigned 32-bit integer whose external
// textual form is "tt" followed by the decimal value, zero-padded to at
// least seven digits.
type ID uint32

// ParseID parses the "tt0000001"-style external form. Any other form,
// including a bare numeric string or an empty string, is rejected.
func ParseID(s string) (ID, error) {
	if !strings.HasPrefix(s, "tt") {
		return 0, fmt.Errorf("imdb: invalid id %q: missing \"tt\" prefix", s)
	}
	digits := s[2:]
	if digits == "" {
		return 0, fmt.Errorf("imdb: invalid id %q: no digits", s)
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("imdb: invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

// String renders the external "tt0000001" form, zero-padded to seven digits
// (wider values are not truncated).
func (id ID) String() string {
	return fmt.Sprintf("tt%07d", uint32(id))
}

// Uint32 returns the underlying numeric value.
func (id ID) Uint32() uint32 { return uint32(id) }

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
