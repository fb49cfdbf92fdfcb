package timeutil

import (
	"encoding/json"
	"strconv"
)

// Minutes is a duration-in-minutes field that the Aster backend serializes
// inconsistently: sometimes a bare number, sometimes a quoted number,
// sometimes a composite "<H>h <M>m" string. All forms decode to a
// non-negative minute count; anything unreadable decodes to 0.
type Minutes int

// UnmarshalJSON implements the lenient decoding described above.
func (m *Minutes) UnmarshalJSON(data []byte) error {
	*m = 0

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if n > 0 {
			*m = Minutes(n)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = Minutes(ParseDuration(s))
	}

	// Unknown shapes (null, objects) simply stay at 0.
	return nil
}

// MarshalJSON writes the canonical numeric form.
func (m Minutes) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(m))), nil
}

// Int returns the plain minute count.
func (m Minutes) Int() int {
	return int(m)
}
