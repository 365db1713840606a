package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Float64 is a float64 that unmarshals from a JSON number or a numeric
// string. Analysis payloads written by older pipeline versions encode some
// numeric fields as strings.
type Float64 float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float64) UnmarshalJSON(raw []byte) error {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		*f = Float64(numVal)
		return nil
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as number", strVal)
		}
		*f = Float64(parsed)
		return nil
	}

	return fmt.Errorf("cannot parse %s as number", s)
}

// Value returns the underlying float64.
func (f Float64) Value() float64 {
	return float64(f)
}
