// Package sensor talks to the room's sensor API and turns its payloads
// into chart samples.
package sensor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Reading is the payload served by the sensor API's latest endpoint.
type Reading struct {
	Temperature Number `json:"temperature"`
	Humidity    Number `json:"humidity"`
	Timestamp   string `json:"timestamp"`
}

// Number is a measurement that may arrive as a JSON number or as a
// numeric string. Anything else decodes as not set.
type Number struct {
	Value float64
	Set   bool
	Raw   string
}

// Num returns a set Number holding v.
func Num(v float64) Number {
	return Number{Value: v, Set: true}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{Raw: string(data)}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	n.Value = v
	n.Set = true
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

func (n Number) String() string {
	if !n.Set {
		return fmt.Sprintf("invalid(%s)", n.Raw)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
