package coverage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Hits is the content of one coverage slot: either "no data" for a line that
// is not instrumented, or the number of times the line was executed.
// The zero value is NoData.
type Hits struct {
	count int
	valid bool
}

// NoData marks a line that carries no coverage information.
var NoData = Hits{}

// HitsOf returns a slot holding n executions. Negative values are clamped to 0.
func HitsOf(n int) Hits {
	if n < 0 {
		n = 0
	}
	return Hits{count: n, valid: true}
}

// Count returns the execution count and whether the slot holds data.
func (h Hits) Count() (int, bool) {
	return h.count, h.valid
}

// Valid reports whether the slot holds data.
func (h Hits) Valid() bool {
	return h.valid
}

func (h Hits) String() string {
	if !h.valid {
		return "null"
	}
	return strconv.Itoa(h.count)
}

// MarshalJSON encodes the slot as an integer or null.
func (h Hits) MarshalJSON() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalJSON decodes an integer or null.
func (h *Hits) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*h = NoData
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid coverage slot %s: %w", data, err)
	}
	*h = HitsOf(n)
	return nil
}

// NewCoverage allocates a coverage sequence of the given length with every
// slot set to NoData.
func NewCoverage(lines int) []Hits {
	return make([]Hits, lines)
}
