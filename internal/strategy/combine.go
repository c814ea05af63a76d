package strategy

import (
	"fmt"
	"slices"
	"strings"

	"fieldmapper/internal/common"
)

// NullGapPolicy decides how missing positions between combined values are rendered.
type NullGapPolicy int

const (
	// NullGapsDelimit renders a missing position as an empty value, so every
	// position up to the highest index keeps its delimiter.
	NullGapsDelimit NullGapPolicy = iota
	// NullGapsSkip joins only the positions that are present.
	NullGapsSkip
)

func (p NullGapPolicy) String() string {
	switch p {
	case NullGapsDelimit:
		return "delimit"
	case NullGapsSkip:
		return "skip"
	default:
		return common.UnknownStr
	}
}

// ParseNullGapPolicy parses "delimit" or "skip".
func ParseNullGapPolicy(s string) (NullGapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delimit":
		return NullGapsDelimit, nil
	case "skip":
		return NullGapsSkip, nil
	default:
		return NullGapsDelimit, fmt.Errorf("unknown null gap policy %q (expected delimit or skip)", s)
	}
}

// Combiner joins positioned values into one string.
type Combiner interface {
	Combine(values map[int]string, delimiter Delimiter) string
}

// CombineStrategy is the default Combiner.
type CombineStrategy struct {
	// Delimiter is used when the mapping does not name one.
	Delimiter Delimiter
	// Limit caps the number of joined positions; 0 means no limit.
	Limit    int
	AutoTrim bool
	NullGaps NullGapPolicy
}

// DefaultCombine joins on a space, trims values and delimits gaps.
func DefaultCombine() CombineStrategy {
	return CombineStrategy{Delimiter: Space, AutoTrim: true, NullGaps: NullGapsDelimit}
}

// Combine joins values in ascending index order. Negative indices are ignored.
func (s CombineStrategy) Combine(values map[int]string, delimiter Delimiter) string {
	if delimiter.IsZero() {
		delimiter = s.Delimiter
	}

	if delimiter.IsZero() {
		delimiter = Space
	}

	keys := make([]int, 0, len(values))
	for k := range values {
		if k >= 0 {
			keys = append(keys, k)
		}
	}

	if len(keys) == 0 {
		return ""
	}

	slices.Sort(keys)

	var parts []string

	switch s.NullGaps {
	case NullGapsSkip:
		for _, k := range keys {
			parts = append(parts, values[k])
		}
	default:
		last := keys[len(keys)-1]

		parts = make([]string, last+1)
		for _, k := range keys {
			parts[k] = values[k]
		}
	}

	if s.Limit > 0 && len(parts) > s.Limit {
		parts = parts[:s.Limit]
	}

	if s.AutoTrim {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
	}

	return strings.Join(parts, delimiter.Text())
}
