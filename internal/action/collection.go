package action

import (
	"errors"
	"fmt"
	"strings"

	"fieldmapper/internal/mapping"
)

// split splits text on a literal delimiter. A sequence input is split
// element by element and flattened.
func split(a mapping.Action, v any) (any, error) {
	delim := stringParam(a, "delimiter", ",")
	if delim == "" {
		return nil, errors.New("split requires a non-empty delimiter")
	}

	var out []any

	for _, item := range asItems(v) {
		if item == nil {
			continue
		}

		s, err := text(item)
		if err != nil {
			return nil, err
		}

		for _, part := range strings.Split(s, delim) {
			out = append(out, part)
		}
	}

	return out, nil
}

func repeat(a mapping.Action, v any) (any, error) {
	n := intParam(a, "count", 1)
	if n < 0 {
		return nil, fmt.Errorf("repeat count %d is negative", n)
	}

	out := make([]any, 0, n)
	for range n {
		out = append(out, v)
	}

	return out, nil
}

func concatenate(a mapping.Action, v any) (any, error) {
	delim := stringParam(a, "delimiter", "")
	delimitEmpty := a.BoolParam("delimit_empty", false)

	var parts []string

	for _, item := range asItems(v) {
		s, err := text(item)
		if err != nil {
			return nil, err
		}

		if s == "" && !delimitEmpty {
			continue
		}

		parts = append(parts, s)
	}

	return strings.Join(parts, delim), nil
}

func count(_ mapping.Action, v any) (any, error) {
	return int64(len(asItems(v))), nil
}

// itemAt returns the element at index, or null when out of range.
func itemAt(a mapping.Action, v any) (any, error) {
	items := asItems(v)

	i := intParam(a, "index", 0)
	if i < 0 || i >= len(items) {
		return nil, nil
	}

	return items[i], nil
}

func isEmpty(_ mapping.Action, v any) (any, error) {
	for _, item := range asItems(v) {
		if item != nil && item != "" {
			return false, nil
		}
	}

	return true, nil
}

// asItems views a value as a sequence; a scalar is a one-element sequence.
func asItems(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	default:
		return []any{x}
	}
}
