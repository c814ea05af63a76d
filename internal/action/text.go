package action

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fieldmapper/internal/mapping"
)

// Casers are stateful, so each call gets its own.
func upperCaser() cases.Caser { return cases.Upper(language.Und) }

func lowerCaser() cases.Caser { return cases.Lower(language.Und) }

func text(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

// textFunc adapts a string transform; null stays null.
func textFunc(fn func(a mapping.Action, s string) (any, error)) Func {
	return func(a mapping.Action, v any) (any, error) {
		if v == nil {
			return nil, nil
		}

		s, err := text(v)
		if err != nil {
			return nil, err
		}

		return fn(a, s)
	}
}

func uppercase(a mapping.Action, v any) (any, error) {
	return textFunc(func(_ mapping.Action, s string) (any, error) { return upperCaser().String(s), nil })(a, v)
}

func lowercase(a mapping.Action, v any) (any, error) {
	return textFunc(func(_ mapping.Action, s string) (any, error) { return lowerCaser().String(s), nil })(a, v)
}

func trim(a mapping.Action, v any) (any, error) {
	return textFunc(func(_ mapping.Action, s string) (any, error) { return strings.TrimSpace(s), nil })(a, v)
}

func trimLeft(a mapping.Action, v any) (any, error) {
	return textFunc(func(_ mapping.Action, s string) (any, error) {
		return strings.TrimLeftFunc(s, unicode.IsSpace), nil
	})(a, v)
}

func trimRight(a mapping.Action, v any) (any, error) {
	return textFunc(func(_ mapping.Action, s string) (any, error) {
		return strings.TrimRightFunc(s, unicode.IsSpace), nil
	})(a, v)
}

func appendString(a mapping.Action, v any) (any, error) {
	return textFunc(func(a mapping.Action, s string) (any, error) {
		return s + stringParam(a, "string", ""), nil
	})(a, v)
}

func prependString(a mapping.Action, v any) (any, error) {
	return textFunc(func(a mapping.Action, s string) (any, error) {
		return stringParam(a, "string", "") + s, nil
	})(a, v)
}

func replace(a mapping.Action, v any) (any, error) {
	return textFunc(func(a mapping.Action, s string) (any, error) {
		old := a.StringParam("old", "")
		if old == "" {
			return nil, fmt.Errorf("replace requires a non-empty %q parameter", "old")
		}

		return strings.ReplaceAll(s, old, a.StringParam("new", "")), nil
	})(a, v)
}

func capitalize(a mapping.Action, v any) (any, error) {
	return textFunc(func(_ mapping.Action, s string) (any, error) {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 {
			return s, nil
		}

		return upperCaser().String(string(r)) + s[size:], nil
	})(a, v)
}

// subString cuts runes [start, end). A missing end means the end of the text.
func subString(a mapping.Action, v any) (any, error) {
	return textFunc(func(a mapping.Action, s string) (any, error) {
		runes := []rune(s)
		start := a.IntParam("start", 0)
		end := a.IntParam("end", len(runes))

		if start < 0 || end > len(runes) || start > end {
			return nil, fmt.Errorf("substring [%d, %d) is out of range for length %d", start, end, len(runes))
		}

		return string(runes[start:end]), nil
	})(a, v)
}

func length(_ mapping.Action, v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return int64(-1), nil
	case string:
		return int64(utf8.RuneCountInString(x)), nil
	case map[string]any:
		return int64(len(x)), nil
	case []any:
		return int64(len(x)), nil
	default:
		return int64(utf8.RuneCountInString(fmt.Sprint(x))), nil
	}
}

func isNull(_ mapping.Action, v any) (any, error) {
	return v == nil, nil
}
