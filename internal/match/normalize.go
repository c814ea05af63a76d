package match

import (
	"strings"
	"unicode"
)

// NormalizeIdent lower-cases a name and drops word separators so that
// "Day Of Week", "day_of_week", "day-of-week" and "DayOfWeek" compare equal.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits a name into lower-case words on separators and
// camel-case boundaries.
//   - "SubString" -> ["sub", "string"]
//   - "lookup_table" -> ["lookup", "table"]
//   - "XMLDoc" -> ["xml", "doc"]
func TokenizeIdent(s string) []string {
	tokens := tokenizeCamelCase(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

func tokenizeCamelCase(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

// startsToken reports a lower->upper transition or the last capital of an acronym.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
