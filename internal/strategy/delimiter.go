package strategy

import (
	"fmt"
	"regexp"
	"strings"
)

// Delimiter is a named separator or a custom literal. The zero value means
// "use the strategy default".
type Delimiter struct {
	name    string
	text    string
	pattern *regexp.Regexp
}

var (
	Ampersand  = Delimiter{name: "ampersand", text: "&"}
	AtSign     = Delimiter{name: "at_sign", text: "@"}
	Backslash  = Delimiter{name: "backslash", text: `\`}
	Colon      = Delimiter{name: "colon", text: ":"}
	Comma      = Delimiter{name: "comma", text: ","}
	Dash       = Delimiter{name: "dash", text: "-"}
	Equal      = Delimiter{name: "equal", text: "="}
	Hash       = Delimiter{name: "hash", text: "#"}
	MultiSpace = Delimiter{name: "multi_space", text: " ", pattern: regexp.MustCompile(`\s+`)}
	Period     = Delimiter{name: "period", text: "."}
	Pipe       = Delimiter{name: "pipe", text: "|"}
	Semicolon  = Delimiter{name: "semicolon", text: ";"}
	Slash      = Delimiter{name: "slash", text: "/"}
	Space      = Delimiter{name: "space", text: " "}
	Underscore = Delimiter{name: "underscore", text: "_"}
)

var namedDelims = []Delimiter{
	Ampersand, AtSign, Backslash, Colon, Comma, Dash, Equal, Hash,
	MultiSpace, Period, Pipe, Semicolon, Slash, Space, Underscore,
}

// ParseDelimiter resolves a delimiter name case-insensitively. Dashes and
// spaces are accepted in place of underscores ("multi-space").
func ParseDelimiter(name string) (Delimiter, error) {
	key := strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(name)))

	for _, d := range namedDelims {
		if d.name == key {
			return d, nil
		}
	}

	return Delimiter{}, fmt.Errorf("unknown delimiter %q", name)
}

// Literal returns a custom delimiter for the given text.
func Literal(text string) Delimiter {
	return Delimiter{name: "custom", text: text}
}

// Resolve picks the delimiter of a mapping: a literal wins over a name, and
// neither yields the zero Delimiter.
func Resolve(name, literal string) (Delimiter, error) {
	switch {
	case literal != "":
		return Literal(literal), nil
	case name != "":
		return ParseDelimiter(name)
	default:
		return Delimiter{}, nil
	}
}

// Names lists the named delimiters.
func Names() []string {
	names := make([]string, len(namedDelims))
	for i, d := range namedDelims {
		names[i] = d.name
	}

	return names
}

func (d Delimiter) Name() string { return d.name }

// Text is the string written between combined values.
func (d Delimiter) Text() string { return d.text }

func (d Delimiter) IsZero() bool { return d.name == "" && d.text == "" }

func (d Delimiter) String() string {
	if d.name == "custom" {
		return fmt.Sprintf("custom(%q)", d.text)
	}

	return d.name
}

// split splits s into at most n parts (n <= 0 means all).
func (d Delimiter) split(s string, n int) []string {
	if n <= 0 {
		n = -1
	}

	if d.pattern != nil {
		return d.pattern.Split(strings.TrimSpace(s), n)
	}

	return strings.SplitN(s, d.text, n)
}

// MarshalText implements encoding.TextMarshaler.
func (d Delimiter) MarshalText() ([]byte, error) {
	return []byte(d.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for named delimiters.
func (d *Delimiter) UnmarshalText(text []byte) error {
	parsed, err := ParseDelimiter(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
