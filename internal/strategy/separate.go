package strategy

// Separator splits one string into ordered values.
type Separator interface {
	Separate(value string, delimiter Delimiter) []string
}

// SeparateStrategy is the default Separator.
type SeparateStrategy struct {
	// Delimiter is used when the mapping does not name one.
	Delimiter Delimiter
	// Limit caps the number of produced values; the last one keeps the
	// unsplit remainder. 0 means no limit.
	Limit int
}

// DefaultSeparate splits on a single space without limit.
func DefaultSeparate() SeparateStrategy {
	return SeparateStrategy{Delimiter: Space}
}

// Separate splits value. An empty value yields no parts.
func (s SeparateStrategy) Separate(value string, delimiter Delimiter) []string {
	if value == "" {
		return nil
	}

	if delimiter.IsZero() {
		delimiter = s.Delimiter
	}

	if delimiter.IsZero() {
		delimiter = Space
	}

	return delimiter.split(value, s.Limit)
}
