package primitive

import (
	"fmt"
)

// Concern names the reason a conversion failed.
type Concern int

const (
	ConcernUnsupported Concern = iota
	ConcernRange
	ConcernFormat
	ConcernTimezone
	ConcernFractionalPart
)

func (c Concern) String() string {
	switch c {
	case ConcernRange:
		return "range"
	case ConcernFormat:
		return "format"
	case ConcernTimezone:
		return "timezone"
	case ConcernFractionalPart:
		return "fractional part"
	default:
		return "unsupported"
	}
}

// ConversionError is returned by ConversionService.Convert.
type ConversionError struct {
	From    FieldType
	To      FieldType
	Concern Concern
	Value   any
	Err     error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert %s to %s (%s)", e.From, e.To, e.Concern)
	if e.Value != nil {
		msg = fmt.Sprintf("cannot convert %s value %v to %s (%s)", e.From, e.Value, e.To, e.Concern)
	}

	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}

	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// concernf builds a partial ConversionError; the service fills in the types.
func concernf(concern Concern, format string, args ...any) error {
	return &ConversionError{Concern: concern, Err: fmt.Errorf(format, args...)}
}
