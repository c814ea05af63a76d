package primitive

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"
)

//go:generate go tool stringer -type=FieldType -linecomment -output=kind_string.go

// FieldType is the closed set of semantic value types a field can declare.
// The zero value is TypeNone, meaning the type was not declared.
type FieldType int

const (
	TypeNone       FieldType = iota // none
	TypeBoolean                     // boolean
	TypeByte                        // byte
	TypeChar                        // char
	TypeShort                       // short
	TypeInteger                     // integer
	TypeLong                        // long
	TypeFloat                       // float
	TypeDouble                      // double
	TypeDecimal                     // decimal
	TypeBigInteger                  // big-integer
	TypeNumber                      // number
	TypeString                      // string
	TypeDate                        // date
	TypeTime                        // time
	TypeDateTime                    // date-time
	TypeDateTimeTZ                  // date-time-tz
	TypeComplex                     // complex
	TypeAny                         // any

	// TypeAnyDate only appears in action signatures: it accepts any of the date
	// and time variants.
	TypeAnyDate // any-date

	// TypeTotal is a constant that represents the total number of types defined
	TypeTotal = int(iota)
)

// Char is the Go representation of a TypeChar value.
type Char rune

func (t FieldType) IsNumber() bool {
	switch t {
	default:
		return false
	case TypeByte, TypeShort, TypeInteger, TypeLong,
		TypeFloat, TypeDouble, TypeDecimal, TypeBigInteger, TypeNumber:
		return true
	}
}

func (t FieldType) IsInteger() bool {
	switch t {
	default:
		return false
	case TypeByte, TypeShort, TypeInteger, TypeLong, TypeBigInteger:
		return true
	}
}

func (t FieldType) IsFloat() bool {
	switch t {
	default:
		return false
	case TypeFloat, TypeDouble, TypeDecimal:
		return true
	}
}

func (t FieldType) IsDate() bool {
	switch t {
	default:
		return false
	case TypeDate, TypeTime, TypeDateTime, TypeDateTimeTZ:
		return true
	}
}

// IsConcrete reports whether values of the type have a single representation.
func (t FieldType) IsConcrete() bool {
	return t != TypeNone && t != TypeAny && t != TypeAnyDate && t != TypeComplex && t != TypeNumber
}

// Bits returns the width of the fixed-size integer types.
func (t FieldType) Bits() int {
	switch t {
	default:
		panic("only fixed-size integer types have meaningful bits amount, but requested for: " + t.String())
	case TypeByte:
		return 8
	case TypeShort:
		return 16
	case TypeInteger:
		return 32
	case TypeLong:
		return 64
	}
}

// IsAssignable reports whether a value of type actual can be handed to something
// requiring type required without conversion.
func IsAssignable(required, actual FieldType) bool {
	switch {
	case required == actual:
		return true
	case required == TypeAny:
		return true
	case required == TypeAnyDate:
		return actual.IsDate()
	default:
		return false
	}
}

// TypeOf derives the field type from the Go representation of a value.
func TypeOf(value any) FieldType {
	switch value.(type) {
	case nil:
		return TypeNone
	case bool:
		return TypeBoolean
	case int8, uint8:
		return TypeByte
	case Char:
		return TypeChar
	case int16, uint16:
		return TypeShort
	case int32:
		return TypeInteger
	case int, int64, uint, uint32, uint64:
		return TypeLong
	case float32:
		return TypeFloat
	case float64:
		return TypeDouble
	case *big.Float:
		return TypeDecimal
	case *big.Int:
		return TypeBigInteger
	case json.Number:
		return TypeNumber
	case string:
		return TypeString
	case time.Time:
		return TypeDateTimeTZ
	case map[string]any, []any:
		return TypeComplex
	default:
		return TypeAny
	}
}

// ParseFieldType parses the textual name of a field type. Matching is case
// insensitive and accepts underscores in place of dashes.
func ParseFieldType(s string) (FieldType, error) {
	if s == "" {
		return TypeNone, nil
	}

	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for t := FieldType(0); int(t) < TypeTotal; t++ {
		if t.String() == name {
			return t, nil
		}
	}

	switch name {
	case "int":
		return TypeInteger, nil
	case "bool":
		return TypeBoolean, nil
	case "datetime":
		return TypeDateTime, nil
	case "date-time-with-timezone", "datetimetz":
		return TypeDateTimeTZ, nil
	case "biginteger", "bigint":
		return TypeBigInteger, nil
	}

	return TypeNone, fmt.Errorf("unknown field type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t FieldType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}
