package primitive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// numberPrecision is wide enough to hold any int64, float64 or 256 bit integer exactly.
const numberPrecision = 256

// Default layouts used when a date field does not declare a format.
const (
	LayoutDate       = "2006-01-02"
	LayoutTime       = "15:04:05"
	LayoutDateTime   = "2006-01-02T15:04:05"
	LayoutDateTimeTZ = time.RFC3339Nano
)

// Converter converts a value between the two types of its ConversionPair.
type Converter func(value any, sourceFormat, targetFormat string) (any, error)

// ConversionService converts values between field types using a dispatch
// table built once from the allowed conversion categories.
type ConversionService struct {
	converters map[ConversionPair]Converter
	categories map[ConversionPair]CategoryEnum
}

// NewConversionService builds the dispatch table for the allowed categories.
func NewConversionService(allowed CategoryEnum) *ConversionService {
	s := &ConversionService{
		converters: make(map[ConversionPair]Converter),
		categories: allowedSet(allowed),
	}

	for pair, category := range s.categories {
		s.converters[pair] = converterFor(category, pair)
	}

	return s
}

// DefaultConversionService allows every conversion category.
var DefaultConversionService = NewConversionService(CategoryAll)

// Supports reports whether a value declared as from can be converted to to.
// Undeclared and open types are optimistic: the actual value decides at runtime.
func (s *ConversionService) Supports(from, to FieldType) bool {
	switch {
	case to == TypeNone || to == TypeAny:
		return true
	case from == TypeNone || from == TypeAny || from == TypeNumber:
		return true
	case to == TypeAnyDate:
		return from.IsDate() || s.Supports(from, TypeDateTimeTZ)
	case from == to:
		return true
	}

	_, ok := s.converters[ConversionPair{from, to}]

	return ok
}

// Category returns the conversion category that routes from -> to.
func (s *ConversionService) Category(from, to FieldType) (CategoryEnum, bool) {
	c, ok := s.categories[ConversionPair{from, to}]
	return c, ok
}

// Convert converts value to targetType. The declared sourceType is only used
// to disambiguate values sharing a Go representation, e.g. a time.Time that
// holds a date.
func (s *ConversionService) Convert(
	value any, sourceType FieldType, sourceFormat string, targetType FieldType, targetFormat string,
) (any, error) {
	if value == nil || targetType == TypeNone || targetType == TypeAny {
		return value, nil
	}

	from := effectiveType(value, sourceType)

	if targetType == TypeAnyDate {
		if from.IsDate() {
			return value, nil
		}

		targetType = TypeDateTimeTZ
	}

	if from == targetType {
		return value, nil
	}

	conv, ok := s.converters[ConversionPair{from, targetType}]
	if !ok {
		return nil, &ConversionError{From: from, To: targetType, Concern: ConcernUnsupported, Value: value}
	}

	out, err := conv(value, sourceFormat, targetFormat)
	if err != nil {
		var ce *ConversionError
		if errors.As(err, &ce) {
			ce.From, ce.To, ce.Value = from, targetType, value
			return nil, ce
		}

		return nil, &ConversionError{From: from, To: targetType, Concern: ConcernFormat, Value: value, Err: err}
	}

	return out, nil
}

func effectiveType(value any, declared FieldType) FieldType {
	actual := TypeOf(value)

	switch {
	case actual == TypeDateTimeTZ && declared.IsDate():
		return declared
	case actual == TypeAny && declared != TypeNone:
		return declared
	default:
		return actual
	}
}

func converterFor(category CategoryEnum, pair ConversionPair) Converter {
	switch category {
	case CategorySafeNumber, CategoryUnsafeNumber:
		return numberToNumber(pair.To)
	case CategoryTextNumber:
		if pair.To == TypeString {
			return numberToText
		}

		return textToNumber(pair.To)
	case CategoryNumericBool:
		if pair.To == TypeBoolean {
			return numberToBool
		}

		return boolToNumber(pair.To)
	case CategoryTextualBool:
		if pair.To == TypeBoolean {
			return textToBool
		}

		return boolToText
	case CategoryTextChar:
		return charConverter(pair)
	case CategoryDatetime:
		if pair.To == TypeString {
			return dateToText(pair.From)
		}

		return textToDate(pair.To)
	case CategoryTimestamp:
		if pair.To.IsDate() {
			return timestampToDate(pair.To)
		}

		return dateToTimestamp(pair.To)
	case CategoryDateVariant:
		return dateToDate(pair.To)
	default:
		return passThrough(pair)
	}
}

// --- numbers ---

// NumberValue returns any Go number, Char or json.Number as an exact big.Float.
func NumberValue(value any) (*big.Float, error) {
	return toBigFloat(value)
}

func toBigFloat(value any) (*big.Float, error) {
	f := new(big.Float).SetPrec(numberPrecision)

	switch v := value.(type) {
	case int:
		return f.SetInt64(int64(v)), nil
	case int8:
		return f.SetInt64(int64(v)), nil
	case int16:
		return f.SetInt64(int64(v)), nil
	case int32:
		return f.SetInt64(int64(v)), nil
	case int64:
		return f.SetInt64(v), nil
	case uint:
		return f.SetUint64(uint64(v)), nil
	case uint8:
		return f.SetUint64(uint64(v)), nil
	case uint16:
		return f.SetUint64(uint64(v)), nil
	case uint32:
		return f.SetUint64(uint64(v)), nil
	case uint64:
		return f.SetUint64(v), nil
	case Char:
		return f.SetInt64(int64(v)), nil
	case float32:
		return floatToBig(f, float64(v))
	case float64:
		return floatToBig(f, v)
	case *big.Int:
		return f.SetInt(v), nil
	case *big.Float:
		return f.Set(v), nil
	case json.Number:
		if _, ok := f.SetString(string(v)); !ok {
			return nil, concernf(ConcernFormat, "invalid number %q", string(v))
		}

		return f, nil
	default:
		return nil, fmt.Errorf("%T is not a number", value)
	}
}

func floatToBig(f *big.Float, v float64) (*big.Float, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, concernf(ConcernRange, "%v has no finite representation", v)
	}

	return f.SetFloat64(v), nil
}

func fromBigFloat(f *big.Float, to FieldType) (any, error) {
	switch to {
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		if !f.IsInt() {
			return nil, concernf(ConcernFractionalPart, "%s has a fractional part", f.Text('g', -1))
		}

		i, acc := f.Int64()
		bits := to.Bits()
		limit := int64(1) << (bits - 1)

		if acc != big.Exact || (bits < 64 && (i < -limit || i > limit-1)) {
			return nil, concernf(ConcernRange, "%s overflows %d bits", f.Text('g', -1), bits)
		}

		switch to {
		case TypeByte:
			return int8(i), nil
		case TypeShort:
			return int16(i), nil
		case TypeInteger:
			return int32(i), nil
		default:
			return i, nil
		}
	case TypeBigInteger:
		if !f.IsInt() {
			return nil, concernf(ConcernFractionalPart, "%s has a fractional part", f.Text('g', -1))
		}

		i, _ := f.Int(nil)

		return i, nil
	case TypeFloat:
		v, _ := f.Float32()
		if math.IsInf(float64(v), 0) {
			return nil, concernf(ConcernRange, "%s overflows float", f.Text('g', -1))
		}

		return v, nil
	case TypeDouble:
		v, _ := f.Float64()
		if math.IsInf(v, 0) {
			return nil, concernf(ConcernRange, "%s overflows double", f.Text('g', -1))
		}

		return v, nil
	case TypeDecimal:
		return new(big.Float).Copy(f), nil
	case TypeNumber:
		if f.IsInt() {
			if i, acc := f.Int64(); acc == big.Exact {
				return i, nil
			}

			i, _ := f.Int(nil)

			return i, nil
		}

		v, _ := f.Float64()

		return v, nil
	default:
		return nil, concernf(ConcernUnsupported, "%s is not a number type", to)
	}
}

func numberToNumber(to FieldType) Converter {
	return func(value any, _, _ string) (any, error) {
		if to == TypeNumber {
			return value, nil
		}

		f, err := toBigFloat(value)
		if err != nil {
			return nil, err
		}

		return fromBigFloat(f, to)
	}
}

func textToNumber(to FieldType) Converter {
	return func(value any, _, _ string) (any, error) {
		s := strings.TrimSpace(value.(string))

		f, ok := new(big.Float).SetPrec(numberPrecision).SetString(s)
		if !ok {
			return nil, concernf(ConcernFormat, "%q is not a number", s)
		}

		return fromBigFloat(f, to)
	}
}

func numberToText(value any, _, targetFormat string) (any, error) {
	if strings.Contains(targetFormat, "%") {
		return fmt.Sprintf(targetFormat, value), nil
	}

	switch v := value.(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case *big.Float:
		return v.Text('f', -1), nil
	case *big.Int:
		return v.String(), nil
	case json.Number:
		return string(v), nil
	}

	f, err := toBigFloat(value)
	if err != nil {
		return nil, err
	}

	return f.Text('f', 0), nil
}

// --- booleans ---

func numberToBool(value any, _, _ string) (any, error) {
	f, err := toBigFloat(value)
	if err != nil {
		return nil, err
	}

	return f.Sign() != 0, nil
}

func boolToNumber(to FieldType) Converter {
	return func(value any, _, _ string) (any, error) {
		f := new(big.Float).SetPrec(numberPrecision)
		if value.(bool) {
			f.SetInt64(1)
		}

		return fromBigFloat(f, to)
	}
}

func textToBool(value any, _, _ string) (any, error) {
	switch strings.ToLower(strings.TrimSpace(value.(string))) {
	case "true", "t", "yes", "y", "on", "1":
		return true, nil
	case "false", "f", "no", "n", "off", "0", "":
		return false, nil
	default:
		return nil, concernf(ConcernFormat, "%q is not a boolean", value)
	}
}

func boolToText(value any, _, _ string) (any, error) {
	return strconv.FormatBool(value.(bool)), nil
}

// --- characters ---

func charConverter(pair ConversionPair) Converter {
	return func(value any, _, _ string) (any, error) {
		switch {
		case pair.From == TypeString:
			s := value.(string)
			if utf8.RuneCountInString(s) != 1 {
				return nil, concernf(ConcernRange, "%q is not a single character", s)
			}

			r, _ := utf8.DecodeRuneInString(s)

			return Char(r), nil
		case pair.To == TypeString:
			return string(rune(value.(Char))), nil
		case pair.To == TypeChar:
			f, err := toBigFloat(value)
			if err != nil {
				return nil, err
			}

			code, err := fromBigFloat(f, TypeLong)
			if err != nil {
				return nil, err
			}

			if c := code.(int64); c < 0 || c > unicode.MaxRune {
				return nil, concernf(ConcernRange, "%d is not a code point", c)
			}

			return Char(rune(code.(int64))), nil
		default:
			f := new(big.Float).SetPrec(numberPrecision).SetInt64(int64(value.(Char)))
			return fromBigFloat(f, pair.To)
		}
	}
}

// --- dates ---

// DefaultLayout returns the layout used for a date type without explicit format.
func DefaultLayout(t FieldType) string {
	switch t {
	case TypeDate:
		return LayoutDate
	case TypeTime:
		return LayoutTime
	case TypeDateTime:
		return LayoutDateTime
	default:
		return LayoutDateTimeTZ
	}
}

func textToDate(to FieldType) Converter {
	return func(value any, sourceFormat, _ string) (any, error) {
		s := strings.TrimSpace(value.(string))

		layouts := []string{DefaultLayout(to), time.RFC3339Nano, LayoutDateTime, LayoutDate}
		if sourceFormat != "" {
			layouts = []string{sourceFormat}
		}

		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return truncateDate(t, to), nil
			}
		}

		return nil, concernf(ConcernFormat, "%q does not match layout %q", s, layouts[0])
	}
}

func dateToText(from FieldType) Converter {
	return func(value any, sourceFormat, targetFormat string) (any, error) {
		layout := targetFormat
		if layout == "" {
			layout = DefaultLayout(from)
		}

		return value.(time.Time).Format(layout), nil
	}
}

func timestampToDate(to FieldType) Converter {
	return func(value any, _, _ string) (any, error) {
		f, err := toBigFloat(value)
		if err != nil {
			return nil, err
		}

		millis, err := fromBigFloat(f, TypeLong)
		if err != nil {
			return nil, err
		}

		return truncateDate(time.UnixMilli(millis.(int64)).UTC(), to), nil
	}
}

func dateToTimestamp(to FieldType) Converter {
	return func(value any, _, _ string) (any, error) {
		millis := value.(time.Time).UnixMilli()
		f := new(big.Float).SetPrec(numberPrecision).SetInt64(millis)

		return fromBigFloat(f, to)
	}
}

func dateToDate(to FieldType) Converter {
	return func(value any, _, _ string) (any, error) {
		return truncateDate(value.(time.Time), to), nil
	}
}

// truncateDate keeps the parts of t that the date variant represents.
func truncateDate(t time.Time, to FieldType) time.Time {
	switch to {
	case TypeDate:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case TypeTime:
		return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	case TypeDateTime:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	default:
		return t
	}
}

// --- pass through ---

func passThrough(pair ConversionPair) Converter {
	return func(value any, _, _ string) (any, error) {
		if pair.From == pair.To {
			return value, nil
		}

		switch v := value.(type) {
		case map[string]any, []any:
			data, err := json.Marshal(v)
			if err != nil {
				return nil, concernf(ConcernFormat, "%v", err)
			}

			return string(data), nil
		case fmt.Stringer:
			return v.String(), nil
		default:
			return fmt.Sprint(v), nil
		}
	}
}
