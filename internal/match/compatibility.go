package match

import (
	"fmt"

	"fieldmapper/internal/common"
	"fieldmapper/primitive"
)

// TypeCompatibility represents how a value of one field type reaches another.
type TypeCompatibility int

const (
	// TypeIncompatible means no conversion route exists.
	TypeIncompatible TypeCompatibility = iota
	// TypeLossy means a narrowing route exists that may fail at runtime.
	TypeLossy
	// TypeConvertible means a non-numeric conversion route exists.
	TypeConvertible
	// TypeWidening means a numeric route that never loses information.
	TypeWidening
	// TypeAssignable means the target accepts the source without conversion.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical    = "identical"
	VerdictAssignable   = "assignable"
	VerdictWidening     = "widening"
	VerdictConvertible  = "convertible"
	VerdictLossy        = "lossy"
	VerdictIncompatible = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeWidening:
		return VerdictWidening
	case TypeConvertible:
		return VerdictConvertible
	case TypeLossy:
		return VerdictLossy
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string
	SourceType    primitive.FieldType
	TargetType    primitive.FieldType
}

// ScoreTypeCompatibility classifies the route from source to target using the
// dispatch table of svc. A nil svc uses primitive.DefaultConversionService.
func ScoreTypeCompatibility(source, target primitive.FieldType, svc *primitive.ConversionService) TypeCompatibilityResult {
	if svc == nil {
		svc = primitive.DefaultConversionService
	}

	res := TypeCompatibilityResult{SourceType: source, TargetType: target}

	switch {
	case source == target:
		res.Compatibility, res.Reason = TypeIdentical, "types are identical"
		return res
	case target == primitive.TypeNone || primitive.IsAssignable(target, source):
		res.Compatibility, res.Reason = TypeAssignable, fmt.Sprintf("%s accepts %s", target, source)
		return res
	case !source.IsConcrete():
		res.Compatibility, res.Reason = TypeConvertible, "source type is decided at runtime"
		return res
	}

	lookup := target
	if target == primitive.TypeAnyDate {
		lookup = primitive.TypeDateTimeTZ
	}

	category, ok := svc.Category(source, lookup)

	switch {
	case !ok:
		res.Compatibility, res.Reason = TypeIncompatible, fmt.Sprintf("no conversion from %s to %s", source, target)
	case category == primitive.CategorySafeNumber:
		res.Compatibility, res.Reason = TypeWidening, "widening numeric conversion"
	case category == primitive.CategoryUnsafeNumber:
		res.Compatibility, res.Reason = TypeLossy, "narrowing numeric conversion, checked at runtime"
	default:
		res.Compatibility, res.Reason = TypeConvertible, fmt.Sprintf("converted via %s", categoryName(category))
	}

	return res
}

func categoryName(c primitive.CategoryEnum) string {
	switch c {
	case primitive.CategoryTextNumber:
		return "textual number"
	case primitive.CategoryNumericBool:
		return "numeric boolean"
	case primitive.CategoryTextualBool:
		return "textual boolean"
	case primitive.CategoryTextChar:
		return "character code"
	case primitive.CategoryDatetime:
		return "date layout"
	case primitive.CategoryTimestamp:
		return "epoch milliseconds"
	case primitive.CategoryDateVariant:
		return "date truncation"
	default:
		return "text rendering"
	}
}
