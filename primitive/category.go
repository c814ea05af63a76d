package primitive

type CategoryEnum int

type ConversionPair struct {
	From, To FieldType
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // widening numeric conversions, never lossy
	CategoryUnsafeNumber                          // narrowing numeric conversions, checked for range and fractional part
	CategoryTextNumber                            // number <-> string: textual number representation
	CategoryNumericBool                           // number <-> boolean: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> boolean: yes, no, on, off, true, false representation of boolean values
	CategoryTextChar                              // string <-> char, integer <-> char: code point representation
	CategoryDatetime                              // string <-> date variants: layout taken from the field format
	CategoryTimestamp                             // integer <-> date variants: Unix epoch milliseconds
	CategoryDateVariant                           // date <-> time <-> date-time <-> date-time-tz: truncation and zone dropping
	CategoryPassThrough                           // identity, any, and complex values rendered as text

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected
)

var conversionPairs map[CategoryEnum]map[ConversionPair]struct{}

func init() {
	conversionPairs = make(map[CategoryEnum]map[ConversionPair]struct{})

	conversionPairs[CategorySafeNumber] = safeNumberConversionPairs()

	// CategoryUnsafeNumber: every numeric pair that is not a widening one
	conversionPairs[CategoryUnsafeNumber] = map[ConversionPair]struct{}{}
	for fromType := FieldType(0); int(fromType) < TypeTotal; fromType++ {
		if !fromType.IsNumber() {
			continue
		}

		for toType := FieldType(0); int(toType) < TypeTotal; toType++ {
			if !toType.IsNumber() || toType == fromType {
				continue
			}

			pair := ConversionPair{fromType, toType}
			if _, ok := conversionPairs[CategorySafeNumber][pair]; ok {
				continue
			}

			conversionPairs[CategoryUnsafeNumber][pair] = struct{}{}
		}
	}

	// CategoryTextNumber: text <-> number conversions
	conversionPairs[CategoryTextNumber] = map[ConversionPair]struct{}{}
	for numberType := FieldType(0); int(numberType) < TypeTotal; numberType++ {
		if !numberType.IsNumber() {
			continue
		}

		conversionPairs[CategoryTextNumber][ConversionPair{numberType, TypeString}] = struct{}{}
		conversionPairs[CategoryTextNumber][ConversionPair{TypeString, numberType}] = struct{}{}
	}

	// CategoryNumericBool: number <-> bool conversions
	conversionPairs[CategoryNumericBool] = map[ConversionPair]struct{}{}
	for numberType := FieldType(0); int(numberType) < TypeTotal; numberType++ {
		if !numberType.IsNumber() {
			continue
		}

		conversionPairs[CategoryNumericBool][ConversionPair{numberType, TypeBoolean}] = struct{}{}
		conversionPairs[CategoryNumericBool][ConversionPair{TypeBoolean, numberType}] = struct{}{}
	}

	// string <-> bool: yes, no, on, off, true, false
	conversionPairs[CategoryTextualBool] = map[ConversionPair]struct{}{
		{TypeString, TypeBoolean}: {},
		{TypeBoolean, TypeString}: {},
	}

	// CategoryTextChar: string <-> char, integer <-> char
	conversionPairs[CategoryTextChar] = map[ConversionPair]struct{}{
		{TypeString, TypeChar}: {},
		{TypeChar, TypeString}: {},
	}
	for numberType := FieldType(0); int(numberType) < TypeTotal; numberType++ {
		if !numberType.IsInteger() && numberType != TypeNumber {
			continue
		}

		conversionPairs[CategoryTextChar][ConversionPair{numberType, TypeChar}] = struct{}{}
		conversionPairs[CategoryTextChar][ConversionPair{TypeChar, numberType}] = struct{}{}
	}

	// CategoryDatetime, CategoryTimestamp and CategoryDateVariant
	conversionPairs[CategoryDatetime] = map[ConversionPair]struct{}{}
	conversionPairs[CategoryTimestamp] = map[ConversionPair]struct{}{}
	conversionPairs[CategoryDateVariant] = map[ConversionPair]struct{}{}
	for dateType := FieldType(0); int(dateType) < TypeTotal; dateType++ {
		if !dateType.IsDate() {
			continue
		}

		conversionPairs[CategoryDatetime][ConversionPair{TypeString, dateType}] = struct{}{}
		conversionPairs[CategoryDatetime][ConversionPair{dateType, TypeString}] = struct{}{}

		conversionPairs[CategoryTimestamp][ConversionPair{TypeLong, dateType}] = struct{}{}
		conversionPairs[CategoryTimestamp][ConversionPair{dateType, TypeLong}] = struct{}{}
		conversionPairs[CategoryTimestamp][ConversionPair{TypeBigInteger, dateType}] = struct{}{}
		conversionPairs[CategoryTimestamp][ConversionPair{TypeNumber, dateType}] = struct{}{}
		conversionPairs[CategoryTimestamp][ConversionPair{TypeDouble, dateType}] = struct{}{}

		for otherType := FieldType(0); int(otherType) < TypeTotal; otherType++ {
			if !otherType.IsDate() || otherType == dateType {
				continue
			}

			conversionPairs[CategoryDateVariant][ConversionPair{dateType, otherType}] = struct{}{}
		}
	}

	// CategoryPassThrough: identity for every type, complex and opaque values as text
	conversionPairs[CategoryPassThrough] = map[ConversionPair]struct{}{
		{TypeComplex, TypeString}: {},
		{TypeAny, TypeString}:     {},
	}
	for t := FieldType(0); int(t) < TypeTotal; t++ {
		conversionPairs[CategoryPassThrough][ConversionPair{t, t}] = struct{}{}
	}
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	pairs := map[ConversionPair]struct{}{
		{TypeByte, TypeShort}:      {}, // byte can be safely converted to any wider number
		{TypeByte, TypeInteger}:    {},
		{TypeByte, TypeLong}:       {},
		{TypeByte, TypeFloat}:      {},
		{TypeByte, TypeDouble}:     {},
		{TypeByte, TypeDecimal}:    {},
		{TypeByte, TypeBigInteger}: {},

		{TypeShort, TypeInteger}:    {},
		{TypeShort, TypeLong}:       {},
		{TypeShort, TypeFloat}:      {},
		{TypeShort, TypeDouble}:     {},
		{TypeShort, TypeDecimal}:    {},
		{TypeShort, TypeBigInteger}: {},

		{TypeInteger, TypeLong}:       {},
		{TypeInteger, TypeDouble}:     {}, // float32 mantissa is too narrow for int32
		{TypeInteger, TypeDecimal}:    {},
		{TypeInteger, TypeBigInteger}: {},

		{TypeLong, TypeDecimal}:    {},
		{TypeLong, TypeBigInteger}: {},

		{TypeFloat, TypeDouble}:  {},
		{TypeFloat, TypeDecimal}: {},

		{TypeDouble, TypeDecimal}:     {},
		{TypeBigInteger, TypeDecimal}: {},
	}

	// every number fits the abstract number type
	for t := FieldType(0); int(t) < TypeTotal; t++ {
		if t.IsNumber() && t != TypeNumber {
			pairs[ConversionPair{t, TypeNumber}] = struct{}{}
		}
	}

	return pairs
}

// allowedSet merges the conversion pairs of every selected category.
func allowedSet(allowed CategoryEnum) map[ConversionPair]CategoryEnum {
	set := make(map[ConversionPair]CategoryEnum)

	for category, pairs := range conversionPairs {
		if allowed&category == 0 {
			continue
		}

		for pair := range pairs {
			set[pair] = category
		}
	}

	return set
}
