package action

import (
	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

func builtins() []Definition {
	str, num, anyT := primitive.TypeString, primitive.TypeNumber, primitive.TypeAny

	return []Definition{
		// one-to-one, text
		{Name: "Uppercase", SourceType: str, TargetType: str, Func: uppercase},
		{Name: "Lowercase", SourceType: str, TargetType: str, Func: lowercase},
		{Name: "Capitalize", SourceType: str, TargetType: str, Func: capitalize,
			Description: "upper-cases the first character"},
		{Name: "Trim", SourceType: str, TargetType: str, Func: trim},
		{Name: "TrimLeft", SourceType: str, TargetType: str, Func: trimLeft},
		{Name: "TrimRight", SourceType: str, TargetType: str, Func: trimRight},
		{Name: "Append", SourceType: str, TargetType: str, Func: appendString, Params: []string{"string"}},
		{Name: "Prepend", SourceType: str, TargetType: str, Func: prependString, Params: []string{"string"}},
		{Name: "Replace", SourceType: str, TargetType: str, Func: replace, Params: []string{"old", "new"}},
		{Name: "SubString", SourceType: str, TargetType: str, Func: subString, Params: []string{"start", "end"}},
		{Name: "Length", SourceType: anyT, TargetType: primitive.TypeLong, Func: length,
			Description: "rune count of text, element count of a complex value, -1 for null"},
		{Name: "IsNull", SourceType: anyT, TargetType: primitive.TypeBoolean, Func: isNull},

		// one-to-one, numbers and dates
		{Name: "AbsoluteValue", SourceType: num, TargetType: num, Func: absoluteValue},
		{Name: "Ceiling", SourceType: num, TargetType: primitive.TypeLong, Func: ceiling},
		{Name: "Floor", SourceType: num, TargetType: primitive.TypeLong, Func: floor},
		{Name: "Round", SourceType: num, TargetType: primitive.TypeLong, Func: round,
			Description: "rounds half away from zero"},
		{Name: "DayOfWeek", SourceType: primitive.TypeAnyDate, TargetType: primitive.TypeLong, Func: dayOfWeek,
			Description: "ISO day of week, 1 is Monday"},

		// one-to-many
		{Name: "Split", SourceType: str, TargetType: str, Multiplicity: OneToMany, Func: split,
			Params: []string{"delimiter"}, Description: "splits text on delimiter, default comma"},
		{Name: "Repeat", SourceType: anyT, TargetType: anyT, Multiplicity: OneToMany, Func: repeat,
			Params: []string{"count"}},

		// many-to-one
		{Name: "Concatenate", SourceType: str, TargetType: str, Multiplicity: ManyToOne, Func: concatenate,
			Params: []string{"delimiter", "delimit_empty"}},
		{Name: "Count", SourceType: anyT, TargetType: primitive.TypeLong, Multiplicity: ManyToOne, Func: count},
		{Name: "ItemAt", SourceType: anyT, TargetType: anyT, Multiplicity: ManyToOne, Func: itemAt,
			Params: []string{"index"}},
		{Name: "Sum", SourceType: num, TargetType: num, Multiplicity: ManyToOne, Func: sum},
		{Name: "Average", SourceType: num, TargetType: primitive.TypeDouble, Multiplicity: ManyToOne, Func: average},
		{Name: "Maximum", SourceType: num, TargetType: num, Multiplicity: ManyToOne, Func: maximum},
		{Name: "Minimum", SourceType: num, TargetType: num, Multiplicity: ManyToOne, Func: minimum},
		{Name: "IsEmpty", SourceType: anyT, TargetType: primitive.TypeBoolean, Multiplicity: ManyToOne, Func: isEmpty},
	}
}

// stringParam reads a parameter, accepting the short form {Append: "-x"}.
func stringParam(a mapping.Action, key, def string) string {
	return a.StringParam(key, a.StringParam(mapping.ValueParam, def))
}

func intParam(a mapping.Action, key string, def int) int {
	return a.IntParam(key, a.IntParam(mapping.ValueParam, def))
}
