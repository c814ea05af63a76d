package mapping

import (
	"fmt"

	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/match"
	"fieldmapper/primitive"
)

// validateField validates the addressing and actions of one field.
func (v *validator) validateField(m *Mapping, f *Field) {
	if f == nil {
		v.res.AddError("missing_field", "field entry is empty", m.ID, "")
		return
	}

	path := f.PathString()

	switch f.Kind {
	case KindDocument:
		if f.Path == nil || f.Path.IsRoot() {
			v.res.AddError("missing_path", "document field must specify a path", m.ID, "")
		}

		v.validateDocID(m, f)
	case KindConstant:
		if f.Value == nil {
			v.res.AddWarning("missing_constant_value", "constant field has no value", m.ID, path)
		}
	case KindProperty:
		if f.Name == "" {
			v.res.AddError("missing_property_name", "property field must specify a name", m.ID, path)
		}
	}

	if i, ok := f.IndexValue(); ok && i < 0 {
		v.res.AddError("negative_index", fmt.Sprintf("index %d is negative", i), m.ID, path)
	}

	if v.opts.Actions == nil {
		return
	}

	for _, act := range f.Actions {
		if v.opts.Actions.Has(act.Name) {
			continue
		}

		v.res.Add(diagnostic.Diagnostic{
			Severity:    diagnostic.DiagnosticWarning,
			Code:        "unknown_action",
			Message:     fmt.Sprintf("action %q is not registered and will be skipped", act.Name),
			MappingID:   m.ID,
			DocID:       f.DocID,
			FieldPath:   path,
			Suggestions: v.opts.Actions.Suggest(act.Name, f.Type),
		})
	}
}

func (v *validator) validateDocID(m *Mapping, f *Field) {
	if len(v.docs) == 0 || f.DocID == "" {
		return
	}

	if _, ok := v.docs[f.DocID]; ok {
		return
	}

	v.res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticWarning,
		Code:        "unknown_document",
		Message:     fmt.Sprintf("document %q is not listed in documents", f.DocID),
		MappingID:   m.ID,
		DocID:       f.DocID,
		FieldPath:   f.PathString(),
		Suggestions: match.Suggest(f.DocID, v.def.DocumentIDs(), match.DefaultSuggestions),
	})
}

// validateCombine checks that every input is positioned and the output holds text.
func (v *validator) validateCombine(m *Mapping) {
	for _, f := range m.Inputs {
		if f == nil {
			continue
		}

		if _, ok := f.IndexValue(); !ok && len(m.Inputs) > 1 {
			v.res.AddWarning("combine_missing_index",
				"combine input has no index and will be skipped", m.ID, f.PathString())
		}
	}

	for _, f := range m.Outputs {
		if f == nil {
			continue
		}

		if f.Type != primitive.TypeNone && f.Type != primitive.TypeString && f.Type != primitive.TypeAny {
			v.res.AddError("combine_target_not_string",
				fmt.Sprintf("combine output must be a string, got %s", f.Type), m.ID, f.PathString())
		}
	}
}

// validateSeparate checks for a single input and positioned outputs.
func (v *validator) validateSeparate(m *Mapping) {
	if len(m.Inputs) > 1 {
		v.res.AddError("separate_multiple_inputs",
			fmt.Sprintf("separate takes exactly one input, got %d", len(m.Inputs)), m.ID, "")
	}

	for _, f := range m.Outputs {
		if f == nil {
			continue
		}

		if _, ok := f.IndexValue(); !ok {
			v.res.AddWarning("separate_missing_index",
				"separate output has no index and will be skipped", m.ID, f.PathString())
		}
	}
}

func (v *validator) validateLookup(m *Mapping) {
	if m.LookupTable != "" && v.def.FindLookupTable(m.LookupTable) != nil {
		return
	}

	msg := "lookup mapping must name a lookup table"
	if m.LookupTable != "" {
		msg = fmt.Sprintf("lookup table %q is not defined", m.LookupTable)
	}

	v.res.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Code:        "lookup_table_not_found",
		Message:     msg,
		MappingID:   m.ID,
		Suggestions: match.Suggest(m.LookupTable, v.def.LookupTableNames(), match.DefaultSuggestions),
	})
}

// validateConversions flags input/output type pairs that have no conversion
// route. Fields with actions are skipped: their runtime type is decided by
// the chain.
func (v *validator) validateConversions(m *Mapping) {
	for _, in := range m.Inputs {
		if in == nil || len(in.Actions) > 0 || !in.Type.IsConcrete() {
			continue
		}

		for _, out := range m.Outputs {
			if out == nil || len(out.Actions) > 0 || !out.Type.IsConcrete() {
				continue
			}

			compat := match.ScoreTypeCompatibility(in.Type, out.Type, v.opts.Conversion)

			switch compat.Compatibility {
			case match.TypeIncompatible:
				v.res.AddError("unsupported_conversion", compat.Reason, m.ID, out.PathString())
			case match.TypeLossy:
				v.res.AddInfo("lossy_conversion",
					fmt.Sprintf("%s to %s: %s", in.Type, out.Type, compat.Reason), m.ID, out.PathString())
			}
		}
	}
}

// validateFanOut rejects a collection-valued input feeding more than one output
// when an output leaves its collection unindexed.
func (v *validator) validateFanOut(m *Mapping) {
	if len(m.Outputs) < 2 || !hasGroupInput(m) {
		return
	}

	for _, out := range m.Outputs {
		if out == nil || out.Path == nil {
			continue
		}

		if _, ok := out.IndexValue(); ok {
			continue
		}

		if out.Path.HasCollection() && !out.Path.IsIndexedCollection() {
			v.res.AddError("ambiguous_fan_out",
				"an unindexed collection output cannot be combined with other outputs", m.ID, out.PathString())
		}
	}
}

func hasGroupInput(m *Mapping) bool {
	for _, in := range m.Inputs {
		if in == nil || in.Path == nil {
			continue
		}

		if _, ok := in.IndexValue(); ok {
			continue
		}

		if in.Path.HasCollection() && !in.Path.IsIndexedCollection() {
			return true
		}
	}

	return false
}
