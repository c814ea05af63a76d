package mapping

import (
	"fmt"

	"fieldmapper/internal/diagnostic"
	"fieldmapper/primitive"
)

// ActionResolver answers whether an action is registered, and proposes
// alternatives for one that is not.
type ActionResolver interface {
	Has(name string) bool
	Suggest(name string, valueType primitive.FieldType) []string
}

// ValidateOptions configures Validate. Zero values disable action checks and
// use the default conversion service.
type ValidateOptions struct {
	Actions    ActionResolver
	Conversion *primitive.ConversionService
}

// Validate performs structural validation of a mapping definition. It never
// reads documents; checks that need runtime values are left to the engine.
func Validate(def *Definition, opts ValidateOptions) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if def == nil {
		res.AddError("definition_is_nil", "mapping definition is nil", "", "")
		return res
	}

	if opts.Conversion == nil {
		opts.Conversion = primitive.DefaultConversionService
	}

	v := &validator{def: def, opts: opts, res: res, docs: map[string]struct{}{}}
	for _, id := range def.DocumentIDs() {
		v.docs[id] = struct{}{}
	}

	seenIDs := map[string]struct{}{}

	for _, m := range def.Mappings {
		if m == nil {
			continue
		}

		checkDuplicateID(res, seenIDs, m)

		if m.Type != MappingCollection {
			v.validateMapping(m)
			continue
		}

		if len(m.Mappings) == 0 {
			res.AddWarning("empty_collection_mapping", "collection mapping has no child mappings", m.ID, "")
		}

		for _, child := range m.Mappings {
			if child == nil {
				continue
			}

			checkDuplicateID(res, seenIDs, child)

			if child.Type == MappingCollection {
				res.AddWarning("nested_collection_mapping",
					"collection mappings nest one level only; this entry is not executed", child.ID, "")

				continue
			}

			v.validateMapping(child)
		}
	}

	return res
}

func checkDuplicateID(res *diagnostic.Diagnostics, seen map[string]struct{}, m *Mapping) {
	if m.ID == "" {
		return
	}

	if _, ok := seen[m.ID]; ok {
		res.AddError("duplicate_mapping_id", fmt.Sprintf("duplicate mapping id %q", m.ID), m.ID, "")
		return
	}

	seen[m.ID] = struct{}{}
}

type validator struct {
	def  *Definition
	opts ValidateOptions
	res  *diagnostic.Diagnostics
	docs map[string]struct{}
}

// validateMapping validates a single executable mapping.
func (v *validator) validateMapping(m *Mapping) {
	if len(m.Inputs) == 0 {
		v.res.AddError("missing_input", "mapping must specify at least one input field", m.ID, "")
	}

	if len(m.Outputs) == 0 {
		v.res.AddError("missing_output", "mapping must specify at least one output field", m.ID, "")
	}

	for _, f := range m.Inputs {
		v.validateField(m, f)
	}

	for _, f := range m.Outputs {
		v.validateField(m, f)

		if f != nil && f.Kind != KindDocument {
			v.res.AddError("output_not_writable",
				fmt.Sprintf("%s fields cannot be written", f.Kind), m.ID, f.PathString())
		}
	}

	switch m.EffectiveType() {
	case MappingCombine:
		v.validateCombine(m)
	case MappingSeparate:
		v.validateSeparate(m)
	case MappingLookup:
		v.validateLookup(m)
		v.validateFanOut(m)
	case MappingMap:
		v.validateConversions(m)
		v.validateFanOut(m)
	}
}
