package engine

import (
	"fmt"

	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
	"fieldmapper/internal/module"
	"fieldmapper/primitive"
)

// populate moves a source value into target: convert, bind collection
// indices, apply the target's actions, write. parent is the collection
// source was selected from, nil for a single value.
func (e *Engine) populate(it *iteration, source *mapping.Field, parent mapping.FieldValue, target *mapping.Field, lookup bool) {
	it.source, it.target = source, target

	mod := e.moduleFor(target)
	if !mod.Supports(target) {
		it.audit(diagnostic.StatusError, target, nil, "module %s does not support field %s", mod.Name(), target)
		return
	}

	var err error
	if p, ok := mod.(module.TargetPopulator); ok {
		err = p.PopulateTarget(it.s, it.m, source, target)
	} else {
		err = e.populateValue(it, source, target, lookup)
	}

	if err != nil {
		it.audit(diagnostic.StatusError, target, source.Value, "populate %s: %v", target, err)
		return
	}

	template := target.ResolvedPath().Clone()

	// A target chain that fans out is bound per produced element instead.
	if e.catalog.CardinalityDelta(target.Actions) <= 0 {
		if _, err := it.s.correlator.Correlate(source, parent, target); err != nil {
			it.audit(diagnostic.StatusError, target, nil, "bind collection index: %v", err)
			return
		}
	}

	result, err := e.pipeline.Process(target, it.actionAudit)
	if err != nil {
		it.audit(diagnostic.StatusError, target, target.Value, "%v", err)
		return
	}

	g, ok := result.(*mapping.FieldGroup)
	if !ok {
		e.write(it, mod, result.Base())
		return
	}

	for _, leaf := range g.Leaves() {
		leaf.Path = template.Clone()

		if _, err := it.s.correlator.Correlate(source, g, leaf); err != nil {
			it.audit(diagnostic.StatusError, leaf, nil, "bind collection index: %v", err)
			continue
		}

		e.write(it, mod, leaf)
	}
}

// populateValue is the default population: convert the source value to
// the target type, remapping it through the lookup table when asked.
func (e *Engine) populateValue(it *iteration, source, target *mapping.Field, lookup bool) error {
	if !lookup {
		v, err := e.conversion.Convert(source.Value, source.Type, source.Format, target.Type, target.Format)
		if err != nil {
			return err
		}

		target.Value = v

		return nil
	}

	table := it.s.def.FindLookupTable(it.m.LookupTable)
	if table == nil {
		return fmt.Errorf("lookup table %q not found", it.m.LookupTable)
	}

	if source.Value == nil {
		target.Value = nil
		return nil
	}

	key, err := e.conversion.Convert(source.Value, source.Type, source.Format, primitive.TypeString, "")
	if err != nil {
		return err
	}

	result, targetType := fmt.Sprint(key), target.Type
	if entry, ok := table.Lookup(result); ok {
		result = entry.Target
		if entry.TargetType != primitive.TypeNone {
			targetType = entry.TargetType
		}
	}

	v, err := e.conversion.Convert(result, primitive.TypeString, "", targetType, target.Format)
	if err != nil {
		return err
	}

	target.Value = v

	return nil
}

func (e *Engine) write(it *iteration, mod module.Module, f *mapping.Field) {
	it.target = f

	if err := mod.Write(it.s, f); err != nil {
		it.audit(diagnostic.StatusError, f, f.Value, "%v", err)
		return
	}

	it.log.Debug("wrote target", "doc", f.DocID, "path", f.PathString(), "module", mod.Name())
}
