package engine

import (
	"fmt"
	"runtime/debug"

	"fieldmapper/internal/common"
	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
	"fieldmapper/internal/strategy"
	"fieldmapper/primitive"
)

// processMapping runs one mapping entry. A panic is confined to the entry
// and recorded against the field in flight.
func (e *Engine) processMapping(it *iteration) {
	defer func() {
		if r := recover(); r != nil {
			it.log.Error("recovered panic", "panic", r, "stack", string(debug.Stack()))
			it.audit(diagnostic.StatusError, it.inFlight(), nil, "internal error: %v", r)
		}
	}()

	it.log.Debug("processing mapping", "type", it.m.EffectiveType().String())

	switch it.m.EffectiveType() {
	case mapping.MappingMap:
		e.processMap(it, false)
	case mapping.MappingLookup:
		e.processMap(it, true)
	case mapping.MappingCombine:
		e.processCombine(it)
	case mapping.MappingSeparate:
		e.processSeparate(it)
	default:
		it.audit(diagnostic.StatusWarn, nil, nil, "mapping type %s is not executable", it.m.Type)
	}
}

// readInput reads a source field through its module and applies the
// field's action chain.
func (e *Engine) readInput(it *iteration, f *mapping.Field) (mapping.FieldValue, bool) {
	it.source, it.target = f, nil

	mod := e.moduleFor(f)
	if !mod.Supports(f) {
		it.audit(diagnostic.StatusError, f, nil, "module %s does not support field %s", mod.Name(), f)
		return nil, false
	}

	fv, err := mod.Read(it.s, f)
	if err != nil {
		it.audit(diagnostic.StatusError, f, nil, "read %s: %v", f, err)
		return nil, false
	}

	fv, err = e.pipeline.Process(fv, it.actionAudit)
	if err != nil {
		it.audit(diagnostic.StatusError, f, fv.Base().Value, "%v", err)
		return nil, false
	}

	return fv, true
}

func (e *Engine) processMap(it *iteration, lookup bool) {
	if common.IsEmpty(it.m.Inputs) || common.IsEmpty(it.m.Outputs) {
		return
	}

	if common.IsMultiple(it.m.Inputs) {
		it.audit(diagnostic.StatusWarn, it.m.Inputs[1], nil, "map reads its first input only, %d ignored", len(it.m.Inputs)-1)
	}

	src, ok := e.readInput(it, it.m.Inputs[0])
	if !ok {
		return
	}

	group, isGroup := src.(*mapping.FieldGroup)
	if isGroup && common.IsEmpty(group.Leaves()) {
		it.audit(diagnostic.StatusWarn, &group.Field, nil, "source collection is empty, nothing to map")
		return
	}

	for _, out := range it.m.Outputs {
		if out == nil {
			continue
		}

		switch {
		case !isGroup:
			e.populate(it, src.Base(), nil, out, lookup)
		case fansOut(out):
			if common.IsMultiple(it.m.Outputs) {
				it.audit(diagnostic.StatusError, out, nil,
					"ambiguous fan-out: collection target %s has %d sibling outputs", out.PathString(), len(it.m.Outputs)-1)

				continue
			}

			for _, leaf := range group.Leaves() {
				e.populate(it, leaf, group, out.Copy(), lookup)
			}
		default:
			leaf, ok := selectLeaf(group, out)
			if !ok {
				i, _ := out.IndexValue()
				it.audit(diagnostic.StatusWarn, out, nil,
					"index %d is out of range, source collection has %d values", i, len(group.Leaves()))

				continue
			}

			e.populate(it, leaf, group, out, lookup)
		}
	}
}

// fansOut reports whether a target receives every element of a source
// collection: its path has a vacant collection slot and it selects no
// element by index.
func fansOut(f *mapping.Field) bool {
	if _, ok := f.IndexValue(); ok || f.Path == nil {
		return false
	}

	return f.Path.HasCollection() && !f.Path.IsIndexedCollection()
}

// selectLeaf picks the element a target asks for by index, or the last one.
func selectLeaf(g *mapping.FieldGroup, target *mapping.Field) (*mapping.Field, bool) {
	leaves := g.Leaves()

	i, ok := target.IndexValue()
	if !ok {
		return common.Last(leaves)
	}

	if i < 0 || i >= len(leaves) {
		return nil, false
	}

	return leaves[i], true
}

func (e *Engine) processCombine(it *iteration) {
	delim, ok := e.delimiter(it)
	if !ok {
		return
	}

	values := map[int]string{}
	claimed := map[int]bool{}
	single := len(it.m.Inputs) == 1

	for _, in := range it.m.Inputs {
		if in == nil {
			continue
		}

		i, indexed := in.IndexValue()

		switch {
		case indexed && i < 0:
			it.audit(diagnostic.StatusWarn, in, nil, "combine input has negative index %d, skipped", i)
			continue
		case !indexed && !single:
			it.audit(diagnostic.StatusWarn, in, nil, "combine input has no index, skipped")
			continue
		case indexed && claimed[i]:
			it.audit(diagnostic.StatusWarn, in, nil, "combine index %d is already taken, input skipped", i)
			continue
		}

		if indexed {
			claimed[i] = true
		}

		fv, ok := e.readInput(it, in)
		if !ok {
			continue
		}

		switch v := fv.(type) {
		case *mapping.FieldGroup:
			parts, ok := e.texts(it, v.Leaves())
			if !ok {
				continue
			}

			if indexed {
				values[i] = e.combine.Combine(parts, delim)
				continue
			}

			for pos, s := range parts {
				values[pos] = s
			}
		default:
			s, ok := e.text(it, fv.Base())
			if !ok {
				continue
			}

			values[i] = s
		}
	}

	combined := e.combine.Combine(values, delim)

	src := &mapping.Field{Type: primitive.TypeString, Value: combined}
	if first := common.FirstNonNil(it.m.Inputs); first != nil {
		src.DocID, src.Path = first.DocID, first.ResolvedPath().Clone()
	}

	for _, out := range it.m.Outputs {
		if out != nil {
			e.populate(it, src, nil, out, false)
		}
	}
}

func (e *Engine) processSeparate(it *iteration) {
	delim, ok := e.delimiter(it)
	if !ok {
		return
	}

	in := common.FirstNonNil(it.m.Inputs)
	if in == nil {
		return
	}

	fv, ok := e.readInput(it, in)
	if !ok {
		return
	}

	if g, isGroup := fv.(*mapping.FieldGroup); isGroup {
		it.audit(diagnostic.StatusError, &g.Field, nil, "separate needs a single value, source is a collection of %d", len(g.Leaves()))
		return
	}

	s, ok := e.text(it, fv.Base())
	if !ok {
		return
	}

	parts := e.separate.Separate(s, delim)

	for _, out := range it.m.Outputs {
		if out == nil {
			continue
		}

		i, ok := out.IndexValue()

		switch {
		case !ok:
			it.audit(diagnostic.StatusWarn, out, nil, "separate output has no index, skipped")
			continue
		case i < 0 || i >= len(parts):
			it.audit(diagnostic.StatusWarn, out, s, "index %d is out of range, value separated into %d parts", i, len(parts))
			continue
		}

		part := &mapping.Field{
			DocID: fv.Base().DocID,
			Path:  fv.Base().ResolvedPath().Clone(),
			Type:  primitive.TypeString,
			Value: parts[i],
		}

		e.populate(it, part, nil, out, false)
	}
}

// delimiter resolves the mapping's delimiter; the zero value selects the
// strategy default.
func (e *Engine) delimiter(it *iteration) (strategy.Delimiter, bool) {
	d, err := strategy.Resolve(it.m.Delimiter, it.m.DelimiterString)
	if err != nil {
		it.audit(diagnostic.StatusError, nil, nil, "%v", err)
		return strategy.Delimiter{}, false
	}

	return d, true
}

// text converts a field value to a string for combine and separate.
func (e *Engine) text(it *iteration, f *mapping.Field) (string, bool) {
	if f.Value == nil {
		return "", true
	}

	v, err := e.conversion.Convert(f.Value, f.Type, f.Format, primitive.TypeString, "")
	if err != nil {
		it.audit(diagnostic.StatusError, f, f.Value, "%v", err)
		return "", false
	}

	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}

	return s, true
}

func (e *Engine) texts(it *iteration, leaves []*mapping.Field) (map[int]string, bool) {
	out := make(map[int]string, len(leaves))

	for i, leaf := range leaves {
		s, ok := e.text(it, leaf)
		if !ok {
			return nil, false
		}

		out[i] = s
	}

	return out, true
}

