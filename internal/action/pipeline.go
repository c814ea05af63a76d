package action

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

// AuditFunc records a non-fatal pipeline finding against a field.
type AuditFunc func(status diagnostic.AuditStatus, field *mapping.Field, value any, message string)

// PipelineConfig configures a Pipeline. Zero values select the built-in
// catalog, the default conversion service and a discarding logger.
type PipelineConfig struct {
	Catalog    *Catalog
	Conversion *primitive.ConversionService
	Logger     *slog.Logger
}

// Pipeline applies a field's action chain, converting values between steps
// and reshaping the field when an action changes its cardinality.
type Pipeline struct {
	catalog    *Catalog
	conversion *primitive.ConversionService
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	p := &Pipeline{catalog: cfg.Catalog, conversion: cfg.Conversion, logger: cfg.Logger}

	if p.catalog == nil {
		p.catalog = NewCatalog()
	}

	if p.conversion == nil {
		p.conversion = primitive.DefaultConversionService
	}

	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}

	return p
}

// Catalog returns the catalog actions are resolved from.
func (p *Pipeline) Catalog() *Catalog {
	return p.catalog
}

// state is the value flowing through the chain: a scalar or a sequence.
type state struct {
	isSeq bool
	value any
	typ   primitive.FieldType
	items []any
	types []primitive.FieldType
}

// Process applies fv's actions in order and returns the resulting value,
// which may have a different shape than fv:
//
//	group  -> sequence: the group is reused, leaves overwritten in order
//	scalar -> sequence: a new group whose children copy the field's address
//	group  -> scalar:   a new field with the group's attributes
//	scalar -> scalar:   the field is updated in place
//
// Unknown actions are skipped with a WARN audit. An action or conversion
// failure is returned as an error and leaves fv untouched.
func (p *Pipeline) Process(fv mapping.FieldValue, audit AuditFunc) (mapping.FieldValue, error) {
	base := fv.Base()
	if len(base.Actions) == 0 {
		return fv, nil
	}

	if audit == nil {
		audit = func(diagnostic.AuditStatus, *mapping.Field, any, string) {}
	}

	st := initialState(fv)
	applied := 0

	for _, act := range base.Actions {
		def, ok := p.catalog.Lookup(act.Name)
		if !ok {
			audit(diagnostic.StatusWarn, base, nil, fmt.Sprintf("action %q is not registered, skipped", act.Name))
			p.logger.Warn("unknown action skipped", "action", act.Name, "path", base.PathString())

			continue
		}

		p.logger.Debug("applying action",
			"action", def.Name,
			"multiplicity", def.Multiplicity.String(),
			"sequence", st.isSeq,
			"path", base.PathString())

		next, err := p.apply(def, act, st, base.Format)
		if err != nil {
			return fv, fmt.Errorf("action %s: %w", def.Name, err)
		}

		st = next
		applied++
	}

	if applied == 0 {
		return fv, nil
	}

	return p.materialize(fv, st, audit), nil
}

func initialState(fv mapping.FieldValue) *state {
	switch v := fv.(type) {
	case *mapping.FieldGroup:
		st := &state{isSeq: true}

		for _, leaf := range v.Leaves() {
			t := leaf.Type
			if t == primitive.TypeNone || !primitive.IsAssignable(t, primitive.TypeOf(leaf.Value)) {
				t = valueType(leaf.Value, t)
			}

			st.items = append(st.items, leaf.Value)
			st.types = append(st.types, t)
		}

		st.typ = firstType(st.items, st.types)

		return st
	default:
		f := fv.Base()

		t := f.Type
		if t == primitive.TypeNone {
			t = primitive.TypeOf(f.Value)
		}

		return &state{value: f.Value, typ: t}
	}
}

// apply runs one action. One-to-one actions run element-wise over a
// sequence; the others receive the whole value in a single call.
func (p *Pipeline) apply(def *Definition, act mapping.Action, st *state, format string) (*state, error) {
	if st.isSeq && def.Multiplicity == OneToOne {
		out := make([]any, len(st.items))

		for i, item := range st.items {
			in, err := p.prepare(item, st.types[i], format, def.SourceType)
			if err != nil {
				return nil, err
			}

			if out[i], err = def.Func(act, in); err != nil {
				return nil, err
			}
		}

		return resultState(out, def.TargetType), nil
	}

	var in any

	switch {
	case st.isSeq:
		items := make([]any, len(st.items))

		for i, item := range st.items {
			v, err := p.prepare(item, st.types[i], format, def.SourceType)
			if err != nil {
				return nil, err
			}

			items[i] = v
		}

		in = items
	case def.Multiplicity == ManyToOne:
		v, err := p.prepare(st.value, st.typ, format, def.SourceType)
		if err != nil {
			return nil, err
		}

		in = []any{v}
	default:
		v, err := p.prepare(st.value, st.typ, format, def.SourceType)
		if err != nil {
			return nil, err
		}

		in = v
	}

	out, err := def.Func(act, in)
	if err != nil {
		return nil, err
	}

	return resultState(out, def.TargetType), nil
}

// prepare converts a value to the type an action requires, unless it is
// already assignable.
func (p *Pipeline) prepare(v any, actual primitive.FieldType, format string, required primitive.FieldType) (any, error) {
	switch {
	case v == nil, required == primitive.TypeNone, primitive.IsAssignable(required, actual):
		return v, nil
	case required == primitive.TypeNumber && actual.IsNumber():
		return v, nil
	}

	return p.conversion.Convert(v, actual, format, required, "")
}

func resultState(out any, declared primitive.FieldType) *state {
	items, ok := flatten(out)
	if !ok {
		return &state{value: out, typ: valueType(out, declared)}
	}

	st := &state{isSeq: true, items: items, types: make([]primitive.FieldType, len(items))}
	for i, item := range items {
		st.types[i] = valueType(item, declared)
	}

	st.typ = firstType(st.items, st.types)

	return st
}

// flatten turns slice and array results into one flat []any. Text and
// []byte are scalars.
func flatten(v any) ([]any, bool) {
	switch x := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		out := make([]any, 0, len(x))
		for _, item := range x {
			if nested, ok := flatten(item); ok {
				out = append(out, nested...)
				continue
			}

			out = append(out, item)
		}

		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return flatten(items)
}

// valueType derives a value's type, keeping a declared date variant for time values.
func valueType(v any, declared primitive.FieldType) primitive.FieldType {
	if _, ok := v.(time.Time); ok && declared.IsDate() && declared != primitive.TypeAnyDate {
		return declared
	}

	return primitive.TypeOf(v)
}

func firstType(items []any, types []primitive.FieldType) primitive.FieldType {
	for i, item := range items {
		if item != nil {
			return types[i]
		}
	}

	return primitive.TypeNone
}

func (p *Pipeline) materialize(fv mapping.FieldValue, st *state, audit AuditFunc) mapping.FieldValue {
	switch orig := fv.(type) {
	case *mapping.FieldGroup:
		if st.isSeq {
			return overwriteGroup(orig, st, audit)
		}

		f := orig.Field.Copy()
		f.Value, f.Type = st.value, st.typ

		return f
	case *mapping.Field:
		if st.isSeq {
			return expandField(orig, st)
		}

		orig.Value, orig.Type = st.value, st.typ

		return orig
	default:
		return fv
	}
}

// overwriteGroup writes the sequence into the existing leaves. Surplus
// values are dropped; surplus leaves are removed or nulled.
func overwriteGroup(g *mapping.FieldGroup, st *state, audit AuditFunc) *mapping.FieldGroup {
	leaves := g.Leaves()

	for i, leaf := range leaves {
		if i < len(st.items) {
			leaf.Value, leaf.Type = st.items[i], st.types[i]
			continue
		}

		leaf.Value = nil
	}

	if extra := len(st.items) - len(leaves); extra > 0 {
		audit(diagnostic.StatusWarn, &g.Field, st.items[len(leaves):],
			fmt.Sprintf("%d values dropped: group holds %d items", extra, len(leaves)))
	}

	if len(st.items) < len(leaves) && isFlat(g) {
		g.Items = g.Items[:len(st.items)]
	}

	g.Type = st.typ

	return g
}

func isFlat(g *mapping.FieldGroup) bool {
	for _, item := range g.Items {
		if _, ok := item.(*mapping.Field); !ok {
			return false
		}
	}

	return true
}

// expandField builds a group from a scalar field. The group keeps every
// attribute of f; children share its document and path but carry no
// actions and no index.
func expandField(f *mapping.Field, st *state) *mapping.FieldGroup {
	g := mapping.NewFieldGroup(f)
	g.Value, g.Type = nil, st.typ

	for i, item := range st.items {
		g.Add(&mapping.Field{
			DocID:  f.DocID,
			Path:   f.ResolvedPath().Clone(),
			Type:   st.types[i],
			Format: f.Format,
			Kind:   f.Kind,
			Value:  item,
		})
	}

	return g
}
