package mapping

import (
	"fmt"
	"maps"
	"strconv"

	"fieldmapper/internal/common"
	"fieldmapper/internal/fieldpath"
	"fieldmapper/primitive"
)

// FieldKind tells the engine which kind of module resolves a field.
type FieldKind int

const (
	// KindDocument fields are read from and written to a document by path.
	KindDocument FieldKind = iota
	// KindConstant fields carry their value inline.
	KindConstant
	// KindProperty fields are resolved by name from the property scopes.
	KindProperty
)

func (k FieldKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindConstant:
		return "constant"
	case KindProperty:
		return "property"
	default:
		return common.UnknownStr
	}
}

func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FieldKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "document":
		*k = KindDocument
	case "constant":
		*k = KindConstant
	case "property":
		*k = KindProperty
	default:
		return fmt.Errorf("unknown field kind %q (expected document, constant or property)", text)
	}

	return nil
}

// FieldValue is either a single *Field or a *FieldGroup of nested values.
// Use a type switch to tell them apart.
type FieldValue interface {
	// Base returns the attributes shared by both shapes.
	Base() *Field
	// Clone returns a deep copy of the value tree.
	Clone() FieldValue

	fieldValue()
}

// Field is one addressable, typed, valued unit of a document.
type Field struct {
	DocID   string
	Path    *fieldpath.Path
	Type    primitive.FieldType
	Format  string
	Index   *int
	Actions Actions
	Kind    FieldKind

	// Name and Scope address a property field.
	Name  string
	Scope string

	// Value is the literal for constant fields and the runtime value otherwise.
	Value any
}

// NewField returns a document field parsed from path.
func NewField(docID, path string, t primitive.FieldType) *Field {
	return &Field{DocID: docID, Path: fieldpath.Parse(path), Type: t}
}

func (f *Field) Base() *Field { return f }

func (*Field) fieldValue() {}

// Clone returns a deep copy of the field. Value is copied shallowly.
func (f *Field) Clone() FieldValue {
	return f.Copy()
}

// Copy is Clone with the concrete type preserved.
func (f *Field) Copy() *Field {
	c := *f
	if f.Path != nil {
		c.Path = f.Path.Clone()
	}

	if f.Index != nil {
		i := *f.Index
		c.Index = &i
	}

	c.Actions = f.Actions.Clone()

	return &c
}

// ResolvedPath returns the field path, defaulting a missing one to the root.
func (f *Field) ResolvedPath() *fieldpath.Path {
	if f.Path == nil {
		f.Path = fieldpath.Parse("")
	}

	return f.Path
}

// PathString renders the current path, including any bound indices.
func (f *Field) PathString() string {
	if f.Path == nil {
		return fieldpath.Separator
	}

	return f.Path.String()
}

// IndexValue returns the positional index of the field.
func (f *Field) IndexValue() (int, bool) {
	if f.Index == nil {
		return 0, false
	}

	return *f.Index, true
}

func (f *Field) SetIndex(i int) {
	f.Index = &i
}

func (f *Field) ClearIndex() {
	f.Index = nil
}

// String renders the field for logs and audit messages.
func (f *Field) String() string {
	switch f.Kind {
	case KindConstant:
		return fmt.Sprintf("constant(%v)", f.Value)
	case KindProperty:
		if f.Scope != "" {
			return "property(" + f.Scope + ":" + f.Name + ")"
		}

		return "property(" + f.Name + ")"
	}

	s := f.PathString()
	if f.DocID != "" {
		s = f.DocID + ":" + s
	}

	if i, ok := f.IndexValue(); ok {
		s += "#" + strconv.Itoa(i)
	}

	return s
}

// FieldGroup is an ordered collection of values for one collection-valued
// path segment. The group owns its items.
type FieldGroup struct {
	Field

	Items []FieldValue
}

// NewFieldGroup returns an empty group carrying a copy of f's attributes,
// actions included.
func NewFieldGroup(f *Field) *FieldGroup {
	return &FieldGroup{Field: *f.Copy()}
}

// Clone returns a deep copy of the group and all its items.
func (g *FieldGroup) Clone() FieldValue {
	c := &FieldGroup{Field: *g.Field.Copy(), Items: make([]FieldValue, len(g.Items))}
	for i, item := range g.Items {
		c.Items[i] = item.Clone()
	}

	return c
}

func (g *FieldGroup) Add(v FieldValue) {
	g.Items = append(g.Items, v)
}

func (g *FieldGroup) Len() int {
	return len(g.Items)
}

// Leaves returns every scalar field of the group in depth-first order.
func (g *FieldGroup) Leaves() []*Field {
	var out []*Field

	for _, item := range g.Items {
		switch v := item.(type) {
		case *Field:
			out = append(out, v)
		case *FieldGroup:
			out = append(out, v.Leaves()...)
		}
	}

	return out
}

// Values returns the leaf values in order.
func (g *FieldGroup) Values() []any {
	leaves := g.Leaves()

	values := make([]any, len(leaves))
	for i, l := range leaves {
		values[i] = l.Value
	}

	return values
}

// Last returns the last leaf, or nil for an empty group.
func (g *FieldGroup) Last() *Field {
	leaves := g.Leaves()
	if len(leaves) == 0 {
		return nil
	}

	return leaves[len(leaves)-1]
}

// Action is one step of a field's transformation chain.
type Action struct {
	Name   string
	Params map[string]any
}

// Clone returns a copy with its own parameter map.
func (a Action) Clone() Action {
	return Action{Name: a.Name, Params: maps.Clone(a.Params)}
}

// StringParam returns the string parameter key, or def when absent.
func (a Action) StringParam(key, def string) string {
	v, ok := a.Params[key]
	if !ok || v == nil {
		return def
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// IntParam returns the integer parameter key, or def when absent or not a number.
func (a Action) IntParam(key string, def int) int {
	switch v := a.Params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}

	return def
}

// BoolParam returns the boolean parameter key, or def when absent.
func (a Action) BoolParam(key string, def bool) bool {
	switch v := a.Params[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return def
}

// Actions is an ordered action chain.
type Actions []Action

// Clone returns a deep copy of the chain.
func (a Actions) Clone() Actions {
	if a == nil {
		return nil
	}

	out := make(Actions, len(a))
	for i, act := range a {
		out[i] = act.Clone()
	}

	return out
}

// Names returns the action names in chain order.
func (a Actions) Names() []string {
	names := make([]string, len(a))
	for i, act := range a {
		names[i] = act.Name
	}

	return names
}
