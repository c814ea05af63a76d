package module

import (
	"fmt"
	"log/slog"
	"slices"

	"fieldmapper/internal/fieldpath"
	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

// Tree addresses decoded JSON or YAML documents: map[string]any objects,
// []any arrays and scalar leaves.
type Tree struct {
	logger *slog.Logger
}

// NewTree creates a Tree module. A nil logger discards.
func NewTree(logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Tree{logger: logger}
}

func (t *Tree) Name() string { return "tree" }

func (t *Tree) Supports(f *mapping.Field) bool {
	return f.Kind == mapping.KindDocument
}

// Read resolves f against the source document. Missing members read as
// null. A vacant collection segment expands into a FieldGroup, nested once
// per vacant segment.
func (t *Tree) Read(s Session, f *mapping.Field) (mapping.FieldValue, error) {
	if !t.Supports(f) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedField, f)
	}

	doc, ok := s.SourceDocument(f.DocID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDocumentNotFound, f.DocID)
	}

	path := f.ResolvedPath().Clone()

	t.logger.Debug("reading field", "session_id", s.ID(), "doc", f.DocID, "path", path.String())

	fv, err := t.read(f, doc, path, 1)
	if err != nil {
		return nil, err
	}

	if single, ok := fv.(*mapping.Field); ok {
		single.Actions = f.Actions.Clone()
	}

	return fv, nil
}

func (t *Tree) read(f *mapping.Field, node any, path *fieldpath.Path, pos int) (mapping.FieldValue, error) {
	if pos == path.Len() {
		return leaf(f, path, node), nil
	}

	seg := path.Segment(pos)

	child, err := member(node, seg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if !seg.IsCollection() {
		return t.read(f, child, path, pos+1)
	}

	if seg.IsBound() {
		elem, err := element(child, seg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return t.read(f, elem, path, pos+1)
	}

	group := mapping.NewFieldGroup(f)
	group.Path = path.Clone()
	group.Value = nil

	switch c := child.(type) {
	case nil:
	case []any:
		for i, elem := range c {
			p := path.Clone()
			if err := p.SetCollectionIndex(pos, i); err != nil {
				return nil, err
			}

			item, err := t.read(f, elem, p, pos+1)
			if err != nil {
				return nil, err
			}

			group.Add(item)
		}
	case map[string]any:
		if seg.Collection() != fieldpath.CollectionMap {
			return nil, fmt.Errorf("%s: %w: %s is an object", path, ErrPathConflict, seg.Expression())
		}

		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		for _, k := range keys {
			p := path.Clone()
			if err := p.SetMapKey(pos, k); err != nil {
				return nil, err
			}

			item, err := t.read(f, c[k], p, pos+1)
			if err != nil {
				return nil, err
			}

			group.Add(item)
		}
	default:
		return nil, fmt.Errorf("%s: %w: %s is %T", path, ErrPathConflict, seg.Expression(), child)
	}

	return group, nil
}

// leaf builds the read result for a fully resolved path. Group leaves carry
// no actions; the chain belongs to the group.
func leaf(f *mapping.Field, path *fieldpath.Path, value any) *mapping.Field {
	out := f.Copy()
	out.Path = path
	out.Value = value
	out.Actions = nil

	if out.Type == primitive.TypeNone {
		out.Type = primitive.TypeOf(value)
	}

	return out
}

// keys returns the member names to try for a segment, most specific first.
func keys(seg fieldpath.Segment) []string {
	var out []string

	name := seg.Name()
	if ns := seg.Namespace(); ns != "" {
		out = append(out, ns+fieldpath.NamespaceSep+name)
	}

	if seg.IsAttribute() {
		out = append(out, fieldpath.AttributePrefix+name)
	}

	return append(out, name)
}

func member(node any, seg fieldpath.Segment) (any, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		for _, k := range keys(seg) {
			if v, ok := n[k]; ok {
				return v, nil
			}
		}

		return nil, nil
	default:
		return nil, fmt.Errorf("%w: cannot read %q from %T", ErrPathConflict, seg.Name(), node)
	}
}

func element(node any, seg fieldpath.Segment) (any, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil
	case []any:
		i, _ := seg.Index()
		if seg.Collection() == fieldpath.CollectionMap || i >= len(n) {
			return nil, nil
		}

		return n[i], nil
	case map[string]any:
		key, _ := seg.MapKey()
		return n[key], nil
	default:
		return nil, fmt.Errorf("%w: %s is %T", ErrPathConflict, seg.Expression(), node)
	}
}

// Write stores f's value in the target document, creating intermediate
// objects and growing arrays as needed. A vacant array segment appends.
func (t *Tree) Write(s Session, f *mapping.Field) error {
	if !t.Supports(f) {
		return fmt.Errorf("%w: %s", ErrUnsupportedField, f)
	}

	path := f.ResolvedPath()

	doc, err := assign(s.TargetDocument(f.DocID), path, 1, f.Value)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	s.SetTargetDocument(f.DocID, doc)

	t.logger.Debug("wrote field", "session_id", s.ID(), "doc", f.DocID, "path", path.String())

	return nil
}

func assign(node any, path *fieldpath.Path, pos int, value any) (any, error) {
	if pos == path.Len() {
		return value, nil
	}

	seg := path.Segment(pos)

	obj, ok := node.(map[string]any)
	switch {
	case node == nil:
		obj = make(map[string]any)
	case !ok:
		return nil, fmt.Errorf("%w: %s is %T", ErrPathConflict, seg.Name(), node)
	}

	key := keys(seg)[0]

	if !seg.IsCollection() {
		v, err := assign(obj[key], path, pos+1, value)
		if err != nil {
			return nil, err
		}

		obj[key] = v

		return obj, nil
	}

	if seg.Collection() == fieldpath.CollectionMap {
		k, ok := seg.MapKey()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnboundKey, seg.Expression())
		}

		sub, isMap := obj[key].(map[string]any)
		switch {
		case obj[key] == nil:
			sub = make(map[string]any)
		case !isMap:
			return nil, fmt.Errorf("%w: %s is %T", ErrPathConflict, seg.Name(), obj[key])
		}

		v, err := assign(sub[k], path, pos+1, value)
		if err != nil {
			return nil, err
		}

		sub[k] = v
		obj[key] = sub

		return obj, nil
	}

	arr, isSlice := obj[key].([]any)
	if obj[key] != nil && !isSlice {
		return nil, fmt.Errorf("%w: %s is %T", ErrPathConflict, seg.Name(), obj[key])
	}

	i, bound := seg.Index()
	if !bound {
		i = len(arr)
	}

	if i >= len(arr) {
		arr = append(arr, make([]any, i+1-len(arr))...)
	}

	v, err := assign(arr[i], path, pos+1, value)
	if err != nil {
		return nil, err
	}

	arr[i] = v
	obj[key] = arr

	return obj, nil
}
