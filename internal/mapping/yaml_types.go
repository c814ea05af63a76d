package mapping

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"fieldmapper/internal/fieldpath"
	"fieldmapper/primitive"
)

// ValueParam holds the parameter of the short form {Append: "-x"}.
const ValueParam = "value"

// --- Field YAML methods ---

type fieldDoc struct {
	Doc     string              `yaml:"doc,omitempty"`
	Path    string              `yaml:"path,omitempty"`
	Type    primitive.FieldType `yaml:"type,omitempty"`
	Format  string              `yaml:"format,omitempty"`
	Index   *int                `yaml:"index,omitempty"`
	Actions Actions             `yaml:"actions,omitempty"`
	Kind    FieldKind           `yaml:"kind,omitempty"`
	Value   any                 `yaml:"value,omitempty"`
	Name    string              `yaml:"name,omitempty"`
	Scope   string              `yaml:"scope,omitempty"`
}

func (d *fieldDoc) pathOnly() bool {
	return d.Doc == "" && d.Type == primitive.TypeNone && d.Format == "" && d.Index == nil &&
		len(d.Actions) == 0 && d.Kind == KindDocument && d.Value == nil && d.Name == "" && d.Scope == ""
}

// UnmarshalYAML implements custom YAML unmarshaling for Field.
// Accepts:
//   - Path only: "/order/id"
//   - Full form: {doc: src, path: /order/id, type: long, actions: [Trim]}
//
// A field without path but with a value is a constant; one with a name is a property.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var doc fieldDoc

	switch node.Kind {
	case yaml.ScalarNode:
		if err := node.Decode(&doc.Path); err != nil {
			return err
		}
	case yaml.MappingNode:
		if err := node.Decode(&doc); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: expected path string or field map, got %v", node.Line, node.Kind)
	}

	kind := doc.Kind
	if kind == KindDocument && doc.Path == "" {
		switch {
		case doc.Value != nil:
			kind = KindConstant
		case doc.Name != "":
			kind = KindProperty
		}
	}

	*f = Field{
		DocID:   doc.Doc,
		Path:    fieldpath.Parse(doc.Path),
		Type:    doc.Type,
		Format:  doc.Format,
		Index:   doc.Index,
		Actions: doc.Actions,
		Kind:    kind,
		Value:   doc.Value,
		Name:    doc.Name,
		Scope:   doc.Scope,
	}

	return nil
}

// MarshalYAML writes the full form, or the bare path when nothing else is set.
func (f Field) MarshalYAML() (any, error) {
	doc := fieldDoc{
		Doc:     f.DocID,
		Type:    f.Type,
		Format:  f.Format,
		Index:   f.Index,
		Actions: f.Actions,
		Value:   f.Value,
		Name:    f.Name,
		Scope:   f.Scope,
	}

	if f.Path != nil && !f.Path.IsRoot() {
		doc.Path = f.Path.Original()
	}

	// kind is implied for constants and properties without a path
	if f.Kind != KindDocument && (doc.Path != "" || (f.Kind == KindConstant && f.Value == nil) ||
		(f.Kind == KindProperty && f.Name == "")) {
		doc.Kind = f.Kind
	}

	if doc.Path != "" && doc.pathOnly() {
		return doc.Path, nil
	}

	return doc, nil
}

// --- Actions YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for Actions.
// Accepts:
//   - Single name: Trim
//   - Map, one action per key in order: {Trim: null, Append: {string: "-x"}}
//   - Array of names and single-key maps: [Trim, {Split: {delimiter: ";"}}, {Append: "-x"}]
func (a *Actions) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*a = nil
			return nil
		}

		*a = Actions{{Name: node.Value}}

		return nil

	case yaml.MappingNode:
		acts, err := parseActionMap(node)
		if err != nil {
			return err
		}

		*a = acts

		return nil

	case yaml.SequenceNode:
		var acts Actions

		for _, item := range node.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				acts = append(acts, Action{Name: item.Value})
			case yaml.MappingNode:
				parsed, err := parseActionMap(item)
				if err != nil {
					return err
				}

				acts = append(acts, parsed...)
			default:
				return fmt.Errorf("line %d: expected action name or map in array, got %v", item.Line, item.Kind)
			}
		}

		*a = acts

		return nil

	default:
		return fmt.Errorf("line %d: expected action name, map, or array, got %v", node.Line, node.Kind)
	}
}

// parseActionMap parses {Name: params} pairs in document order.
func parseActionMap(node *yaml.Node) (Actions, error) {
	if len(node.Content)%2 != 0 {
		return nil, errors.New("malformed action map")
	}

	var acts Actions

	for i := 0; i < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		act := Action{Name: key.Value}

		switch {
		case val.Kind == yaml.ScalarNode && val.Tag == "!!null":
		case val.Kind == yaml.ScalarNode:
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, fmt.Errorf("action %s: %w", act.Name, err)
			}

			act.Params = map[string]any{ValueParam: v}
		case val.Kind == yaml.MappingNode:
			if err := val.Decode(&act.Params); err != nil {
				return nil, fmt.Errorf("action %s: %w", act.Name, err)
			}
		default:
			return nil, fmt.Errorf("line %d: invalid parameters for action %s", val.Line, act.Name)
		}

		acts = append(acts, act)
	}

	return acts, nil
}

// MarshalYAML implements custom YAML marshaling for Actions.
// Parameterless actions are written as bare names.
func (a Actions) MarshalYAML() (any, error) {
	if len(a) == 0 {
		return nil, nil
	}

	result := make([]any, len(a))

	for i, act := range a {
		if len(act.Params) == 0 {
			result[i] = act.Name
			continue
		}

		if v, ok := act.Params[ValueParam]; ok && len(act.Params) == 1 {
			result[i] = map[string]any{act.Name: v}
			continue
		}

		result[i] = map[string]any{act.Name: act.Params}
	}

	return result, nil
}
