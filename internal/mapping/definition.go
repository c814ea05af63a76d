package mapping

import (
	"fmt"
	"slices"
	"strings"

	"fieldmapper/primitive"
)

//go:generate go tool stringer -type=MappingType -linecomment -output=mapping_type_string.go

// MappingType selects how a mapping moves values from inputs to outputs.
type MappingType int

const (
	MappingMap        MappingType = iota // map
	MappingCombine                       // combine
	MappingSeparate                      // separate
	MappingLookup                        // lookup
	MappingCollection                    // collection
)

// ParseMappingType parses a mapping type name case-insensitively.
func ParseMappingType(s string) (MappingType, error) {
	for t := MappingMap; t <= MappingCollection; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}

	return MappingMap, fmt.Errorf("unknown mapping type %q", s)
}

func (t MappingType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *MappingType) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*t = MappingMap
		return nil
	}

	parsed, err := ParseMappingType(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// Mapping is one source-to-target correspondence.
type Mapping struct {
	ID          string      `yaml:"id,omitempty"`
	Type        MappingType `yaml:"type,omitempty"`
	Description string      `yaml:"description,omitempty"`

	// Delimiter names a delimiter for combine and separate; DelimiterString
	// overrides it with a literal.
	Delimiter       string `yaml:"delimiter,omitempty"`
	DelimiterString string `yaml:"delimiter_string,omitempty"`

	LookupTable string `yaml:"lookup_table,omitempty"`

	Inputs  []*Field `yaml:"inputs,omitempty"`
	Outputs []*Field `yaml:"outputs,omitempty"`

	// Mappings holds the children of a collection mapping.
	Mappings []*Mapping `yaml:"mappings,omitempty"`
}

// EffectiveType resolves the processing type: a map with a lookup table is a lookup.
func (m *Mapping) EffectiveType() MappingType {
	if m.Type == MappingMap && m.LookupTable != "" {
		return MappingLookup
	}

	return m.Type
}

// Clone returns a deep copy of the mapping and its children.
func (m *Mapping) Clone() *Mapping {
	c := *m
	c.Inputs = cloneFields(m.Inputs)
	c.Outputs = cloneFields(m.Outputs)

	if m.Mappings != nil {
		c.Mappings = make([]*Mapping, len(m.Mappings))
		for i, child := range m.Mappings {
			if child != nil {
				c.Mappings[i] = child.Clone()
			}
		}
	}

	return &c
}

func cloneFields(fields []*Field) []*Field {
	if fields == nil {
		return nil
	}

	out := make([]*Field, len(fields))
	for i, f := range fields {
		if f != nil {
			out[i] = f.Copy()
		}
	}

	return out
}

// DocumentRole tells whether a catalogued document is read or written.
type DocumentRole string

const (
	RoleSource DocumentRole = "source"
	RoleTarget DocumentRole = "target"
)

// Document is a catalog entry naming a document id.
type Document struct {
	ID   string       `yaml:"id"`
	Name string       `yaml:"name,omitempty"`
	Role DocumentRole `yaml:"role,omitempty"`
}

// Property is a definition-scope named value.
type Property struct {
	Name  string              `yaml:"name"`
	Value any                 `yaml:"value"`
	Type  primitive.FieldType `yaml:"type,omitempty"`
}

// LookupEntry maps one source value to a target value.
type LookupEntry struct {
	Source     string              `yaml:"source"`
	Target     string              `yaml:"target"`
	TargetType primitive.FieldType `yaml:"target_type,omitempty"`
}

// LookupTable is an ordered list of entries; the first match wins.
type LookupTable struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Entries     []LookupEntry `yaml:"entries"`
}

// Lookup returns the first entry whose source equals value.
func (t *LookupTable) Lookup(value string) (LookupEntry, bool) {
	for _, e := range t.Entries {
		if e.Source == value {
			return e, true
		}
	}

	return LookupEntry{}, false
}

// Definition is a complete mapping definition document.
type Definition struct {
	Name         string        `yaml:"name,omitempty"`
	Documents    []Document    `yaml:"documents,omitempty"`
	Properties   []Property    `yaml:"properties,omitempty"`
	LookupTables []LookupTable `yaml:"lookup_tables,omitempty"`
	Mappings     []*Mapping    `yaml:"mappings"`
}

// FindLookupTable returns the named table, or nil.
func (d *Definition) FindLookupTable(name string) *LookupTable {
	for i := range d.LookupTables {
		if d.LookupTables[i].Name == name {
			return &d.LookupTables[i]
		}
	}

	return nil
}

// LookupTableNames returns the table names in declaration order.
func (d *Definition) LookupTableNames() []string {
	names := make([]string, len(d.LookupTables))
	for i, t := range d.LookupTables {
		names[i] = t.Name
	}

	return names
}

// FindProperty returns the named definition-scope property.
func (d *Definition) FindProperty(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}

	return Property{}, false
}

// DocumentName returns the catalogued name of a document id, or the id itself.
func (d *Definition) DocumentName(id string) string {
	for _, doc := range d.Documents {
		if doc.ID == id && doc.Name != "" {
			return doc.Name
		}
	}

	return id
}

// DocumentIDs returns the catalogued document ids.
func (d *Definition) DocumentIDs() []string {
	ids := make([]string, len(d.Documents))
	for i, doc := range d.Documents {
		ids[i] = doc.ID
	}

	return ids
}

// Flatten returns the executable mappings in order. Collection mappings are
// replaced by their direct children; a collection nested inside a collection
// is kept as is and is not executed.
func (d *Definition) Flatten() []*Mapping {
	var out []*Mapping

	for _, m := range d.Mappings {
		if m == nil {
			continue
		}

		if m.Type == MappingCollection {
			out = append(out, m.Mappings...)
			continue
		}

		out = append(out, m)
	}

	return out
}

// Clone returns a deep copy that shares no mutable state with d.
func (d *Definition) Clone() *Definition {
	c := &Definition{
		Name:       d.Name,
		Documents:  slices.Clone(d.Documents),
		Properties: slices.Clone(d.Properties),
	}

	if d.LookupTables != nil {
		c.LookupTables = make([]LookupTable, len(d.LookupTables))
		for i, t := range d.LookupTables {
			t.Entries = slices.Clone(t.Entries)
			c.LookupTables[i] = t
		}
	}

	if d.Mappings != nil {
		c.Mappings = make([]*Mapping, len(d.Mappings))
		for i, m := range d.Mappings {
			if m != nil {
				c.Mappings[i] = m.Clone()
			}
		}
	}

	return c
}
