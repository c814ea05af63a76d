package action

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"fieldmapper/internal/common"
	"fieldmapper/internal/fieldpath"
	"fieldmapper/internal/mapping"
	"fieldmapper/internal/match"
	"fieldmapper/primitive"
)

// Multiplicity tells how many values an action consumes and produces.
type Multiplicity int

const (
	OneToOne Multiplicity = iota
	OneToMany
	ManyToOne
)

func (m Multiplicity) String() string {
	switch m {
	case OneToOne:
		return "one-to-one"
	case OneToMany:
		return "one-to-many"
	case ManyToOne:
		return "many-to-one"
	default:
		return common.UnknownStr
	}
}

// Delta is the change in collection depth an action causes.
func (m Multiplicity) Delta() int {
	switch m {
	case OneToMany:
		return 1
	case ManyToOne:
		return -1
	default:
		return 0
	}
}

// Func implements an action. A many-to-one action receives []any; a
// one-to-many action returns []any.
type Func func(a mapping.Action, value any) (any, error)

// Definition is the metadata and implementation of one action.
type Definition struct {
	Name string
	// SourceType is the type each consumed value is converted to first.
	SourceType primitive.FieldType
	// TargetType is the type of each produced value.
	TargetType   primitive.FieldType
	Multiplicity Multiplicity
	// Params documents the accepted parameters.
	Params      []string
	Description string
	Func        Func
}

// Collections returns the collection kind consumed and produced by the action.
func (d *Definition) Collections() (source, target fieldpath.CollectionType) {
	switch d.Multiplicity {
	case OneToMany:
		return fieldpath.CollectionNone, fieldpath.CollectionList
	case ManyToOne:
		return fieldpath.CollectionList, fieldpath.CollectionNone
	default:
		return fieldpath.CollectionNone, fieldpath.CollectionNone
	}
}

var (
	ErrUnnamedAction = errors.New("action definition has no name")
	ErrNoActionFunc  = errors.New("action definition has no function")
)

// Catalog resolves action metadata by name. Names match regardless of case
// and separators, so "day_of_week" finds DayOfWeek. Safe for concurrent use.
type Catalog struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewCatalog returns a catalog holding every built-in action.
func NewCatalog() *Catalog {
	c := NewEmptyCatalog()
	for _, def := range builtins() {
		if err := c.Register(def); err != nil {
			panic(fmt.Sprintf("built-in action %s: %v", def.Name, err))
		}
	}

	return c
}

// NewEmptyCatalog returns a catalog without actions.
func NewEmptyCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Register adds or replaces an action.
func (c *Catalog) Register(def Definition) error {
	if def.Name == "" {
		return ErrUnnamedAction
	}

	if def.Func == nil {
		return fmt.Errorf("%w: %s", ErrNoActionFunc, def.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.defs[match.NormalizeIdent(def.Name)] = &def

	return nil
}

// Lookup returns the definition of the named action.
func (c *Catalog) Lookup(name string) (*Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.defs[match.NormalizeIdent(name)]

	return def, ok
}

// Has returns true if an action with the given name exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Names returns all action names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.defs))
	for _, def := range c.defs {
		names = append(names, def.Name)
	}

	sort.Strings(names)

	return names
}

// All returns all definitions sorted by name.
func (c *Catalog) All() []*Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs := make([]*Definition, 0, len(c.defs))
	for _, def := range c.defs {
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	return defs
}

// Suggest proposes registered actions for an unknown name, preferring
// actions that accept a value of valueType.
func (c *Catalog) Suggest(name string, valueType primitive.FieldType) []string {
	var typed []match.TypedName

	for _, def := range c.All() {
		typed = append(typed, match.TypedName{
			Name:   def.Name,
			Compat: match.ScoreTypeCompatibility(valueType, def.SourceType, nil),
		})
	}

	ranked := match.RankTypedNames(name, typed)

	var out []string

	for _, cand := range ranked {
		if len(out) == match.DefaultSuggestions {
			break
		}

		if cand.NameScore >= match.DefaultSuggestScore {
			out = append(out, cand.Name)
		}
	}

	return out
}

// CardinalityDelta sums the collection depth change of a chain. Unknown
// actions count as zero.
func (c *Catalog) CardinalityDelta(actions mapping.Actions) int {
	delta := 0

	for _, a := range actions {
		if def, ok := c.Lookup(a.Name); ok {
			delta += def.Multiplicity.Delta()
		}
	}

	return delta
}
