package fieldpath

import (
	"strconv"
	"strings"
)

// CollectionType is the kind of collection a path segment addresses.
type CollectionType int

const (
	CollectionNone CollectionType = iota
	CollectionArray
	CollectionList
	CollectionMap
)

// String returns the lower-case name of the collection type.
func (c CollectionType) String() string {
	switch c {
	case CollectionArray:
		return "array"
	case CollectionList:
		return "list"
	case CollectionMap:
		return "map"
	default:
		return "none"
	}
}

// Path syntax markers.
const (
	Separator       = "/"
	AttributePrefix = "@"
	NamespaceSep    = ":"
)

var collectionMarkers = []struct {
	kind      CollectionType
	open, end string
}{
	{CollectionArray, "[", "]"},
	{CollectionList, "<", ">"},
	{CollectionMap, "{", "}"},
}

func markers(kind CollectionType) (open, end string) {
	for _, m := range collectionMarkers {
		if m.kind == kind {
			return m.open, m.end
		}
	}

	return "", ""
}

// Segment is one slash-delimited token of a Path. Segments are immutable;
// index changes produce a new Segment.
type Segment struct {
	expression string
	name       string
	namespace  string
	collection CollectionType
	index      int
	hasIndex   bool
	mapKey     string
	attribute  bool
	root       bool
}

// ParseSegment parses a single path token such as "ns:items[2]" or "@id".
func ParseSegment(expr string) Segment {
	s := Segment{expression: expr}

	body := expr
	if strings.HasPrefix(body, AttributePrefix) {
		s.attribute = true
		body = body[len(AttributePrefix):]
	}

	for _, m := range collectionMarkers {
		start := strings.Index(body, m.open)
		if start < 0 {
			continue
		}

		s.collection = m.kind

		inner := body[start+len(m.open):]
		if end := strings.LastIndex(inner, m.end); end >= 0 {
			inner = inner[:end]
		}

		switch m.kind {
		case CollectionMap:
			s.mapKey = inner
		default:
			if i, err := strconv.Atoi(inner); err == nil && i >= 0 {
				s.index, s.hasIndex = i, true
			}
		}

		body = body[:start]

		break
	}

	if ns, local, ok := strings.Cut(body, NamespaceSep); ok {
		s.namespace = ns
		body = local
	}

	s.name = body

	return s
}

func rootSegment() Segment {
	return Segment{root: true}
}

// Name is the segment name without namespace, attribute marker and collection notation.
func (s Segment) Name() string { return s.name }

// Expression is the raw token the segment was built from.
func (s Segment) Expression() string { return s.expression }

// Namespace is the namespace prefix, if any.
func (s Segment) Namespace() string { return s.namespace }

// Collection is the collection kind addressed by the segment.
func (s Segment) Collection() CollectionType { return s.collection }

// IsCollection reports whether the segment addresses a collection.
func (s Segment) IsCollection() bool { return s.collection != CollectionNone }

// Index returns the bound collection index of an array or list segment.
func (s Segment) Index() (int, bool) { return s.index, s.hasIndex }

// MapKey returns the bound key of a map segment.
func (s Segment) MapKey() (string, bool) { return s.mapKey, s.mapKey != "" }

// IsBound reports whether a collection segment carries a concrete index or key.
func (s Segment) IsBound() bool {
	switch s.collection {
	case CollectionNone:
		return false
	case CollectionMap:
		return s.mapKey != ""
	default:
		return s.hasIndex
	}
}

func (s Segment) IsAttribute() bool { return s.attribute }

func (s Segment) IsRoot() bool { return s.root }

// WithIndex returns a copy of an array or list segment bound to index.
func (s Segment) WithIndex(index int) Segment {
	s.index, s.hasIndex = index, true
	return s.Rebuild()
}

// WithoutIndex returns a copy of the segment with a vacant collection slot.
func (s Segment) WithoutIndex() Segment {
	s.index, s.hasIndex, s.mapKey = 0, false, ""
	return s.Rebuild()
}

// WithMapKey returns a copy of a map segment bound to key.
func (s Segment) WithMapKey(key string) Segment {
	s.mapKey = key
	return s.Rebuild()
}

// Rebuild recomputes the expression from the segment attributes.
func (s Segment) Rebuild() Segment {
	if s.root {
		s.expression = ""
		return s
	}

	var b strings.Builder

	if s.attribute {
		b.WriteString(AttributePrefix)
	}

	if s.namespace != "" {
		b.WriteString(s.namespace)
		b.WriteString(NamespaceSep)
	}

	b.WriteString(s.name)

	if open, end := markers(s.collection); open != "" {
		b.WriteString(open)

		switch {
		case s.collection == CollectionMap:
			b.WriteString(s.mapKey)
		case s.hasIndex:
			b.WriteString(strconv.Itoa(s.index))
		}

		b.WriteString(end)
	}

	s.expression = b.String()

	return s
}

// Equal compares the addressing attributes of two segments, ignoring the raw expression.
func (s Segment) Equal(other Segment) bool {
	return s.name == other.name &&
		s.namespace == other.namespace &&
		s.collection == other.collection &&
		s.hasIndex == other.hasIndex &&
		s.index == other.index &&
		s.mapKey == other.mapKey &&
		s.attribute == other.attribute &&
		s.root == other.root
}

// String returns the segment expression.
func (s Segment) String() string {
	return s.expression
}
