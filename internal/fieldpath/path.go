package fieldpath

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNegativeIndex           = errors.New("cannot set negative collection index")
	ErrNotACollection          = errors.New("segment is not a collection")
	ErrSegmentOutOfRange       = errors.New("segment position out of range")
	ErrCollectionCountMismatch = errors.New("paths have a different number of collection segments")
)

// Path is a parsed field address. Segment 0 is always the synthetic root.
type Path struct {
	original string
	segments []Segment
}

// Parse parses a slash-delimited path. Empty input yields the root path.
func Parse(text string) *Path {
	p := &Path{original: text, segments: []Segment{rootSegment()}}

	for token := range strings.SplitSeq(text, Separator) {
		if token == "" {
			continue
		}

		p.segments = append(p.segments, ParseSegment(token))
	}

	return p
}

// Original returns the text the path was parsed from.
func (p *Path) Original() string {
	return p.original
}

// String renders the path from its current segments.
func (p *Path) String() string {
	if len(p.segments) <= 1 {
		return Separator
	}

	var b strings.Builder
	for _, s := range p.segments[1:] {
		b.WriteString(Separator)
		b.WriteString(s.Expression())
	}

	return b.String()
}

// Len returns the number of segments including the root.
func (p *Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether the path addresses the document root.
func (p *Path) IsRoot() bool {
	return len(p.segments) == 1
}

// Segment returns the segment at position pos (0 is the root).
func (p *Path) Segment(pos int) Segment {
	return p.segments[pos]
}

// Segments returns a copy of the segments, optionally including the root.
func (p *Path) Segments(includeRoot bool) []Segment {
	if includeRoot {
		return append([]Segment(nil), p.segments...)
	}

	return append([]Segment(nil), p.segments[1:]...)
}

// LastSegment returns the last segment, the root for a root path.
func (p *Path) LastSegment() Segment {
	return p.segments[len(p.segments)-1]
}

// Clone returns an independent copy of the path.
func (p *Path) Clone() *Path {
	return &Path{original: p.original, segments: p.Segments(true)}
}

// Append returns a new path with expr added as the trailing segment.
func (p *Path) Append(expr string) *Path {
	c := p.Clone()
	c.segments = append(c.segments, ParseSegment(strings.Trim(expr, Separator)))
	c.original = c.String()

	return c
}

// Parent returns the path without its last segment.
func (p *Path) Parent() *Path {
	if p.IsRoot() {
		return p.Clone()
	}

	return &Path{original: p.original, segments: append([]Segment(nil), p.segments[:len(p.segments)-1]...)}
}

// CollectionPositions returns the positions of all collection segments, in order.
func (p *Path) CollectionPositions() []int {
	var positions []int

	for i, s := range p.segments {
		if s.IsCollection() {
			positions = append(positions, i)
		}
	}

	return positions
}

// CollectionSegmentCount returns the number of collection segments.
func (p *Path) CollectionSegmentCount() int {
	return len(p.CollectionPositions())
}

// HasCollection reports whether any segment addresses a collection.
func (p *Path) HasCollection() bool {
	return p.CollectionSegmentCount() > 0
}

// IsIndexedCollection reports whether every collection segment is bound to an index or key.
func (p *Path) IsIndexedCollection() bool {
	positions := p.CollectionPositions()
	if len(positions) == 0 {
		return false
	}

	for _, pos := range positions {
		if !p.segments[pos].IsBound() {
			return false
		}
	}

	return true
}

// SetCollectionIndex binds the array or list segment at pos to index.
func (p *Path) SetCollectionIndex(pos, index int) error {
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}

	seg, err := p.collectionAt(pos)
	if err != nil {
		return err
	}

	if seg.Collection() == CollectionMap {
		return fmt.Errorf("%w: %q is a map, use a key", ErrNotACollection, seg.Expression())
	}

	p.segments[pos] = seg.WithIndex(index)

	return nil
}

// SetMapKey binds the map segment at pos to key.
func (p *Path) SetMapKey(pos int, key string) error {
	seg, err := p.collectionAt(pos)
	if err != nil {
		return err
	}

	if seg.Collection() != CollectionMap {
		return fmt.Errorf("%w: %q is not a map", ErrNotACollection, seg.Expression())
	}

	p.segments[pos] = seg.WithMapKey(key)

	return nil
}

// ClearCollectionIndex makes the collection slot at pos vacant.
func (p *Path) ClearCollectionIndex(pos int) error {
	seg, err := p.collectionAt(pos)
	if err != nil {
		return err
	}

	p.segments[pos] = seg.WithoutIndex()

	return nil
}

// CopyCollectionIndexes transfers the collection bindings of from onto p,
// pairing collection segments positionally.
func (p *Path) CopyCollectionIndexes(from *Path) error {
	dst := p.CollectionPositions()
	src := from.CollectionPositions()

	if len(dst) != len(src) {
		return fmt.Errorf("%w: %d != %d", ErrCollectionCountMismatch, len(src), len(dst))
	}

	for i, pos := range dst {
		s := from.segments[src[i]]
		d := p.segments[pos]

		switch {
		case !s.IsBound():
			p.segments[pos] = d.WithoutIndex()
		case s.Collection() == CollectionMap && d.Collection() == CollectionMap:
			key, _ := s.MapKey()
			p.segments[pos] = d.WithMapKey(key)
		case s.Collection() != CollectionMap && d.Collection() != CollectionMap:
			index, _ := s.Index()
			p.segments[pos] = d.WithIndex(index)
		}
	}

	return nil
}

func (p *Path) collectionAt(pos int) (Segment, error) {
	if pos < 0 || pos >= len(p.segments) {
		return Segment{}, fmt.Errorf("%w: %d", ErrSegmentOutOfRange, pos)
	}

	seg := p.segments[pos]
	if !seg.IsCollection() {
		return Segment{}, fmt.Errorf("%w: %q", ErrNotACollection, seg.Expression())
	}

	return seg, nil
}
