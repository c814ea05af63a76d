package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"fieldmapper/internal/fieldpath"
	"fieldmapper/internal/mapping"
)

var ErrNoTargetPath = errors.New("target field has no path")

// CardinalityCounter reports the net collection depth change of an action chain.
type CardinalityCounter interface {
	CardinalityDelta(actions mapping.Actions) int
}

// Correlator binds target collection indices. It remembers the last path
// bound for each target document and template until Reset, so the engine
// resets it before every mapping entry.
type Correlator struct {
	counter CardinalityCounter
	logger  *slog.Logger
	last    map[string]*fieldpath.Path
}

// NewCorrelator creates a Correlator. A nil counter treats every action
// chain as depth neutral.
func NewCorrelator(counter CardinalityCounter, logger *slog.Logger) *Correlator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Correlator{counter: counter, logger: logger, last: make(map[string]*fieldpath.Path)}
}

// Reset forgets every previously bound target path.
func (c *Correlator) Reset() {
	clear(c.last)
}

// Correlate binds the collection segments of target's path. parent is the
// group source was taken from, or nil. The bound path is stored on target
// and returned in its string form.
func (c *Correlator) Correlate(source *mapping.Field, parent mapping.FieldValue, target *mapping.Field) (string, error) {
	if target.Path == nil {
		return "", ErrNoTargetPath
	}

	template := target.Path.String()
	key := target.DocID + ":" + template
	srcPath := source.ResolvedPath()
	tgtPath := target.Path

	targetCount := tgtPath.CollectionSegmentCount()
	if _, ok := target.IndexValue(); ok {
		targetCount++
	}

	sourceCount := srcPath.CollectionSegmentCount() + c.delta(source.Actions)
	if parent != nil && parent.Base() != source {
		sourceCount += c.delta(parent.Base().Actions)
	}

	if _, ok := source.IndexValue(); ok {
		sourceCount--
	}

	srcPositions := srcPath.CollectionPositions()
	tgtPositions := tgtPath.CollectionPositions()

	padding := min(max(targetCount-sourceCount, 0), len(tgtPositions))
	for _, pos := range tgtPositions[:padding] {
		if tgtPath.Segment(pos).IsBound() {
			continue
		}

		if err := bindIndex(tgtPath, pos, 0); err != nil {
			return "", err
		}
	}

	remaining := tgtPositions[padding:]
	flattening := len(srcPositions) > len(remaining)

	for j, pos := range remaining {
		last := j == len(remaining)-1

		if j < len(srcPositions) && !(flattening && last) {
			src := srcPath.Segment(srcPositions[j])
			if indexes(src, tgtPath.Segment(pos)) {
				if err := copyBinding(tgtPath, pos, src); err != nil {
					return "", err
				}

				continue
			}
		}

		if tgtPath.Segment(pos).IsBound() {
			continue
		}

		next := 0
		if last {
			next = c.nextIndex(key, tgtPath, remaining)
		}

		if err := bindIndex(tgtPath, pos, next); err != nil {
			return "", err
		}
	}

	c.last[key] = tgtPath.Clone()

	c.logger.Debug("correlated collection indexes",
		"source", srcPath.String(),
		"template", template,
		"target", tgtPath.String(),
		"source_count", sourceCount,
		"target_count", targetCount)

	return tgtPath.String(), nil
}

func (c *Correlator) delta(actions mapping.Actions) int {
	if c.counter == nil || len(actions) == 0 {
		return 0
	}

	return c.counter.CardinalityDelta(actions)
}

// nextIndex continues the previous write to the same document and template
// when every outer collection binding is unchanged, and restarts at 0
// otherwise.
func (c *Correlator) nextIndex(key string, current *fieldpath.Path, positions []int) int {
	prev, ok := c.last[key]
	if !ok || prev.Len() != current.Len() {
		return 0
	}

	lastPos := positions[len(positions)-1]
	outer := slices.DeleteFunc(current.CollectionPositions(), func(pos int) bool { return pos == lastPos })

	for _, pos := range outer {
		if !prev.Segment(pos).Equal(current.Segment(pos)) {
			return 0
		}
	}

	seg := prev.Segment(lastPos)

	if seg.Collection() == fieldpath.CollectionMap {
		key, _ := seg.MapKey()
		if i, err := strconv.Atoi(key); err == nil {
			return i + 1
		}

		return 0
	}

	if i, ok := seg.Index(); ok {
		return i + 1
	}

	return 0
}

// bindIndex binds pos to index; map segments get the decimal index as key.
func bindIndex(p *fieldpath.Path, pos, index int) error {
	if p.Segment(pos).Collection() == fieldpath.CollectionMap {
		return p.SetMapKey(pos, strconv.Itoa(index))
	}

	return p.SetCollectionIndex(pos, index)
}

// indexes reports whether the bound source segment src can supply the
// binding of target. A non-numeric map key cannot index an array or list.
func indexes(src, target fieldpath.Segment) bool {
	if !src.IsBound() {
		return false
	}

	if src.Collection() != fieldpath.CollectionMap || target.Collection() == fieldpath.CollectionMap {
		return true
	}

	key, _ := src.MapKey()
	_, err := strconv.Atoi(key)

	return err == nil
}

func copyBinding(p *fieldpath.Path, pos int, src fieldpath.Segment) error {
	target := p.Segment(pos)

	if src.Collection() == fieldpath.CollectionMap {
		key, _ := src.MapKey()

		if target.Collection() == fieldpath.CollectionMap {
			return p.SetMapKey(pos, key)
		}

		i, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("map key %q cannot index %s: %w", key, target.Expression(), err)
		}

		return p.SetCollectionIndex(pos, i)
	}

	i, _ := src.Index()

	return bindIndex(p, pos, i)
}
