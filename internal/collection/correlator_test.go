package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

// depth counts Split as +1 and Join as -1.
type depth struct{}

func (depth) CardinalityDelta(actions mapping.Actions) int {
	n := 0

	for _, a := range actions {
		switch a.Name {
		case "Split":
			n++
		case "Join":
			n--
		}
	}

	return n
}

func src(path string, actions ...mapping.Action) *mapping.Field {
	f := mapping.NewField("src", path, primitive.TypeString)
	f.Actions = actions

	return f
}

func tgt(path string) *mapping.Field {
	return mapping.NewField("tgt", path, primitive.TypeString)
}

func correlate(t *testing.T, c *Correlator, source *mapping.Field, parent mapping.FieldValue, target string) string {
	t.Helper()

	got, err := c.Correlate(source, parent, tgt(target))
	require.NoError(t, err)

	return got
}

func TestCorrelate_CopiesSourceIndexes(t *testing.T) {
	c := NewCorrelator(nil, nil)

	tests := []struct {
		source string
		target string
		want   string
	}{
		{"/orders[3]/sku", "/lines[]/sku", "/lines[3]/sku"},
		{"/a[1]/b<2>/c", "/x[]/y<>/z", "/x[1]/y<2>/z"},
		{"/a{eu}/v", "/m{}/v", "/m{eu}/v"},
		{"/a[4]/v", "/m{}/v", "/m{4}/v"},
		{"/a{7}/v", "/x[]/v", "/x[7]/v"},
		{"/name", "/name", "/name"},
	}

	for _, tt := range tests {
		t.Run(tt.source+" -> "+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, correlate(t, c, src(tt.source), nil, tt.target))
		})
	}
}

func TestCorrelate_Padding(t *testing.T) {
	c := NewCorrelator(nil, nil)

	assert.Equal(t, "/orders[0]/name", correlate(t, c, src("/name"), nil, "/orders[]/name"))
	assert.Equal(t, "/a[0]/b[5]/v", correlate(t, c, src("/items[5]/v"), nil, "/a[]/b[]/v"))

	// an already bound padding slot is kept
	assert.Equal(t, "/a[2]/b[5]/v", correlate(t, c, src("/items[5]/v"), nil, "/a[2]/b[]/v"))
}

func TestCorrelate_MonotonicAfterSplit(t *testing.T) {
	c := NewCorrelator(depth{}, nil)

	parent := mapping.NewFieldGroup(src("/csv", mapping.Action{Name: "Split"}))

	var got []string
	for range 3 {
		child := src("/csv")
		parent.Add(child)
		got = append(got, correlate(t, c, child, parent, "/rows[]/value"))
	}

	assert.Equal(t, []string{"/rows[0]/value", "/rows[1]/value", "/rows[2]/value"}, got)
}

func TestCorrelate_SeparatesTargetDocuments(t *testing.T) {
	c := NewCorrelator(depth{}, nil)
	parent := mapping.NewFieldGroup(src("/csv", mapping.Action{Name: "Split"}))

	bind := func(doc string) string {
		target := mapping.NewField(doc, "/rows[]/v", primitive.TypeString)

		got, err := c.Correlate(src("/csv"), parent, target)
		require.NoError(t, err)

		return got
	}

	assert.Equal(t, "/rows[0]/v", bind("a"))
	assert.Equal(t, "/rows[1]/v", bind("a"))
	assert.Equal(t, "/rows[0]/v", bind("b"))
	assert.Equal(t, "/rows[2]/v", bind("a"))
}

func TestCorrelate_MapKeysIntoArray(t *testing.T) {
	c := NewCorrelator(nil, nil)

	got := []string{
		correlate(t, c, src("/m{eu}"), nil, "/out[]"),
		correlate(t, c, src("/m{us}"), nil, "/out[]"),
		correlate(t, c, src("/m{3}"), nil, "/out[]"),
		correlate(t, c, src("/regions{eu}/v"), nil, "/names<>/v"),
	}

	assert.Equal(t, []string{"/out[0]", "/out[1]", "/out[3]", "/names<0>/v"}, got)
}

func TestCorrelate_ResetsOnParentChange(t *testing.T) {
	c := NewCorrelator(depth{}, nil)

	split := mapping.Action{Name: "Split"}
	first := mapping.NewFieldGroup(src("/orders[0]/tags", split))
	second := mapping.NewFieldGroup(src("/orders[1]/tags", split))

	got := []string{
		correlate(t, c, src("/orders[0]/tags"), first, "/orders[]/tags[]"),
		correlate(t, c, src("/orders[0]/tags"), first, "/orders[]/tags[]"),
		correlate(t, c, src("/orders[1]/tags"), second, "/orders[]/tags[]"),
		correlate(t, c, src("/orders[1]/tags"), second, "/orders[]/tags[]"),
	}

	assert.Equal(t, []string{
		"/orders[0]/tags[0]",
		"/orders[0]/tags[1]",
		"/orders[1]/tags[0]",
		"/orders[1]/tags[1]",
	}, got)
}

func TestCorrelate_Flattening(t *testing.T) {
	c := NewCorrelator(nil, nil)

	got := []string{
		correlate(t, c, src("/a[0]/b[0]/v"), nil, "/flat[]/v"),
		correlate(t, c, src("/a[0]/b[1]/v"), nil, "/flat[]/v"),
		correlate(t, c, src("/a[1]/b[0]/v"), nil, "/flat[]/v"),
	}

	assert.Equal(t, []string{"/flat[0]/v", "/flat[1]/v", "/flat[2]/v"}, got)
}

func TestCorrelate_PositionalIndexes(t *testing.T) {
	c := NewCorrelator(nil, nil)

	// a source taken out of a group by position consumes one collection level
	source := src("/items[4]/v")
	source.SetIndex(4)

	assert.Equal(t, "/out[0]/v", correlate(t, c, source, nil, "/out[]/v"))

	// a positional target index claims a collection level of its own
	target := tgt("/out[]/v")
	target.SetIndex(1)

	got, err := c.Correlate(src("/items[4]/v"), nil, target)
	require.NoError(t, err)
	assert.Equal(t, "/out[0]/v", got)
	assert.Equal(t, got, target.PathString())
}

func TestCorrelate_Reset(t *testing.T) {
	c := NewCorrelator(depth{}, nil)
	parent := mapping.NewFieldGroup(src("/csv", mapping.Action{Name: "Split"}))

	correlate(t, c, src("/csv"), parent, "/rows[]")
	assert.Equal(t, "/rows[1]", correlate(t, c, src("/csv"), parent, "/rows[]"))

	c.Reset()
	assert.Equal(t, "/rows[0]", correlate(t, c, src("/csv"), parent, "/rows[]"))
}

func TestCorrelate_NoTargetPath(t *testing.T) {
	_, err := NewCorrelator(nil, nil).Correlate(src("/a"), nil, &mapping.Field{})
	require.ErrorIs(t, err, ErrNoTargetPath)
}
