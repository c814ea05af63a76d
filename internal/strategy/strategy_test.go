package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_Default(t *testing.T) {
	s := DefaultCombine()

	assert.Equal(t, "bar bar3", s.Combine(map[int]string{0: "bar", 1: "bar3"}, Delimiter{}))
	assert.Equal(t, "bar bar3", s.Combine(map[int]string{1: "bar3", 0: " bar "}, Delimiter{}))
	assert.Equal(t, "bar  baz", s.Combine(map[int]string{0: "bar", 2: "baz"}, Delimiter{}))
	assert.Equal(t, " a", s.Combine(map[int]string{1: "a"}, Delimiter{}))
	assert.Empty(t, s.Combine(nil, Delimiter{}))
	assert.Empty(t, s.Combine(map[int]string{-1: "x"}, Delimiter{}))
}

func TestCombine_Options(t *testing.T) {
	values := map[int]string{0: "a", 2: " c ", 3: "d"}

	tests := []struct {
		name     string
		strategy CombineStrategy
		delim    Delimiter
		want     string
	}{
		{"explicit delimiter", DefaultCombine(), Comma, "a,,c,d"},
		{"strategy delimiter", CombineStrategy{Delimiter: Pipe, AutoTrim: true}, Delimiter{}, "a||c|d"},
		{"skip gaps", CombineStrategy{NullGaps: NullGapsSkip, AutoTrim: true}, Dash, "a-c-d"},
		{"no trim", CombineStrategy{NullGaps: NullGapsSkip}, Dash, "a- c -d"},
		{"limit", CombineStrategy{Limit: 2, NullGaps: NullGapsSkip, AutoTrim: true}, Comma, "a,c"},
		{"limit counts gaps", CombineStrategy{Limit: 2, AutoTrim: true}, Comma, "a,"},
		{"literal", DefaultCombine(), Literal(" / "), "a /  / c / d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.strategy.Combine(values, tt.delim))
		})
	}
}

func TestSeparate(t *testing.T) {
	s := DefaultSeparate()

	assert.Equal(t, []string{"bar", "blerg"}, s.Separate("bar blerg", Delimiter{}))
	assert.Equal(t, []string{"a", "", "b"}, s.Separate("a  b", Delimiter{}))
	assert.Equal(t, []string{"a", "b"}, s.Separate("  a \t b ", MultiSpace))
	assert.Equal(t, []string{"x", "y", "z"}, s.Separate("x,y,z", Comma))
	assert.Equal(t, []string{"x", "y,z"}, SeparateStrategy{Limit: 2}.Separate("x,y,z", Comma))
	assert.Nil(t, s.Separate("", Comma))
}

func TestParseDelimiter(t *testing.T) {
	for _, name := range Names() {
		d, err := ParseDelimiter(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, d.Name())
	}

	d, err := ParseDelimiter("Multi-Space")
	require.NoError(t, err)
	assert.Equal(t, MultiSpace.Name(), d.Name())

	_, err = ParseDelimiter("tilde")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	d, err := Resolve("comma", "::")
	require.NoError(t, err)
	assert.Equal(t, "::", d.Text())
	assert.Equal(t, `custom("::")`, d.String())

	d, err = Resolve("semicolon", "")
	require.NoError(t, err)
	assert.Equal(t, ";", d.Text())

	d, err = Resolve("", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = Resolve("nope", "")
	assert.Error(t, err)
}

func TestParseNullGapPolicy(t *testing.T) {
	p, err := ParseNullGapPolicy("SKIP")
	require.NoError(t, err)
	assert.Equal(t, NullGapsSkip, p)
	assert.Equal(t, "skip", p.String())

	_, err = ParseNullGapPolicy("collapse")
	assert.Error(t, err)
}
