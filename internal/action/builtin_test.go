package action

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmapper/internal/mapping"
)

func act(name string, params map[string]any) mapping.Action {
	return mapping.Action{Name: name, Params: params}
}

func TestTextActions(t *testing.T) {
	tests := []struct {
		name   string
		fn     Func
		action mapping.Action
		in     any
		want   any
	}{
		{"uppercase", uppercase, act("Uppercase", nil), "straße", "STRASSE"},
		{"lowercase", lowercase, act("Lowercase", nil), "HeLLo", "hello"},
		{"capitalize", capitalize, act("Capitalize", nil), "émile", "Émile"},
		{"trim", trim, act("Trim", nil), "  x  ", "x"},
		{"trim left", trimLeft, act("TrimLeft", nil), "  x  ", "x  "},
		{"trim right", trimRight, act("TrimRight", nil), "  x  ", "  x"},
		{"append", appendString, act("Append", map[string]any{"string": "!"}), "hi", "hi!"},
		{"append short form", appendString, act("Append", map[string]any{mapping.ValueParam: "?"}), "hi", "hi?"},
		{"prepend", prependString, act("Prepend", map[string]any{"string": "#"}), "1", "#1"},
		{"replace", replace, act("Replace", map[string]any{"old": "-", "new": "/"}), "a-b-c", "a/b/c"},
		{"substring", subString, act("SubString", map[string]any{"start": 1, "end": 3}), "héllo", "él"},
		{"length of text", length, act("Length", nil), "héllo", int64(5)},
		{"length of null", length, act("Length", nil), nil, int64(-1)},
		{"length of list", length, act("Length", nil), []any{1, 2}, int64(2)},
		{"is null", isNull, act("IsNull", nil), nil, true},
		{"null passes through", uppercase, act("Uppercase", nil), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.action, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextActions_Errors(t *testing.T) {
	_, err := subString(act("SubString", map[string]any{"start": 2, "end": 10}), "abc")
	require.Error(t, err)

	_, err = uppercase(act("Uppercase", nil), 12)
	require.Error(t, err)
}

func TestNumberActions(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name string
		fn   Func
		in   any
		want any
	}{
		{"abs int", absoluteValue, int64(-4), int64(4)},
		{"abs float", absoluteValue, -1.5, 1.5},
		{"ceiling", ceiling, 1.2, int64(2)},
		{"floor", floor, -1.2, int64(-2)},
		{"round half away", round, 2.5, int64(3)},
		{"round negative", round, -2.5, int64(-3)},
		{"round integer", round, int64(7), int64(7)},
		{"null", round, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(mapping.Action{}, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := absoluteValue(mapping.Action{}, new(big.Int).Neg(huge))
	require.NoError(t, err)
	require.IsType(t, &big.Int{}, got)
	assert.Zero(t, huge.Cmp(got.(*big.Int)))

	_, err = ceiling(mapping.Action{}, "high")
	require.Error(t, err)
}

func TestDayOfWeek(t *testing.T) {
	monday := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	got, err := dayOfWeek(mapping.Action{}, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	got, err = dayOfWeek(mapping.Action{}, monday.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	_, err = dayOfWeek(mapping.Action{}, "monday")
	require.Error(t, err)
}

func TestAggregateActions(t *testing.T) {
	items := []any{int64(3), nil, 1.5, int64(-2)}

	tests := []struct {
		name string
		fn   Func
		in   any
		want any
	}{
		{"sum", sum, items, 2.5},
		{"sum ints", sum, []any{int64(1), int64(2)}, int64(3)},
		{"average", average, []any{int64(1), int64(2)}, 1.5},
		{"average empty", average, []any{}, nil},
		{"maximum", maximum, items, int64(3)},
		{"minimum", minimum, items, int64(-2)},
		{"count", count, items, int64(4)},
		{"count scalar", count, "x", int64(1)},
		{"is empty", isEmpty, []any{nil, ""}, true},
		{"is not empty", isEmpty, []any{nil, "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(mapping.Action{}, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectionActions(t *testing.T) {
	got, err := split(act("Split", nil), "a,b,c")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, got)

	got, err = split(act("Split", map[string]any{"delimiter": "|"}), []any{"a|b", nil, "c"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, got)

	got, err = repeat(act("Repeat", map[string]any{"count": 3}), "x")
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "x", "x"}, got)

	_, err = repeat(act("Repeat", map[string]any{"count": -1}), "x")
	require.Error(t, err)

	got, err = concatenate(act("Concatenate", map[string]any{"delimiter": "-"}), []any{"a", "", nil, "b"})
	require.NoError(t, err)
	assert.Equal(t, "a-b", got)

	got, err = concatenate(act("Concatenate", map[string]any{"delimiter": "-", "delimit_empty": true}), []any{"a", "", "b"})
	require.NoError(t, err)
	assert.Equal(t, "a--b", got)

	got, err = itemAt(act("ItemAt", map[string]any{"index": 1}), []any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", got)

	got, err = itemAt(act("ItemAt", map[string]any{"index": 5}), []any{"a"})
	require.NoError(t, err)
	assert.Nil(t, got)
}
