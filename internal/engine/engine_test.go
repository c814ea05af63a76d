package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmapper/internal/action"
	"fieldmapper/internal/common"
	"fieldmapper/internal/diagnostic"
	"fieldmapper/internal/mapping"
	"fieldmapper/internal/testutil"
	"fieldmapper/primitive"
)

const docID = common.DefaultDocumentID

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Config{Logger: testutil.NewTestLogger(t)})
}

// run processes def against a single source document and returns the session.
func run(t *testing.T, eng *Engine, def *mapping.Definition, source map[string]any) *Session {
	t.Helper()

	s := eng.NewSession(def)
	s.SetSourceDocument(docID, source)
	require.NoError(t, eng.Process(s))
	assert.Equal(t, StateDone, s.State())

	return s
}

func target(t *testing.T, s *Session) map[string]any {
	t.Helper()

	doc, ok := s.TargetDocument(docID).(map[string]any)
	require.True(t, ok, "target document was not written")

	return doc
}

func TestProcess_EndToEnd(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - id: m1
    inputs: [/foo]
    outputs: [/woot]
`)

	s := run(t, newEngine(t), def, map[string]any{"foo": "bar"})

	assert.Equal(t, map[string]any{"woot": "bar"}, target(t, s))
	assert.Equal(t, "bar", s.Definition().Mappings[0].Outputs[0].Value)
	assert.Zero(t, s.AuditLog().Count(diagnostic.StatusError))
	assert.NotEmpty(t, s.ID())

	// the canonical definition is untouched
	assert.Nil(t, def.Mappings[0].Outputs[0].Value)
	assert.Empty(t, def.Mappings[0].Outputs[0].DocID)
}

func TestProcess_FailureIsolatedToMapping(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - id: bad
    inputs: [/a]
    outputs: [{path: /n, type: long}]
  - id: good
    inputs: [/b]
    outputs: [/c]
`)

	s := run(t, newEngine(t), def, map[string]any{"a": "abc", "b": "ok"})

	errs := s.AuditLog().Filter(diagnostic.StatusError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "[bad]")
	assert.Equal(t, "/n", errs[0].Path)
	assert.Equal(t, "abc", errs[0].Value)

	assert.Equal(t, map[string]any{"c": "ok"}, target(t, s))
}

func TestProcess_Separate(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - id: sep
    type: separate
    delimiter: space
    inputs: [/full]
    outputs:
      - {path: /first, index: 0}
      - {path: /last, index: 1}
      - {path: /extra, index: 2}
`)

	s := run(t, newEngine(t), def, map[string]any{"full": "bar blerg"})

	assert.Equal(t, map[string]any{"first": "bar", "last": "blerg"}, target(t, s))

	warns := s.AuditLog().Filter(diagnostic.StatusWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "/extra", warns[0].Path)
	assert.Contains(t, warns[0].Message, "index 2 is out of range")
	assert.False(t, s.HasErrors())
}

func TestProcess_Combine(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - type: combine
    inputs:
      - {path: /a, index: 0}
      - {path: /b, index: 1}
    outputs: [/adjacent]
  - type: combine
    inputs:
      - {path: /a, index: 0}
      - {path: /c, index: 2}
    outputs: [/gap]
  - type: combine
    delimiter: comma
    inputs:
      - {path: /n, index: 1}
      - {path: /a, index: 0}
      - {path: /missing}
    outputs: [/commas]
`)

	s := run(t, newEngine(t), def, map[string]any{"a": "bar", "b": "bar3", "c": "baz", "n": int64(7)})

	assert.Equal(t, map[string]any{
		"adjacent": "bar bar3",
		"gap":      "bar  baz",
		"commas":   "bar,7",
	}, target(t, s))

	warns := s.AuditLog().Filter(diagnostic.StatusWarn)
	require.NotEmpty(t, warns)
	assert.Contains(t, warns[len(warns)-1].Message, "no index")
}

func TestProcess_CombineDuplicateIndex(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - id: dup
    type: combine
    inputs:
      - {path: /a, index: 0}
      - {path: /b, index: 0}
      - {path: /c, index: 1}
    outputs: [/out]
`)

	s := run(t, newEngine(t), def, map[string]any{"a": "first", "b": "second", "c": "third"})

	assert.Equal(t, "first third", target(t, s)["out"])

	warns := s.AuditLog().Filter(diagnostic.StatusWarn)
	require.Len(t, warns, 1)
	assert.Equal(t, "/b", warns[0].Path)
	assert.Contains(t, warns[0].Message, "[dup] combine index 0 is already taken")
}

func TestProcess_CombineSingleCollection(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - type: combine
    delimiter: pipe
    inputs: ["/tags[]"]
    outputs: [/joined]
`)

	s := run(t, newEngine(t), def, map[string]any{"tags": []any{"a", "b", "c"}})

	assert.Equal(t, "a|b|c", target(t, s)["joined"])
}

func TestProcess_Lookup(t *testing.T) {
	def := testutil.Definition(t, `
lookup_tables:
  - name: colors
    entries:
      - {source: R, target: red}
      - {source: R, target: rouge}
      - {source: "1", target: "true", target_type: boolean}
mappings:
  - lookup_table: colors
    inputs: [/code]
    outputs: [/color]
  - lookup_table: colors
    inputs: [/flag]
    outputs: [/flag]
  - lookup_table: colors
    inputs: [/other]
    outputs: [/other]
`)

	s := run(t, newEngine(t), def, map[string]any{"code": "R", "flag": int64(1), "other": "X"})

	assert.Equal(t, map[string]any{"color": "red", "flag": true, "other": "X"}, target(t, s))
	assert.False(t, s.HasErrors())
}

func TestProcess_FanOut(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - inputs: [{path: "/items[]/sku", actions: [Uppercase]}]
    outputs: ["/lines[]/sku"]
`)

	s := run(t, newEngine(t), def, map[string]any{
		"items": []any{
			map[string]any{"sku": "x1"},
			map[string]any{"sku": "x2"},
		},
	})

	assert.Equal(t, []any{
		map[string]any{"sku": "X1"},
		map[string]any{"sku": "X2"},
	}, target(t, s)["lines"])
}

func TestProcess_SplitFillsTargetArray(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - inputs: [{path: /csv, actions: [Split]}]
    outputs: ["/rows[]/v"]
  - inputs: [/tags]
    outputs: [{path: "/t[]", actions: [{Split: {delimiter: ";"}}]}]
`)

	s := run(t, newEngine(t), def, map[string]any{"csv": "a,b,c", "tags": "x;y"})

	doc := target(t, s)
	assert.Equal(t, []any{
		map[string]any{"v": "a"},
		map[string]any{"v": "b"},
		map[string]any{"v": "c"},
	}, doc["rows"])
	assert.Equal(t, []any{"x", "y"}, doc["t"])
}

func TestProcess_IndexesRestartPerMapping(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - inputs: [{path: /csv, actions: [Split]}]
    outputs: [{doc: a, path: "/rows[]/v"}]
  - inputs: [{path: /csv, actions: [Split]}]
    outputs: [{doc: b, path: "/rows[]/v"}]
`)

	s := run(t, newEngine(t), def, map[string]any{"csv": "x,y"})

	want := map[string]any{
		"rows": []any{
			map[string]any{"v": "x"},
			map[string]any{"v": "y"},
		},
	}

	assert.Equal(t, want, s.TargetDocument("a"))
	assert.Equal(t, want, s.TargetDocument("b"))
	assert.False(t, s.HasErrors())
}

func TestProcess_MapGroupIntoArray(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - inputs: ["/m{}"]
    outputs: ["/out[]"]
`)

	s := run(t, newEngine(t), def, map[string]any{"m": map[string]any{"eu": "x", "us": "y"}})

	assert.False(t, s.HasErrors())
	assert.Equal(t, []any{"x", "y"}, target(t, s)["out"])
}

func TestProcess_SelectsElementByIndex(t *testing.T) {
	def := testutil.Definition(t, `
mappings:
  - inputs: ["/items[]"]
    outputs:
      - {path: /second, index: 1}
      - {path: /beyond, index: 5}
  - inputs: ["/items[]"]
    outputs: [/last]
  - inputs: ["/empty[]"]
    outputs: [/none]
`)

	s := run(t, newEngine(t), def, map[string]any{"items": []any{"a", "b", "c"}, "empty": []any{}})

	assert.Equal(t, map[string]any{"second": "b", "last": "c"}, target(t, s))

	warns := s.AuditLog().Filter(diagnostic.StatusWarn)
	require.Len(t, warns, 2)
	assert.Contains(t, warns[0].Message, "index 5 is out of range")
	assert.Contains(t, warns[1].Message, "empty")
}

func TestProcess_AmbiguousFanOut(t *testing.T) {
	t.Run("blocked by validation", func(t *testing.T) {
		def := testutil.Definition(t, `
mappings:
  - id: m
    inputs: ["/items[]/sku"]
    outputs: ["/a[]", "/b[]"]
`)

		s := run(t, newEngine(t), def, map[string]any{"items": []any{map[string]any{"sku": "x"}}})

		assert.True(t, s.Diagnostics().HasErrors())
		assert.True(t, s.HasErrors())
		assert.Nil(t, s.TargetDocument(docID))
		assert.Contains(t, s.AuditLog().Filter(diagnostic.StatusError)[0].Message, "ambiguous_fan_out")
	})

	t.Run("detected at runtime", func(t *testing.T) {
		def := testutil.Definition(t, `
mappings:
  - id: m
    inputs: [{path: /csv, actions: [Split]}]
    outputs: ["/a[]", "/b[]"]
`)

		s := run(t, newEngine(t), def, map[string]any{"csv": "x,y"})

		errs := s.AuditLog().Filter(diagnostic.StatusError)
		require.Len(t, errs, 2)
		assert.Contains(t, errs[0].Message, "ambiguous fan-out")
	})
}

func TestProcess_ConstantsAndProperties(t *testing.T) {
	def := testutil.Definition(t, `
properties:
  - {name: region, value: eu}
mappings:
  - inputs: [{value: 42, type: integer}]
    outputs: [/answer]
  - inputs: [{name: region}]
    outputs: [/region]
  - inputs: [{name: region, scope: definition}]
    outputs: [/home]
`)

	eng := newEngine(t)
	s := eng.NewSession(def)
	s.SetSourceDocument(docID, map[string]any{})
	s.SetProperty("region", "us")
	require.NoError(t, eng.Process(s))

	assert.Equal(t, map[string]any{"answer": int32(42), "region": "us", "home": "eu"}, target(t, s))
}

func TestProcess_RecoversPanics(t *testing.T) {
	catalog := action.NewCatalog()
	require.NoError(t, catalog.Register(action.Definition{
		Name:       "Boom",
		SourceType: primitive.TypeAny,
		TargetType: primitive.TypeAny,
		Func: func(mapping.Action, any) (any, error) {
			panic("boom")
		},
	}))

	def := testutil.Definition(t, `
mappings:
  - id: explode
    inputs: [{path: /a, actions: [Boom]}]
    outputs: [/x]
  - id: after
    inputs: [/a]
    outputs: [/y]
`)

	s := run(t, New(Config{Catalog: catalog, Logger: testutil.NewTestLogger(t)}), def, map[string]any{"a": "v"})

	errs := s.AuditLog().Filter(diagnostic.StatusError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "internal error: boom")
	assert.Equal(t, "/a", errs[0].Path)

	assert.Equal(t, map[string]any{"y": "v"}, target(t, s))
}

func TestProcess_SessionState(t *testing.T) {
	eng := newEngine(t)

	require.ErrorIs(t, eng.Process(nil), ErrNilSession)

	s := eng.NewSession(testutil.Definition(t, `
mappings:
  - inputs: [/a]
    outputs: [/b]
`))
	assert.Equal(t, StateIdle, s.State())

	s.SetSourceDocument(docID, map[string]any{"a": 1})
	require.NoError(t, eng.Process(s))
	require.ErrorIs(t, eng.Process(s), ErrSessionState)
}

func TestProcess_NilDefinition(t *testing.T) {
	eng := newEngine(t)
	s := eng.NewSession(nil)

	require.NoError(t, eng.Process(s))
	assert.True(t, s.HasErrors())
	assert.Equal(t, StateDone, s.State())
}

func TestProcess_SessionsAreIndependent(t *testing.T) {
	eng := newEngine(t)
	def := testutil.Definition(t, `
mappings:
  - inputs: [/a]
    outputs: ["/out[]"]
`)

	first := run(t, eng, def, map[string]any{"a": "1"})
	second := run(t, eng, def, map[string]any{"a": "2"})

	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, []any{"1"}, target(t, first)["out"])
	assert.Equal(t, []any{"2"}, target(t, second)["out"])
}
