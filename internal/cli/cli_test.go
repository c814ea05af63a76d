package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmapper/internal/diagnostic"
)

const ordersDefinition = `
name: orders
mappings:
  - id: name
    inputs: [{doc: src, path: /customer/name}]
    outputs: [{doc: tgt, path: /buyer, actions: [Uppercase]}]
  - id: qty
    inputs: [{doc: src, path: /qty}]
    outputs: [{doc: tgt, path: /quantity, type: long}]
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

// runReport mirrors runReportJSON with typed target documents.
type runReport struct {
	Targets map[string]map[string]any `json:"targets"`
	Audits  []auditJSON               `json:"audits"`
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out, _, err := executeStreams(t, args...)

	return out, err
}

// executeStreams runs the root command with args and returns stdout and stderr.
func executeStreams(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	color.NoColor = true

	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	for _, flag := range []string{"config", "verbose", "output", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}

	assert.Subset(t, names, []string{"run", "validate", "version"})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "fieldmapper v"+Version)
}

func TestRunCommand_OutDir(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "orders.yaml", ordersDefinition)
	src := writeFile(t, dir, "order.json", `{"customer": {"name": "ada"}, "qty": 3}`)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "run", "--mapping", def, "--source", "src="+src, "--out-dir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "(no audits)")

	data, err := os.ReadFile(filepath.Join(outDir, "tgt.json"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{"buyer": "ADA", "quantity": float64(3)}, got)
}

func TestRunCommand_StdoutJSON(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "orders.yaml", ordersDefinition)
	src := writeFile(t, dir, "order.json", `{"customer": {"name": "ada"}, "qty": "x"}`)

	out, err := execute(t, "run", "-m", def, "-s", "src="+src, "-o", "json")
	require.ErrorIs(t, err, ErrAuditErrors)

	// stdout is one JSON document holding targets and audits
	var report runReport

	dec := json.NewDecoder(bytes.NewBufferString(out))
	require.NoError(t, dec.Decode(&report))
	assert.False(t, dec.More())

	assert.Equal(t, "ADA", report.Targets["tgt"]["buyer"])
	assert.NotContains(t, report.Targets["tgt"], "quantity")

	audits := report.Audits
	require.Len(t, audits, 1)
	assert.Equal(t, diagnostic.StatusError.String(), audits[0].Status)
	assert.Equal(t, "tgt", audits[0].DocID)
	assert.Equal(t, "/quantity", audits[0].Path)
	assert.Contains(t, audits[0].Message, "[qty]")
}

func TestRunCommand_StdoutTable(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "orders.yaml", ordersDefinition)
	src := writeFile(t, dir, "order.json", `{"customer": {"name": "ada"}, "qty": "x"}`)

	out, errOut, err := executeStreams(t, "run", "-m", def, "-s", "src="+src)
	require.ErrorIs(t, err, ErrAuditErrors)

	var targets map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &targets))
	assert.Equal(t, "ADA", targets["tgt"]["buyer"])

	// the audit table goes to stderr, keeping stdout valid JSON
	assert.Contains(t, errOut, "│")
	assert.Contains(t, errOut, "[qty]")
	assert.NotContains(t, out, "[qty]")
}

func TestRunCommand_Properties(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "props.yaml", `
mappings:
  - inputs: [{kind: property, name: region}]
    outputs: [{doc: tgt, path: /region}]
`)

	out, err := execute(t, "run", "-m", def, "-p", "region=us", "-o", "json")
	require.NoError(t, err)

	var report runReport

	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "us", report.Targets["tgt"]["region"])
	assert.Empty(t, report.Audits)
}

func TestRunCommand_InputErrors(t *testing.T) {
	dir := t.TempDir()
	def := writeFile(t, dir, "orders.yaml", ordersDefinition)
	bad := writeFile(t, dir, "bad.json", `{"customer":`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing mapping flag", args: []string{"run"}, wantErr: "mapping"},
		{name: "bad source spec", args: []string{"run", "-m", def, "-s", "nothing"}, wantErr: "expected name=value"},
		{name: "bad json", args: []string{"run", "-m", def, "-s", "src=" + bad}, wantErr: "source src"},
		{name: "missing definition", args: []string{"run", "-m", filepath.Join(dir, "none.yaml")}, wantErr: "none.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok/orders.yaml", ordersDefinition)
	writeFile(t, dir, "broken/nested/empty.yaml", "mappings: [{id: lonely, inputs: [/a]}]")
	writeFile(t, dir, "broken/notes.txt", "ignored")

	t.Run("all valid", func(t *testing.T) {
		out, err := execute(t, "validate", filepath.Join(dir, "ok", "*.yaml"))
		require.NoError(t, err)
		assert.Contains(t, out, "1 file(s) checked, 1 without findings")
	})

	t.Run("recursive glob with findings", func(t *testing.T) {
		out, err := execute(t, "validate", filepath.Join(dir, "**", "*.yaml"))
		require.ErrorIs(t, err, ErrInvalidDefinitions)
		assert.Contains(t, out, "missing_output")
		assert.Contains(t, out, "lonely")
		assert.Contains(t, out, "2 file(s) checked, 1 without findings")
	})

	t.Run("json output", func(t *testing.T) {
		out, err := execute(t, "validate", "-o", "json", filepath.Join(dir, "broken", "**", "*.yaml"))
		require.ErrorIs(t, err, ErrInvalidDefinitions)

		var got []diagnosticJSON
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "missing_output", got[0].Code)
		assert.Equal(t, "error", got[0].Severity)
	})

	t.Run("no match", func(t *testing.T) {
		_, err := execute(t, "validate", filepath.Join(dir, "*.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no files match")
	})
}

func TestExpandPatterns_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "mappings: []")
	b := writeFile(t, dir, "sub/b.yaml", "mappings: []")

	files, err := expandPatterns([]string{filepath.Join(dir, "**", "*.yaml"), a})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)
}

func TestRenderAudits_Table(t *testing.T) {
	color.NoColor = true

	buf := new(bytes.Buffer)
	err := renderAudits(buf, []diagnostic.Audit{
		{Status: diagnostic.StatusWarn, DocID: "src", DocName: "Order", Path: "/a", Message: "[m1] empty"},
	}, "table")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "Order (src)")
	assert.Contains(t, buf.String(), "[m1] empty")
}
