package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmapper/internal/common"
	"fieldmapper/internal/strategy"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(ConfigFlag, "", "")
	fs.String("log-level", "", "")
	fs.String("output", "", "")
	fs.Bool("verbose", false, "")
	fs.Int("parallelism", 0, "")
	fs.String("combine-delimiter", "", "")
	fs.String("combine-null-gaps", "", "")

	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, DefaultParallelism, cfg.Parallelism)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, common.DefaultDocumentID, cfg.Engine.DefaultDocumentID)
	assert.Equal(t, Default(), cfg)

	combine, err := cfg.CombineStrategy()
	require.NoError(t, err)
	assert.Equal(t, strategy.DefaultCombine(), combine)

	separate, err := cfg.SeparateStrategy()
	require.NoError(t, err)
	assert.Equal(t, strategy.DefaultSeparate(), separate)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoad_FileDiscovery(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "fieldmapper.yml", `
combine:
  delimiter: comma
  null_gaps: skip
  auto_trim: false
separate:
  limit: 2
parallelism: 2
`)

	cfg, err := Load(Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 2, cfg.Parallelism)

	combine, err := cfg.CombineStrategy()
	require.NoError(t, err)
	assert.Equal(t, strategy.Comma, combine.Delimiter)
	assert.Equal(t, strategy.NullGapsSkip, combine.NullGaps)
	assert.False(t, combine.AutoTrim)

	separate, err := cfg.SeparateStrategy()
	require.NoError(t, err)
	assert.Equal(t, strategy.Space, separate.Delimiter)
	assert.Equal(t, 2, separate.Limit)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.yaml", `
log_level: warn
parallelism: 2
combine:
  delimiter: comma
engine:
  default_document_id: file-doc
`)

	t.Setenv("FIELDMAPPER_PARALLELISM", "8")
	t.Setenv("FIELDMAPPER_COMBINE__DELIMITER", "pipe")
	t.Setenv("FIELDMAPPER_ENGINE__DEFAULT_DOCUMENT_ID", "env-doc")

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--config", path, "--parallelism", "3", "--output", "JSON"}))

	cfg, err := Load(Options{File: path, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Parallelism, "flag beats env")
	assert.Equal(t, "env-doc", cfg.Engine.DefaultDocumentID, "env beats file")
	assert.Equal(t, "pipe", cfg.Combine.Delimiter)
	assert.Equal(t, "warn", cfg.LogLevel, "file beats default")
	assert.Equal(t, OutputJSON, cfg.Output)
}

func TestLoad_UnsetFlagsIgnored(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "fieldmapper.yaml", "output: json\n")

	flags := testFlags()
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(Options{Dir: dir, Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, OutputJSON, cfg.Output)
}

func TestLoad_SectionFlags(t *testing.T) {
	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--combine-delimiter", "dash", "--combine-null-gaps", "skip", "--verbose"}))

	cfg, err := Load(Options{Dir: t.TempDir(), Flags: flags})
	require.NoError(t, err)

	combine, err := cfg.CombineStrategy()
	require.NoError(t, err)
	assert.Equal(t, strategy.Dash, combine.Delimiter)
	assert.Equal(t, strategy.NullGapsSkip, combine.NullGaps)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "parallelism", body: "parallelism: 0", wantErr: "parallelism must be at least 1"},
		{name: "output", body: "output: xml", wantErr: "unknown output format"},
		{name: "log level", body: "log_level: loud", wantErr: "log_level"},
		{name: "combine delimiter", body: "combine: {delimiter: tilde}", wantErr: "combine.delimiter"},
		{name: "null gaps", body: "combine: {null_gaps: fill}", wantErr: "combine.null_gaps"},
		{name: "separate limit", body: "separate: {limit: -1}", wantErr: "separate.limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "fieldmapper.yaml", tt.body)

			_, err := Load(Options{Dir: dir})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "log_level", flagKey("log-level"))
	assert.Equal(t, "combine.null_gaps", flagKey("combine-null-gaps"))
	assert.Equal(t, "engine.default_document_id", flagKey("engine-default-document-id"))
	assert.Equal(t, "output", flagKey("output"))
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "combine.auto_trim", envKey("FIELDMAPPER_COMBINE__AUTO_TRIM"))
	assert.Equal(t, "log_level", envKey("FIELDMAPPER_LOG_LEVEL"))
}
