// Package config loads fieldmapper settings from layered sources.
//
// Precedence, highest first: explicitly set flags, FIELDMAPPER_ environment
// variables, the config file (fieldmapper.yaml or --config), defaults.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"fieldmapper/internal/common"
	"fieldmapper/internal/strategy"
)

// Output formats understood by the CLI renderers.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

const (
	DefaultParallelism = 4
	DefaultLogLevel    = "info"
	DefaultOutput      = OutputTable
	EnvPrefix          = "FIELDMAPPER_"
)

// Config holds all fieldmapper settings.
type Config struct {
	Combine     CombineConfig  `koanf:"combine"`
	Separate    SeparateConfig `koanf:"separate"`
	Engine      EngineConfig   `koanf:"engine"`
	Parallelism int            `koanf:"parallelism"`
	LogLevel    string         `koanf:"log_level"`
	Output      string         `koanf:"output"`
	Verbose     bool           `koanf:"verbose"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-"`
}

// CombineConfig configures the default combine strategy.
type CombineConfig struct {
	Delimiter string `koanf:"delimiter"`
	Limit     int    `koanf:"limit"`
	AutoTrim  bool   `koanf:"auto_trim"`
	NullGaps  string `koanf:"null_gaps"`
}

// SeparateConfig configures the default separate strategy.
type SeparateConfig struct {
	Delimiter string `koanf:"delimiter"`
	Limit     int    `koanf:"limit"`
}

type EngineConfig struct {
	DefaultDocumentID string `koanf:"default_document_id"`
}

func defaults() map[string]any {
	return map[string]any{
		"combine.delimiter":          strategy.Space.Name(),
		"combine.limit":              0,
		"combine.auto_trim":          true,
		"combine.null_gaps":          strategy.NullGapsDelimit.String(),
		"separate.delimiter":         strategy.Space.Name(),
		"separate.limit":             0,
		"engine.default_document_id": common.DefaultDocumentID,
		"parallelism":                DefaultParallelism,
		"log_level":                  DefaultLogLevel,
		"output":                     DefaultOutput,
		"verbose":                    false,
	}
}

// CombineStrategy builds the configured combine strategy.
func (c *Config) CombineStrategy() (strategy.CombineStrategy, error) {
	delim, err := strategy.ParseDelimiter(c.Combine.Delimiter)
	if err != nil {
		return strategy.CombineStrategy{}, fmt.Errorf("combine.delimiter: %w", err)
	}

	gaps, err := strategy.ParseNullGapPolicy(c.Combine.NullGaps)
	if err != nil {
		return strategy.CombineStrategy{}, fmt.Errorf("combine.null_gaps: %w", err)
	}

	return strategy.CombineStrategy{
		Delimiter: delim,
		Limit:     c.Combine.Limit,
		AutoTrim:  c.Combine.AutoTrim,
		NullGaps:  gaps,
	}, nil
}

// SeparateStrategy builds the configured separate strategy.
func (c *Config) SeparateStrategy() (strategy.SeparateStrategy, error) {
	delim, err := strategy.ParseDelimiter(c.Separate.Delimiter)
	if err != nil {
		return strategy.SeparateStrategy{}, fmt.Errorf("separate.delimiter: %w", err)
	}

	return strategy.SeparateStrategy{Delimiter: delim, Limit: c.Separate.Limit}, nil
}

// Level parses LogLevel. Verbose forces debug.
func (c *Config) Level() (slog.Level, error) {
	if c.Verbose {
		return slog.LevelDebug, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}

	return level, nil
}

// Validate checks the settings that cannot be checked by building strategies.
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}

	if c.Combine.Limit < 0 {
		return fmt.Errorf("combine.limit must not be negative, got %d", c.Combine.Limit)
	}

	if c.Separate.Limit < 0 {
		return fmt.Errorf("separate.limit must not be negative, got %d", c.Separate.Limit)
	}

	switch strings.ToLower(c.Output) {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (expected %s or %s)", c.Output, OutputTable, OutputJSON)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if _, err := c.CombineStrategy(); err != nil {
		return err
	}

	_, err := c.SeparateStrategy()

	return err
}
