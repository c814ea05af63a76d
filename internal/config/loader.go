package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileNames are the config file names searched for when none is given.
var FileNames = []string{"fieldmapper.yaml", "fieldmapper.yml"}

// ConfigFlag names the flag that selects the config file; it is never
// loaded as a setting.
const ConfigFlag = "config"

// Options controls where Load looks for settings.
type Options struct {
	// File is an explicit config file; it must exist.
	File string
	// Dir is searched for FileNames when File is empty. Defaults to the
	// working directory.
	Dir string
	// Flags are the command flags; only flags that were set are loaded.
	Flags *pflag.FlagSet
}

// Load merges defaults, the config file, the environment and flags, and
// validates the result.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path, err := findFile(opts)
	if err != nil {
		return nil, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// FIELDMAPPER_COMBINE__AUTO_TRIM -> combine.auto_trim
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(opts.Flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == ConfigFlag {
				return "", nil
			}

			return flagKey(f.Name), posflag.FlagVal(opts.Flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.File = path
	cfg.Output = strings.ToLower(cfg.Output)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration built from defaults alone.
func Default() *Config {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}

	return &cfg
}

func findFile(opts Options) (string, error) {
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}

		return opts.File, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)

		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("config file: %w", err)
		}
	}

	return "", nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// flagKey maps kebab-case flag names onto config keys: "log-level" ->
// "log_level", "combine-null-gaps" -> "combine.null_gaps".
func flagKey(name string) string {
	key := strings.ReplaceAll(name, "-", "_")

	for _, section := range []string{"combine", "separate", "engine"} {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}

	return key
}
