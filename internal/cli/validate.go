package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fieldmapper/internal/mapping"
)

// ErrInvalidDefinitions is returned when a validated file has ERROR findings.
var ErrInvalidDefinitions = errors.New("invalid mapping definitions")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate PATTERN...",
		Short: "Validate mapping definitions",
		Long: `Load and validate mapping definitions. Patterns support ** globs.

Files are validated concurrently; the parallelism setting bounds the
number of files in flight.`,
		Example: `  fieldmapper validate mappings/**/*.yaml`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    validateDefinitions,
	}
}

func validateDefinitions(cmd *cobra.Command, patterns []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)
	logger := GetLogger(ctx)

	files, err := expandPatterns(patterns)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	results := make([]fileDiagnostics, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallelism)

	for i, file := range files {
		g.Go(func() error {
			results[i].File = file

			def, err := mapping.LoadFile(file)
			if err != nil {
				results[i].Err = err
				return nil
			}

			results[i].Diagnostics = eng.Validate(def)
			logger.Debug("validated definition", "file", file,
				"errors", len(results[i].Diagnostics.Errors),
				"warnings", len(results[i].Diagnostics.Warnings))

			return nil
		})
	}

	_ = g.Wait()

	if err := renderDiagnostics(cmd.OutOrStdout(), results, cfg.Output); err != nil {
		return err
	}

	failed := 0

	for _, r := range results {
		if r.Err != nil || r.Diagnostics.HasErrors() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrInvalidDefinitions, failed, len(files))
	}

	return nil
}

// expandPatterns resolves globs into a sorted, de-duplicated file list.
// A pattern without glob meta characters must name an existing file.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}

		files = append(files, matches...)
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}
