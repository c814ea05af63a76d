// Package cli provides the fieldmapper command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"fieldmapper/internal/config"
	"fieldmapper/internal/engine"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type (
	configKey struct{}
	loggerKey struct{}
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "fieldmapper",
		Short: "Declarative field mapping between documents",
		Long: `fieldmapper moves values between structured documents according to a
YAML mapping definition: read, convert, combine, separate, look up and write.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(config.Options{File: cfgFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}

			level, err := cfg.Level()
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if cfg.File != "" {
				logger.Debug("using config file", "path", cfg.File)
			}

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, config.ConfigFlag, "", "config file (default: ./fieldmapper.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}

	return config.Default()
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.New(slog.DiscardHandler)
}

// newEngine builds an engine from the configured strategies.
func newEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	combine, err := cfg.CombineStrategy()
	if err != nil {
		return nil, err
	}

	separate, err := cfg.SeparateStrategy()
	if err != nil {
		return nil, err
	}

	return engine.New(engine.Config{
		DefaultDocumentID: cfg.Engine.DefaultDocumentID,
		Combine:           combine,
		Separate:          separate,
		Logger:            logger,
	}), nil
}
