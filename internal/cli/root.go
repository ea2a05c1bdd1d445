// Package cli implements the tally command-line interface over the
// persistent store: initialization, record entry, listings, backups,
// validation and schema migration.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/persist"
)

// RootOptions holds global flags and resolved configuration shared by all
// commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	DataFile   string

	Config config.Config
	Logger *zap.Logger
	Clock  ledger.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the tally CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Clock: ledger.SystemClock()}

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "tally - personal expense tracking store",
		Long: `tally keeps financial transactions and categories in a single
versioned JSON file with automatic backups, integrity checking and
schema migration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			cfg, err := config.Load(opts.ConfigFile)
			if err != nil {
				return err
			}
			if opts.DataFile != "" {
				cfg.DataFile = opts.DataFile
			}
			opts.Config = cfg

			if opts.Logger == nil {
				opts.Logger = newLogger(cfg.LogLevel, opts.Verbose)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", config.DefaultPath(), "config file path")
	cmd.PersistentFlags().StringVar(&opts.DataFile, "data", "", "store file path (overrides config)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewCategoryCommand(opts))
	cmd.AddCommand(NewBackupCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// Manager builds the persistence orchestrator from the resolved options.
func (o *RootOptions) Manager() *persist.Manager {
	return persist.NewManager(o.Config.DataFile, persist.Options{
		BackupDisabled: !o.Config.AutoBackup,
		Logger:         o.Logger,
		Clock:          o.Clock,
	})
}

// formatter builds the output formatter for one command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), Verbose: o.Verbose}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newLogger builds a zap logger: compact JSON at the configured level,
// colorized console when verbose.
func newLogger(level string, verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.WarnLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
