package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/persist"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the store file to the current schema version",
		Long: `Upgrade the store file to the current schema version.

A backup is created before any data is rewritten. Migrating an
already-current file is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			m := opts.Manager()

			stats, err := m.Stats()
			if err != nil {
				return WrapExitError(ExitCommandError, "reading store", err)
			}
			if !stats.FileExists {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("store file does not exist: %s (run `tally init`)", m.Path()))
			}
			if !stats.NeedsMigration {
				return f.Success(
					fmt.Sprintf("Already at schema version %s", ledger.SchemaVersion),
					map[string]any{"schema_version": ledger.SchemaVersion, "migrated": false},
				)
			}

			from := stats.SchemaVersion
			if _, err := m.Load(persist.LoadOptions{}); err != nil {
				return WrapExitError(ExitCommandError, "migrating store", err)
			}
			return f.Success(
				fmt.Sprintf("Migrated from %s to %s", from, ledger.SchemaVersion),
				map[string]any{"from_version": from, "to_version": ledger.SchemaVersion, "migrated": true},
			)
		},
	}
}
