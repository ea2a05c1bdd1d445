package cli

import (
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/integrity"
	"github.com/tallyhq/tally/internal/persist"
)

// statsPayload is the combined stats output.
type statsPayload struct {
	File    persist.Stats    `json:"file"`
	Content *integrity.Stats `json:"content,omitempty"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store file and content statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			m := opts.Manager()

			fileStats, err := m.Stats()
			if err != nil {
				return WrapExitError(ExitCommandError, "reading store", err)
			}

			payload := statsPayload{File: fileStats}
			if fileStats.FileExists {
				if report := m.ValidateFile(); report.Stats != nil {
					payload.Content = report.Stats
				}
			}

			if f.JSON() {
				return f.Success("", payload)
			}

			if !fileStats.FileExists {
				f.Textf("Store file does not exist: %s\n", m.Path())
				return nil
			}
			f.Textf("File:           %s (%d bytes)\n", m.Path(), fileStats.FileSize)
			f.Textf("Schema version: %s\n", fileStats.SchemaVersion)
			f.Textf("Transactions:   %d\n", fileStats.TotalTransactions)
			f.Textf("Categories:     %d\n", fileStats.TotalCategories)
			if c := payload.Content; c != nil {
				f.Textf("Income:         %s\n", f.Money(c.TotalIncome, "USD"))
				f.Textf("Expenses:       %s\n", f.Money(c.TotalExpenses, "USD"))
				f.Textf("Net balance:    %s\n", f.Money(c.NetBalance, "USD"))
			}
			if fileStats.NeedsMigration {
				f.Textf("Schema migration required (run `tally migrate`)\n")
			}
			return nil
		},
	}
}
