package cli

import (
	"github.com/spf13/cobra"
)

// NewCheckCommand creates the check command.
func NewCheckCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the integrity of the store file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			report := opts.Manager().ValidateFile()
			if f.JSON() {
				if err := f.Success("", report); err != nil {
					return err
				}
			} else {
				for _, e := range report.Errors {
					f.Textf("error: %s\n", e)
				}
				for _, w := range report.Warnings {
					f.Textf("warning: %s\n", w)
				}
				if report.Valid {
					f.Textf("OK: %d transactions, %d categories\n",
						report.Stats.TotalTransactions, report.Stats.TotalCategories)
				}
			}

			if !report.Valid {
				return NewExitError(ExitFailure, "data integrity validation failed")
			}
			return nil
		},
	}
}
