package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/store"
)

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			repo, err := store.Open(opts.Config.DataFile, opts.Logger, opts.Clock)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening store", err)
			}

			id := args[0]
			if !repo.DeleteTransaction(id) {
				return NewExitError(ExitFailure, fmt.Sprintf("transaction not found: %s", id))
			}
			return f.Success(fmt.Sprintf("Deleted %s", id), map[string]string{"id": id})
		},
	}
}
