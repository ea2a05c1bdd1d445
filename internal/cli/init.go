package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store file with seeded default categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			m := opts.Manager()

			if err := m.EnsureExists(); err != nil {
				return WrapExitError(ExitCommandError, "initializing store", err)
			}

			return f.Success(
				fmt.Sprintf("Store initialized at %s", m.Path()),
				map[string]string{"path": m.Path()},
			)
		},
	}
}
