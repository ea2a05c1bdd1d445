package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/store"
)

// NewCategoryCommand creates the category command group.
func NewCategoryCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(newCategoryAddCommand(opts))
	cmd.AddCommand(newCategoryRemoveCommand(opts))
	return cmd
}

func newCategoryAddCommand(opts *RootOptions) *cobra.Command {
	var typeFlag string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create or update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			typ := ledger.Type(strings.ToUpper(typeFlag))
			if !typ.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid type %q: must be income or expense", typeFlag))
			}

			if err := opts.Manager().EnsureExists(); err != nil {
				return WrapExitError(ExitCommandError, "initializing store", err)
			}
			repo, err := store.Open(opts.Config.DataFile, opts.Logger, opts.Clock)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening store", err)
			}

			c := ledger.Category{Name: args[0], Type: typ}
			if !repo.SaveCategory(c) {
				return NewExitError(ExitFailure, "category rejected: "+strings.Join(c.Validate(), "; "))
			}
			return f.Success(fmt.Sprintf("Saved category %s", c.Name), c)
		},
	}

	cmd.Flags().StringVarP(&typeFlag, "type", "t", "expense", "income or expense")
	return cmd
}

func newCategoryRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a category (defaults and in-use categories are protected)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			repo, err := store.Open(opts.Config.DataFile, opts.Logger, opts.Clock)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening store", err)
			}

			name := args[0]
			if !repo.DeleteCategory(name) {
				return NewExitError(ExitFailure,
					fmt.Sprintf("cannot delete category %q: not found, default, or in use", name))
			}
			return f.Success(fmt.Sprintf("Deleted category %s", name), map[string]string{"name": name})
		},
	}
}
