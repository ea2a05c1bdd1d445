package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/store"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Amount      string
	Description string
	Category    string
	Type        string
	Date        string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Amount, "amount", "a", "", "amount, e.g. 100.50 (required)")
	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "description (required)")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "category name (required)")
	cmd.Flags().StringVarP(&opts.Type, "type", "t", "expense", "income or expense")
	cmd.Flags().StringVar(&opts.Date, "date", "", "occurrence date, YYYY-MM-DD (default today)")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("desc")
	cmd.MarkFlagRequired("category")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	amount, err := decimal.NewFromString(opts.Amount)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid amount %q", opts.Amount))
	}

	typ := ledger.Type(strings.ToUpper(opts.Type))
	if !typ.Valid() {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid type %q: must be income or expense", opts.Type))
	}

	var date time.Time
	if opts.Date != "" {
		date, err = ledger.ParseTime(opts.Date)
		if err != nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid date %q", opts.Date))
		}
	}

	if err := opts.Manager().EnsureExists(); err != nil {
		return WrapExitError(ExitCommandError, "initializing store", err)
	}
	repo, err := store.Open(opts.Config.DataFile, opts.Logger, opts.Clock)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}

	t := ledger.NewTransaction(amount, opts.Description, opts.Category, typ, date, opts.Clock)
	if !repo.SaveTransaction(t) {
		return NewExitError(ExitFailure, "transaction rejected: "+strings.Join(t.Validate(), "; "))
	}

	return f.Success(fmt.Sprintf("Recorded %s (%s)", t.Description, t.ID), t)
}
