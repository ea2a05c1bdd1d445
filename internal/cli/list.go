package cli

import (
	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "list [transactions|categories]",
		Short:     "List transactions (newest first) or categories",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"transactions", "categories"},
		RunE: func(cmd *cobra.Command, args []string) error {
			what := "transactions"
			if len(args) == 1 {
				what = args[0]
			}
			return runList(opts, cmd, what)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command, what string) error {
	f := opts.formatter(cmd)

	repo, err := store.Open(opts.Config.DataFile, opts.Logger, opts.Clock)
	if err != nil {
		return WrapExitError(ExitCommandError, "opening store", err)
	}

	if what == "categories" {
		categories := repo.AllCategories()
		if f.JSON() {
			return f.Success("", categories)
		}
		for _, c := range categories {
			marker := " "
			if c.IsDefault {
				marker = "*"
			}
			f.Textf("%s %-30s %s\n", marker, c.Name, c.Type)
		}
		f.Textf("%d categories (* = default)\n", len(categories))
		return nil
	}

	transactions := repo.AllTransactions()
	if f.JSON() {
		return f.Success("", transactions)
	}

	currency := "USD"
	if c, ok := repo.Settings()["currency"].(string); ok && c != "" {
		currency = c
	}
	for _, t := range transactions {
		f.Textf("%s  %-7s %14s  %-20s %s\n",
			t.Date.Format("2006-01-02"), t.Type, f.Money(t.Amount, currency), t.Category, t.Description)
	}
	f.Textf("%d transactions\n", len(transactions))
	return nil
}
