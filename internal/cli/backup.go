package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tallyhq/tally/internal/backup"
)

// NewBackupCommand creates the backup command group.
func NewBackupCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Manage store backups",
	}
	cmd.AddCommand(newBackupCreateCommand(opts))
	cmd.AddCommand(newBackupListCommand(opts))
	cmd.AddCommand(newBackupRestoreCommand(opts))
	cmd.AddCommand(newBackupPruneCommand(opts))
	return cmd
}

// backups resolves the backup manager, failing when backups are disabled
// in the configuration.
func backups(opts *RootOptions) (*backup.Manager, error) {
	b := opts.Manager().Backups()
	if b == nil {
		return nil, NewExitError(ExitCommandError, "backups are disabled in the configuration")
	}
	return b, nil
}

func newBackupCreateCommand(opts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a backup of the store file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b, err := backups(opts)
			if err != nil {
				return err
			}

			path, err := b.Create(name)
			if err != nil {
				return WrapExitError(ExitCommandError, "creating backup", err)
			}
			return f.Success(fmt.Sprintf("Backup created: %s", path), map[string]string{"path": path})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "backup file name (default timestamped)")
	return cmd
}

func newBackupListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b, err := backups(opts)
			if err != nil {
				return err
			}

			infos, err := b.List()
			if err != nil {
				return WrapExitError(ExitCommandError, "listing backups", err)
			}
			if f.JSON() {
				return f.Success("", infos)
			}
			for _, info := range infos {
				f.Textf("%s  %8d  %s\n",
					info.CreatedAt.Format("2006-01-02 15:04:05"), info.Size, info.Filename)
			}
			f.Textf("%d backups\n", len(infos))
			return nil
		},
	}
}

func newBackupRestoreCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-path>",
		Short: "Restore the store file from a backup",
		Long: `Restore the store file from a backup.

The current store file is backed up first, so a restore can itself be
undone by restoring that pre-restore backup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b, err := backups(opts)
			if err != nil {
				return err
			}

			if err := b.Restore(args[0]); err != nil {
				return WrapExitError(ExitCommandError, "restoring backup", err)
			}
			return f.Success(fmt.Sprintf("Restored from %s", args[0]), map[string]string{"path": args[0]})
		},
	}
}

func newBackupPruneCommand(opts *RootOptions) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			b, err := backups(opts)
			if err != nil {
				return err
			}

			if keep < 0 {
				keep = opts.Config.BackupRetention
			}
			deleted, err := b.Cleanup(keep)
			if err != nil {
				return WrapExitError(ExitCommandError, "pruning backups", err)
			}
			return f.Success(fmt.Sprintf("Deleted %d backups", deleted), map[string]int{"deleted": deleted})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", -1, "backups to keep (default from config)")
	return cmd
}
