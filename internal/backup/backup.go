// Package backup manages timestamped copies of the store file.
//
// Backups live in a directory sibling to the store file and are plain
// copies; restoring one first backs up the current file so a restore is
// itself reversible. Retention is count-based: Cleanup keeps the N most
// recently created backups and deletes the rest.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/ledger"
)

// timestampLayout gives backup names second-level resolution.
const timestampLayout = "20060102_150405"

// Info describes one backup file.
type Info struct {
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager creates, lists, restores and prunes backups of one store file.
type Manager struct {
	storePath string
	dir       string
	log       *zap.Logger
	clock     ledger.Clock
}

// New creates a manager for the store file at storePath, keeping backups
// under dir.
func New(storePath, dir string, log *zap.Logger, clock ledger.Clock) *Manager {
	return &Manager{storePath: storePath, dir: dir, log: log, clock: clock}
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Create copies the current store file into the backup directory and
// returns the backup's path. With an empty name, one is synthesized from
// the current timestamp. Backing up a store file that does not exist is a
// reported failure, not a silent no-op.
func (m *Manager) Create(name string) (string, error) {
	if _, err := os.Stat(m.storePath); err != nil {
		return "", fmt.Errorf("create backup: data file not found: %s", m.storePath)
	}

	if name == "" {
		stem := strings.TrimSuffix(filepath.Base(m.storePath), filepath.Ext(m.storePath))
		name = fmt.Sprintf("%s_backup_%s.json", stem, m.clock.Now().Format(timestampLayout))
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}

	path := filepath.Join(m.dir, name)
	if err := copyFile(m.storePath, path); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}

	m.log.Info("backup created", zap.String("path", path))
	return path, nil
}

// Restore overwrites the store file with the backup at path, after backing
// up the current file so the restore can be undone. Restoring from a
// missing backup path is a reported failure.
func (m *Manager) Restore(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("restore backup: backup file not found: %s", path)
	}

	if _, err := os.Stat(m.storePath); err == nil {
		name := fmt.Sprintf("pre_restore_%s.json", m.clock.Now().Format(timestampLayout))
		saved, err := m.Create(name)
		if err != nil {
			return fmt.Errorf("restore backup: backing up current data: %w", err)
		}
		m.log.Info("current data backed up before restore", zap.String("path", saved))
	}

	if err := copyFile(path, m.storePath); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	m.log.Info("data restored from backup", zap.String("path", path))
	return nil
}

// List returns the available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Filename:  entry.Name(),
			Path:      filepath.Join(m.dir, entry.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Cleanup deletes all but the keep most recently created backups and
// returns how many were removed. A file that fails to delete is logged and
// skipped so the rest of the cleanup still runs.
func (m *Manager) Cleanup(keep int) (int, error) {
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, old := range backups[keep:] {
		if err := os.Remove(old.Path); err != nil {
			m.log.Warn("failed to delete old backup",
				zap.String("filename", old.Filename), zap.Error(err))
			continue
		}
		deleted++
		m.log.Info("deleted old backup", zap.String("filename", old.Filename))
	}
	return deleted, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
