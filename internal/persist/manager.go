// Package persist orchestrates the store's load and save paths.
//
// The Manager composes the migration engine, integrity checker and backup
// manager around the on-disk document: Load ensures the file exists,
// validates it, upgrades a stale schema (backing up first) and stamps
// last_accessed; Save validates the serialized candidate before it can
// replace good data, optionally backs up the existing file, and commits
// with the atomic temp-write + rename protocol.
//
// Every operation is synchronous and completes fully - including the atomic
// replace - before returning, so callers observe either the pre- or
// post-mutation state, never a partial one.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/backup"
	"github.com/tallyhq/tally/internal/integrity"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/migrate"
	"github.com/tallyhq/tally/internal/store"
)

// Options configures a Manager.
type Options struct {
	// BackupDisabled turns off automatic backups on save and migration.
	BackupDisabled bool
	// Logger defaults to zap.NewNop().
	Logger *zap.Logger
	// Clock defaults to the system clock.
	Clock ledger.Clock
}

// LoadOptions tunes one Load call. The zero value validates and migrates.
type LoadOptions struct {
	SkipValidate bool
	SkipMigrate  bool
}

// SaveOptions tunes one Save call. The zero value validates and, when
// backups are enabled, backs up the existing file first.
type SaveOptions struct {
	SkipValidate bool
	SkipBackup   bool
}

// Manager coordinates persistence for the store file at one path.
type Manager struct {
	path    string
	log     *zap.Logger
	clock   ledger.Clock
	engine  *migrate.Engine
	backups *backup.Manager // nil when backups are disabled
}

// NewManager creates a Manager for the store file at path.
func NewManager(path string, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = ledger.SystemClock()
	}

	m := &Manager{
		path:   path,
		log:    log,
		clock:  clock,
		engine: migrate.New(log, clock),
	}
	if !opts.BackupDisabled {
		m.backups = backup.New(path, filepath.Join(filepath.Dir(path), "backups"), log, clock)
	}
	return m
}

// Path returns the store file path.
func (m *Manager) Path() string { return m.path }

// EnsureExists creates a fresh seeded document if the store file is absent.
func (m *Manager) EnsureExists() error {
	if _, err := os.Stat(m.path); err == nil {
		return nil
	}

	m.log.Info("data file not found, creating new file", zap.String("path", m.path))
	doc := ledger.NewDocument(m.clock)
	data, err := store.EncodeDocument(doc)
	if err != nil {
		return &DataError{Op: "initialize data file", Err: err}
	}
	if err := store.WriteAtomic(m.path, data); err != nil {
		return &FileError{Op: "initialize data file", Path: m.path, Err: err}
	}
	return nil
}

// Load reads the document, optionally validating and migrating it.
//
// Hard integrity errors abort the load with a DataError carrying the full
// report; warnings are logged and do not abort. A load that triggers
// migration first backs up the file, then persists the migrated result
// before returning, so the on-disk file never lags the in-memory schema
// version. The returned document has last_accessed stamped.
func (m *Manager) Load(opts LoadOptions) (*ledger.Document, error) {
	if err := m.EnsureExists(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, &FileError{Op: "load data", Path: m.path, Err: err}
	}

	if !opts.SkipValidate {
		report := integrity.Check(data)
		if !report.Valid {
			return nil, &DataError{Op: "load data", Report: &report}
		}
		for _, w := range report.Warnings {
			m.log.Warn("data validation warning", zap.String("warning", w))
		}
	}

	raw, err := decodeRaw(data)
	if err != nil {
		return nil, &DataError{Op: "load data", Err: err}
	}

	var doc *ledger.Document
	if !opts.SkipMigrate && m.engine.Needs(raw) {
		doc, err = m.runMigration(raw)
		if err != nil {
			return nil, err
		}
	} else {
		doc, err = store.DecodeDocument(data, m.log)
		if err != nil {
			return nil, &DataError{Op: "load data", Err: err}
		}
	}

	doc.Metadata.LastAccessed = ledger.FormatTime(m.clock.Now())
	return doc, nil
}

// runMigration backs up the current file, applies the migration chain and
// persists the result.
func (m *Manager) runMigration(raw map[string]any) (*ledger.Document, error) {
	m.log.Info("data migration required")

	if m.backups != nil {
		name := fmt.Sprintf("pre_migration_%s.json", m.clock.Now().Format("20060102_150405"))
		path, err := m.backups.Create(name)
		if err != nil {
			return nil, &FileError{Op: "pre-migration backup", Path: m.path, Err: err}
		}
		m.log.Info("pre-migration backup created", zap.String("path", path))
	}

	migrated, err := m.engine.Migrate(raw)
	if err != nil {
		return nil, &DataError{Op: "migrate data", Err: err}
	}

	data, err := json.Marshal(migrated)
	if err != nil {
		return nil, &DataError{Op: "migrate data", Err: err}
	}
	doc, err := store.DecodeDocument(data, m.log)
	if err != nil {
		return nil, &DataError{Op: "migrate data", Err: err}
	}

	// Validation is skipped here: the document was validated before the
	// migration ran.
	if err := m.Save(doc, SaveOptions{SkipValidate: true, SkipBackup: true}); err != nil {
		return nil, err
	}
	m.log.Info("data migration completed and saved")
	return doc, nil
}

// Save validates, backs up and atomically commits the document.
//
// The candidate is re-validated in its serialized form before it can
// replace the existing file, so a bad write is caught before good data is
// lost. Cached counts and last_modified are recomputed as part of the save.
func (m *Manager) Save(doc *ledger.Document, opts SaveOptions) error {
	doc.Touch(m.clock)

	data, err := store.EncodeDocument(doc)
	if err != nil {
		return &DataError{Op: "save data", Err: err}
	}

	if !opts.SkipValidate {
		report := integrity.Check(data)
		if !report.Valid {
			return &DataError{Op: "save data", Report: &report}
		}
	}

	if m.backups != nil && !opts.SkipBackup {
		if _, err := os.Stat(m.path); err == nil {
			path, err := m.backups.Create("")
			if err != nil {
				return &FileError{Op: "pre-save backup", Path: m.path, Err: err}
			}
			m.log.Debug("backup created before save", zap.String("path", path))
		}
	}

	if err := store.WriteAtomic(m.path, data); err != nil {
		return &FileError{Op: "save data", Path: m.path, Err: err}
	}
	m.log.Debug("data saved", zap.String("path", m.path))
	return nil
}

// ValidateFile runs the integrity checker against the current store file.
func (m *Manager) ValidateFile() integrity.Report {
	return integrity.CheckFile(m.path)
}

// Backups returns the backup manager, or nil when backups are disabled.
func (m *Manager) Backups() *backup.Manager { return m.backups }

// Stats describes the store file and its contents.
type Stats struct {
	FileExists        bool   `json:"file_exists"`
	FileSize          int64  `json:"file_size"`
	LastModified      string `json:"last_modified,omitempty"`
	SchemaVersion     string `json:"schema_version,omitempty"`
	TotalTransactions int    `json:"total_transactions"`
	TotalCategories   int    `json:"total_categories"`
	NeedsMigration    bool   `json:"needs_migration"`
}

// Stats reports file-level and content-level statistics for the store.
func (m *Manager) Stats() (Stats, error) {
	fi, err := os.Stat(m.path)
	if os.IsNotExist(err) {
		return Stats{}, nil
	}
	if err != nil {
		return Stats{}, &FileError{Op: "stat data file", Path: m.path, Err: err}
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return Stats{}, &FileError{Op: "read data file", Path: m.path, Err: err}
	}
	raw, err := decodeRaw(data)
	if err != nil {
		return Stats{}, &DataError{Op: "read data file", Err: err}
	}
	doc, err := store.DecodeDocument(data, m.log)
	if err != nil {
		return Stats{}, &DataError{Op: "read data file", Err: err}
	}

	return Stats{
		FileExists:        true,
		FileSize:          fi.Size(),
		LastModified:      ledger.FormatTime(fi.ModTime()),
		SchemaVersion:     m.engine.Version(raw),
		TotalTransactions: len(doc.Transactions),
		TotalCategories:   len(doc.Categories),
		NeedsMigration:    m.engine.Needs(raw),
	}, nil
}

// decodeRaw parses the document into its loose form for version detection
// and migration. UseNumber keeps amounts exact.
func decodeRaw(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in data file: %w", err)
	}
	// "null" is valid JSON but decodes to a nil map.
	if raw == nil {
		return nil, fmt.Errorf("invalid JSON in data file: document is null")
	}
	return raw, nil
}
