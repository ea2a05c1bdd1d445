package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/backup"
	"github.com/tallyhq/tally/internal/ledger"
)

// backupRetention is how many backups Repository.Backup keeps around.
const backupRetention = 10

// Repository provides CRUD over transactions and categories, backed by one
// on-disk document.
type Repository struct {
	path    string
	log     *zap.Logger
	clock   ledger.Clock
	backups *backup.Manager
	doc     *ledger.Document
}

// Open loads the document at path, creating an empty envelope if the file
// is absent. An unreadable file is quarantined and replaced with a fresh
// empty envelope; Open only fails on I/O errors.
func Open(path string, log *zap.Logger, clock ledger.Clock) (*Repository, error) {
	r := &Repository{
		path:    path,
		log:     log,
		clock:   clock,
		backups: backup.New(path, filepath.Join(filepath.Dir(path), "backups"), log, clock),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		r.doc = ledger.NewEmptyDocument(clock)
		if !r.save() {
			return nil, fmt.Errorf("open store: initializing %s", path)
		}
	case err != nil:
		return nil, fmt.Errorf("open store: %w", err)
	default:
		doc, decErr := DecodeDocument(data, log)
		if decErr != nil {
			if err := r.quarantine(decErr); err != nil {
				return nil, err
			}
		} else {
			r.doc = doc
		}
	}

	return r, nil
}

// quarantine copies the unreadable store file aside for forensic recovery
// and reinitializes an empty envelope in its place.
func (r *Repository) quarantine(cause error) error {
	r.log.Warn("data corruption detected, backing up and reinitializing", zap.Error(cause))

	name := fmt.Sprintf("corrupted_data_%s.json", r.clock.Now().Format("20060102_150405"))
	dest := filepath.Join(r.backups.Dir(), name)
	if err := os.MkdirAll(r.backups.Dir(), 0o755); err != nil {
		return fmt.Errorf("quarantine corrupted store: %w", err)
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("quarantine corrupted store: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("quarantine corrupted store: %w", err)
	}
	r.log.Info("corrupted data backed up", zap.String("path", dest))

	r.doc = ledger.NewEmptyDocument(r.clock)
	if !r.save() {
		return fmt.Errorf("quarantine corrupted store: reinitializing %s", r.path)
	}
	return nil
}

// save commits the in-memory document, stamping last_modified and the
// cached counts. Failures are logged and reported as false.
func (r *Repository) save() bool {
	r.doc.Touch(r.clock)

	data, err := EncodeDocument(r.doc)
	if err != nil {
		r.log.Error("failed to encode document", zap.Error(err))
		return false
	}
	if err := WriteAtomic(r.path, data); err != nil {
		r.log.Error("failed to save data", zap.Error(err))
		return false
	}
	return true
}

// commit saves the document; when the write fails, the in-memory
// collections are rolled back to the given snapshots so the cache never
// diverges from the on-disk state.
func (r *Repository) commit(prevTx []ledger.Transaction, prevCat []ledger.Category, prevMeta ledger.Metadata) bool {
	if r.save() {
		return true
	}
	r.doc.Transactions = prevTx
	r.doc.Categories = prevCat
	r.doc.Metadata = prevMeta
	return false
}

// InitializeStorage seeds the default categories, adding only the ones not
// already present. Idempotent.
func (r *Repository) InitializeStorage() bool {
	existing := make(map[string]bool, len(r.doc.Categories))
	for _, c := range r.doc.Categories {
		existing[c.Name] = true
	}

	prevCat, prevMeta := r.doc.Categories, r.doc.Metadata
	categories := append([]ledger.Category(nil), prevCat...)
	added := false
	for _, c := range ledger.DefaultCategories() {
		if !existing[c.Name] {
			categories = append(categories, c)
			added = true
		}
	}
	if !added {
		return true
	}

	r.doc.Categories = categories
	return r.commit(r.doc.Transactions, prevCat, prevMeta)
}

// Backup copies the current store file into the backup directory and
// prunes backups beyond the retention count.
func (r *Repository) Backup() bool {
	if _, err := r.backups.Create(""); err != nil {
		r.log.Error("failed to create backup", zap.Error(err))
		return false
	}
	if _, err := r.backups.Cleanup(backupRetention); err != nil {
		r.log.Warn("failed to clean up old backups", zap.Error(err))
	}
	return true
}

// Metadata returns a copy of the document's metadata block.
func (r *Repository) Metadata() ledger.Metadata {
	return r.doc.Metadata
}

// Settings returns the document's opaque settings block.
func (r *Repository) Settings() map[string]any {
	return r.doc.Settings
}

// Path returns the store file path.
func (r *Repository) Path() string { return r.path }
