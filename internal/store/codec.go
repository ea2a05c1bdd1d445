package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/ledger"
)

// rawEnvelope defers record decoding so one malformed record cannot fail
// the whole document.
type rawEnvelope struct {
	SchemaVersion    string                   `json:"schema_version"`
	Transactions     []json.RawMessage        `json:"transactions"`
	Categories       []json.RawMessage        `json:"categories"`
	Metadata         ledger.Metadata          `json:"metadata"`
	Settings         map[string]any           `json:"settings"`
	MigrationHistory []ledger.MigrationRecord `json:"migration_history"`
}

// DecodeDocument parses a serialized document into the typed model.
//
// The envelope itself must parse; individual records that do not are
// skipped with a logged warning, favoring availability of the rest of the
// data over failing the read.
func DecodeDocument(data []byte, log *zap.Logger) (*ledger.Document, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &ledger.Document{
		SchemaVersion:    raw.SchemaVersion,
		Transactions:     make([]ledger.Transaction, 0, len(raw.Transactions)),
		Categories:       make([]ledger.Category, 0, len(raw.Categories)),
		Metadata:         raw.Metadata,
		Settings:         raw.Settings,
		MigrationHistory: raw.MigrationHistory,
	}
	if doc.MigrationHistory == nil {
		doc.MigrationHistory = []ledger.MigrationRecord{}
	}

	for _, rec := range raw.Transactions {
		t, err := ledger.ParseTransaction(rec)
		if err != nil {
			log.Warn("skipping invalid transaction record", zap.Error(err))
			continue
		}
		doc.Transactions = append(doc.Transactions, t)
	}
	for _, rec := range raw.Categories {
		c, err := ledger.ParseCategory(rec)
		if err != nil {
			log.Warn("skipping invalid category record", zap.Error(err))
			continue
		}
		doc.Categories = append(doc.Categories, c)
	}

	return doc, nil
}

// EncodeDocument serializes a document in the canonical on-disk form:
// UTF-8 JSON with stable two-space indentation and a trailing newline.
func EncodeDocument(doc *ledger.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteAtomic commits data to path with the temp-write + rename protocol.
// The rename is the only step observable as "commit"; a crash mid-write
// leaves the previous file intact.
func WriteAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("atomic write: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("atomic write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("atomic write: %w", err)
	}
	return nil
}
