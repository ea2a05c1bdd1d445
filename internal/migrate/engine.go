// Package migrate upgrades older store documents to the current schema.
//
// The engine is a fixed, ordered chain of version-to-version transforms
// (0.8.0 -> 0.9.0 -> 1.0.0). Each step is a pure function over the raw
// document that only adds or normalizes fields the newer schema requires;
// user data is never deleted or altered. Steps run on the loose JSON form
// because pre-migration documents may not decode into the typed model yet.
package migrate

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tallyhq/tally/internal/ledger"
)

// oldestVersion is assumed for documents with no schema_version field.
const oldestVersion = "0.8.0"

// Step upgrades a raw document from one schema version to the next.
type Step struct {
	From  string
	To    string
	Apply func(doc map[string]any, now time.Time) map[string]any
}

// Engine applies the migration chain to raw documents.
type Engine struct {
	steps []Step
	log   *zap.Logger
	clock ledger.Clock
}

// New creates an engine with the full migration chain.
func New(log *zap.Logger, clock ledger.Clock) *Engine {
	return &Engine{
		steps: []Step{
			{From: "0.8.0", To: "0.9.0", Apply: migrate080to090},
			{From: "0.9.0", To: "1.0.0", Apply: migrate090to100},
		},
		log:   log,
		clock: clock,
	}
}

// Version returns the document's schema version, defaulting to the oldest
// known version when the field is absent.
func (e *Engine) Version(doc map[string]any) string {
	if v, ok := doc["schema_version"].(string); ok && v != "" {
		return v
	}
	return oldestVersion
}

// Needs reports whether the document is behind the current schema version.
func (e *Engine) Needs(doc map[string]any) bool {
	return e.Version(doc) != ledger.SchemaVersion
}

// Migrate upgrades doc to the current schema version, applying every step
// between the detected version and the target in order. The result is
// stamped with the target version and one migration_history entry covering
// the whole run. Migrating an already-current document returns it unchanged.
func (e *Engine) Migrate(doc map[string]any) (map[string]any, error) {
	if doc == nil {
		return nil, fmt.Errorf("migrate: document is null")
	}

	from := e.Version(doc)
	if from == ledger.SchemaVersion {
		return doc, nil
	}

	start := e.stepIndex(from)
	if start < 0 {
		return nil, fmt.Errorf("migrate: unknown schema version %q", from)
	}

	e.log.Info("migrating document",
		zap.String("from_version", from),
		zap.String("to_version", ledger.SchemaVersion))

	now := e.clock.Now()
	migrated := doc
	for _, step := range e.steps[start:] {
		e.log.Info("applying migration step",
			zap.String("from", step.From),
			zap.String("to", step.To))
		migrated = step.Apply(migrated, now)
	}

	migrated["schema_version"] = ledger.SchemaVersion
	history, _ := migrated["migration_history"].([]any)
	migrated["migration_history"] = append(history, map[string]any{
		"from_version": from,
		"to_version":   ledger.SchemaVersion,
		"migrated_at":  ledger.FormatTime(now),
	})

	return migrated, nil
}

func (e *Engine) stepIndex(version string) int {
	for i, step := range e.steps {
		if step.From == version {
			return i
		}
	}
	return -1
}
