package migrate

import (
	"fmt"
	"time"

	"github.com/tallyhq/tally/internal/ledger"
)

// migrate080to090 fills the record-level fields 0.9.0 introduced:
// created_at on transactions (falling back to the occurrence date) and the
// is_default flag on categories. Already-present values are left alone.
func migrate080to090(doc map[string]any, now time.Time) map[string]any {
	for _, item := range asList(doc["transactions"]) {
		tx, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := tx["created_at"]; !ok {
			if date, ok := tx["date"].(string); ok && date != "" {
				tx["created_at"] = date
			} else {
				tx["created_at"] = ledger.FormatTime(now)
			}
		}
	}
	for _, item := range asList(doc["categories"]) {
		cat, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := cat["is_default"]; !ok {
			cat["is_default"] = false
		}
	}
	return doc
}

// migrate090to100 adds the envelope metadata block 1.0.0 introduced and
// makes sure every transaction carries an identifier.
func migrate090to100(doc map[string]any, now time.Time) map[string]any {
	transactions := asList(doc["transactions"])

	if _, ok := doc["metadata"]; !ok {
		doc["metadata"] = map[string]any{
			"created_at":         ledger.FormatTime(now),
			"last_accessed":      ledger.FormatTime(now),
			"total_transactions": len(transactions),
			"total_categories":   len(asList(doc["categories"])),
		}
	}

	stamp := now.Format("20060102_150405")
	for i, item := range transactions {
		tx, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := tx["id"].(string); !ok || id == "" {
			tx["id"] = fmt.Sprintf("tx_%s_%d", stamp, i)
		}
	}
	return doc
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}
