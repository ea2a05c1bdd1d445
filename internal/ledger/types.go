package ledger

import (
	"fmt"
	"time"
)

// Type tags a transaction or category as money in or money out.
type Type string

const (
	TypeIncome  Type = "INCOME"
	TypeExpense Type = "EXPENSE"
)

// Valid reports whether t is one of the defined type tags.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// timeLayouts are the accepted on-disk timestamp forms, most recent first.
// Older files carry zone-less ISO-8601 strings (with or without fractional
// seconds), and hand-edited files sometimes hold a bare date.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 timestamp in any of the historical forms
// the store has written.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// FormatTime renders a timestamp in the canonical on-disk form.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
