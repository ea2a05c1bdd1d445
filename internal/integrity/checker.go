// Package integrity validates a stored document without mutating it.
//
// Check collects every problem it can find rather than failing fast, in two
// severities: errors invalidate the document (missing structure, unparsable
// amounts or dates, duplicate identifiers), warnings flag suspicious but
// tolerable data (non-positive amounts, duplicate category names, dangling
// category references). Statistics are computed defensively - a record whose
// amount cannot be parsed contributes zero instead of aborting the totals.
package integrity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/ledger"
)

// Report is the result of validating one document.
type Report struct {
	Valid    bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Stats    *Stats   `json:"statistics,omitempty"`
}

// Stats summarizes the document's contents with exact decimal totals.
type Stats struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalCategories   int             `json:"total_categories"`
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetBalance        decimal.Decimal `json:"net_balance"`
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Valid = false
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// CheckFile validates the document stored at path. A missing file is a
// hard error.
func CheckFile(path string) Report {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{
			Valid:    false,
			Errors:   []string{fmt.Sprintf("data file not found: %s", path)},
			Warnings: []string{},
		}
	}
	return Check(data)
}

// Check validates a serialized document. A document that cannot be parsed
// at all short-circuits to a single hard error with no statistics.
func Check(data []byte) Report {
	report := Report{Valid: true, Errors: []string{}, Warnings: []string{}}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		report.errorf("invalid JSON format: %v", err)
		return report
	}

	checkStructure(doc, &report)

	categoryNames := map[string]bool{}
	if categories, ok := doc["categories"].([]any); ok {
		checkCategories(categories, categoryNames, &report)
	}
	if transactions, ok := doc["transactions"].([]any); ok {
		checkTransactions(transactions, categoryNames, &report)
	}

	stats := computeStats(doc)
	report.Stats = &stats
	return report
}

// checkStructure verifies the required top-level collections exist and are
// of the expected container type.
func checkStructure(doc map[string]any, report *Report) {
	for _, key := range []string{"transactions", "categories"} {
		v, ok := doc[key]
		if !ok {
			report.errorf("missing required key: %s", key)
			continue
		}
		if _, ok := v.([]any); !ok {
			report.errorf("key %q must be a list", key)
		}
	}
}

func checkTransactions(transactions []any, categoryNames map[string]bool, report *Report) {
	seen := map[string]bool{}

	for i, item := range transactions {
		tx, ok := item.(map[string]any)
		if !ok {
			report.errorf("transaction %d is not an object", i)
			continue
		}

		for _, field := range []string{"id", "amount", "description", "transaction_type", "category", "date"} {
			if _, ok := tx[field]; !ok {
				report.errorf("transaction %d missing field: %s", i, field)
			}
		}

		if id, ok := tx["id"].(string); ok {
			if seen[id] {
				report.errorf("duplicate transaction ID: %s", id)
			}
			seen[id] = true
		}

		if raw, ok := tx["amount"]; ok {
			if amount, err := parseAmount(raw); err != nil {
				report.errorf("transaction %d has invalid amount", i)
			} else if amount.Sign() <= 0 {
				report.warnf("transaction %d has non-positive amount", i)
			}
		}

		if raw, ok := tx["date"]; ok {
			date, isString := raw.(string)
			if !isString {
				report.errorf("transaction %d has invalid date format", i)
			} else if _, err := ledger.ParseTime(date); err != nil {
				report.errorf("transaction %d has invalid date format", i)
			}
		}

		// Category references are a soft invariant: transactions and
		// categories are mutated independently, so a dangling name is
		// only a warning.
		if name, ok := tx["category"].(string); ok && name != "" {
			if !categoryNames[name] {
				report.warnf("transaction %d references unknown category: %s", i, name)
			}
		}
	}
}

func checkCategories(categories []any, names map[string]bool, report *Report) {
	for i, item := range categories {
		cat, ok := item.(map[string]any)
		if !ok {
			report.errorf("category %d is not an object", i)
			continue
		}

		for _, field := range []string{"name", "category_type"} {
			if _, ok := cat[field]; !ok {
				report.errorf("category %d missing field: %s", i, field)
			}
		}

		if name, ok := cat["name"].(string); ok {
			// Duplicates are only a warning: the store collapses them
			// by name on the next save.
			if names[name] {
				report.warnf("duplicate category name: %s", name)
			}
			names[name] = true
		}
	}
}

func computeStats(doc map[string]any) Stats {
	stats := Stats{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	if transactions, ok := doc["transactions"].([]any); ok {
		stats.TotalTransactions = len(transactions)
		for _, item := range transactions {
			tx, ok := item.(map[string]any)
			if !ok {
				continue
			}
			amount, err := parseAmount(tx["amount"])
			if err != nil {
				continue
			}
			switch typ, _ := tx["transaction_type"].(string); ledger.Type(typ) {
			case ledger.TypeIncome:
				stats.TotalIncome = stats.TotalIncome.Add(amount)
			case ledger.TypeExpense:
				stats.TotalExpenses = stats.TotalExpenses.Add(amount)
			}
		}
	}
	if categories, ok := doc["categories"].([]any); ok {
		stats.TotalCategories = len(categories)
	}

	stats.NetBalance = stats.TotalIncome.Sub(stats.TotalExpenses)
	return stats
}

// parseAmount accepts the decimal-string wire form as well as bare JSON
// numbers found in older files.
func parseAmount(v any) (decimal.Decimal, error) {
	switch raw := v.(type) {
	case string:
		return decimal.NewFromString(raw)
	case json.Number:
		return decimal.NewFromString(raw.String())
	default:
		return decimal.Zero, fmt.Errorf("amount is not a number: %v", v)
	}
}
