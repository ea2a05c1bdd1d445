package integrity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{
  "schema_version": "1.0.0",
  "transactions": [
    {"id": "t1", "amount": "100.50", "description": "Salary", "category": "Salary",
     "date": "2024-01-15T00:00:00Z", "transaction_type": "INCOME", "created_at": "2024-01-15T00:00:00Z"},
    {"id": "t2", "amount": "25.25", "description": "Lunch", "category": "Food",
     "date": "2024-01-16T00:00:00Z", "transaction_type": "EXPENSE", "created_at": "2024-01-16T00:00:00Z"}
  ],
  "categories": [
    {"name": "Salary", "category_type": "INCOME", "is_default": true},
    {"name": "Food", "category_type": "EXPENSE", "is_default": true}
  ],
  "metadata": {},
  "migration_history": []
}`

func TestCheck_ValidDocument(t *testing.T) {
	report := Check([]byte(validDoc))

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
	assert.Empty(t, report.Warnings)
	require.NotNil(t, report.Stats)
	assert.Equal(t, 2, report.Stats.TotalTransactions)
	assert.Equal(t, 2, report.Stats.TotalCategories)
	assert.True(t, report.Stats.TotalIncome.Equal(decimal.RequireFromString("100.50")))
	assert.True(t, report.Stats.TotalExpenses.Equal(decimal.RequireFromString("25.25")))
	assert.True(t, report.Stats.NetBalance.Equal(decimal.RequireFromString("75.25")))
}

func TestCheck_MalformedJSON(t *testing.T) {
	report := Check([]byte(`{"transactions": [`))

	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "invalid JSON format")
	assert.Nil(t, report.Stats)
}

func TestCheck_MissingRequiredKeys(t *testing.T) {
	report := Check([]byte(`{"schema_version": "1.0.0"}`))

	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, "missing required key: transactions")
	assert.Contains(t, report.Errors, "missing required key: categories")
}

func TestCheck_WrongContainerType(t *testing.T) {
	report := Check([]byte(`{"transactions": {}, "categories": []}`))

	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, `key "transactions" must be a list`)
}

func TestCheck_TransactionErrors(t *testing.T) {
	doc := `{
	  "transactions": [
	    {"id": "t1", "amount": "abc", "description": "x", "category": "Food", "date": "2024-01-01", "transaction_type": "EXPENSE"},
	    {"id": "t1", "amount": "5", "description": "y", "category": "Food", "date": "bogus", "transaction_type": "EXPENSE"},
	    {"amount": "5", "description": "z", "category": "Food", "transaction_type": "EXPENSE"}
	  ],
	  "categories": [{"name": "Food", "category_type": "EXPENSE"}]
	}`
	report := Check([]byte(doc))

	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors, "transaction 0 has invalid amount")
	assert.Contains(t, report.Errors, "duplicate transaction ID: t1")
	assert.Contains(t, report.Errors, "transaction 1 has invalid date format")
	assert.Contains(t, report.Errors, "transaction 2 missing field: id")
	assert.Contains(t, report.Errors, "transaction 2 missing field: date")
}

func TestCheck_Warnings(t *testing.T) {
	doc := `{
	  "transactions": [
	    {"id": "t1", "amount": "-5", "description": "x", "category": "Food", "date": "2024-01-01", "transaction_type": "EXPENSE"},
	    {"id": "t2", "amount": "5", "description": "y", "category": "Ghost", "date": "2024-01-02", "transaction_type": "EXPENSE"}
	  ],
	  "categories": [
	    {"name": "Food", "category_type": "EXPENSE"},
	    {"name": "Food", "category_type": "EXPENSE"}
	  ]
	}`
	report := Check([]byte(doc))

	assert.True(t, report.Valid, "warnings alone must not invalidate")
	assert.Contains(t, report.Warnings, "transaction 0 has non-positive amount")
	assert.Contains(t, report.Warnings, "transaction 1 references unknown category: Ghost")
	assert.Contains(t, report.Warnings, "duplicate category name: Food")
}

func TestCheck_StatsAreDefensive(t *testing.T) {
	// An unparsable amount contributes zero instead of failing the totals.
	doc := `{
	  "transactions": [
	    {"id": "t1", "amount": "oops", "description": "x", "category": "Food", "date": "2024-01-01", "transaction_type": "EXPENSE"},
	    {"id": "t2", "amount": 10, "description": "y", "category": "Food", "date": "2024-01-02", "transaction_type": "INCOME"}
	  ],
	  "categories": [{"name": "Food", "category_type": "EXPENSE"}]
	}`
	report := Check([]byte(doc))

	require.NotNil(t, report.Stats)
	assert.True(t, report.Stats.TotalIncome.Equal(decimal.NewFromInt(10)))
	assert.True(t, report.Stats.TotalExpenses.IsZero())
}

func TestCheckFile_Missing(t *testing.T) {
	report := CheckFile(filepath.Join(t.TempDir(), "nope.json"))

	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "data file not found")
}

func TestCheckFile_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o644))

	report := CheckFile(path)
	assert.True(t, report.Valid)
}
