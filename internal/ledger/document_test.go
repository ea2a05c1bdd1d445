package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument_Seeded(t *testing.T) {
	doc := NewDocument(fixedClock{t: testNow})

	assert.Equal(t, SchemaVersion, doc.SchemaVersion)
	assert.Empty(t, doc.Transactions)
	require.Len(t, doc.Categories, 11)
	for _, c := range doc.Categories {
		assert.True(t, c.IsDefault, "seeded category %s must be default", c.Name)
	}
	assert.Equal(t, 11, doc.Metadata.TotalCategories)
	assert.Equal(t, "2024-03-15T10:30:00Z", doc.Metadata.CreatedAt)
	assert.Equal(t, "USD", doc.Settings["currency"])
	assert.Empty(t, doc.MigrationHistory)
}

func TestNewEmptyDocument(t *testing.T) {
	doc := NewEmptyDocument(fixedClock{t: testNow})

	assert.Equal(t, SchemaVersion, doc.SchemaVersion)
	assert.Empty(t, doc.Transactions)
	assert.Empty(t, doc.Categories)
}

func TestDocumentTouch(t *testing.T) {
	doc := NewEmptyDocument(fixedClock{t: testNow})
	doc.Transactions = append(doc.Transactions, Transaction{
		ID: "t1", Amount: decimal.NewFromInt(1), Description: "x",
		Category: "c", Date: testNow, Type: TypeExpense,
	})

	later := fixedClock{t: testNow.Add(time.Hour)}
	doc.Touch(later)

	assert.Equal(t, "2024-03-15T11:30:00Z", doc.Metadata.LastModified)
	assert.Equal(t, 1, doc.Metadata.TotalTransactions)
	assert.Equal(t, 0, doc.Metadata.TotalCategories)
}

func TestDocumentCategoryLookups(t *testing.T) {
	doc := NewDocument(fixedClock{t: testNow})
	doc.Transactions = append(doc.Transactions, Transaction{
		ID: "t1", Amount: decimal.NewFromInt(1), Description: "x",
		Category: "Food", Date: testNow, Type: TypeExpense,
	})

	assert.True(t, doc.HasCategory("Food"))
	assert.False(t, doc.HasCategory("Nope"))
	assert.True(t, doc.CategoryInUse("Food"))
	assert.False(t, doc.CategoryInUse("Salary"))
}
