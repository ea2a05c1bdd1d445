package ledger

// defaultCategories are seeded at first initialization. The set is stable;
// InitializeStorage only adds entries that are missing, never rewrites
// existing ones.
var defaultCategories = []Category{
	{Name: "Salary", Type: TypeIncome, IsDefault: true},
	{Name: "Freelance", Type: TypeIncome, IsDefault: true},
	{Name: "Investment", Type: TypeIncome, IsDefault: true},
	{Name: "Other Income", Type: TypeIncome, IsDefault: true},

	{Name: "Food", Type: TypeExpense, IsDefault: true},
	{Name: "Transportation", Type: TypeExpense, IsDefault: true},
	{Name: "Entertainment", Type: TypeExpense, IsDefault: true},
	{Name: "Utilities", Type: TypeExpense, IsDefault: true},
	{Name: "Healthcare", Type: TypeExpense, IsDefault: true},
	{Name: "Shopping", Type: TypeExpense, IsDefault: true},
	{Name: "Other Expense", Type: TypeExpense, IsDefault: true},
}

// DefaultCategories returns a copy of the seeded category set.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	copy(out, defaultCategories)
	return out
}

// DefaultSettings returns the user preferences written at first
// initialization. The core treats settings as opaque after that.
func DefaultSettings() map[string]any {
	return map[string]any{
		"currency":         "USD",
		"date_format":      "YYYY-MM-DD",
		"decimal_places":   2,
		"auto_backup":      true,
		"backup_frequency": "daily",
	}
}
