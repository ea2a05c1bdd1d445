package ledger

// Metadata is the envelope's bookkeeping block. Timestamps are stored as
// ISO-8601 strings exactly as written; nothing in the core compares them.
type Metadata struct {
	CreatedAt         string `json:"created_at"`
	LastModified      string `json:"last_modified,omitempty"`
	LastAccessed      string `json:"last_accessed,omitempty"`
	TotalTransactions int    `json:"total_transactions"`
	TotalCategories   int    `json:"total_categories"`
	AppVersion        string `json:"application_version,omitempty"`
}

// MigrationRecord is one entry in the append-only migration log. One entry
// is recorded per migration run, from the detected version straight to the
// target, not per intermediate step.
type MigrationRecord struct {
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	MigratedAt  string `json:"migrated_at"`
}

// Document is the single persisted unit: a versioned envelope around the
// transaction and category collections. Field order here fixes the key
// order of the serialized file.
type Document struct {
	SchemaVersion    string            `json:"schema_version"`
	Transactions     []Transaction     `json:"transactions"`
	Categories       []Category        `json:"categories"`
	Metadata         Metadata          `json:"metadata"`
	Settings         map[string]any    `json:"settings,omitempty"`
	MigrationHistory []MigrationRecord `json:"migration_history"`
}

// NewDocument builds a fresh envelope with seeded default categories and
// default settings, as written on first run.
func NewDocument(clock Clock) *Document {
	now := FormatTime(clock.Now())
	categories := DefaultCategories()
	return &Document{
		SchemaVersion: SchemaVersion,
		Transactions:  []Transaction{},
		Categories:    categories,
		Metadata: Metadata{
			CreatedAt:         now,
			LastAccessed:      now,
			TotalTransactions: 0,
			TotalCategories:   len(categories),
			AppVersion:        AppVersion,
		},
		Settings:         DefaultSettings(),
		MigrationHistory: []MigrationRecord{},
	}
}

// NewEmptyDocument builds an envelope with no categories at all. Used when
// reinitializing after corruption; defaults come back via InitializeStorage.
func NewEmptyDocument(clock Clock) *Document {
	now := FormatTime(clock.Now())
	return &Document{
		SchemaVersion: SchemaVersion,
		Transactions:  []Transaction{},
		Categories:    []Category{},
		Metadata: Metadata{
			CreatedAt:    now,
			LastModified: now,
		},
		MigrationHistory: []MigrationRecord{},
	}
}

// Touch stamps last_modified and refreshes the cached counts. Called on
// every save.
func (d *Document) Touch(clock Clock) {
	d.Metadata.LastModified = FormatTime(clock.Now())
	d.RefreshCounts()
}

// RefreshCounts recomputes the cached collection sizes in metadata.
func (d *Document) RefreshCounts() {
	d.Metadata.TotalTransactions = len(d.Transactions)
	d.Metadata.TotalCategories = len(d.Categories)
}

// HasCategory reports whether a category with the given name exists.
func (d *Document) HasCategory(name string) bool {
	for _, c := range d.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// CategoryInUse reports whether any transaction references the category.
func (d *Document) CategoryInUse(name string) bool {
	for _, t := range d.Transactions {
		if t.Category == name {
			return true
		}
	}
	return false
}
