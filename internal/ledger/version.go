package ledger

// Version constants for the document schema and application.
const (
	// SchemaVersion is the current document schema version.
	// Files stamped with an older version are upgraded by internal/migrate.
	SchemaVersion = "1.0.0"

	// AppVersion is the tally application version recorded in metadata.
	AppVersion = "1.0.0"
)
