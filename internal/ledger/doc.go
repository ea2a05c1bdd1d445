// Package ledger defines the persisted data model for the tally store.
//
// The unit of persistence is the Document: a versioned envelope holding the
// full transaction and category collections plus metadata, user settings and
// the migration history. The store never persists a partial Document - every
// save rewrites the whole file.
//
// On disk, records are loose JSON objects. ParseTransaction and ParseCategory
// convert that representation into typed records, reporting exactly which
// field made a record unusable so callers can skip it instead of failing the
// whole read.
//
// Monetary amounts are exact decimals (shopspring/decimal) and serialize as
// decimal strings, never floats.
package ledger
