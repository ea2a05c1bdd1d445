package persist

import (
	"fmt"
	"strings"

	"github.com/tallyhq/tally/internal/integrity"
)

// The orchestrator reserves error returns for conditions the caller cannot
// reasonably anticipate: document contents that fail validation (DataError)
// and I/O failures (FileError). Expected business outcomes - not found,
// duplicate, validation of a single record - are plain return values in the
// repository layer, never errors.

// DataError reports malformed or failed-validation document contents. When
// the failure came from an integrity check, Report carries the full detail.
type DataError struct {
	Op     string
	Report *integrity.Report
	Err    error
}

func (e *DataError) Error() string {
	if e.Report != nil {
		return fmt.Sprintf("%s: data integrity validation failed: %s",
			e.Op, strings.Join(e.Report.Errors, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *DataError) Unwrap() error { return e.Err }

// FileError reports an I/O failure against the store or backup files.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
