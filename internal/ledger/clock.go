package ledger

import "time"

// Clock supplies wall-clock time to everything that stamps records.
//
// All timestamps in the store (created_at, last_modified, backup names,
// migration history) flow through a Clock so tests can substitute a fixed
// instant and assert exact serialized output.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
