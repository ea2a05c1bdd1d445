// Package store provides the file-backed repository for the tally document.
//
// The Repository owns one exclusively-held in-memory Document and exposes it
// only through its methods, keeping the read-modify-write cycle atomic from
// the caller's perspective. Every successful mutation commits the whole
// document with the temp-write + rename protocol, so a concurrent reader can
// only ever observe the pre- or post-mutation file, never a partial one.
//
// Access is single-process and call-and-return: the repository does not
// serialize concurrent callers within the process - the caller does.
//
// Failure semantics follow two tracks. Expected business outcomes
// (validation failure, not found, protected category) are boolean results.
// Whole-file corruption is recovered rather than propagated: the unreadable
// file is quarantined under a corrupted_data_<timestamp>.json name in the
// backup directory and an empty envelope takes its place, preserving the
// original for forensic recovery.
package store
