package repository

import "errors"

// Package repository contains data access layer abstractions for audit
// documents, the version ledger, and user accounts. Implementations live in
// subpackages (postgres) and carry no business logic.

// ErrVersionConflict is returned when two writers raced on the same lineage
// and computed the same next version; the unique (lineage, version) index
// rejects the loser. Callers surface this as a conflict rather than retrying
// silently.
var ErrVersionConflict = errors.New("version already exists for lineage")
