package repository

import (
	"context"

	"auditapi/internal/model"
)

// UserFormsQuery narrows and orders a user's form listing.
type UserFormsQuery struct {
	// Status filters by document status when non-empty.
	Status model.Status
	// SortVersionDesc orders results newest version first; otherwise newest
	// creation time first.
	SortVersionDesc bool
}

// AuditRepository defines persistence for audit templates and forms.
// No business logic here — strictly storage operations.
type AuditRepository interface {
	// Create inserts a new audit row (template or form version) and returns
	// the stored record. Inserting a duplicate (lineage, version) pair fails
	// with ErrVersionConflict.
	Create(ctx context.Context, a *model.Audit) (*model.Audit, error)

	// FindByID returns a template or form by its row id.
	FindByID(ctx context.Context, id string) (*model.Audit, error)

	// FindVersion returns the snapshot of a form lineage at an exact version.
	// The id may be any row of the lineage or the lineage root itself.
	FindVersion(ctx context.Context, id string, version int) (*model.Audit, error)

	// ListTemplates returns all documents still pending fill (status NOT FILLED).
	ListTemplates(ctx context.Context) ([]model.Audit, error)

	// ListByUser returns a user's forms, optionally filtered and ordered per q.
	ListByUser(ctx context.Context, userID string, q UserFormsQuery) ([]model.Audit, error)

	// UpdateTemplate replaces only the restaurant name and sections of a
	// template, in place and without a version bump.
	UpdateTemplate(ctx context.Context, id, restaurantName string, sections model.Sections) (*model.Audit, error)

	// Delete removes a document by id. Deleting a missing row is not an error.
	Delete(ctx context.Context, id string) error
}

// LedgerRepository persists the append-only artifact ledger.
type LedgerRepository interface {
	// Append inserts a new ledger entry and returns the stored record.
	// Entries are never updated or deleted by the application.
	Append(ctx context.Context, e *model.VersionLedgerEntry) (*model.VersionLedgerEntry, error)

	// LatestByFormID returns the highest-version entry for a form lineage.
	LatestByFormID(ctx context.Context, formID string) (*model.VersionLedgerEntry, error)

	// ListByFormID returns all entries for a form lineage, newest version first.
	ListByFormID(ctx context.Context, formID string) ([]model.VersionLedgerEntry, error)
}

// UserRepository persists auditor accounts.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}
