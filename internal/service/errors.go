package service

import (
	"errors"
	"fmt"

	"auditapi/internal/model"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("audit document not found")

	// ErrValidation marks malformed or missing input; wrap it with detail via
	// fmt.Errorf("%w: ...", ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrStorage marks a document-store or blob-store I/O failure that
	// happened before any document write, so the caller knows nothing was
	// persisted.
	ErrStorage = errors.New("storage failure")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// PartialCompletionError reports that the audit form was persisted but a
// later pipeline step (render, upload, or ledger append) failed. The write is
// not rolled back; the saved form is carried so callers and reconciliation
// jobs can identify documents that lack a rendered artifact.
type PartialCompletionError struct {
	Form *model.Audit
	Step string
	Err  error
}

func (e *PartialCompletionError) Error() string {
	return fmt.Sprintf("form %s v%d saved but %s failed: %v", e.Form.ID, e.Form.Version, e.Step, e.Err)
}

func (e *PartialCompletionError) Unwrap() error { return e.Err }
