package postgres

import (
	"context"
	"database/sql"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

const ledgerColumns = `id, user_id, form_id, version_number, pdf_key, pdf_url, created_at`

// LedgerPostgres is a PostgreSQL implementation of repository.LedgerRepository.
// The table is append-only; no update or delete statements exist here.
type LedgerPostgres struct {
	db *sql.DB
}

// NewLedgerPostgres creates a new LedgerPostgres repository.
func NewLedgerPostgres(db *sql.DB) *LedgerPostgres {
	return &LedgerPostgres{db: db}
}

var _ repository.LedgerRepository = (*LedgerPostgres)(nil)

func scanLedgerEntry(row rowScanner) (*model.VersionLedgerEntry, error) {
	var e model.VersionLedgerEntry
	if err := row.Scan(
		&e.ID, &e.UserID, &e.FormID, &e.VersionNumber, &e.PDFKey, &e.PDFURL, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// Append inserts a new ledger entry and returns the stored record.
func (r *LedgerPostgres) Append(ctx context.Context, e *model.VersionLedgerEntry) (*model.VersionLedgerEntry, error) {
	q := `
		INSERT INTO audit_versions (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + ledgerColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID, e.UserID, e.FormID, e.VersionNumber, e.PDFKey, e.PDFURL, e.CreatedAt,
	)
	return scanLedgerEntry(row)
}

// LatestByFormID returns the highest-version entry for a form lineage.
func (r *LedgerPostgres) LatestByFormID(ctx context.Context, formID string) (*model.VersionLedgerEntry, error) {
	q := `SELECT ` + ledgerColumns + ` FROM audit_versions
		WHERE form_id = $1
		ORDER BY version_number DESC
		LIMIT 1`
	return scanLedgerEntry(r.db.QueryRowContext(ctx, q, formID))
}

// ListByFormID returns every entry for a form lineage, newest version first.
func (r *LedgerPostgres) ListByFormID(ctx context.Context, formID string) ([]model.VersionLedgerEntry, error) {
	q := `SELECT ` + ledgerColumns + ` FROM audit_versions
		WHERE form_id = $1
		ORDER BY version_number DESC`
	rows, err := r.db.QueryContext(ctx, q, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.VersionLedgerEntry, 0)
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
