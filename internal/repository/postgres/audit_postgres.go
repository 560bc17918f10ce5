package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

// auditColumns is the canonical column list shared by every audit query so
// scans stay aligned with selects.
const auditColumns = `id, lineage_id, restaurant_name, name_of_company, fssai_license_no,
	company_representatives, site_address, state, pin_code, phone_no, email, website,
	audit_team, date_of_audit, audit_type, audit_criteria, type_of_audit, scope,
	manpower_male, manpower_female, sections, status, version, user_id, created_at, updated_at`

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAudit(row rowScanner) (*model.Audit, error) {
	var (
		a           model.Audit
		reps, team  []byte
		sections    []byte
		dateOfAudit sql.NullTime
	)
	if err := row.Scan(
		&a.ID, &a.LineageID, &a.RestaurantName, &a.NameOfCompany, &a.FSSAILicenseNo,
		&reps, &a.SiteAddress, &a.State, &a.PinCode, &a.PhoneNo, &a.Email, &a.Website,
		&team, &dateOfAudit, &a.AuditType, &a.AuditCriteria, &a.TypeOfAudit, &a.Scope,
		&a.Manpower.Male, &a.Manpower.Female, &sections, &a.Status, &a.Version, &a.UserID,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if dateOfAudit.Valid {
		t := dateOfAudit.Time
		a.DateOfAudit = &t
	}
	if err := json.Unmarshal(reps, &a.CompanyRepresentatives); err != nil {
		return nil, fmt.Errorf("decode company_representatives: %w", err)
	}
	if err := json.Unmarshal(team, &a.AuditTeam); err != nil {
		return nil, fmt.Errorf("decode audit_team: %w", err)
	}
	if err := json.Unmarshal(sections, &a.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return &a, nil
}

func marshalJSONColumn(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	// JSONB NOT NULL columns expect an array, not SQL NULL
	if string(b) == "null" {
		return []byte("[]"), nil
	}
	return b, nil
}

// Create inserts a new audit row and returns the stored record. A unique
// violation on (lineage_id, version) maps to repository.ErrVersionConflict.
func (r *AuditPostgres) Create(ctx context.Context, a *model.Audit) (*model.Audit, error) {
	reps, err := marshalJSONColumn(a.CompanyRepresentatives)
	if err != nil {
		return nil, fmt.Errorf("encode company_representatives: %w", err)
	}
	team, err := marshalJSONColumn(a.AuditTeam)
	if err != nil {
		return nil, fmt.Errorf("encode audit_team: %w", err)
	}
	sections, err := marshalJSONColumn(a.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}

	q := `
		INSERT INTO audits (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING ` + auditColumns

	var dateOfAudit sql.NullTime
	if a.DateOfAudit != nil {
		dateOfAudit = sql.NullTime{Time: *a.DateOfAudit, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, q,
		a.ID, a.LineageID, a.RestaurantName, a.NameOfCompany, a.FSSAILicenseNo,
		reps, a.SiteAddress, a.State, a.PinCode, a.PhoneNo, a.Email, a.Website,
		team, dateOfAudit, a.AuditType, a.AuditCriteria, a.TypeOfAudit, a.Scope,
		a.Manpower.Male, a.Manpower.Female, sections, a.Status, a.Version, a.UserID,
		a.CreatedAt, a.UpdatedAt,
	)
	out, err := scanAudit(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrVersionConflict
		}
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single audit document by its row id.
func (r *AuditPostgres) FindByID(ctx context.Context, id string) (*model.Audit, error) {
	q := `SELECT ` + auditColumns + ` FROM audits WHERE id = $1`
	return scanAudit(r.db.QueryRowContext(ctx, q, id))
}

// FindVersion fetches the snapshot of a lineage at an exact version. The id
// may reference any row of the lineage or the lineage root.
func (r *AuditPostgres) FindVersion(ctx context.Context, id string, version int) (*model.Audit, error) {
	q := `SELECT ` + auditColumns + ` FROM audits
		WHERE version = $2
		  AND (id::text = $1 OR lineage_id = $1
		       OR lineage_id = (SELECT lineage_id FROM audits WHERE id::text = $1))
		LIMIT 1`
	return scanAudit(r.db.QueryRowContext(ctx, q, id, version))
}

// ListTemplates returns all documents pending fill.
func (r *AuditPostgres) ListTemplates(ctx context.Context) ([]model.Audit, error) {
	q := `SELECT ` + auditColumns + ` FROM audits WHERE status = $1 ORDER BY created_at DESC, id DESC`
	return r.queryMany(ctx, q, model.StatusNotFilled)
}

// ListByUser returns a user's forms, optionally filtered by status and sorted
// by version descending.
func (r *AuditPostgres) ListByUser(ctx context.Context, userID string, fq repository.UserFormsQuery) ([]model.Audit, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + auditColumns + ` FROM audits WHERE user_id = $1`)
	args := []any{userID}
	if fq.Status != "" {
		args = append(args, fq.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if fq.SortVersionDesc {
		sb.WriteString(" ORDER BY version DESC, created_at DESC")
	} else {
		sb.WriteString(" ORDER BY created_at DESC, id DESC")
	}
	return r.queryMany(ctx, sb.String(), args...)
}

// UpdateTemplate replaces only the editable template fields in place.
func (r *AuditPostgres) UpdateTemplate(ctx context.Context, id, restaurantName string, sections model.Sections) (*model.Audit, error) {
	encoded, err := marshalJSONColumn(sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	q := `UPDATE audits
		SET restaurant_name = $2, sections = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + auditColumns
	return scanAudit(r.db.QueryRowContext(ctx, q, id, restaurantName, encoded))
}

// Delete removes a document by id. It does not return an error if the row does not exist.
func (r *AuditPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM audits WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func (r *AuditPostgres) queryMany(ctx context.Context, q string, args ...any) ([]model.Audit, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Audit, 0)
	for rows.Next() {
		a, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
