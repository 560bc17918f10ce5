package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditapi/internal/model"
)

var ledgerCols = []string{"id", "user_id", "form_id", "version_number", "pdf_key", "pdf_url", "created_at"}

func TestLedgerPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	entry := &model.VersionLedgerEntry{
		ID:            "ledger-1",
		UserID:        "user-1",
		FormID:        "form-1",
		VersionNumber: 1,
		PDFKey:        "pdfs/Audit_Form_form-1_v1.pdf",
		PDFURL:        "https://store.example/pdfs/Audit_Form_form-1_v1.pdf",
		CreatedAt:     now,
	}

	rows := sqlmock.NewRows(ledgerCols).
		AddRow(entry.ID, entry.UserID, entry.FormID, entry.VersionNumber, entry.PDFKey, entry.PDFURL, entry.CreatedAt)
	mock.ExpectQuery("INSERT INTO audit_versions").
		WithArgs(entry.ID, entry.UserID, entry.FormID, entry.VersionNumber, entry.PDFKey, entry.PDFURL, entry.CreatedAt).
		WillReturnRows(rows)

	got, err := repo.Append(ctx, entry)

	assert.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.VersionNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerPostgres_LatestByFormID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(ledgerCols).
			AddRow("ledger-2", "user-1", "form-1", 2, "pdfs/v2.pdf", "https://store/v2.pdf", time.Now())
		mock.ExpectQuery("SELECT (.+) FROM audit_versions").
			WithArgs("form-1").
			WillReturnRows(rows)

		e, err := repo.LatestByFormID(ctx, "form-1")

		assert.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, 2, e.VersionNumber)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM audit_versions").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		e, err := repo.LatestByFormID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, e)
	})
}

func TestLedgerPostgres_ListByFormID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows(ledgerCols).
		AddRow("ledger-2", "user-1", "form-1", 2, "pdfs/v2.pdf", "https://store/v2.pdf", time.Now()).
		AddRow("ledger-1", "user-1", "form-1", 1, "pdfs/v1.pdf", "https://store/v1.pdf", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM audit_versions").
		WithArgs("form-1").
		WillReturnRows(rows)

	items, err := repo.ListByFormID(ctx, "form-1")

	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].VersionNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}
