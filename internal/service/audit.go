package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"auditapi/internal/config"
	"auditapi/internal/model"
	"auditapi/internal/pdf"
	"auditapi/internal/repository"
	"auditapi/internal/storage"
	"auditapi/internal/version"
)

// FormInput carries the auditor-supplied fields of a fill or update request.
// Organizational identity fields are never taken from input; they are copied
// from the source template (fill) or prior version (update).
type FormInput struct {
	UserID        string         `json:"userId"`
	DateOfAudit   *time.Time     `json:"dateOfAudit"`
	AuditType     string         `json:"auditType"`
	AuditCriteria string         `json:"auditCriteria"`
	TypeOfAudit   string         `json:"typeOfAudit"`
	Scope         string         `json:"scope"`
	Manpower      model.Manpower `json:"manpower"`
	Sections      model.Sections `json:"sections"`
}

// FillResult is what a successful pipeline run hands back: the persisted form
// version and the ledger entry pointing at its rendered artifact.
type FillResult struct {
	Form   *model.Audit              `json:"auditForm"`
	Ledger *model.VersionLedgerEntry `json:"ledgerEntry"`
}

// AuditService orchestrates the fill/update pipeline end to end:
// resolve source, resolve media, assign version, persist, render, upload,
// append ledger. Steps after the persist are best-effort sequential; their
// failure surfaces as *PartialCompletionError rather than rolling back the
// document write.
type AuditService interface {
	// Fill creates the first (or next) form version from a template.
	Fill(ctx context.Context, templateID string, in FormInput) (*FillResult, error)

	// Update produces a new immutable version in an existing form lineage,
	// re-renders it, and appends a fresh ledger entry.
	Update(ctx context.Context, formID string, in FormInput) (*FillResult, error)

	// GetVersion returns the snapshot of a form lineage at an exact version.
	GetVersion(ctx context.Context, id string, version int) (*model.Audit, error)

	// ListUserForms returns a user's forms, optionally restricted to filled
	// ones and sorted by version descending.
	ListUserForms(ctx context.Context, userID string, filledOnly, sortVersionDesc bool) ([]model.Audit, error)

	// Delete removes a form. Ledger entries are left in place and become
	// orphaned; the ledger is append-only.
	Delete(ctx context.Context, id string) error

	// LatestArtifact returns the newest ledger entry for a form lineage.
	LatestArtifact(ctx context.Context, formID string) (*model.VersionLedgerEntry, error)
}

type auditService struct {
	repo     repository.AuditRepository
	ledger   repository.LedgerRepository
	store    storage.Storage
	renderer pdf.Renderer
	cfg      config.RenderConfig
}

// NewAuditService constructs the pipeline orchestrator.
func NewAuditService(
	repo repository.AuditRepository,
	ledger repository.LedgerRepository,
	store storage.Storage,
	renderer pdf.Renderer,
	cfg config.RenderConfig,
) AuditService {
	return &auditService{repo: repo, ledger: ledger, store: store, renderer: renderer, cfg: cfg}
}

func (s *auditService) Fill(ctx context.Context, templateID string, in FormInput) (*FillResult, error) {
	if templateID == "" {
		templateID = s.cfg.DefaultTemplateID
	}
	if templateID == "" {
		return nil, fmt.Errorf("%w: template id is required", ErrValidation)
	}
	if err := validateFormInput(in); err != nil {
		return nil, err
	}

	tmpl, err := s.repo.FindByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !tmpl.IsTemplate() {
		return nil, fmt.Errorf("%w: document %s is not a template", ErrValidation, templateID)
	}

	// Media must be durable before anything touches the document store, so a
	// failed upload can never leave half-resolved sections persisted.
	sections, err := s.resolveMedia(ctx, in.Sections)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	form := &model.Audit{
		ID:        id,
		LineageID: id,

		// Copied from the template at fill time, not referenced live.
		RestaurantName:         tmpl.RestaurantName,
		NameOfCompany:          tmpl.NameOfCompany,
		FSSAILicenseNo:         tmpl.FSSAILicenseNo,
		CompanyRepresentatives: tmpl.CompanyRepresentatives,
		SiteAddress:            tmpl.SiteAddress,
		State:                  tmpl.State,
		PinCode:                tmpl.PinCode,
		PhoneNo:                tmpl.PhoneNo,
		Email:                  tmpl.Email,
		Website:                tmpl.Website,
		AuditTeam:              tmpl.AuditTeam,

		DateOfAudit:   in.DateOfAudit,
		AuditType:     in.AuditType,
		AuditCriteria: in.AuditCriteria,
		TypeOfAudit:   in.TypeOfAudit,
		Scope:         in.Scope,
		Manpower:      in.Manpower,
		Sections:      sections,
		Status:        model.StatusFilled,
		Version:       version.Next(tmpl.Version),
		UserID:        in.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	return s.persistAndRender(ctx, form)
}

func (s *auditService) Update(ctx context.Context, formID string, in FormInput) (*FillResult, error) {
	if formID == "" {
		return nil, ErrIDRequired
	}
	if err := validateFormInput(in); err != nil {
		return nil, err
	}

	prev, err := s.repo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if prev.IsTemplate() {
		return nil, fmt.Errorf("%w: document %s is a template, not a form", ErrValidation, formID)
	}

	sections, err := s.resolveMedia(ctx, in.Sections)
	if err != nil {
		return nil, err
	}

	lineage := prev.LineageID
	if lineage == "" {
		lineage = prev.ID
	}

	now := time.Now().UTC()
	next := *prev
	next.ID = uuid.New().String()
	next.LineageID = lineage
	next.DateOfAudit = in.DateOfAudit
	next.AuditType = in.AuditType
	next.AuditCriteria = in.AuditCriteria
	next.TypeOfAudit = in.TypeOfAudit
	next.Scope = in.Scope
	next.Manpower = in.Manpower
	next.Sections = sections
	next.Version = version.Next(prev.Version)
	if in.UserID != "" {
		next.UserID = in.UserID
	}
	next.CreatedAt = now
	next.UpdatedAt = now

	return s.persistAndRender(ctx, &next)
}

// persistAndRender runs steps 4-7 of the pipeline. Once Create succeeds, any
// later failure is reported as a PartialCompletionError carrying the saved
// form; there is no cross-step rollback.
func (s *auditService) persistAndRender(ctx context.Context, form *model.Audit) (*FillResult, error) {
	saved, err := s.repo.Create(ctx, form)
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("persist audit form: %w", err)
	}

	renderCtx, cancel := context.WithTimeout(ctx, s.cfg.RenderTimeout)
	rendered, err := s.renderer.Render(renderCtx, saved)
	cancel()
	if err != nil {
		return nil, &PartialCompletionError{Form: saved, Step: "render", Err: err}
	}

	key := artifactKey(saved)
	uploadCtx, cancel := context.WithTimeout(ctx, s.cfg.UploadTimeout)
	_, err = s.store.Put(uploadCtx, key, bytes.NewReader(rendered), storage.PutObjectOptions{
		Size:        int64(len(rendered)),
		ContentType: "application/pdf",
		Metadata: map[string]string{
			"form-id": saved.LineageID,
			"version": fmt.Sprintf("%d", saved.Version),
		},
	})
	cancel()
	if err != nil {
		return nil, &PartialCompletionError{Form: saved, Step: "upload", Err: err}
	}

	url, err := s.store.PresignGet(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, &PartialCompletionError{Form: saved, Step: "upload", Err: err}
	}

	entry, err := s.ledger.Append(ctx, &model.VersionLedgerEntry{
		ID:            uuid.New().String(),
		UserID:        saved.UserID,
		FormID:        saved.LineageID,
		VersionNumber: saved.Version,
		PDFKey:        key,
		PDFURL:        url,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, &PartialCompletionError{Form: saved, Step: "ledger", Err: err}
	}

	return &FillResult{Form: saved, Ledger: entry}, nil
}

// artifactKey is the blob-store key and human-identifiable filename of a
// rendered form version.
func artifactKey(a *model.Audit) string {
	return fmt.Sprintf("Audit_Form_%s_v%d.pdf", a.LineageID, a.Version)
}

// resolveMedia uploads inline data-URI evidence images to durable storage and
// rewrites the section list to reference the stored objects. Any failure
// fails the whole operation before a document write happens.
func (s *auditService) resolveMedia(ctx context.Context, sections model.Sections) (model.Sections, error) {
	out := make(model.Sections, len(sections))
	for si, sec := range sections {
		out[si] = sec
		out[si].Questions = make([]model.Question, len(sec.Questions))
		copy(out[si].Questions, sec.Questions)

		for qi, q := range sec.Questions {
			if !strings.HasPrefix(q.Image, "data:") {
				continue
			}
			raw, _, err := pdf.DecodeDataURI(q.Image)
			if err != nil {
				return nil, fmt.Errorf("%w: evidence image in section %d question %d: %v", ErrValidation, si, qi, err)
			}
			encoded, err := pdf.TranscodeToPNG(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: evidence image in section %d question %d: %v", ErrValidation, si, qi, err)
			}

			key := "evidence/" + uuid.New().String() + ".png"
			uploadCtx, cancel := context.WithTimeout(ctx, s.cfg.UploadTimeout)
			_, err = s.store.Put(uploadCtx, key, bytes.NewReader(encoded), storage.PutObjectOptions{
				Size:        int64(len(encoded)),
				ContentType: "image/png",
			})
			cancel()
			if err != nil {
				return nil, fmt.Errorf("%w: upload evidence image: %v", ErrStorage, err)
			}
			url, err := s.store.PresignGet(ctx, key, s.cfg.PresignExpiry)
			if err != nil {
				return nil, fmt.Errorf("%w: presign evidence image: %v", ErrStorage, err)
			}
			out[si].Questions[qi].Image = url
		}
	}
	return out, nil
}

func validateFormInput(in FormInput) error {
	if in.UserID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if in.Manpower.Male < 0 || in.Manpower.Female < 0 {
		return fmt.Errorf("%w: manpower counts must be non-negative", ErrValidation)
	}
	for si, sec := range in.Sections {
		for qi, q := range sec.Questions {
			if q.Compliance != "" && !q.Compliance.Valid() {
				return fmt.Errorf("%w: section %d question %d: invalid compliance %q", ErrValidation, si, qi, q.Compliance)
			}
		}
	}
	return nil
}

func (s *auditService) GetVersion(ctx context.Context, id string, v int) (*model.Audit, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if v < 1 {
		return nil, fmt.Errorf("%w: version must be >= 1", ErrValidation)
	}
	a, err := s.repo.FindVersion(ctx, id, v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *auditService) ListUserForms(ctx context.Context, userID string, filledOnly, sortVersionDesc bool) ([]model.Audit, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	q := repository.UserFormsQuery{SortVersionDesc: sortVersionDesc}
	if filledOnly {
		q.Status = model.StatusFilled
	}
	return s.repo.ListByUser(ctx, userID, q)
}

func (s *auditService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *auditService) LatestArtifact(ctx context.Context, formID string) (*model.VersionLedgerEntry, error) {
	if formID == "" {
		return nil, ErrIDRequired
	}
	form, err := s.repo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	lineage := form.LineageID
	if lineage == "" {
		lineage = form.ID
	}
	entry, err := s.ledger.LatestByFormID(ctx, lineage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}
