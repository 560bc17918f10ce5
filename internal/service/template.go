package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"auditapi/internal/model"
	"auditapi/internal/repository"
)

// TemplateInput carries the only fields an admin can set on a template.
// Everything else is defaulted empty and filled in by auditors later.
type TemplateInput struct {
	RestaurantName string         `json:"restaurantName"`
	Sections       model.Sections `json:"sections"`
}

// TemplateService defines the admin-facing use cases for audit templates.
type TemplateService interface {
	// Create stores a new blank template at version 0.
	Create(ctx context.Context, in TemplateInput) (*model.Audit, error)

	// List returns all templates pending fill.
	List(ctx context.Context) ([]model.Audit, error)

	// Get returns a template or form by id.
	Get(ctx context.Context, id string) (*model.Audit, error)

	// Update replaces a template's restaurant name and sections in place,
	// without a version bump.
	Update(ctx context.Context, id string, in TemplateInput) (*model.Audit, error)

	// Delete removes a template by id.
	Delete(ctx context.Context, id string) error
}

type templateService struct {
	repo repository.AuditRepository
}

// NewTemplateService constructs a new TemplateService.
func NewTemplateService(repo repository.AuditRepository) TemplateService {
	return &templateService{repo: repo}
}

func (s *templateService) Create(ctx context.Context, in TemplateInput) (*model.Audit, error) {
	if in.RestaurantName == "" {
		return nil, fmt.Errorf("%w: restaurantName is required", ErrValidation)
	}

	now := time.Now().UTC()
	tmpl := &model.Audit{
		ID:                     uuid.New().String(),
		RestaurantName:         in.RestaurantName,
		CompanyRepresentatives: []string{},
		AuditTeam:              []string{},
		Sections:               in.Sections,
		Status:                 model.StatusNotFilled,
		Version:                0,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return s.repo.Create(ctx, tmpl)
}

func (s *templateService) List(ctx context.Context) ([]model.Audit, error) {
	return s.repo.ListTemplates(ctx)
}

func (s *templateService) Get(ctx context.Context, id string) (*model.Audit, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *templateService) Update(ctx context.Context, id string, in TemplateInput) (*model.Audit, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.UpdateTemplate(ctx, id, in.RestaurantName, in.Sections)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *templateService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	// Confirm existence first so missing templates surface as not found.
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}
