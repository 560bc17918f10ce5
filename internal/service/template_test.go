package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"auditapi/internal/model"
	repoMocks "auditapi/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		input      TemplateInput
		setupMocks func(mRepo *repoMocks.MockAuditRepository)
		wantErr    error
		checkRes   func(t *testing.T, a *model.Audit)
	}{
		{
			name: "happy path",
			input: TemplateInput{
				RestaurantName: "Cafe X",
				Sections: model.Sections{
					{SectionTitle: "Hygiene", Questions: []model.Question{{Question: "Floors clean?"}}},
				},
			},
			setupMocks: func(mRepo *repoMocks.MockAuditRepository) {
				mRepo.On("Create", ctx, mock.MatchedBy(func(a *model.Audit) bool {
					return a.ID != "" && a.Status == model.StatusNotFilled && a.Version == 0 && a.UserID == ""
				})).Return(func(ctx context.Context, a *model.Audit) *model.Audit { return a }, nil)
			},
			checkRes: func(t *testing.T, a *model.Audit) {
				assert.Equal(t, "Cafe X", a.RestaurantName)
				assert.True(t, a.IsTemplate())
				assert.Equal(t, 0, a.Version)
			},
		},
		{
			name:       "missing restaurant name",
			input:      TemplateInput{},
			setupMocks: func(mRepo *repoMocks.MockAuditRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name: "invalid compliance in seeded sections",
			input: TemplateInput{
				RestaurantName: "Cafe X",
				Sections: model.Sections{
					{Questions: []model.Question{{Question: "Q", Compliance: "MAYBE"}}},
				},
			},
			setupMocks: func(mRepo *repoMocks.MockAuditRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:  "repository error",
			input: TemplateInput{RestaurantName: "Cafe X"},
			setupMocks: func(mRepo *repoMocks.MockAuditRepository) {
				mRepo.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockAuditRepository)
			svc := NewTemplateService(mRepo)

			tt.setupMocks(mRepo)

			a, err := svc.Create(ctx, tt.input)

			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, ErrValidation) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Error(t, err)
				}
				assert.Nil(t, a)
			} else {
				require.NoError(t, err)
				require.NotNil(t, a)
				if tt.checkRes != nil {
					tt.checkRes(t, a)
				}
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestTemplateService_GetUpdateDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("get maps missing rows to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		svc := NewTemplateService(mRepo)
		_, err := svc.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertExpectations(t)
	})

	t.Run("get rejects empty id", func(t *testing.T) {
		svc := NewTemplateService(nil)
		_, err := svc.Get(ctx, "")
		assert.ErrorIs(t, err, ErrIDRequired)
	})

	t.Run("update passes fields through without a version bump", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditRepository)
		sections := model.Sections{{SectionTitle: "Pest Control"}}
		mRepo.On("UpdateTemplate", ctx, "tmpl-1", "Cafe Y", sections).
			Return(&model.Audit{ID: "tmpl-1", RestaurantName: "Cafe Y", Version: 0}, nil)

		svc := NewTemplateService(mRepo)
		a, err := svc.Update(ctx, "tmpl-1", TemplateInput{RestaurantName: "Cafe Y", Sections: sections})
		require.NoError(t, err)
		assert.Equal(t, 0, a.Version)
		mRepo.AssertExpectations(t)
	})

	t.Run("update maps missing rows to not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditRepository)
		mRepo.On("UpdateTemplate", ctx, "missing", "X", model.Sections(nil)).
			Return(nil, sql.ErrNoRows)

		svc := NewTemplateService(mRepo)
		_, err := svc.Update(ctx, "missing", TemplateInput{RestaurantName: "X"})
		assert.ErrorIs(t, err, ErrNotFound)
		mRepo.AssertExpectations(t)
	})

	t.Run("delete confirms existence first", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditRepository)
		mRepo.On("FindByID", ctx, "tmpl-1").Return(&model.Audit{ID: "tmpl-1"}, nil)
		mRepo.On("Delete", ctx, "tmpl-1").Return(nil)

		svc := NewTemplateService(mRepo)
		assert.NoError(t, svc.Delete(ctx, "tmpl-1"))
		mRepo.AssertExpectations(t)
	})

	t.Run("delete missing template is not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockAuditRepository)
		mRepo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows)

		svc := NewTemplateService(mRepo)
		assert.ErrorIs(t, svc.Delete(ctx, "missing"), ErrNotFound)
		mRepo.AssertExpectations(t)
	})
}

func TestTemplateService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockAuditRepository)
	mRepo.On("ListTemplates", ctx).Return([]model.Audit{{ID: "t1"}, {ID: "t2"}}, nil)

	svc := NewTemplateService(mRepo)
	templates, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, templates, 2)
	mRepo.AssertExpectations(t)
}
