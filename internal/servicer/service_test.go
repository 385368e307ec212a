// File: internal/servicer/service_test.go
package servicer

import (
	"context"
	"testing"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRepository is a func-field mock of the Repository interface.
type mockRepository struct {
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*Servicer, error)
	findBySlugFn    func(ctx context.Context, slug string) (*Servicer, error)
	findByEmailFn   func(ctx context.Context, email string) (*Servicer, error)
	findAllFn       func(ctx context.Context, query SearchQuery) ([]Servicer, *common.Pagination, error)
	updateFn        func(ctx context.Context, servicer *Servicer) error
	updateRatingFn  func(ctx context.Context, id uuid.UUID, rating float64) error
	findAllForSync  func(ctx context.Context, offset, limit int) ([]Servicer, error)
	slugExistsFn    func(ctx context.Context, slug string) (bool, error)
	findAllCalled   bool
}

func (m *mockRepository) Create(ctx context.Context, s *Servicer) error { return nil }

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Servicer, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockRepository) FindBySlug(ctx context.Context, slug string) (*Servicer, error) {
	if m.findBySlugFn != nil {
		return m.findBySlugFn(ctx, slug)
	}
	return nil, common.ErrNotFound
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*Servicer, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, common.ErrNotFound
}

func (m *mockRepository) FindAll(ctx context.Context, query SearchQuery) ([]Servicer, *common.Pagination, error) {
	m.findAllCalled = true
	if m.findAllFn != nil {
		return m.findAllFn(ctx, query)
	}
	return nil, common.NewPagination(0, 1, common.DefaultPageSize), nil
}

func (m *mockRepository) Update(ctx context.Context, servicer *Servicer) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, servicer)
	}
	return nil
}

func (m *mockRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	if m.updateRatingFn != nil {
		return m.updateRatingFn(ctx, id, rating)
	}
	return nil
}

func (m *mockRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Servicer, error) {
	if m.findAllForSync != nil {
		return m.findAllForSync(ctx, offset, limit)
	}
	return nil, nil
}

func (m *mockRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug)
	}
	return false, nil
}

func sampleServicer() *Servicer {
	return &Servicer{
		BaseModel:     common.BaseModel{ID: uuid.New()},
		Name:          "Ravi Menon",
		Slug:          "ravi-menon",
		Email:         "ravi@example.com",
		AvailableTime: DefaultAvailableTime,
		Rating:        DefaultRating,
		Status:        StatusAvailable,
	}
}

func TestSearchServicersFallsBackToDatabaseWithoutES(t *testing.T) {
	repo := &mockRepository{
		findAllFn: func(ctx context.Context, query SearchQuery) ([]Servicer, *common.Pagination, error) {
			return []Servicer{*sampleServicer()}, common.NewPagination(1, 1, common.DefaultPageSize), nil
		},
	}
	svc := NewService(repo, nil, &config.Config{}, zap.NewNop())

	responses, pagination, err := svc.SearchServicers(context.Background(), SearchQuery{SearchTerm: "ravi"})
	require.NoError(t, err)
	assert.True(t, repo.findAllCalled, "without Elasticsearch the search must hit the database")
	require.Len(t, responses, 1)
	assert.Equal(t, "ravi-menon", responses[0].Slug)
	assert.EqualValues(t, 1, pagination.TotalItems)
}

func TestUpdateOwnStatus(t *testing.T) {
	record := sampleServicer()
	var saved *Servicer
	repo := &mockRepository{
		findByEmailFn: func(ctx context.Context, email string) (*Servicer, error) {
			assert.Equal(t, "ravi@example.com", email)
			return record, nil
		},
		updateFn: func(ctx context.Context, s *Servicer) error {
			saved = s
			return nil
		},
	}
	svc := NewService(repo, nil, &config.Config{}, zap.NewNop())

	updated, err := svc.UpdateOwnStatus(context.Background(), "ravi@example.com", StatusBusy)
	require.NoError(t, err)
	assert.Equal(t, StatusBusy, updated.Status)
	require.NotNil(t, saved)
	assert.Equal(t, StatusBusy, saved.Status)
}

func TestUpdateOwnStatusUnknownEmail(t *testing.T) {
	svc := NewService(&mockRepository{}, nil, &config.Config{}, zap.NewNop())

	_, err := svc.UpdateOwnStatus(context.Background(), "nobody@example.com", StatusBusy)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}
