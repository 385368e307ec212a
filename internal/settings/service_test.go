// File: internal/settings/service_test.go
package settings

import (
	"context"
	"testing"

	"vehicle_service_backend/internal/common"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepository keeps the singleton row in memory.
type memoryRepository struct {
	row       *SystemSettings
	saveCalls int
}

func (m *memoryRepository) Get(ctx context.Context) (*SystemSettings, error) {
	if m.row == nil {
		m.row = &SystemSettings{ID: singletonID, SiteName: "Vehicle Service"}
	}
	copied := *m.row
	copied.LandingImages = append(pq.StringArray(nil), m.row.LandingImages...)
	return &copied, nil
}

func (m *memoryRepository) Save(ctx context.Context, settings *SystemSettings) error {
	copied := *settings
	m.row = &copied
	m.saveCalls++
	return nil
}

func strPtr(s string) *string { return &s }

func TestUpdateSettingsKeepsOmittedFields(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.UpdateSettings(ctx, UpdateSettingsRequest{
		ContactEmail: strPtr("support@example.com"),
		ContactPhone: strPtr("9876543210"),
	})
	require.NoError(t, err)

	settings, err := svc.UpdateSettings(ctx, UpdateSettingsRequest{
		Address: strPtr("MG Road, Kochi"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Vehicle Service", settings.SiteName)
	assert.Equal(t, "support@example.com", settings.ContactEmail)
	assert.Equal(t, "9876543210", settings.ContactPhone)
	assert.Equal(t, "MG Road, Kochi", settings.Address)
}

func TestAddLandingImageIsIdempotent(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddLandingImage(ctx, "landing/a.jpg")
	require.NoError(t, err)
	settings, err := svc.AddLandingImage(ctx, "landing/a.jpg")
	require.NoError(t, err)

	assert.Equal(t, pq.StringArray{"landing/a.jpg"}, settings.LandingImages)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestRemoveLandingImage(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	_, err := svc.AddLandingImage(ctx, "landing/a.jpg")
	require.NoError(t, err)
	_, err = svc.AddLandingImage(ctx, "landing/b.jpg")
	require.NoError(t, err)

	settings, err := svc.RemoveLandingImage(ctx, "landing/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"landing/b.jpg"}, settings.LandingImages)
}

func TestRemoveLandingImageUnknownPath(t *testing.T) {
	repo := &memoryRepository{}
	svc := NewService(repo, zap.NewNop())

	_, err := svc.RemoveLandingImage(context.Background(), "landing/missing.jpg")
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}
