// File: internal/user/integration_test.go
package user_test

import (
	"context"
	"testing"
	"time"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/servicer"
	"vehicle_service_backend/internal/shared"
	"vehicle_service_backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	service user.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &servicer.Servicer{}))

	logger := zap.NewNop()
	repo := user.NewGORMRepository(db)
	sync := servicer.NewSyncStore(db, logger)
	tokenSvc := &stubTokenService{}
	svc := user.NewService(repo, sync, tokenSvc, db, &config.Config{}, logger)

	return &fixture{db: db, service: svc}
}

type stubTokenService struct{}

func (s *stubTokenService) GenerateAccessToken(shared.UserDataForToken) (string, time.Time, error) {
	return "access", time.Now().Add(time.Hour), nil
}

func (s *stubTokenService) GenerateRefreshToken(shared.UserDataForToken) (string, time.Time, error) {
	return "refresh", time.Now().Add(24 * time.Hour), nil
}

func (s *stubTokenService) ValidateToken(string) (*shared.Claims, error)      { return nil, nil }
func (s *stubTokenService) ParseRefreshToken(string) (*shared.Claims, error) { return nil, nil }

func strPtr(v string) *string { return &v }

func registerServicer(t *testing.T, f *fixture, email string) *shared.User {
	t.Helper()
	usr, _, err := f.service.Register(context.Background(), shared.CreateUserRequest{
		Email:     email,
		Password:  "Str0ngPass",
		FirstName: "Ravi",
		LastName:  "Menon",
		Phone:     "9876543210",
		Role:      common.RoleServicer,
	})
	require.NoError(t, err)
	return usr
}

func TestProfileSaveSyncsServicerEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	usr := registerServicer(t, f, "mech@example.com")

	// Registration must have created the servicer record with defaults.
	var record servicer.Servicer
	require.NoError(t, f.db.Where("email = ?", "mech@example.com").First(&record).Error)
	assert.Equal(t, servicer.DefaultAvailableTime, record.AvailableTime)
	assert.Equal(t, servicer.DefaultRating, record.Rating)

	req := user.UpdateProfileRequest{
		FirstName: "Ravi",
		LastName:  "Menon",
		Phone:     "9876543210",
		Address:   strPtr("  12 Main St  "),
		Location:  strPtr(" Ernakulam "),
		WorkTypes: strPtr("Engine Repair"),
	}
	saved, err := f.service.UpdateProfile(ctx, usr.ID, req, true)
	require.NoError(t, err)

	// The returned user reflects the persisted, normalized row.
	require.NotNil(t, saved.Address)
	assert.Equal(t, "12 Main St", *saved.Address)

	// The servicer record mirrors the normalized profile fields.
	require.NoError(t, f.db.Where("email = ?", "mech@example.com").First(&record).Error)
	require.NotNil(t, record.Location)
	assert.Equal(t, "Ernakulam", *record.Location)
	require.NotNil(t, record.WorkType)
	assert.Equal(t, "Engine Repair", *record.WorkType)
	assert.Equal(t, servicer.DefaultAvailableTime, record.AvailableTime,
		"absent available time falls back to the default window")
}

func TestProfileSaveLeavesRegularUsersAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	usr, _, err := f.service.Register(ctx, shared.CreateUserRequest{
		Email:     "driver@example.com",
		Password:  "Str0ngPass",
		FirstName: "Meera",
		LastName:  "Nair",
		Phone:     "9876505678",
	})
	require.NoError(t, err)

	req := user.UpdateProfileRequest{
		FirstName: "Meera",
		LastName:  "Nair",
		Phone:     "9876505678",
		Location:  strPtr("Kochi"),
	}
	_, err = f.service.UpdateProfile(ctx, usr.ID, req, true)
	require.NoError(t, err, "profile save for a regular user must succeed without a servicer record")

	var count int64
	require.NoError(t, f.db.Model(&servicer.Servicer{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestProfileSaveEmailStaysImmutableEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	usr := registerServicer(t, f, "mech@example.com")

	req := user.UpdateProfileRequest{
		Email:     "other@example.com",
		FirstName: "Ravi",
		LastName:  "Menon",
		Phone:     "9876543210",
	}
	saved, err := f.service.UpdateProfile(ctx, usr.ID, req, true)
	require.NoError(t, err)
	assert.Equal(t, "mech@example.com", saved.Email)

	var dbUser user.User
	require.NoError(t, f.db.Where("id = ?", usr.ID).First(&dbUser).Error)
	assert.Equal(t, "mech@example.com", dbUser.Email)
}

func TestProfileSaveClearsOptionalColumnsToNull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	usr := registerServicer(t, f, "mech@example.com")

	first := user.UpdateProfileRequest{
		FirstName: "Ravi",
		LastName:  "Menon",
		Phone:     "9876543210",
		Address:   strPtr("12 Main St"),
		City:      strPtr("Kochi"),
	}
	_, err := f.service.UpdateProfile(ctx, usr.ID, first, true)
	require.NoError(t, err)

	second := user.UpdateProfileRequest{
		FirstName: "Ravi",
		LastName:  "Menon",
		Phone:     "9876543210",
		Address:   strPtr("   "), // blank clears
		// City absent entirely: also clears
	}
	saved, err := f.service.UpdateProfile(ctx, usr.ID, second, true)
	require.NoError(t, err)

	assert.Nil(t, saved.Address)
	assert.Nil(t, saved.City)

	var dbUser user.User
	require.NoError(t, f.db.Where("id = ?", usr.ID).First(&dbUser).Error)
	assert.Nil(t, dbUser.Address, "blank optional values must be stored as NULL")
	assert.Nil(t, dbUser.City, "absent optional values must be stored as NULL")
}
