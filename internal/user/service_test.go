// File: internal/user/service_test.go
package user

import (
	"context"
	"testing"
	"time"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mockRepository is a func-field mock of the Repository interface.
type mockRepository struct {
	createFn      func(ctx context.Context, user *User) error
	findByEmailFn func(ctx context.Context, email string) (*User, error)
	findByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
	updateFn      func(ctx context.Context, user *User) error

	updateCalls int
}

func (m *mockRepository) Create(ctx context.Context, user *User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, common.ErrNotFound
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockRepository) Update(ctx context.Context, user *User) error {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockRepository) WithTx(tx *gorm.DB) Repository { return m }

// mockServicerSync records the sync calls made by the user service.
type mockServicerSync struct {
	ensureCalls []string

	syncCalls []syncCall
	syncErr   error
}

type syncCall struct {
	email         string
	location      *string
	workTypes     *string
	availableTime *string
}

func (m *mockServicerSync) EnsureForUser(ctx context.Context, email, name string) error {
	m.ensureCalls = append(m.ensureCalls, email)
	return nil
}

func (m *mockServicerSync) SyncFromUser(ctx context.Context, email string, location, workTypes, availableTime *string) error {
	m.syncCalls = append(m.syncCalls, syncCall{email: email, location: location, workTypes: workTypes, availableTime: availableTime})
	return m.syncErr
}

func (m *mockServicerSync) WithTx(tx *gorm.DB) ServicerSync { return m }

// mockTokenService returns fixed tokens.
type mockTokenService struct{}

func (m *mockTokenService) GenerateAccessToken(shared.UserDataForToken) (string, time.Time, error) {
	return "access-token", time.Now().Add(time.Hour), nil
}
func (m *mockTokenService) GenerateRefreshToken(shared.UserDataForToken) (string, time.Time, error) {
	return "refresh-token", time.Now().Add(7 * 24 * time.Hour), nil
}
func (m *mockTokenService) ValidateToken(string) (*shared.Claims, error)      { return nil, nil }
func (m *mockTokenService) ParseRefreshToken(string) (*shared.Claims, error) { return nil, nil }

func strPtr(s string) *string { return &s }

func newServiceForTest(repo Repository, sync ServicerSync) *ServiceImplementation {
	return NewService(repo, sync, &mockTokenService{}, nil, &config.Config{}, zap.NewNop())
}

func existingUser(id uuid.UUID) *User {
	return &User{
		BaseModel: common.BaseModel{ID: id, CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Email:     "owner@example.com",
		FirstName: "Asha",
		LastName:  "Varma",
		Phone:     "9876543210",
		Role:      common.RoleServicer,
	}
}

func baseUpdateRequest() UpdateProfileRequest {
	return UpdateProfileRequest{
		FirstName: "Asha",
		LastName:  "Varma",
		Phone:     "9876543210",
	}
}

func TestUpdateProfileTrimsOptionalFields(t *testing.T) {
	id := uuid.New()
	var saved *User
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			if saved != nil {
				copied := *saved
				return &copied, nil
			}
			return existingUser(id), nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			copied := *u
			saved = &copied
			return nil
		},
	}
	svc := newServiceForTest(repo, &mockServicerSync{})

	req := baseUpdateRequest()
	req.Address = strPtr("  12 Main St  ")
	req.City = strPtr("Kochi")

	result, err := svc.UpdateProfile(context.Background(), id, req, true)
	require.NoError(t, err)

	require.NotNil(t, result.Address)
	assert.Equal(t, "12 Main St", *result.Address, "stored value must be trimmed")
	require.NotNil(t, result.City)
	assert.Equal(t, "Kochi", *result.City)
}

func TestUpdateProfileStoresBlankAndAbsentAsNull(t *testing.T) {
	id := uuid.New()
	start := existingUser(id)
	start.Address = strPtr("old address")
	start.State = strPtr("Kerala")

	var saved *User
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			if saved != nil {
				copied := *saved
				return &copied, nil
			}
			copied := *start
			return &copied, nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			copied := *u
			saved = &copied
			return nil
		},
	}
	svc := newServiceForTest(repo, &mockServicerSync{})

	req := baseUpdateRequest()
	req.Address = strPtr("   ") // blank after trim
	// State is absent entirely.

	result, err := svc.UpdateProfile(context.Background(), id, req, true)
	require.NoError(t, err)

	assert.Nil(t, result.Address, "whitespace-only value must be stored as NULL")
	assert.Nil(t, result.State, "absent value must clear the stored column")
}

func TestUpdateProfileIgnoresEmailChange(t *testing.T) {
	id := uuid.New()
	var saved *User
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			if saved != nil {
				copied := *saved
				return &copied, nil
			}
			return existingUser(id), nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			copied := *u
			saved = &copied
			return nil
		},
	}
	svc := newServiceForTest(repo, &mockServicerSync{})

	req := baseUpdateRequest()
	req.Email = "hijack@example.com"

	result, err := svc.UpdateProfile(context.Background(), id, req, true)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", result.Email, "email must be immutable on profile save")
	require.NotNil(t, saved)
	assert.Equal(t, "owner@example.com", saved.Email)
}

func TestUpdateProfileSyncsServicerRecord(t *testing.T) {
	id := uuid.New()
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			return existingUser(id), nil
		},
	}
	sync := &mockServicerSync{}
	svc := newServiceForTest(repo, sync)

	req := baseUpdateRequest()
	req.Location = strPtr("  Ernakulam ")
	req.WorkTypes = strPtr("Engine Repair")

	_, err := svc.UpdateProfile(context.Background(), id, req, true)
	require.NoError(t, err)

	require.Len(t, sync.syncCalls, 1)
	call := sync.syncCalls[0]
	assert.Equal(t, "owner@example.com", call.email, "sync is keyed by the user's email")
	require.NotNil(t, call.location)
	assert.Equal(t, "Ernakulam", *call.location, "sync receives the normalized value")
	require.NotNil(t, call.workTypes)
	assert.Equal(t, "Engine Repair", *call.workTypes)
	assert.Nil(t, call.availableTime, "absent available time is passed through as nil")
}

func TestUpdateProfileWithoutPersistSkipsWrites(t *testing.T) {
	id := uuid.New()
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			return existingUser(id), nil
		},
	}
	sync := &mockServicerSync{}
	svc := newServiceForTest(repo, sync)

	req := baseUpdateRequest()
	req.Address = strPtr("  12 Main St  ")

	result, err := svc.UpdateProfile(context.Background(), id, req, false)
	require.NoError(t, err)

	require.NotNil(t, result.Address)
	assert.Equal(t, "12 Main St", *result.Address, "normalization still applies without persistence")
	assert.Zero(t, repo.updateCalls, "persist=false must not write the user row")
	assert.Empty(t, sync.syncCalls, "persist=false must not touch the servicer record")
}

func TestUpdateProfileReturnsReloadedRow(t *testing.T) {
	id := uuid.New()
	var saved *User
	reloads := 0
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			if saved != nil {
				reloads++
				copied := *saved
				copied.UpdatedAt = copied.UpdatedAt.Add(time.Second) // DB-side touch
				return &copied, nil
			}
			return existingUser(id), nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			copied := *u
			saved = &copied
			return nil
		},
	}
	svc := newServiceForTest(repo, &mockServicerSync{})

	result, err := svc.UpdateProfile(context.Background(), id, baseUpdateRequest(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, reloads, "the saved row must be re-read before returning")
	assert.Equal(t, saved.UpdatedAt.Add(time.Second), result.UpdatedAt)
}

func TestUpdateProfileCopiesBlankNameAndPhoneAsEmpty(t *testing.T) {
	id := uuid.New()
	var saved *User
	repo := &mockRepository{
		findByIDFn: func(ctx context.Context, uid uuid.UUID) (*User, error) {
			if saved != nil {
				copied := *saved
				return &copied, nil
			}
			return existingUser(id), nil
		},
		updateFn: func(ctx context.Context, user *User) error {
			copied := *user
			saved = &copied
			return nil
		},
	}
	svc := newServiceForTest(repo, &mockServicerSync{})

	// A full-replace save with a blank first name and no phone overwrites
	// the stored values with empty strings rather than failing.
	req := baseUpdateRequest()
	req.FirstName = "   "
	req.Phone = ""

	result, err := svc.UpdateProfile(context.Background(), id, req, true)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "", saved.FirstName)
	assert.Equal(t, "", saved.Phone)
	assert.Equal(t, "", result.FirstName)
	assert.Equal(t, "", result.Phone)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestRegisterCreatesServicerRecordForServicerRole(t *testing.T) {
	repo := &mockRepository{}
	sync := &mockServicerSync{}
	svc := newServiceForTest(repo, sync)

	usr, token, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:     "mechanic@example.com",
		Password:  "Str0ngPass",
		FirstName: "Ravi",
		LastName:  "Menon",
		Phone:     "9876501234",
		Role:      common.RoleServicer,
	})
	require.NoError(t, err)
	require.NotNil(t, usr)
	require.NotNil(t, token)
	assert.Equal(t, common.RoleServicer, usr.Role)
	require.Len(t, sync.ensureCalls, 1)
	assert.Equal(t, "mechanic@example.com", sync.ensureCalls[0])
}

func TestRegisterDefaultsToUserRoleWithoutServicerRecord(t *testing.T) {
	repo := &mockRepository{}
	sync := &mockServicerSync{}
	svc := newServiceForTest(repo, sync)

	usr, _, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:     "driver@example.com",
		Password:  "Str0ngPass",
		FirstName: "Meera",
		LastName:  "Nair",
		Phone:     "9876505678",
	})
	require.NoError(t, err)
	assert.Equal(t, common.RoleUser, usr.Role)
	assert.Empty(t, sync.ensureCalls)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newServiceForTest(&mockRepository{}, &mockServicerSync{})

	_, _, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:     "weak@example.com",
		Password:  "alllowercase1", // no uppercase letter
		FirstName: "Weak",
		LastName:  "Password",
		Phone:     "9876500000",
	})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrUnprocessableEntity.Code, apiErr.Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := &mockRepository{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return existingUser(uuid.New()), nil
		},
	}
	svc := newServiceForTest(repo, &mockServicerSync{})

	_, _, err := svc.Register(context.Background(), shared.CreateUserRequest{
		Email:     "owner@example.com",
		Password:  "Str0ngPass",
		FirstName: "Asha",
		LastName:  "Varma",
		Phone:     "9876543210",
	})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}
