// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ServicerSync is the slice of the servicer package the user service needs
// to keep a servicer's public record in step with their account profile.
// It is implemented by the servicer repository.
type ServicerSync interface {
	// EnsureForUser creates the servicer record for a newly registered
	// servicer account if one does not already exist.
	EnsureForUser(ctx context.Context, email, name string) error
	// SyncFromUser mirrors profile fields onto the servicer record keyed
	// by email. A missing servicer record is not an error: the sync is
	// silently skipped.
	SyncFromUser(ctx context.Context, email string, location, workTypes, availableTime *string) error
	// WithTx returns a sync store bound to the given transaction handle.
	WithTx(tx *gorm.DB) ServicerSync
}

// Service defines user account operations, including the profile save
// routine used by the account settings endpoints.
type Service interface {
	shared.Service
	// UpdateProfile applies a full profile save for the given user.
	// When persist is false the normalized result is returned without
	// touching the database (and without syncing the servicer record).
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest, persist bool) (*shared.User, error)
}

// ServiceImplementation implements the Service interface.
type ServiceImplementation struct {
	repo         Repository
	servicerSync ServicerSync
	tokenService shared.TokenService
	db           *gorm.DB
	cfg          *config.Config
	logger       *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)
var _ shared.Service = (*ServiceImplementation)(nil)

// NewService creates a new user service. db may be nil in tests that inject
// mock repositories; writes then run without a surrounding transaction.
func NewService(
	repo Repository,
	servicerSync ServicerSync,
	tokenService shared.TokenService,
	db *gorm.DB,
	cfg *config.Config,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		servicerSync: servicerSync,
		tokenService: tokenService,
		db:           db,
		cfg:          cfg,
		logger:       logger,
	}
}

// normalizeOptional trims an optional field value. A nil pointer or a value
// that is blank after trimming both normalize to nil, so the column is
// stored as NULL rather than an empty or padded string.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// withTransaction runs fn with transaction-bound stores so the user write
// and the servicer sync commit or roll back together.
func (s *ServiceImplementation) withTransaction(ctx context.Context, fn func(repo Repository, sync ServicerSync) error) error {
	if s.db == nil {
		return fn(s.repo, s.servicerSync)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.repo.WithTx(tx), s.servicerSync.WithTx(tx))
	})
}

// Register creates a new user account. Servicer accounts also get their
// public servicer record created in the same transaction.
func (s *ServiceImplementation) Register(ctx context.Context, req shared.CreateUserRequest) (*shared.User, *shared.TokenResponse, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	if err := common.ValidatePasswordStrength(req.Password); err != nil {
		return nil, nil, err
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dbUser := CreateRequestToDB(&req, hashedPassword)
	dbUser.FirstName = strings.TrimSpace(dbUser.FirstName)
	dbUser.LastName = strings.TrimSpace(dbUser.LastName)
	dbUser.Phone = strings.TrimSpace(dbUser.Phone)

	err = s.withTransaction(ctx, func(repo Repository, sync ServicerSync) error {
		if err := repo.Create(ctx, dbUser); err != nil {
			return err
		}
		if dbUser.Role == common.RoleServicer {
			name := strings.TrimSpace(dbUser.FirstName + " " + dbUser.LastName)
			if err := sync.EnsureForUser(ctx, dbUser.Email, name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, nil, apiErr
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token after registration", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.tokenService.GenerateRefreshToken(dbUser)
	if err != nil {
		// Registration already succeeded; log and return without a refresh token.
		s.logger.Error("Failed to generate refresh token after registration", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	tokenResponse := &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt,
	}

	sharedUser := DBToShared(dbUser)
	s.logger.Info("User registered successfully",
		zap.String("userID", sharedUser.ID.String()),
		zap.String("role", sharedUser.Role))
	return sharedUser, tokenResponse, nil
}

// Login verifies credentials and issues tokens.
func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*shared.User, *shared.TokenResponse, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if !common.CheckPasswordHash(password, dbUser.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	now := time.Now()
	dbUser.LastLoginAt = &now
	if err := s.repo.Update(ctx, dbUser); err != nil {
		// Not critical for authentication; log and proceed.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	accessToken, accessExpiresAt, err := s.tokenService.GenerateAccessToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate access token on login", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}

	refreshToken, _, err := s.tokenService.GenerateRefreshToken(dbUser)
	if err != nil {
		s.logger.Error("Failed to generate refresh token on login", zap.Error(err), zap.String("userID", dbUser.ID.String()))
	}

	tokenResponse := &shared.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    accessExpiresAt,
	}

	sharedUser := DBToShared(dbUser)
	s.logger.Info("User logged in successfully", zap.String("userID", sharedUser.ID.String()))
	return sharedUser, tokenResponse, nil
}

func (s *ServiceImplementation) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by ID", zap.String("userID", id.String()))
		} else {
			s.logger.Error("Error finding user by ID", zap.Error(err), zap.String("userID", id.String()))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

func (s *ServiceImplementation) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	dbUser, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found by email", zap.String("email", email))
		} else {
			s.logger.Error("Error finding user by email", zap.Error(err), zap.String("email", email))
		}
		return nil, err
	}
	return DBToShared(dbUser), nil
}

// UpdateProfile applies a full profile save: name and phone are copied from
// the request (trimmed, defaulting to the empty string), optional fields
// become trimmed values or NULL, and the servicer record keyed by the
// user's email is brought in step within the same transaction.
// The returned user is re-read from the database after the save so callers
// always see exactly what was persisted.
func (s *ServiceImplementation) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest, persist bool) (*shared.User, error) {
	dbUser, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Email is immutable after registration. An attempt to change it is
	// ignored rather than rejected, matching the account form behavior.
	if req.Email != "" && !strings.EqualFold(strings.TrimSpace(req.Email), dbUser.Email) {
		s.logger.Warn("Ignoring email change on profile save",
			zap.String("userID", dbUser.ID.String()),
			zap.String("submitted_email", req.Email))
	}

	// Name and phone are copied as submitted: an absent or blank value
	// overwrites with the empty string, the same way the account form does.
	dbUser.FirstName = strings.TrimSpace(req.FirstName)
	dbUser.LastName = strings.TrimSpace(req.LastName)
	dbUser.Phone = strings.TrimSpace(req.Phone)
	dbUser.Address = normalizeOptional(req.Address)
	dbUser.City = normalizeOptional(req.City)
	dbUser.State = normalizeOptional(req.State)
	dbUser.Pincode = normalizeOptional(req.Pincode)
	dbUser.Location = normalizeOptional(req.Location)
	dbUser.WorkTypes = normalizeOptional(req.WorkTypes)
	dbUser.AvailableTime = normalizeOptional(req.AvailableTime)

	if !persist {
		return DBToShared(dbUser), nil
	}

	err = s.withTransaction(ctx, func(repo Repository, sync ServicerSync) error {
		if err := repo.Update(ctx, dbUser); err != nil {
			return err
		}
		return sync.SyncFromUser(ctx, dbUser.Email, dbUser.Location, dbUser.WorkTypes, dbUser.AvailableTime)
	})
	if err != nil {
		s.logger.Error("Profile save failed", zap.Error(err), zap.String("userID", dbUser.ID.String()))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	// Reload so the caller sees the persisted row, not the in-memory copy.
	fresh, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to reload user after profile save", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	s.logger.Info("Profile saved", zap.String("userID", fresh.ID.String()))
	return DBToShared(fresh), nil
}
