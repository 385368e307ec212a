// File: internal/servicer/sync.go
package servicer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/platform/crypto"
	"vehicle_service_backend/internal/user"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// syncStore implements user.ServicerSync on top of the servicer repository.
// The user service drives it inside the profile-save transaction so the
// account row and the public servicer record never drift apart.
type syncStore struct {
	repo   Repository
	logger *zap.Logger
}

var _ user.ServicerSync = (*syncStore)(nil)

// NewSyncStore creates the servicer sync store used by the user service.
func NewSyncStore(db *gorm.DB, logger *zap.Logger) user.ServicerSync {
	return &syncStore{repo: NewGORMRepository(db), logger: logger.Named("servicer_sync")}
}

func (s *syncStore) WithTx(tx *gorm.DB) user.ServicerSync {
	return &syncStore{repo: NewGORMRepository(tx), logger: s.logger}
}

// EnsureForUser creates the servicer record for a newly registered servicer
// account. An existing record for the email is left untouched.
func (s *syncStore) EnsureForUser(ctx context.Context, email, name string) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	_, err := s.repo.FindByEmail(ctx, normalizedEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check for existing servicer record: %w", err)
	}

	slugValue, err := s.uniqueSlug(ctx, name)
	if err != nil {
		return err
	}

	record := &Servicer{
		Name:          name,
		Slug:          slugValue,
		Email:         normalizedEmail,
		AvailableTime: DefaultAvailableTime,
		Rating:        DefaultRating,
		Status:        StatusAvailable,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to create servicer record: %w", err)
	}

	s.logger.Info("Servicer record created for new account",
		zap.String("email", normalizedEmail),
		zap.String("slug", slugValue))
	return nil
}

// SyncFromUser mirrors profile fields onto the servicer record keyed by
// email. Location and work type are overwritten with whatever the profile
// now holds, and an absent available time falls back to the default window.
// When no servicer record exists for the email the sync is silently
// skipped: regular user accounts save profiles through the same path.
func (s *syncStore) SyncFromUser(ctx context.Context, email string, location, workTypes, availableTime *string) error {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	record, err := s.repo.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Debug("No servicer record for email, skipping sync", zap.String("email", normalizedEmail))
			return nil
		}
		return fmt.Errorf("failed to load servicer record for sync: %w", err)
	}

	record.Location = location
	record.WorkType = workTypes
	if availableTime != nil {
		record.AvailableTime = *availableTime
	} else {
		record.AvailableTime = DefaultAvailableTime
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to sync servicer record: %w", err)
	}

	s.logger.Debug("Servicer record synced from profile", zap.String("email", normalizedEmail))
	return nil
}

// uniqueSlug builds a URL slug from the servicer name, appending a short
// random suffix when the plain slug is already taken.
func (s *syncStore) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "servicer"
	}

	exists, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if !exists {
		return base, nil
	}

	suffix, err := crypto.GenerateSecureRandomString(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate slug suffix: %w", err)
	}
	// Run the suffix back through the slugger to strip base64 padding.
	return slug.Make(base + "-" + suffix), nil
}
