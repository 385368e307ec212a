// File: internal/settings/service.go
package settings

import (
	"context"

	"vehicle_service_backend/internal/common"

	"go.uber.org/zap"
)

// Service defines the interface for system settings business logic.
type Service interface {
	GetSettings(ctx context.Context) (*SystemSettings, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SystemSettings, error)
	AddLandingImage(ctx context.Context, imagePath string) (*SystemSettings, error)
	RemoveLandingImage(ctx context.Context, imagePath string) (*SystemSettings, error)
}

// ServiceImplementation implements the settings Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new settings service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

func (s *ServiceImplementation) GetSettings(ctx context.Context) (*SystemSettings, error) {
	return s.repo.Get(ctx)
}

func (s *ServiceImplementation) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SystemSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.SiteName != nil {
		settings.SiteName = *req.SiteName
	}
	if req.ContactEmail != nil {
		settings.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		settings.ContactPhone = *req.ContactPhone
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("System settings updated")
	return settings, nil
}

func (s *ServiceImplementation) AddLandingImage(ctx context.Context, imagePath string) (*SystemSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	for _, existing := range settings.LandingImages {
		if existing == imagePath {
			return settings, nil
		}
	}
	settings.LandingImages = append(settings.LandingImages, imagePath)

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Landing image added", zap.String("path", imagePath))
	return settings, nil
}

func (s *ServiceImplementation) RemoveLandingImage(ctx context.Context, imagePath string) (*SystemSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	kept := settings.LandingImages[:0]
	removed := false
	for _, existing := range settings.LandingImages {
		if existing == imagePath {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return nil, common.ErrNotFound.WithDetails("Landing image not found.")
	}
	settings.LandingImages = kept

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Landing image removed", zap.String("path", imagePath))
	return settings, nil
}
