// File: internal/settings/repository.go
package settings

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// singletonID pins the settings table to one row.
const singletonID = 1

// Repository defines the interface for system settings persistence.
type Repository interface {
	// Get returns the settings row, creating it with defaults on first use.
	Get(ctx context.Context) (*SystemSettings, error)
	Save(ctx context.Context, settings *SystemSettings) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM settings repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Get(ctx context.Context) (*SystemSettings, error) {
	settings := SystemSettings{ID: singletonID, SiteName: "Vehicle Service"}
	err := r.db.WithContext(ctx).
		Where(SystemSettings{ID: singletonID}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load system settings: %w", err)
	}
	return &settings, nil
}

func (r *gormRepository) Save(ctx context.Context, settings *SystemSettings) error {
	settings.ID = singletonID
	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return fmt.Errorf("failed to save system settings: %w", err)
	}
	return nil
}
