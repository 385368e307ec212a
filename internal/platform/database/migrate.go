// File: internal/platform/database/migrate.go
package database

import (
	"fmt"

	"vehicle_service_backend/internal/booking"
	"vehicle_service_backend/internal/feedback"
	"vehicle_service_backend/internal/servicer"
	"vehicle_service_backend/internal/settings"
	"vehicle_service_backend/internal/user"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every model the
// application persists.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&user.User{},
		&servicer.Servicer{},
		&booking.Booking{},
		&booking.Diagnosis{},
		&booking.WorkProgress{},
		&feedback.Feedback{},
		&settings.SystemSettings{},
	)
	if err != nil {
		return fmt.Errorf("failed to run schema migration: %w", err)
	}
	return nil
}
