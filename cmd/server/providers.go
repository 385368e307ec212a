// File: cmd/server/providers.go
package main

import (
	"log"

	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/filestorage"
	"vehicle_service_backend/internal/platform/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideFileStorage builds the upload store rooted at the configured path.
func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.Service, error) {
	return filestorage.NewService(cfg.FileStoragePath, logger)
}

// provideCleanup returns the teardown run when the server exits.
func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
