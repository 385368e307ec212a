// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"vehicle_service_backend/internal/app"
	"vehicle_service_backend/internal/auth"
	"vehicle_service_backend/internal/booking"
	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/feedback"
	"vehicle_service_backend/internal/jobs"
	"vehicle_service_backend/internal/platform/database"
	"vehicle_service_backend/internal/platform/elasticsearch"
	"vehicle_service_backend/internal/platform/logger"
	"vehicle_service_backend/internal/servicer"
	"vehicle_service_backend/internal/settings"
	"vehicle_service_backend/internal/shared"
	"vehicle_service_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		elasticsearch.NewClient,
		provideFileStorage,
		provideCleanup,

		// Auth
		auth.NewJWTService,
		auth.NewHandler,

		// User
		user.NewGORMRepository,
		servicer.NewSyncStore, // Provides user.ServicerSync
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		wire.Bind(new(user.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Servicer
		servicer.NewGORMRepository,
		servicer.NewService,
		wire.Bind(new(servicer.Service), new(*servicer.ServiceImplementation)),
		servicer.NewHandler,

		// Booking
		booking.NewGORMRepository,
		booking.NewService,
		wire.Bind(new(booking.Service), new(*booking.ServiceImplementation)),
		booking.NewHandler,

		// Feedback
		feedback.NewGORMRepository,
		feedback.NewService,
		wire.Bind(new(feedback.Service), new(*feedback.ServiceImplementation)),
		feedback.NewHandler,

		// Settings
		settings.NewGORMRepository,
		settings.NewService,
		wire.Bind(new(settings.Service), new(*settings.ServiceImplementation)),
		settings.NewHandler,

		// Jobs
		jobs.NewRatingRefreshJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
