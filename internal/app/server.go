// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vehicle_service_backend/internal/auth"
	"vehicle_service_backend/internal/booking"
	"vehicle_service_backend/internal/config"
	"vehicle_service_backend/internal/feedback"
	"vehicle_service_backend/internal/jobs"
	"vehicle_service_backend/internal/middleware"
	platformES "vehicle_service_backend/internal/platform/elasticsearch"
	"vehicle_service_backend/internal/servicer"
	"vehicle_service_backend/internal/settings"
	"vehicle_service_backend/internal/shared"
	"vehicle_service_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed for startup tasks in main (index creation, migrations).
	ESClient  *platformES.ESClientWrapper
	AppLogger *zap.Logger
	DB        *gorm.DB

	// Handlers
	userHandler     *user.Handler
	authHandler     *auth.Handler
	servicerHandler *servicer.Handler
	bookingHandler  *booking.Handler
	feedbackHandler *feedback.Handler
	settingsHandler *settings.Handler

	// Jobs
	ratingRefreshJob *jobs.RatingRefreshJob

	authMW gin.HandlerFunc
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	authHandler *auth.Handler,
	servicerHandler *servicer.Handler,
	bookingHandler *booking.Handler,
	feedbackHandler *feedback.Handler,
	settingsHandler *settings.Handler,
	ratingRefreshJob *jobs.RatingRefreshJob,
	tokenService shared.TokenService,
	db *gorm.DB,
	esClient *platformES.ESClientWrapper,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(tokenService, logger.Named("AuthMiddleware"))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Vehicle Service API is healthy!"})
	})
	router.Static("/uploads", cfg.FileStoragePath)

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1, authMW)
	servicerHandler.RegisterRoutes(v1, authMW)
	bookingHandler.RegisterRoutes(v1, authMW)
	feedbackHandler.RegisterRoutes(v1, authMW)
	settingsHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		logger:           logger,
		ESClient:         esClient,
		AppLogger:        logger,
		DB:               db,
		userHandler:      userHandler,
		authHandler:      authHandler,
		servicerHandler:  servicerHandler,
		bookingHandler:   bookingHandler,
		feedbackHandler:  feedbackHandler,
		settingsHandler:  settingsHandler,
		ratingRefreshJob: ratingRefreshJob,
		authMW:           authMW,
	}, nil
}

// Start runs the HTTP server and the background scheduler.
func (s *Server) Start() error {
	if s.ratingRefreshJob != nil {
		if err := s.ratingRefreshJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start rating refresh job", zap.Error(err))
		}
	} else {
		s.logger.Info("Rating refresh job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

// Shutdown stops the scheduler and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.ratingRefreshJob != nil {
		s.ratingRefreshJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
