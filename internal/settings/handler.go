// File: internal/settings/handler.go
package settings

import (
	"errors"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/filestorage"
	"vehicle_service_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for settings handlers.
type Handler struct {
	service     Service
	fileStorage *filestorage.Service
	logger      *zap.Logger
}

// NewHandler creates a new settings handler.
func NewHandler(service Service, fileStorage *filestorage.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, fileStorage: fileStorage, logger: logger}
}

// RegisterRoutes sets up the routes for system settings. Reading is public
// (the landing page needs it); all mutations are admin-only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.GET("/settings", h.get)

	adminGroup := router.Group("/settings")
	adminGroup.Use(authMW, middleware.RoleAuthMiddleware(common.RoleAdmin))
	{
		adminGroup.PUT("", h.update)
		adminGroup.POST("/landing-images", h.addLandingImage)
		adminGroup.DELETE("/landing-images", h.removeLandingImage)
	}
}

func (h *Handler) get(c *gin.Context) {
	settings, err := h.service.GetSettings(c.Request.Context())
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Settings retrieved successfully.", ToSettingsResponse(settings))
}

func (h *Handler) update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Settings updated successfully.", ToSettingsResponse(settings))
}

func (h *Handler) addLandingImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("An image file is required."))
		return
	}

	relPath, err := h.fileStorage.SaveUploadedFile(fileHeader, "landing")
	if err != nil {
		h.logger.Error("Failed to store landing image", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Could not store the uploaded image."))
		return
	}

	settings, err := h.service.AddLandingImage(c.Request.Context(), relPath)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Landing image added.", ToSettingsResponse(settings))
}

func (h *Handler) removeLandingImage(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("An image path is required."))
		return
	}

	settings, err := h.service.RemoveLandingImage(c.Request.Context(), req.Path)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	if err := h.fileStorage.DeleteFile(req.Path); err != nil {
		h.logger.Warn("Failed to delete landing image from disk", zap.Error(err), zap.String("path", req.Path))
	}
	common.RespondOK(c, "Landing image removed.", ToSettingsResponse(settings))
}
