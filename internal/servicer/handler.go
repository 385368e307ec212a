// File: internal/servicer/handler.go
package servicer

import (
	"errors"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for servicer handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new servicer handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for servicer directory operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	servicerGroup := router.Group("/servicers")
	{
		servicerGroup.GET("", h.search)
		servicerGroup.GET("/:slug", h.getBySlug)

		ownGroup := servicerGroup.Group("/me")
		ownGroup.Use(authMW, middleware.RoleAuthMiddleware(common.RoleServicer))
		{
			ownGroup.GET("", h.getOwnRecord)
			ownGroup.PATCH("/status", h.updateOwnStatus)
		}
	}
}

func (h *Handler) search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	servicers, pagination, err := h.service.SearchServicers(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Servicers retrieved successfully.", servicers, pagination)
}

func (h *Handler) getBySlug(c *gin.Context) {
	slugParam := c.Param("slug")
	servicer, err := h.service.GetServicerBySlug(c.Request.Context(), slugParam)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Servicer retrieved successfully.", ToServicerResponse(servicer))
}

func (h *Handler) getOwnRecord(c *gin.Context) {
	email := middleware.GetUserEmailFromContext(c)
	if email == "" {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User email missing from context."))
		return
	}
	servicer, err := h.service.GetServicerByEmail(c.Request.Context(), email)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Servicer record retrieved successfully.", ToServicerResponse(servicer))
}

func (h *Handler) updateOwnStatus(c *gin.Context) {
	email := middleware.GetUserEmailFromContext(c)
	if email == "" {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User email missing from context."))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Servicer status update: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	servicer, err := h.service.UpdateOwnStatus(c.Request.Context(), email, req.Status)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Servicer status updated successfully.", ToServicerResponse(servicer))
}
