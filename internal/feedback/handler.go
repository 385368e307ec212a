// File: internal/feedback/handler.go
package feedback

import (
	"errors"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for feedback handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new feedback handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for feedback operations. Listing a
// servicer's feedback is public; submitting requires an authenticated user.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.GET("/feedback/servicer/:id", h.listForServicer)

	authed := router.Group("/bookings/:id/feedback")
	authed.Use(authMW)
	{
		authed.POST("", middleware.RoleAuthMiddleware(common.RoleUser), h.create)
		authed.GET("", h.getForBooking)
	}
}

func (h *Handler) bindError(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}

func (h *Handler) create(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid booking ID format."))
		return
	}

	var req CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Feedback creation: Invalid request", zap.Error(err))
		h.bindError(c, err)
		return
	}

	feedback, err := h.service.CreateFeedback(c.Request.Context(), middleware.GetUserIDFromContext(c), bookingID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Feedback submitted successfully.", ToFeedbackResponse(feedback))
}

func (h *Handler) getForBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid booking ID format."))
		return
	}

	feedback, err := h.service.GetFeedbackForBooking(c.Request.Context(), bookingID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Feedback retrieved successfully.", ToFeedbackResponse(feedback))
}

func (h *Handler) listForServicer(c *gin.Context) {
	servicerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid servicer ID format."))
		return
	}

	page, pageSize := common.GetPaginationParams(c)
	feedbacks, pagination, err := h.service.ListServicerFeedback(c.Request.Context(), servicerID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]FeedbackResponse, 0, len(feedbacks))
	for i := range feedbacks {
		responses = append(responses, ToFeedbackResponse(&feedbacks[i]))
	}
	common.RespondPaginated(c, "Feedback retrieved successfully.", responses, pagination)
}
