// File: internal/booking/handler.go
package booking

import (
	"context"
	"errors"

	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/filestorage"
	"vehicle_service_backend/internal/middleware"
	"vehicle_service_backend/internal/servicer"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for booking handlers.
type Handler struct {
	service         Service
	servicerService servicer.Service
	fileStorage     *filestorage.Service
	logger          *zap.Logger
}

// NewHandler creates a new booking handler.
func NewHandler(service Service, servicerService servicer.Service, fileStorage *filestorage.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:         service,
		servicerService: servicerService,
		fileStorage:     fileStorage,
		logger:          logger,
	}
}

// RegisterRoutes sets up the routes for booking operations. All booking
// routes require authentication; servicer-only transitions additionally
// require the SERVICER role.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	bookingGroup := router.Group("/bookings")
	bookingGroup.Use(authMW)
	{
		bookingGroup.POST("", middleware.RoleAuthMiddleware(common.RoleUser), h.create)
		bookingGroup.GET("", h.list)
		bookingGroup.GET("/:id", h.getByID)
		bookingGroup.POST("/:id/payment", middleware.RoleAuthMiddleware(common.RoleUser), h.recordPayment)

		servicerOnly := bookingGroup.Group("")
		servicerOnly.Use(middleware.RoleAuthMiddleware(common.RoleServicer))
		{
			servicerOnly.POST("/:id/accept", h.accept)
			servicerOnly.POST("/:id/reject", h.reject)
			servicerOnly.POST("/:id/diagnosis", h.addDiagnosis)
			servicerOnly.POST("/:id/start", h.startWork)
			servicerOnly.POST("/:id/progress", h.addProgress)
			servicerOnly.POST("/:id/complete", h.complete)
		}
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

func (h *Handler) bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid booking ID format."))
		return uuid.Nil, false
	}
	return id, true
}

// servicerID resolves the authenticated servicer's directory record.
func (h *Handler) servicerID(c *gin.Context) (uuid.UUID, bool) {
	email := middleware.GetUserEmailFromContext(c)
	if email == "" {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User email missing from context."))
		return uuid.Nil, false
	}
	record, err := h.servicerService.GetServicerByEmail(c.Request.Context(), email)
	if err != nil {
		common.RespondWithError(c, common.ErrForbidden.WithDetails("No servicer record found for this account."))
		return uuid.Nil, false
	}
	return record.ID, true
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var req CreateBookingRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("Booking creation: Invalid request", zap.Error(err))
		h.bindError(c, err)
		return
	}

	var photoPath *string
	if fileHeader, err := c.FormFile("photo"); err == nil && fileHeader != nil {
		relPath, err := h.fileStorage.SaveUploadedFile(fileHeader, "bookings")
		if err != nil {
			h.logger.Error("Failed to store booking photo", zap.Error(err))
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Could not store the uploaded photo."))
			return
		}
		photoPath = &relPath
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID, req, photoPath)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Booking created successfully.", ToBookingResponse(b))
}

func (h *Handler) list(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)
		return
	}

	var (
		bookings   []Booking
		pagination *common.Pagination
		err        error
	)
	if middleware.GetUserRoleFromContext(c) == common.RoleServicer {
		servicerID, ok := h.servicerID(c)
		if !ok {
			return
		}
		bookings, pagination, err = h.service.ListServicerBookings(c.Request.Context(), servicerID, query)
	} else {
		bookings, pagination, err = h.service.ListUserBookings(c.Request.Context(), middleware.GetUserIDFromContext(c), query)
	}
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, ToBookingResponse(&bookings[i]))
	}
	common.RespondPaginated(c, "Bookings retrieved successfully.", responses, pagination)
}

func (h *Handler) getByID(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var (
		b   *Booking
		err error
	)
	if middleware.GetUserRoleFromContext(c) == common.RoleServicer {
		servicerID, ok := h.servicerID(c)
		if !ok {
			return
		}
		b, err = h.service.GetBookingForServicer(c.Request.Context(), id, servicerID)
	} else {
		b, err = h.service.GetBookingForUser(c.Request.Context(), id, middleware.GetUserIDFromContext(c))
	}
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Booking retrieved successfully.", ToBookingResponse(b))
}

// servicerTransition runs a servicer-driven lifecycle transition shared by
// the accept/reject/start/complete endpoints.
func (h *Handler) servicerTransition(c *gin.Context, fn func(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error), message string) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	servicerID, ok := h.servicerID(c)
	if !ok {
		return
	}
	b, err := fn(c.Request.Context(), id, servicerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, message, ToBookingResponse(b))
}

func (h *Handler) accept(c *gin.Context) {
	h.servicerTransition(c, h.service.AcceptBooking, "Booking accepted.")
}

func (h *Handler) reject(c *gin.Context) {
	h.servicerTransition(c, h.service.RejectBooking, "Booking rejected.")
}

func (h *Handler) startWork(c *gin.Context) {
	h.servicerTransition(c, h.service.StartWork, "Work started.")
}

func (h *Handler) complete(c *gin.Context) {
	h.servicerTransition(c, h.service.CompleteWork, "Booking completed.")
}

func (h *Handler) addDiagnosis(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	servicerID, ok := h.servicerID(c)
	if !ok {
		return
	}

	var req DiagnosisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	b, err := h.service.AddDiagnosis(c.Request.Context(), id, servicerID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Diagnosis recorded.", ToBookingResponse(b))
}

func (h *Handler) addProgress(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}
	servicerID, ok := h.servicerID(c)
	if !ok {
		return
	}

	var req WorkProgressRequest
	if err := c.ShouldBind(&req); err != nil {
		h.bindError(c, err)
		return
	}

	var photoPath *string
	if fileHeader, err := c.FormFile("photo"); err == nil && fileHeader != nil {
		relPath, err := h.fileStorage.SaveUploadedFile(fileHeader, "progress")
		if err != nil {
			h.logger.Error("Failed to store work progress photo", zap.Error(err))
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Could not store the uploaded photo."))
			return
		}
		photoPath = &relPath
	}

	b, err := h.service.AddWorkProgress(c.Request.Context(), id, servicerID, req, photoPath)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Work progress added.", ToBookingResponse(b))
}

func (h *Handler) recordPayment(c *gin.Context) {
	id, ok := h.bookingID(c)
	if !ok {
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	b, err := h.service.RecordPayment(c.Request.Context(), id, middleware.GetUserIDFromContext(c), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Payment recorded.", ToBookingResponse(b))
}
