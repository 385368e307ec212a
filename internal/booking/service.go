// File: internal/booking/service.go
package booking

import (
	"context"
	"fmt"
	"time"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for booking lifecycle business logic.
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest, photoPath *string) (*Booking, error)
	GetBookingForUser(ctx context.Context, id, userID uuid.UUID) (*Booking, error)
	GetBookingForServicer(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error)
	ListServicerBookings(ctx context.Context, servicerID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error)

	AcceptBooking(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error)
	RejectBooking(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error)
	AddDiagnosis(ctx context.Context, id, servicerID uuid.UUID, req DiagnosisRequest) (*Booking, error)
	StartWork(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error)
	AddWorkProgress(ctx context.Context, id, servicerID uuid.UUID, req WorkProgressRequest, photoPath *string) (*Booking, error)
	CompleteWork(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error)
	RecordPayment(ctx context.Context, id, userID uuid.UUID, req PaymentRequest) (*Booking, error)
}

// ServiceImplementation implements the booking Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new booking service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{repo: repo, logger: logger}
}

// CreateBooking records a new service request in the Requested state.
func (s *ServiceImplementation) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest, photoPath *string) (*Booking, error) {
	bookingDate, err := time.Parse("2006-01-02", req.BookingDate)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("Booking date must be in YYYY-MM-DD format.")
	}
	servicerID, err := uuid.Parse(req.ServicerID)
	if err != nil {
		return nil, common.ErrBadRequest.WithDetails("Invalid servicer ID format.")
	}

	newBooking := &Booking{
		UserID:        userID,
		ServicerID:    servicerID,
		VehicleModel:  req.VehicleModel,
		VehicleNumber: req.VehicleNumber,
		ServiceType:   req.ServiceType,
		Description:   req.Description,
		PhotoPath:     photoPath,
		BookingDate:   bookingDate,
		Status:        StatusRequested,
		PaymentStatus: PaymentPending,
	}
	if err := s.repo.Create(ctx, newBooking); err != nil {
		s.logger.Error("Failed to create booking", zap.Error(err), zap.String("userID", userID.String()))
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("bookingID", newBooking.ID.String()),
		zap.String("servicerID", servicerID.String()))
	return s.repo.FindByID(ctx, newBooking.ID, true)
}

func (s *ServiceImplementation) GetBookingForUser(ctx context.Context, id, userID uuid.UUID) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrForbidden.WithDetails("You do not have access to this booking.")
	}
	return b, nil
}

func (s *ServiceImplementation) GetBookingForServicer(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if b.ServicerID != servicerID {
		return nil, common.ErrForbidden.WithDetails("This booking belongs to another servicer.")
	}
	return b, nil
}

func (s *ServiceImplementation) ListUserBookings(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error) {
	return s.repo.FindByUser(ctx, userID, query)
}

func (s *ServiceImplementation) ListServicerBookings(ctx context.Context, servicerID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error) {
	return s.repo.FindByServicer(ctx, servicerID, query)
}

// loadForServicer fetches the booking and verifies it belongs to servicerID
// and sits in the expected lifecycle state.
func (s *ServiceImplementation) loadForServicer(ctx context.Context, id, servicerID uuid.UUID, expected Status) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if b.ServicerID != servicerID {
		return nil, common.ErrForbidden.WithDetails("This booking belongs to another servicer.")
	}
	if b.Status != expected {
		return nil, common.ErrUnprocessableEntity.WithDetails(
			fmt.Sprintf("This operation requires the booking to be %s, but it is %s.", expected, b.Status))
	}
	return b, nil
}

func (s *ServiceImplementation) transition(ctx context.Context, b *Booking, to Status) (*Booking, error) {
	b.Status = to
	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error("Failed to update booking status", zap.Error(err), zap.String("bookingID", b.ID.String()))
		return nil, err
	}
	s.logger.Info("Booking status changed",
		zap.String("bookingID", b.ID.String()),
		zap.String("status", string(to)))
	return s.repo.FindByID(ctx, b.ID, true)
}

// AcceptBooking moves a Requested booking to Pending.
func (s *ServiceImplementation) AcceptBooking(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error) {
	b, err := s.loadForServicer(ctx, id, servicerID, StatusRequested)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, StatusPending)
}

// RejectBooking moves a Requested booking to Rejected. A booking that has
// already been accepted can no longer be rejected.
func (s *ServiceImplementation) RejectBooking(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error) {
	b, err := s.loadForServicer(ctx, id, servicerID, StatusRequested)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, b, StatusRejected)
}

// AddDiagnosis records the single diagnosis for a Pending booking.
func (s *ServiceImplementation) AddDiagnosis(ctx context.Context, id, servicerID uuid.UUID, req DiagnosisRequest) (*Booking, error) {
	b, err := s.loadForServicer(ctx, id, servicerID, StatusPending)
	if err != nil {
		return nil, err
	}
	if b.Diagnosis != nil {
		return nil, common.ErrConflict.WithDetails("A diagnosis has already been recorded for this booking.")
	}

	diagnosis := &Diagnosis{
		BookingID:     b.ID,
		Details:       req.Details,
		EstimatedCost: req.EstimatedCost,
	}
	if err := s.repo.CreateDiagnosis(ctx, diagnosis); err != nil {
		return nil, err
	}

	s.logger.Info("Diagnosis recorded",
		zap.String("bookingID", b.ID.String()),
		zap.Float64("estimatedCost", req.EstimatedCost))
	return s.repo.FindByID(ctx, b.ID, true)
}

// StartWork moves a Pending booking to Ongoing. A diagnosis must exist
// before work can begin.
func (s *ServiceImplementation) StartWork(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error) {
	b, err := s.loadForServicer(ctx, id, servicerID, StatusPending)
	if err != nil {
		return nil, err
	}
	if b.Diagnosis == nil {
		return nil, common.ErrUnprocessableEntity.WithDetails("Record a diagnosis before starting work.")
	}
	return s.transition(ctx, b, StatusOngoing)
}

// AddWorkProgress appends a progress note to an Ongoing booking.
func (s *ServiceImplementation) AddWorkProgress(ctx context.Context, id, servicerID uuid.UUID, req WorkProgressRequest, photoPath *string) (*Booking, error) {
	b, err := s.loadForServicer(ctx, id, servicerID, StatusOngoing)
	if err != nil {
		return nil, err
	}

	progress := &WorkProgress{
		BookingID: b.ID,
		Note:      req.Note,
		PhotoPath: photoPath,
	}
	if err := s.repo.CreateWorkProgress(ctx, progress); err != nil {
		return nil, err
	}

	s.logger.Info("Work progress added", zap.String("bookingID", b.ID.String()))
	return s.repo.FindByID(ctx, b.ID, true)
}

// CompleteWork moves an Ongoing booking to Completed. At least one work
// progress entry must exist.
func (s *ServiceImplementation) CompleteWork(ctx context.Context, id, servicerID uuid.UUID) (*Booking, error) {
	b, err := s.loadForServicer(ctx, id, servicerID, StatusOngoing)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountWorkProgress(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, common.ErrUnprocessableEntity.WithDetails("Add at least one work progress entry before completing the booking.")
	}
	return s.transition(ctx, b, StatusCompleted)
}

// RecordPayment marks a Completed booking as paid.
func (s *ServiceImplementation) RecordPayment(ctx context.Context, id, userID uuid.UUID, req PaymentRequest) (*Booking, error) {
	b, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrForbidden.WithDetails("You do not have access to this booking.")
	}
	if b.Status != StatusCompleted {
		return nil, common.ErrUnprocessableEntity.WithDetails("Payment is only possible once the booking is Completed.")
	}
	if b.PaymentStatus == PaymentPaid {
		return nil, common.ErrConflict.WithDetails("This booking has already been paid.")
	}

	amount := req.Amount
	b.PaymentStatus = PaymentPaid
	b.PaymentAmount = &amount
	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error("Failed to record payment", zap.Error(err), zap.String("bookingID", b.ID.String()))
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.String("bookingID", b.ID.String()),
		zap.Float64("amount", amount))
	return s.repo.FindByID(ctx, b.ID, true)
}
