// File: internal/feedback/service.go
package feedback

import (
	"context"
	"errors"
	"math"

	"vehicle_service_backend/internal/booking"
	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/servicer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for feedback business logic.
type Service interface {
	// CreateFeedback records feedback for a booking the user owns.
	// The booking must be Completed and Paid, and must not already have
	// feedback. The servicer's aggregate rating is refreshed afterwards.
	CreateFeedback(ctx context.Context, userID, bookingID uuid.UUID, req CreateFeedbackRequest) (*Feedback, error)
	GetFeedbackForBooking(ctx context.Context, bookingID uuid.UUID) (*Feedback, error)
	ListServicerFeedback(ctx context.Context, servicerID uuid.UUID, page, pageSize int) ([]Feedback, *common.Pagination, error)
	// RefreshServicerRatings recomputes the aggregate rating of every
	// servicer from stored feedback. Servicers without feedback keep the
	// default rating. Run nightly by the cron scheduler.
	RefreshServicerRatings(ctx context.Context) (int, error)
}

// ServiceImplementation implements the feedback Service interface.
type ServiceImplementation struct {
	repo         Repository
	bookingRepo  booking.Repository
	servicerRepo servicer.Repository
	logger       *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new feedback service.
func NewService(repo Repository, bookingRepo booking.Repository, servicerRepo servicer.Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:         repo,
		bookingRepo:  bookingRepo,
		servicerRepo: servicerRepo,
		logger:       logger,
	}
}

// roundRating keeps aggregate ratings to one decimal place.
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *ServiceImplementation) CreateFeedback(ctx context.Context, userID, bookingID uuid.UUID, req CreateFeedbackRequest) (*Feedback, error) {
	b, err := s.bookingRepo.FindByID(ctx, bookingID, false)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, common.ErrForbidden.WithDetails("You can only leave feedback on your own bookings.")
	}
	if b.Status != booking.StatusCompleted {
		return nil, common.ErrUnprocessableEntity.WithDetails("Feedback is only possible once the booking is Completed.")
	}
	if b.PaymentStatus != booking.PaymentPaid {
		return nil, common.ErrUnprocessableEntity.WithDetails("Feedback is only possible after payment.")
	}

	if _, err := s.repo.FindByBooking(ctx, bookingID); err == nil {
		return nil, common.ErrConflict.WithDetails("Feedback has already been submitted for this booking.")
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	feedback := &Feedback{
		BookingID:  bookingID,
		UserID:     userID,
		ServicerID: b.ServicerID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		s.logger.Error("Failed to create feedback", zap.Error(err), zap.String("bookingID", bookingID.String()))
		return nil, err
	}

	// Refresh the servicer's aggregate rating. The feedback itself is
	// already saved, so a failure here is logged and not surfaced.
	if err := s.refreshRating(ctx, b.ServicerID); err != nil {
		s.logger.Error("Failed to refresh servicer rating after feedback",
			zap.Error(err), zap.String("servicerID", b.ServicerID.String()))
	}

	s.logger.Info("Feedback recorded",
		zap.String("bookingID", bookingID.String()),
		zap.Int("rating", req.Rating))
	return feedback, nil
}

func (s *ServiceImplementation) GetFeedbackForBooking(ctx context.Context, bookingID uuid.UUID) (*Feedback, error) {
	return s.repo.FindByBooking(ctx, bookingID)
}

func (s *ServiceImplementation) ListServicerFeedback(ctx context.Context, servicerID uuid.UUID, page, pageSize int) ([]Feedback, *common.Pagination, error) {
	return s.repo.FindByServicer(ctx, servicerID, page, pageSize)
}

func (s *ServiceImplementation) refreshRating(ctx context.Context, servicerID uuid.UUID) error {
	avg, found, err := s.repo.AverageRatingByServicer(ctx, servicerID)
	if err != nil {
		return err
	}
	rating := servicer.DefaultRating
	if found {
		rating = roundRating(avg)
	}
	return s.servicerRepo.UpdateRating(ctx, servicerID, rating)
}

func (s *ServiceImplementation) RefreshServicerRatings(ctx context.Context) (int, error) {
	const batchSize = 100
	refreshed := 0
	for offset := 0; ; offset += batchSize {
		servicers, err := s.servicerRepo.FindAllForSync(ctx, offset, batchSize)
		if err != nil {
			return refreshed, err
		}
		if len(servicers) == 0 {
			break
		}
		for i := range servicers {
			if err := s.refreshRating(ctx, servicers[i].ID); err != nil {
				s.logger.Error("Failed to refresh servicer rating",
					zap.Error(err), zap.String("servicerID", servicers[i].ID.String()))
				continue
			}
			refreshed++
		}
		if len(servicers) < batchSize {
			break
		}
	}
	return refreshed, nil
}
