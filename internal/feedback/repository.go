// File: internal/feedback/repository.go
package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for feedback data operations.
type Repository interface {
	Create(ctx context.Context, feedback *Feedback) error
	FindByBooking(ctx context.Context, bookingID uuid.UUID) (*Feedback, error)
	FindByServicer(ctx context.Context, servicerID uuid.UUID, page, pageSize int) ([]Feedback, *common.Pagination, error)
	// AverageRatingByServicer returns the mean rating across all feedback
	// for a servicer, with found=false when no feedback exists yet.
	AverageRatingByServicer(ctx context.Context, servicerID uuid.UUID) (avg float64, found bool, err error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM feedback repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, feedback *Feedback) error {
	err := r.db.WithContext(ctx).Create(feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrConflict.WithDetails("Feedback has already been submitted for this booking.")
		}
		return fmt.Errorf("failed to create feedback: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByBooking(ctx context.Context, bookingID uuid.UUID) (*Feedback, error) {
	var feedback Feedback
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&feedback).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No feedback found for this booking.")
		}
		return nil, err
	}
	return &feedback, nil
}

func (r *gormRepository) FindByServicer(ctx context.Context, servicerID uuid.UUID, page, pageSize int) ([]Feedback, *common.Pagination, error) {
	var feedbacks []Feedback
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Feedback{}).Where("servicer_id = ?", servicerID)
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count feedback: %w", err)
	}

	pagination := common.NewPagination(totalItems, page, pageSize)
	err := dbQuery.
		Order("created_at DESC").
		Offset((pagination.CurrentPage - 1) * pagination.PageSize).
		Limit(pagination.PageSize).
		Find(&feedbacks).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedbacks, pagination, nil
}

func (r *gormRepository) AverageRatingByServicer(ctx context.Context, servicerID uuid.UUID) (float64, bool, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&Feedback{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("servicer_id = ?", servicerID).
		Scan(&result).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to aggregate feedback ratings: %w", err)
	}
	return result.Avg, result.Count > 0, nil
}
