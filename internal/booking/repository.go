// File: internal/booking/repository.go
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for booking data operations.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	FindByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error)
	FindByServicer(ctx context.Context, servicerID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error)
	CreateDiagnosis(ctx context.Context, diagnosis *Diagnosis) error
	CreateWorkProgress(ctx context.Context, progress *WorkProgress) error
	CountWorkProgress(ctx context.Context, bookingID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM booking repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) preloader(query *gorm.DB) *gorm.DB {
	return query.Preload("Diagnosis").Preload("WorkProgress")
}

func (r *gormRepository) Create(ctx context.Context, booking *Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAssociations bool) (*Booking, error) {
	var booking Booking
	query := r.db.WithContext(ctx)
	if preloadAssociations {
		query = r.preloader(query)
	}
	err := query.First(&booking, "bookings.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Booking not found.")
		}
		return nil, err
	}
	return &booking, nil
}

func (r *gormRepository) Update(ctx context.Context, booking *Booking) error {
	// Omit associations so a stale preloaded Diagnosis or WorkProgress
	// slice cannot be written back accidentally.
	err := r.db.WithContext(ctx).Omit("Diagnosis", "WorkProgress").Save(booking).Error
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return nil
}

func (r *gormRepository) findPage(ctx context.Context, where string, id uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error) {
	var bookings []Booking
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Booking{}).Where(where, id)
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.Limit())
	err := r.preloader(dbQuery).
		Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&bookings).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, pagination, nil
}

func (r *gormRepository) FindByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error) {
	return r.findPage(ctx, "user_id = ?", userID, query)
}

func (r *gormRepository) FindByServicer(ctx context.Context, servicerID uuid.UUID, query ListQuery) ([]Booking, *common.Pagination, error) {
	return r.findPage(ctx, "servicer_id = ?", servicerID, query)
}

func (r *gormRepository) CreateDiagnosis(ctx context.Context, diagnosis *Diagnosis) error {
	err := r.db.WithContext(ctx).Create(diagnosis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrConflict.WithDetails("A diagnosis has already been recorded for this booking.")
		}
		return fmt.Errorf("failed to create diagnosis: %w", err)
	}
	return nil
}

func (r *gormRepository) CreateWorkProgress(ctx context.Context, progress *WorkProgress) error {
	if err := r.db.WithContext(ctx).Create(progress).Error; err != nil {
		return fmt.Errorf("failed to create work progress entry: %w", err)
	}
	return nil
}

func (r *gormRepository) CountWorkProgress(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&WorkProgress{}).Where("booking_id = ?", bookingID).Count(&count).Error
	return count, err
}
