// File: internal/servicer/repository.go
package servicer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for servicer data operations.
type Repository interface {
	Create(ctx context.Context, servicer *Servicer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Servicer, error)
	FindBySlug(ctx context.Context, slug string) (*Servicer, error)
	FindByEmail(ctx context.Context, email string) (*Servicer, error)
	FindAll(ctx context.Context, query SearchQuery) ([]Servicer, *common.Pagination, error)
	Update(ctx context.Context, servicer *Servicer) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
	// FindAllForSync streams every servicer in batches for search indexing.
	FindAllForSync(ctx context.Context, offset, limit int) ([]Servicer, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM servicer repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, servicer *Servicer) error {
	servicer.Email = strings.ToLower(strings.TrimSpace(servicer.Email))
	err := r.db.WithContext(ctx).Create(servicer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return common.ErrConflict.WithDetails("A servicer with this email or slug already exists.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Servicer, error) {
	var servicer Servicer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&servicer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Servicer not found.")
		}
		return nil, err
	}
	return &servicer, nil
}

func (r *gormRepository) FindBySlug(ctx context.Context, slugValue string) (*Servicer, error) {
	var servicer Servicer
	err := r.db.WithContext(ctx).Where("slug = ?", slugValue).First(&servicer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Servicer not found.")
		}
		return nil, err
	}
	return &servicer, nil
}

func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*Servicer, error) {
	var servicer Servicer
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).Where("email = ?", normalizedEmail).First(&servicer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Servicer not found with this email.")
		}
		return nil, err
	}
	return &servicer, nil
}

// FindAll retrieves servicers matching the query, paginated and ordered by
// rating so the best-reviewed servicers come first.
func (r *gormRepository) FindAll(ctx context.Context, query SearchQuery) ([]Servicer, *common.Pagination, error) {
	var servicers []Servicer
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Servicer{})

	if query.SearchTerm != "" {
		term := "%" + strings.ToLower(query.SearchTerm) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(name) LIKE ? OR LOWER(work_type) LIKE ? OR LOWER(location) LIKE ?",
			term, term, term,
		)
	}
	if query.WorkType != "" {
		dbQuery = dbQuery.Where("LOWER(work_type) LIKE ?", "%"+strings.ToLower(query.WorkType)+"%")
	}
	if query.Location != "" {
		dbQuery = dbQuery.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(query.Location)+"%")
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count servicers: %w", err)
	}

	pagination := common.NewPagination(totalItems, query.Page, query.Limit())
	err := dbQuery.
		Order("rating DESC, created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&servicers).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list servicers: %w", err)
	}

	return servicers, pagination, nil
}

func (r *gormRepository) Update(ctx context.Context, servicer *Servicer) error {
	err := r.db.WithContext(ctx).Save(servicer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "unique constraint") {
			return common.ErrConflict.WithDetails("Update failed due to a conflict.")
		}
		return err
	}
	return nil
}

func (r *gormRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	result := r.db.WithContext(ctx).Model(&Servicer{}).Where("id = ?", id).Update("rating", rating)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Servicer not found.")
	}
	return nil
}

func (r *gormRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]Servicer, error) {
	var servicers []Servicer
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&servicers).Error
	return servicers, err
}

func (r *gormRepository) SlugExists(ctx context.Context, slugValue string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Servicer{}).Where("slug = ?", slugValue).Count(&count).Error
	return count > 0, err
}
