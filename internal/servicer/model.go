// File: internal/servicer/model.go
package servicer

import (
	"time"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
)

// DefaultAvailableTime is the working-hours window a servicer gets when
// none has been provided.
const DefaultAvailableTime = "9:00 AM - 6:00 PM"

// DefaultRating is the rating a new servicer starts with before any
// customer feedback exists.
const DefaultRating = 4.5

// Status represents a servicer's availability status.
type Status string

const (
	StatusAvailable   Status = "Available"
	StatusBusy        Status = "Busy"
	StatusUnavailable Status = "Unavailable"
)

// Servicer represents the public servicer record shown in the directory.
// It is keyed by the account email of the servicer user and kept in step
// with that user's profile on every profile save.
type Servicer struct {
	common.BaseModel
	Name          string  `gorm:"type:varchar(200);not null"`
	Slug          string  `gorm:"type:varchar(220);not null;uniqueIndex"`
	Email         string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	WorkType      *string `gorm:"type:varchar(255)"`
	Location      *string `gorm:"type:varchar(255)"`
	AvailableTime string  `gorm:"type:varchar(100);not null;default:'9:00 AM - 6:00 PM'"`
	Rating        float64 `gorm:"not null;default:4.5"`
	Status        Status  `gorm:"type:varchar(20);not null;default:'Available'"`
}

// TableName specifies the table name for the Servicer model.
func (Servicer) TableName() string {
	return "servicers"
}

// --- DTOs ---

// UpdateStatusRequest lets a servicer change their availability status.
type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=Available Busy Unavailable"`
}

// SearchQuery holds the directory search parameters.
type SearchQuery struct {
	SearchTerm string `form:"q"`
	WorkType   string `form:"work_type"`
	Location   string `form:"location"`
	Status     string `form:"status" binding:"omitempty,oneof=Available Busy Unavailable"`
	common.PaginationQuery
}

// ServicerResponse defines the structure for servicer data in API responses.
type ServicerResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Email         string    `json:"email"`
	WorkType      *string   `json:"work_type,omitempty"`
	Location      *string   `json:"location,omitempty"`
	AvailableTime string    `json:"available_time"`
	Rating        float64   `json:"rating"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToServicerResponse converts a Servicer model to its response DTO.
func ToServicerResponse(s *Servicer) ServicerResponse {
	return ServicerResponse{
		ID:            s.ID,
		Name:          s.Name,
		Slug:          s.Slug,
		Email:         s.Email,
		WorkType:      s.WorkType,
		Location:      s.Location,
		AvailableTime: s.AvailableTime,
		Rating:        s.Rating,
		Status:        s.Status,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
