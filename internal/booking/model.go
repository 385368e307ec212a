// File: internal/booking/model.go
package booking

import (
	"time"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	// StatusRequested is the initial state after a customer books a service.
	StatusRequested Status = "Requested"
	// StatusPending means the servicer accepted the request and is diagnosing.
	StatusPending Status = "Pending"
	// StatusOngoing means work on the vehicle has started.
	StatusOngoing Status = "Ongoing"
	// StatusCompleted means all work is done.
	StatusCompleted Status = "Completed"
	// StatusRejected means the servicer declined the request.
	StatusRejected Status = "Rejected"
)

// PaymentStatus represents the payment state of a booking.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// Booking represents a vehicle service booking between a customer and a servicer.
type Booking struct {
	common.BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ServicerID uuid.UUID `gorm:"type:uuid;not null;index"`

	VehicleModel  string    `gorm:"type:varchar(100);not null"`
	VehicleNumber string    `gorm:"type:varchar(30);not null"`
	ServiceType   string    `gorm:"type:varchar(100);not null"`
	Description   *string   `gorm:"type:text"`
	PhotoPath     *string   `gorm:"type:text"`
	BookingDate   time.Time `gorm:"not null"`

	Status        Status        `gorm:"type:varchar(20);not null;default:'Requested'"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'Pending'"`
	PaymentAmount *float64

	Diagnosis    *Diagnosis     `gorm:"foreignKey:BookingID"`
	WorkProgress []WorkProgress `gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model.
func (Booking) TableName() string {
	return "bookings"
}

// Diagnosis holds the servicer's assessment for a booking. A booking gets
// at most one diagnosis, recorded while the booking is Pending.
type Diagnosis struct {
	common.BaseModel
	BookingID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Details       string    `gorm:"type:text;not null"`
	EstimatedCost float64   `gorm:"not null"`
}

func (Diagnosis) TableName() string {
	return "diagnoses"
}

// WorkProgress is a dated note (optionally with a photo) the servicer adds
// while work is ongoing. At least one entry is required to complete a booking.
type WorkProgress struct {
	common.BaseModel
	BookingID uuid.UUID `gorm:"type:uuid;not null;index"`
	Note      string    `gorm:"type:text;not null"`
	PhotoPath *string   `gorm:"type:text"`
}

func (WorkProgress) TableName() string {
	return "work_progress"
}

// --- DTOs ---

// CreateBookingRequest is the payload for booking a service. It binds from
// multipart form data so a vehicle photo can ride along in the same request.
type CreateBookingRequest struct {
	ServicerID    string  `form:"servicer_id" json:"servicer_id" binding:"required,uuid"`
	VehicleModel  string  `form:"vehicle_model" json:"vehicle_model" binding:"required,max=100"`
	VehicleNumber string  `form:"vehicle_number" json:"vehicle_number" binding:"required,max=30"`
	ServiceType   string  `form:"service_type" json:"service_type" binding:"required,max=100"`
	Description   *string `form:"description" json:"description" binding:"omitempty,max=2000"`
	BookingDate   string  `form:"booking_date" json:"booking_date" binding:"required,datetime=2006-01-02"`
}

// DiagnosisRequest is the payload for recording a diagnosis.
type DiagnosisRequest struct {
	Details       string  `json:"details" binding:"required,max=2000"`
	EstimatedCost float64 `json:"estimated_cost" binding:"required,gte=0"`
}

// WorkProgressRequest is the payload for adding a work progress note.
type WorkProgressRequest struct {
	Note string `form:"note" json:"note" binding:"required,max=2000"`
}

// PaymentRequest is the payload for marking a booking as paid.
type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=0"`
}

// ListQuery holds filter and pagination parameters for booking lists.
type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=Requested Pending Ongoing Completed Rejected"`
	common.PaginationQuery
}

// DiagnosisResponse is the API shape of a diagnosis.
type DiagnosisResponse struct {
	ID            uuid.UUID `json:"id"`
	Details       string    `json:"details"`
	EstimatedCost float64   `json:"estimated_cost"`
	CreatedAt     time.Time `json:"created_at"`
}

// WorkProgressResponse is the API shape of a work progress entry.
type WorkProgressResponse struct {
	ID        uuid.UUID `json:"id"`
	Note      string    `json:"note"`
	PhotoPath *string   `json:"photo_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BookingResponse is the API shape of a booking.
type BookingResponse struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	ServicerID    uuid.UUID              `json:"servicer_id"`
	VehicleModel  string                 `json:"vehicle_model"`
	VehicleNumber string                 `json:"vehicle_number"`
	ServiceType   string                 `json:"service_type"`
	Description   *string                `json:"description,omitempty"`
	PhotoPath     *string                `json:"photo_path,omitempty"`
	BookingDate   time.Time              `json:"booking_date"`
	Status        Status                 `json:"status"`
	PaymentStatus PaymentStatus          `json:"payment_status"`
	PaymentAmount *float64               `json:"payment_amount,omitempty"`
	Diagnosis     *DiagnosisResponse     `json:"diagnosis,omitempty"`
	WorkProgress  []WorkProgressResponse `json:"work_progress,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToBookingResponse converts a Booking model to its response DTO.
func ToBookingResponse(b *Booking) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		ServicerID:    b.ServicerID,
		VehicleModel:  b.VehicleModel,
		VehicleNumber: b.VehicleNumber,
		ServiceType:   b.ServiceType,
		Description:   b.Description,
		PhotoPath:     b.PhotoPath,
		BookingDate:   b.BookingDate,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		PaymentAmount: b.PaymentAmount,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Diagnosis != nil {
		resp.Diagnosis = &DiagnosisResponse{
			ID:            b.Diagnosis.ID,
			Details:       b.Diagnosis.Details,
			EstimatedCost: b.Diagnosis.EstimatedCost,
			CreatedAt:     b.Diagnosis.CreatedAt,
		}
	}
	for i := range b.WorkProgress {
		wp := &b.WorkProgress[i]
		resp.WorkProgress = append(resp.WorkProgress, WorkProgressResponse{
			ID:        wp.ID,
			Note:      wp.Note,
			PhotoPath: wp.PhotoPath,
			CreatedAt: wp.CreatedAt,
		})
	}
	return resp
}
