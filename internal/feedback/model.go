// File: internal/feedback/model.go
package feedback

import (
	"time"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
)

// Feedback is a customer's rating for a completed, paid booking.
// A booking gets at most one feedback entry.
type Feedback struct {
	common.BaseModel
	BookingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ServicerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	Comment    *string   `gorm:"type:text"`
}

// TableName specifies the table name for the Feedback model.
func (Feedback) TableName() string {
	return "feedbacks"
}

// --- DTOs ---

// CreateFeedbackRequest is the payload for leaving feedback on a booking.
type CreateFeedbackRequest struct {
	Rating  int     `json:"rating" binding:"required,gte=1,lte=5"`
	Comment *string `json:"comment" binding:"omitempty,max=2000"`
}

// FeedbackResponse is the API shape of a feedback entry.
type FeedbackResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	ServicerID uuid.UUID `json:"servicer_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToFeedbackResponse converts a Feedback model to its response DTO.
func ToFeedbackResponse(f *Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:         f.ID,
		BookingID:  f.BookingID,
		ServicerID: f.ServicerID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		CreatedAt:  f.CreatedAt,
	}
}
