// File: internal/settings/model.go
package settings

import (
	"time"

	"github.com/lib/pq" // For pq.StringArray
)

// SystemSettings is a single-row table holding site-wide configuration
// edited by administrators: contact details and the rotating landing
// page image carousel.
type SystemSettings struct {
	ID            uint           `gorm:"primarykey"`
	SiteName      string         `gorm:"type:varchar(255);not null;default:'Vehicle Service'"`
	ContactEmail  string         `gorm:"type:varchar(255)"`
	ContactPhone  string         `gorm:"type:varchar(20)"`
	Address       string         `gorm:"type:text"`
	LandingImages pq.StringArray `gorm:"type:text[]"`
	UpdatedAt     time.Time
}

// TableName specifies the table name for the SystemSettings model.
func (SystemSettings) TableName() string {
	return "system_settings"
}

// --- DTOs ---

// UpdateSettingsRequest is the payload for editing system settings.
// Omitted fields keep their current value.
type UpdateSettingsRequest struct {
	SiteName     *string `json:"site_name" binding:"omitempty,min=1,max=255"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=20"`
	Address      *string `json:"address" binding:"omitempty,max=1000"`
}

// SettingsResponse is the API shape of the system settings.
type SettingsResponse struct {
	SiteName      string    `json:"site_name"`
	ContactEmail  string    `json:"contact_email"`
	ContactPhone  string    `json:"contact_phone"`
	Address       string    `json:"address"`
	LandingImages []string  `json:"landing_images"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSettingsResponse converts the SystemSettings model to its response DTO.
func ToSettingsResponse(s *SystemSettings) SettingsResponse {
	images := []string(s.LandingImages)
	if images == nil {
		images = []string{}
	}
	return SettingsResponse{
		SiteName:      s.SiteName,
		ContactEmail:  s.ContactEmail,
		ContactPhone:  s.ContactPhone,
		Address:       s.Address,
		LandingImages: images,
		UpdatedAt:     s.UpdatedAt,
	}
}
