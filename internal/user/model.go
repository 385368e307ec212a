// File: internal/user/model.go
package user

import (
	"time"

	"vehicle_service_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the user model in the database.
// Optional profile columns are pointers so an absent value is stored as
// NULL rather than an empty string.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     string  `gorm:"type:varchar(255);not null"`
	FirstName        string  `gorm:"type:varchar(100);not null"`
	LastName         string  `gorm:"type:varchar(100);not null"`
	Phone            string  `gorm:"type:varchar(20);not null"`
	Role             string  `gorm:"type:varchar(20);not null;default:'USER'"`

	// Optional address fields
	Address *string `gorm:"type:text"`
	City    *string `gorm:"type:varchar(100)"`
	State   *string `gorm:"type:varchar(100)"`
	Pincode *string `gorm:"type:varchar(20)"`

	// Servicer-only profile fields, mirrored to the servicer record on save.
	Location      *string `gorm:"type:varchar(255)"`
	WorkTypes     *string `gorm:"type:varchar(255)"`
	AvailableTime *string `gorm:"type:varchar(100)"`

	LastLoginAt *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information like password hash.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}

// --- DTOs (Data Transfer Objects) for API requests/responses ---

// RegisterRequest defines the structure for creating a new user.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"required,len=10,numeric"`
	Role      string `json:"role" binding:"omitempty,oneof=USER SERVICER"`
}

// UpdateProfileRequest defines the structure for a full profile save.
// Name and phone are copied as submitted (trimmed), so an absent or blank
// value overwrites with the empty string. Optional fields left absent (or
// blank) are cleared to NULL. The email field is accepted for form
// compatibility but never applied: email is immutable after registration.
type UpdateProfileRequest struct {
	Email     string  `json:"email" binding:"omitempty,email"`
	FirstName string  `json:"first_name" binding:"omitempty,max=100"`
	LastName  string  `json:"last_name" binding:"omitempty,max=100"`
	Phone     string  `json:"phone" binding:"omitempty,len=10,numeric"`
	Address   *string `json:"address" binding:"omitempty,max=255"`
	City      *string `json:"city" binding:"omitempty,max=100"`
	State     *string `json:"state" binding:"omitempty,max=100"`
	Pincode   *string `json:"pincode" binding:"omitempty,max=20"`

	Location      *string `json:"location" binding:"omitempty,max=255"`
	WorkTypes     *string `json:"work_types" binding:"omitempty,max=255"`
	AvailableTime *string `json:"available_time" binding:"omitempty,max=100"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone"`
	Role          string     `json:"role"`
	Address       *string    `json:"address,omitempty"`
	City          *string    `json:"city,omitempty"`
	State         *string    `json:"state,omitempty"`
	Pincode       *string    `json:"pincode,omitempty"`
	Location      *string    `json:"location,omitempty"`
	WorkTypes     *string    `json:"work_types,omitempty"`
	AvailableTime *string    `json:"available_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}
