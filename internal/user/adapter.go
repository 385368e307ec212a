// File: internal/user/adapter.go
package user

import (
	"vehicle_service_backend/internal/common"
	"vehicle_service_backend/internal/shared"
)

// DBToShared converts a GORM user.User model to a shared.User DTO.
func DBToShared(dbUser *User) *shared.User {
	if dbUser == nil {
		return nil
	}
	return &shared.User{
		ID:            dbUser.ID,
		Email:         dbUser.Email,
		FirstName:     dbUser.FirstName,
		LastName:      dbUser.LastName,
		Phone:         dbUser.Phone,
		Role:          dbUser.Role,
		Address:       dbUser.Address,
		City:          dbUser.City,
		State:         dbUser.State,
		Pincode:       dbUser.Pincode,
		Location:      dbUser.Location,
		WorkTypes:     dbUser.WorkTypes,
		AvailableTime: dbUser.AvailableTime,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
		LastLoginAt:   dbUser.LastLoginAt,
	}
}

// SharedToResponse converts a shared.User DTO to a UserResponse.
func SharedToResponse(u *shared.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Role:          u.Role,
		Address:       u.Address,
		City:          u.City,
		State:         u.State,
		Pincode:       u.Pincode,
		Location:      u.Location,
		WorkTypes:     u.WorkTypes,
		AvailableTime: u.AvailableTime,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// CreateRequestToDB converts a shared.CreateUserRequest plus a password hash
// into a GORM user.User model.
func CreateRequestToDB(req *shared.CreateUserRequest, passwordHash string) *User {
	role := req.Role
	if role == "" {
		role = common.RoleUser
	}
	return &User{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
	}
}
