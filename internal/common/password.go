// File: internal/common/password.go
package common

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a plaintext password against a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength enforces the registration password policy:
// at least 8 characters with one uppercase, one lowercase and one digit.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return ErrUnprocessableEntity.WithDetails("Password must be at least 8 characters long.")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return ErrUnprocessableEntity.WithDetails("Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		return ErrUnprocessableEntity.WithDetails("Password must contain at least one lowercase letter.")
	}
	if !hasDigit {
		return ErrUnprocessableEntity.WithDetails("Password must contain at least one number.")
	}
	return nil
}
