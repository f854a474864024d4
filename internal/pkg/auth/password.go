package auth

import (
	"errors"
	"fmt"

	"github.com/yigit/edudirectory/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for stored identity passwords
const BcryptCost = 12

// HashPassword hashes a console password. Passwords bcrypt cannot hold are rejected as
// validation errors.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	switch {
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		return "", apperrors.NewValidationError("password must be at most 72 bytes")
	case err != nil:
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
