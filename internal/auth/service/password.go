package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "github.com/ZafarDakhnairi/iGameDB/pkg/domain-errors"
)

// HashPassword creates a bcrypt hash of the provided password.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeValidation, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword checks a plaintext password against a stored hash. The error
// is deliberately generic so callers cannot tell a bad password from a bad
// account.
func VerifyPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}
