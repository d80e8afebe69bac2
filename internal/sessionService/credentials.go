package session

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"auction-site/internal/auctionerrors"

	"golang.org/x/crypto/bcrypt"
)

// Credential limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 4
)

// ValidateCredentials checks username and password lengths
func ValidateCredentials(username, password string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return fmt.Errorf("service: %w - username must be %d to %d characters",
			auctionerrors.ErrInvalidArgument, MinUsernameLength, MaxUsernameLength)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("service: %w - password must be at least %d characters",
			auctionerrors.ErrInvalidArgument, MinPasswordLength)
	}
	return nil
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("service: %w - password too long", auctionerrors.ErrInvalidArgument)
		}
		return "", fmt.Errorf("service: failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
