package utils

import (
	"github.com/google/uuid"
)

// GenerateToken returns a new random (v4 UUID) session token
func GenerateToken() string {
	return uuid.NewString()
}
