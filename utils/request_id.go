package utils

import "github.com/google/uuid"

// NewRequestID returns a random UUID string.
func NewRequestID() string {
	return uuid.NewString()
}
