package id

import "github.com/google/uuid"

// GenerateID returns a new unique identifier.
func GenerateID() string {
	return uuid.NewString()
}
