package pkg

import "github.com/google/uuid"

// GenerateSessionID - generates a new unique id for a client connection.
func GenerateSessionID() string {
	return uuid.NewString()
}
