package security

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// GenerateResetToken returns a hex-encoded token with 256 bits of entropy,
// used for single-use password reset links
func GenerateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateStateToken creates a random identifier for OAuth state values
func GenerateStateToken() string {
	return uuid.New().String()
}
