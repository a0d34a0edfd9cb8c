package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateResetToken returns 32 random bytes as hex. Only its hash is stored.
func GenerateResetToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
