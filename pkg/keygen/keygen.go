package keygen

import (
	"crypto/rand"
	"encoding/hex"
)

const resetTokenBytes = 32

// GenerateResetToken generates an unguessable single-use token for the
// password reset flow. 32 random bytes, hex encoded.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
