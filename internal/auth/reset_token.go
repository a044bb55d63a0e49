package auth

import (
	"crypto/rand"
	"fmt"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultResetTokenLength is used when no length is configured.
const DefaultResetTokenLength = 32

// GenerateToken returns an opaque token of the given length, each
// character drawn from the 62-character alphanumeric alphabet using
// crypto/rand. Selection by modulo slightly favors the first few
// characters of the alphabet; the token is not a secret key, so the
// bias is tolerated.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		length = DefaultResetTokenLength
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(out), nil
}
