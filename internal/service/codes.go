package service

import (
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// GenerateConfirmationCode returns a 6-character code over A-Z0-9, each
// symbol drawn independently and uniformly. Uniqueness is not enforced
// here; the booking insert hits a unique index and the lifecycle retries
// on collision.
func GenerateConfirmationCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error reading random bytes for code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
