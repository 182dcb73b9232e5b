package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Entry is a live one-time code for a single email address. At most one
// entry exists per email; a new request overwrites the previous one.
type Entry struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the entry is expired at the given instant.
// Expiry is strict: the entry is dead at the exact expiry instant.
func (e Entry) IsExpired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Matches reports whether the submitted code matches exactly.
func (e Entry) Matches(code string) bool {
	return code != "" && e.Code == code
}

// GenerateCode generates a cryptographically secure numeric code of the
// given length, zero-padded.
func GenerateCode(length int) (string, error) {
	max := new(big.Int)
	max.Exp(big.NewInt(10), big.NewInt(int64(length)), nil)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	format := fmt.Sprintf("%%0%dd", length)
	return fmt.Sprintf(format, n), nil
}
