package otp

import (
	"context"
	"time"
)

// Store is the keyed one-time-code state shared by concurrent registration
// attempts. Implementations must make Consume atomic per email key: the
// expiry check, the code comparison and the deletion happen as one step so
// two concurrent verifications can never both succeed against a single code.
type Store interface {
	// Put stores a live entry for the email, overwriting any previous one
	// (last-request-wins).
	Put(ctx context.Context, email string, entry Entry) error

	// Consume atomically checks that a live, unexpired entry exists for the
	// email with exactly the given code, and deletes it. Returns true only
	// on a successful match; mismatch, absence and expiry are
	// indistinguishable to the caller. The error is reserved for store I/O.
	Consume(ctx context.Context, email, code string, now time.Time) (bool, error)

	// MarkVerified records a server-side proof that the email passed code
	// verification, valid for the given window.
	MarkVerified(ctx context.Context, email string, ttl time.Duration) error

	// ConsumeVerified atomically checks and clears the verification proof
	// for the email.
	ConsumeVerified(ctx context.Context, email string) (bool, error)
}

// Notifier delivers a one-time code out-of-band. The concrete delivery
// channel (SES, console) is injected by the composition root.
type Notifier interface {
	SendCode(ctx context.Context, email, code string) error
}
