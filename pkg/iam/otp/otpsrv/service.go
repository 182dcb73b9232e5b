package otpsrv

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/tambo-labs/tambo/pkg/config"
	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam/otp"
	"github.com/tambo-labs/tambo/pkg/logx"
)

// Service issues and verifies one-time codes that prove control of an email
// address before registration completes.
type Service struct {
	store       otp.Store
	notifier    otp.Notifier
	codeLength  int
	ttl         time.Duration
	verifiedTTL time.Duration
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the OTP service.
func NewService(store otp.Store, notifier otp.Notifier, cfg config.OTPConfig, opts ...Option) *Service {
	s := &Service{
		store:       store,
		notifier:    notifier,
		codeLength:  cfg.CodeLength,
		ttl:         cfg.TTL,
		verifiedTTL: cfg.VerifiedTTL,
		now:         time.Now,
	}
	if s.codeLength <= 0 {
		s.codeLength = 6
	}
	if s.ttl <= 0 {
		s.ttl = 5 * time.Minute
	}
	if s.verifiedTTL <= 0 {
		s.verifiedTTL = 30 * time.Minute
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestCode generates a fresh code for the email, stores it with an
// expiry window and delivers it through the notifier. Any previous live
// code for the email is invalidated. The code is returned so callers with
// their own delivery channel can reuse it; the HTTP layer never exposes it.
func (s *Service) RequestCode(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if !IsWellFormedEmail(email) {
		return "", otp.ErrInvalidEmail().WithDetail("email", email)
	}

	code, err := otp.GenerateCode(s.codeLength)
	if err != nil {
		return "", errx.Wrap(err, "failed to generate code", errx.TypeInternal)
	}

	now := s.now()
	entry := otp.Entry{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.store.Put(ctx, email, entry); err != nil {
		return "", errx.Wrap(err, "failed to store code", errx.TypeInternal)
	}

	if err := s.notifier.SendCode(ctx, email, code); err != nil {
		// Delivery failure must be distinguishable from validation failure:
		// the caller can retry later, fixing their input will not help.
		return "", otp.ErrRegistry.NewWithCause(otp.CodeDeliveryFailed, err).WithDetail("email", email)
	}

	logx.WithField("email", email).Debug("otp: code issued")
	return code, nil
}

// VerifyCode checks the submitted code against the stored entry and
// consumes it on success. The outcome is a boolean by design: mismatch,
// absence, expiry and reuse are deliberately indistinguishable so the
// endpoint cannot be used as an oracle. The error is reserved for store
// I/O failures.
func (s *Service) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	email = NormalizeEmail(email)

	ok, err := s.store.Consume(ctx, email, code, s.now())
	if err != nil {
		return false, errx.Wrap(err, "failed to verify code", errx.TypeInternal)
	}
	if !ok {
		logx.WithField("email", email).Debug("otp: verification failed")
		return false, nil
	}

	if err := s.store.MarkVerified(ctx, email, s.verifiedTTL); err != nil {
		return false, errx.Wrap(err, "failed to record verification", errx.TypeInternal)
	}

	logx.WithField("email", email).Debug("otp: email verified")
	return true, nil
}

// ConsumeVerification atomically checks and clears the server-side proof
// that the email recently passed code verification. Registration calls this
// instead of trusting any client-supplied flag.
func (s *Service) ConsumeVerification(ctx context.Context, email string) (bool, error) {
	ok, err := s.store.ConsumeVerified(ctx, NormalizeEmail(email))
	if err != nil {
		return false, errx.Wrap(err, "failed to consume verification", errx.TypeInternal)
	}
	return ok, nil
}

// NormalizeEmail lowercases and trims an email address so store keys and
// uniqueness checks agree on a single canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsWellFormedEmail reports whether the address is syntactically valid.
func IsWellFormedEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\n") {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
