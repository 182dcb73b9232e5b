package auth

import (
	"context"

	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpsrv"
	"github.com/tambo-labs/tambo/pkg/logx"
	"github.com/tambo-labs/tambo/pkg/user"
)

// Service verifies submitted credentials against stored records, enforces
// the account-status gate and issues session tokens.
type Service struct {
	users  user.Repository
	tokens TokenIssuer
	hasher PasswordHasher
}

// NewService creates the authentication service.
func NewService(users user.Repository, tokens TokenIssuer, hasher PasswordHasher) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		hasher: hasher,
	}
}

// Login runs the whole attempt in one call: lookup, password comparison,
// status gate, token issuance. A storage outage propagates as an internal
// error and is never reported as invalid credentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = otpsrv.NormalizeEmail(email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errx.HasCode(err, user.CodeUserNotFound) {
			logx.WithField("email", email).Debug("auth: login for unknown email")
			return nil, ErrInvalidCredentials()
		}
		return nil, errx.Wrap(err, "credential lookup failed", errx.TypeInternal)
	}

	if !s.hasher.Compare(u.PasswordHash, password) {
		logx.WithField("email", email).Debug("auth: password mismatch")
		return nil, ErrInvalidCredentials()
	}

	switch u.Status {
	case user.StatusPending:
		return nil, ErrPendingApproval()
	case user.StatusRejected:
		return nil, ErrRejected()
	case user.StatusDeactivated:
		return nil, ErrDeactivated()
	case user.StatusActive:
		// proceed
	default:
		return nil, errx.New("account has unknown status", errx.TypeInternal).
			WithDetail("status", u.Status.String())
	}

	tok, err := s.tokens.Issue(u.Email, u.Roles, u.ID)
	if err != nil {
		return nil, errx.Wrap(err, "token issuance failed", errx.TypeInternal)
	}

	logx.WithFields(logx.Fields{"email": u.Email, "user_id": u.ID}).Info("auth: login succeeded")
	return &LoginResult{
		Token:      tok,
		Roles:      u.Roles,
		NationalID: u.NationalID,
	}, nil
}
