package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tambo-labs/tambo/pkg/config"
)

// Claims is the fixed, strongly-typed payload signed into every session
// token. No dynamic claim maps: every field has one type on both sides of
// the wire.
type Claims struct {
	Roles  []string `json:"roles,omitempty"`
	UserID int64    `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and validates HS256-signed session tokens. The symmetric
// key is injected once at construction; the same key verifies what it
// signs. Validation is pure computation and safe for unrestricted parallel
// use.
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a token service from configuration.
func NewService(cfg config.JWTConfig, opts ...Option) *Service {
	s := &Service{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 8 * time.Hour
	}
	if s.issuer == "" {
		s.issuer = "tambo"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token carrying the subject email, role set and user id,
// valid from now for the configured window.
func (s *Service) Issue(subject string, roles []string, userID int64) (string, error) {
	if subject == "" {
		return "", ErrEmptySubject()
	}

	if roles == nil {
		roles = []string{}
	}

	now := s.now()
	claims := Claims{
		Roles:  roles,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeSigningFailed, err)
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the typed claims.
// Every parse, crypto or expiry failure is normalized to MalformedToken;
// nothing from the JWT library escapes this boundary.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeMalformedToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken()
	}
	return claims, nil
}

// Validate reports whether the token is correctly signed, unexpired and
// bound to the expected subject. It fails closed: any failure, whatever
// its cause, yields false.
func (s *Service) Validate(tokenString, expectedSubject string) bool {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}

// ExtractSubject returns the subject email embedded in the token.
func (s *Service) ExtractSubject(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ExtractUserID returns the embedded user id as a canonical int64. A token
// without a positive id claim is malformed: every issued token carries the
// record id of a persisted user, and those start at one.
func (s *Service) ExtractUserID(tokenString string) (int64, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return 0, err
	}
	if claims.UserID <= 0 {
		return 0, ErrMalformedToken().WithDetail("reason", "missing user id claim")
	}
	return claims.UserID, nil
}

// ExtractRoles returns the embedded role set. A token without a roles
// claim yields an empty set, not an error.
func (s *Service) ExtractRoles(tokenString string) ([]string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Roles == nil {
		return []string{}, nil
	}
	return claims.Roles, nil
}
