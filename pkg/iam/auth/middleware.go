package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/tambo-labs/tambo/pkg/iam"
	"github.com/tambo-labs/tambo/pkg/kernel"
)

const bearerPrefix = "Bearer "

// TokenMiddleware is the access-decision gate in front of every business
// handler. It resolves the route's policy rule, validates the bearer token
// when one is required, and parks the caller's identity in the request
// locals so handlers never re-parse the token.
type TokenMiddleware struct {
	tokens TokenVerifier
	policy *Policy
}

// NewTokenMiddleware creates the middleware for a token verifier and a
// static route policy.
func NewTokenMiddleware(tokens TokenVerifier, policy *Policy) *TokenMiddleware {
	return &TokenMiddleware{
		tokens: tokens,
		policy: policy,
	}
}

// Handler returns the fiber handler performing the admit/reject decision.
func (m *TokenMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		access, roles := m.policy.Decide(c.Method(), c.Path())
		if access == AccessPublic {
			return c.Next()
		}

		tokenString := BearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			// Anonymous request against a protected route.
			return iam.ErrUnauthorized()
		}

		// The request carries no separate claimed identity, so the token is
		// checked against its own embedded subject: possession of a well
		// signed, unexpired token is what authenticates.
		subject, err := m.tokens.ExtractSubject(tokenString)
		if err != nil || !m.tokens.Validate(tokenString, subject) {
			return iam.ErrInvalidToken()
		}

		userID, err := m.tokens.ExtractUserID(tokenString)
		if err != nil {
			return iam.ErrInvalidToken()
		}
		tokenRoles, err := m.tokens.ExtractRoles(tokenString)
		if err != nil {
			return iam.ErrInvalidToken()
		}

		authCtx := &kernel.AuthContext{
			UserID: kernel.NewUserID(userID),
			Email:  subject,
			Roles:  tokenRoles,
		}

		if access == AccessRoles && !authCtx.HasAnyRole(roles...) {
			return iam.ErrAccessDenied()
		}

		c.Locals(string(kernel.AuthContextKey), authCtx)
		return c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value.
// Anything without the literal "Bearer " prefix counts as anonymous.
func BearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// FromContext returns the authenticated identity stored by the middleware.
func FromContext(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	authCtx, ok := c.Locals(string(kernel.AuthContextKey)).(*kernel.AuthContext)
	if !ok || !authCtx.IsValid() {
		return nil, false
	}
	return authCtx, true
}
