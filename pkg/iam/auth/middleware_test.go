package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam/auth"
	"github.com/tambo-labs/tambo/pkg/iam/token"
	"github.com/tambo-labs/tambo/pkg/kernel"
)

func newTestApp(tokens *token.Service, policy *auth.Policy) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler})
	app.Use(auth.NewTokenMiddleware(tokens, policy).Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/auth/me", func(c *fiber.Ctx) error {
		authCtx, ok := auth.FromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.JSON(authCtx)
	})
	app.Get("/api/v1/users", func(c *fiber.Ctx) error {
		return c.SendString("admin ok")
	})
	return app
}

func defaultPolicy() *auth.Policy {
	return auth.NewPolicy(
		auth.Public("GET", "/health"),
		auth.Authenticated("GET", "/auth/me"),
		auth.Restricted("", "/api/v1/users/*", kernel.RoleAdmin.String()),
	)
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestMiddlewareAdmitsPublicRoute(t *testing.T) {
	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	resp := doRequest(t, app, "/health", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for a public route, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsAnonymousOnProtectedRoute(t *testing.T) {
	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	resp := doRequest(t, app, "/auth/me", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestMiddlewareAdmitsValidToken(t *testing.T) {
	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	tok, err := tokens.Issue("alice@example.com", []string{"CUSTOMER"}, 7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	resp := doRequest(t, app, "/auth/me", tok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a valid token, got %d", resp.StatusCode)
	}
}

func TestMiddlewareEnforcesRoles(t *testing.T) {
	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	customer, err := tokens.Issue("alice@example.com", []string{"CUSTOMER"}, 7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	admin, err := tokens.Issue("root@example.com", []string{"ADMIN"}, 1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if resp := doRequest(t, app, "/api/v1/users", customer); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, app, "/api/v1/users", admin); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for an admin, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := token.NewService(testJWTConfig(), token.WithClock(func() time.Time { return issuedAt }))

	tok, err := issuer.Issue("alice@example.com", nil, 7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	resp := doRequest(t, app, "/auth/me", tok)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for an expired token, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsForeignToken(t *testing.T) {
	other := testJWTConfig()
	other.Secret = "some-other-service-key"
	foreign := token.NewService(other)

	tok, err := foreign.Issue("alice@example.com", nil, 7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	resp := doRequest(t, app, "/auth/me", tok)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a token from another key, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsMalformedAuthorizationHeader(t *testing.T) {
	tokens := token.NewService(testJWTConfig())
	app := newTestApp(tokens, defaultPolicy())

	tok, err := tokens.Issue("alice@example.com", nil, 7)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Without the Bearer prefix the request counts as anonymous.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set(fiber.HeaderAuthorization, tok)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a missing Bearer prefix, got %d", resp.StatusCode)
	}
}

func TestBearerToken(t *testing.T) {
	if got := auth.BearerToken("Bearer abc"); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := auth.BearerToken("bearer abc"); got != "" {
		t.Fatalf("expected empty for lowercase prefix, got %q", got)
	}
	if got := auth.BearerToken(""); got != "" {
		t.Fatalf("expected empty for missing header, got %q", got)
	}
}
