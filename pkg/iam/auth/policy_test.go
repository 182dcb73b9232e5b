package auth_test

import (
	"testing"

	"github.com/tambo-labs/tambo/pkg/iam/auth"
)

func TestPolicyExactMatch(t *testing.T) {
	p := auth.NewPolicy(
		auth.Public("POST", "/auth/login"),
		auth.Authenticated("GET", "/auth/me"),
	)

	if access, _ := p.Decide("POST", "/auth/login"); access != auth.AccessPublic {
		t.Fatal("expected /auth/login to be public")
	}
	if access, _ := p.Decide("GET", "/auth/me"); access != auth.AccessAuthenticated {
		t.Fatal("expected /auth/me to require authentication")
	}

	// Method is part of the match.
	if access, _ := p.Decide("GET", "/auth/login"); access != auth.AccessAuthenticated {
		t.Fatal("expected GET /auth/login to fall back to authenticated")
	}
}

func TestPolicyPrefixMatch(t *testing.T) {
	p := auth.NewPolicy(
		auth.Restricted("", "/api/v1/users/*", "ADMIN"),
	)

	for _, path := range []string{"/api/v1/users", "/api/v1/users/7", "/api/v1/users/7/document"} {
		access, roles := p.Decide("GET", path)
		if access != auth.AccessRoles {
			t.Fatalf("expected %s to be role restricted", path)
		}
		if len(roles) != 1 || roles[0] != "ADMIN" {
			t.Fatalf("expected ADMIN role for %s, got %v", path, roles)
		}
	}

	// The prefix must match on a segment boundary.
	if access, _ := p.Decide("GET", "/api/v1/userscan"); access != auth.AccessAuthenticated {
		t.Fatal("prefix rule matched across a segment boundary")
	}
}

func TestPolicyExactWinsOverPrefix(t *testing.T) {
	p := auth.NewPolicy(
		auth.Restricted("", "/api/v1/users/*", "ADMIN"),
		auth.Public("GET", "/api/v1/users/ping"),
	)

	// Declaration order does not matter: the exact rule wins.
	if access, _ := p.Decide("GET", "/api/v1/users/ping"); access != auth.AccessPublic {
		t.Fatal("exact rule lost to a wildcard rule")
	}
	if access, _ := p.Decide("GET", "/api/v1/users/7"); access != auth.AccessRoles {
		t.Fatal("wildcard rule stopped matching its subtree")
	}
}

func TestPolicyFallbackIsAuthenticated(t *testing.T) {
	p := auth.NewPolicy(auth.Public("GET", "/health"))

	access, roles := p.Decide("GET", "/anything/else")
	if access != auth.AccessAuthenticated {
		t.Fatal("expected unlisted routes to require authentication")
	}
	if roles != nil {
		t.Fatalf("expected no roles for the fallback, got %v", roles)
	}
}

func TestPolicyFirstDeclaredWinsWithinGroup(t *testing.T) {
	p := auth.NewPolicy(
		auth.Restricted("", "/admin/*", "ADMIN"),
		auth.Public("", "/admin/*"),
	)

	if access, _ := p.Decide("GET", "/admin/panel"); access != auth.AccessRoles {
		t.Fatal("expected the first declared wildcard rule to win")
	}
}
