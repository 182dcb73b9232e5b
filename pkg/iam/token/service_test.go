package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tambo-labs/tambo/pkg/config"
	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam/token"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   "test-secret-key-for-signing",
		TokenTTL: time.Hour,
		Issuer:   "test",
	}
}

func TestIssueAndValidate(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", []string{"CUSTOMER"}, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !svc.Validate(tok, "alice@example.com") {
		t.Fatal("expected a freshly issued token to validate")
	}
}

func TestValidateWrongSubject(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", nil, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if svc.Validate(tok, "bob@example.com") {
		t.Fatal("token validated against a different subject")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", []string{"CUSTOMER"}, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if svc.Validate(tampered, "alice@example.com") {
		t.Fatal("tampered token validated")
	}
}

func TestValidateDifferentKey(t *testing.T) {
	svc := token.NewService(testConfig())

	other := testConfig()
	other.Secret = "a-completely-different-key"
	otherSvc := token.NewService(other)

	tok, err := otherSvc.Issue("alice@example.com", nil, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if svc.Validate(tok, "alice@example.com") {
		t.Fatal("token signed with a different key validated")
	}
}

func TestValidateExpiredToken(t *testing.T) {
	issuedAt := time.Now()
	clock := issuedAt

	svc := token.NewService(testConfig(), token.WithClock(func() time.Time { return clock }))

	tok, err := svc.Issue("alice@example.com", nil, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if !svc.Validate(tok, "alice@example.com") {
		t.Fatal("token should be valid before expiry")
	}

	clock = issuedAt.Add(time.Hour + time.Second)
	if svc.Validate(tok, "alice@example.com") {
		t.Fatal("expired token validated")
	}
}

func TestIssueEmptySubject(t *testing.T) {
	svc := token.NewService(testConfig())

	_, err := svc.Issue("", nil, 42)
	if err == nil {
		t.Fatal("expected an error for an empty subject")
	}
	if !errx.HasCode(err, token.CodeEmptySubject) {
		t.Fatalf("expected EMPTY_SUBJECT, got %v", err)
	}
}

func TestExtractSubjectAndRoles(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", []string{"SHOP_OWNER", "CUSTOMER"}, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	subject, err := svc.ExtractSubject(tok)
	if err != nil {
		t.Fatalf("ExtractSubject failed: %v", err)
	}
	if subject != "alice@example.com" {
		t.Fatalf("expected subject alice@example.com, got %q", subject)
	}

	roles, err := svc.ExtractRoles(tok)
	if err != nil {
		t.Fatalf("ExtractRoles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "SHOP_OWNER" {
		t.Fatalf("unexpected roles: %v", roles)
	}
}

func TestExtractRolesAbsentYieldsEmptySet(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", nil, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	roles, err := svc.ExtractRoles(tok)
	if err != nil {
		t.Fatalf("ExtractRoles failed: %v", err)
	}
	if roles == nil || len(roles) != 0 {
		t.Fatalf("expected empty role set, got %v", roles)
	}
}

func TestExtractUserID(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", nil, 42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	id, err := svc.ExtractUserID(tok)
	if err != nil {
		t.Fatalf("ExtractUserID failed: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected user id 42, got %d", id)
	}
}

func TestExtractUserIDMissingClaim(t *testing.T) {
	svc := token.NewService(testConfig())

	tok, err := svc.Issue("alice@example.com", nil, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	_, err = svc.ExtractUserID(tok)
	if err == nil {
		t.Fatal("expected an error when the id claim is missing")
	}
	if !errx.HasCode(err, token.CodeMalformedToken) {
		t.Fatalf("expected MALFORMED_TOKEN, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	svc := token.NewService(testConfig())

	if _, err := svc.Parse("not-a-token"); err == nil {
		t.Fatal("expected an error for garbage input")
	}
	if svc.Validate("", "alice@example.com") {
		t.Fatal("empty token validated")
	}
}
