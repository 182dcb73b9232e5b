package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tambo-labs/tambo/pkg/config"
	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/iam/auth"
	"github.com/tambo-labs/tambo/pkg/iam/token"
	"github.com/tambo-labs/tambo/pkg/kernel"
	"github.com/tambo-labs/tambo/pkg/user"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   "test-secret-key-for-signing",
		TokenTTL: time.Hour,
		Issuer:   "test",
	}
}

// fakeRepo serves canned users keyed by email. A non-nil failWith makes
// every lookup fail like a storage outage.
type fakeRepo struct {
	users    map[string]*user.User
	failWith error
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[email]
	if !ok {
		return nil, user.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound()
}

func (r *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.users[email]
	return ok, nil
}

func (r *fakeRepo) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	for _, u := range r.users {
		if u.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Save(_ context.Context, u *user.User) error {
	u.ID = int64(len(r.users) + 1)
	r.users[u.Email] = u
	return nil
}

func (r *fakeRepo) SetStatus(_ context.Context, id int64, status user.Status) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Status = status
			return nil
		}
	}
	return user.ErrUserNotFound()
}

func (r *fakeRepo) List(_ context.Context, opts kernel.PaginationOptions) (kernel.Paginated[user.User], error) {
	items := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		items = append(items, *u)
	}
	return kernel.NewPaginated(items, opts.Page, opts.PageSize, len(items)), nil
}

func newLoginFixture(t *testing.T, status user.Status) (*auth.Service, *fakeRepo) {
	t.Helper()

	hasher := auth.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	repo := &fakeRepo{users: map[string]*user.User{
		"alice@example.com": {
			ID:           7,
			NationalID:   "12345678",
			Email:        "alice@example.com",
			PasswordHash: hash,
			Roles:        []string{"SHOP_OWNER"},
			Status:       status,
		},
	}}

	tokens := token.NewService(testJWTConfig())
	return auth.NewService(repo, tokens, hasher), repo
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newLoginFixture(t, user.StatusActive)

	result, err := svc.Login(context.Background(), "Alice@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}
	if result.NationalID != "12345678" {
		t.Fatalf("unexpected national id %q", result.NationalID)
	}
	if len(result.Roles) != 1 || result.Roles[0] != "SHOP_OWNER" {
		t.Fatalf("unexpected roles %v", result.Roles)
	}

	// The token must carry the subject and roles it was issued for.
	tokens := token.NewService(testJWTConfig())
	if !tokens.Validate(result.Token, "alice@example.com") {
		t.Fatal("issued token does not validate against the login email")
	}
	id, err := tokens.ExtractUserID(result.Token)
	if err != nil || id != 7 {
		t.Fatalf("expected user id 7 in token, got %d (%v)", id, err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newLoginFixture(t, user.StatusActive)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errx.HasCode(err, auth.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newLoginFixture(t, user.StatusActive)

	_, err := svc.Login(context.Background(), "alice@example.com", "wrong horse")
	if !errx.HasCode(err, auth.CodeInvalidCredentials) {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
}

func TestLoginStatusGate(t *testing.T) {
	cases := []struct {
		status user.Status
		code   *errx.ErrorCode
	}{
		{user.StatusPending, auth.CodePendingApproval},
		{user.StatusRejected, auth.CodeRejected},
		{user.StatusDeactivated, auth.CodeDeactivated},
	}

	for _, tc := range cases {
		svc, _ := newLoginFixture(t, tc.status)
		_, err := svc.Login(context.Background(), "alice@example.com", "correct horse")
		if !errx.HasCode(err, tc.code) {
			t.Fatalf("status %s: expected %s, got %v", tc.status, tc.code.Code, err)
		}
	}
}

func TestLoginStorageOutageNotMaskedAsBadCredentials(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)
	repo := &fakeRepo{users: map[string]*user.User{}, failWith: errors.New("connection refused")}
	svc := auth.NewService(repo, token.NewService(testJWTConfig()), hasher)

	_, err := svc.Login(context.Background(), "alice@example.com", "correct horse")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errx.HasCode(err, auth.CodeInvalidCredentials) {
		t.Fatal("a storage outage was reported as invalid credentials")
	}

	var e *errx.Error
	if !errx.As(err, &e) || e.Type != errx.TypeInternal {
		t.Fatalf("expected an internal error, got %v", err)
	}
}
