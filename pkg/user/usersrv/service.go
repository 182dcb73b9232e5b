package usersrv

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/fsx"
	"github.com/tambo-labs/tambo/pkg/iam/auth"
	"github.com/tambo-labs/tambo/pkg/iam/otp/otpsrv"
	"github.com/tambo-labs/tambo/pkg/kernel"
	"github.com/tambo-labs/tambo/pkg/logx"
	"github.com/tambo-labs/tambo/pkg/user"
)

// EmailVerifier is the slice of the OTP service registration needs: the
// server-side record that an email recently passed code verification.
type EmailVerifier interface {
	ConsumeVerification(ctx context.Context, email string) (bool, error)
}

// RegisterInput carries everything a registration attempt submits.
type RegisterInput struct {
	NationalID      string
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Roles           []string
	Document        []byte
	DocumentName    string
}

// UserService owns registration and account administration.
type UserService struct {
	users    user.Repository
	docs     fsx.FileSystem
	verifier EmailVerifier
	hasher   auth.PasswordHasher
}

// NewUserService creates the user service.
func NewUserService(users user.Repository, docs fsx.FileSystem, verifier EmailVerifier, hasher auth.PasswordHasher) *UserService {
	return &UserService{
		users:    users,
		docs:     docs,
		verifier: verifier,
		hasher:   hasher,
	}
}

// Register creates a pending account. The email must carry a live
// server-side verification proof; duplicate email or national-ID aborts
// before anything is stored; the identity document lands in blind storage
// and only its opaque reference is persisted.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*user.User, error) {
	if err := s.validate(&input); err != nil {
		return nil, err
	}

	verified, err := s.verifier.ConsumeVerification(ctx, input.Email)
	if err != nil {
		return nil, errx.Wrap(err, "verification lookup failed", errx.TypeInternal)
	}
	if !verified {
		return nil, user.ErrEmailNotVerified().WithDetail("email", input.Email)
	}

	if exists, err := s.users.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, errx.Wrap(err, "email uniqueness check failed", errx.TypeInternal)
	} else if exists {
		return nil, user.ErrDuplicateIdentity().WithDetail("field", "email")
	}

	if exists, err := s.users.ExistsByNationalID(ctx, input.NationalID); err != nil {
		return nil, errx.Wrap(err, "national ID uniqueness check failed", errx.TypeInternal)
	} else if exists {
		return nil, user.ErrDuplicateIdentity().WithDetail("field", "national_id")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, errx.Wrap(err, "password hashing failed", errx.TypeInternal)
	}

	docRef := s.docs.Join("documents", uuid.NewString()+filepath.Ext(input.DocumentName))
	if err := s.docs.WriteFile(ctx, docRef, input.Document); err != nil {
		return nil, user.ErrRegistry.NewWithCause(user.CodeDocumentStorage, err)
	}

	u := &user.User{
		NationalID:   input.NationalID,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		DocumentRef:  docRef,
		Roles:        input.Roles,
		Status:       user.StatusPending,
		CreatedAt:    time.Now(),
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{"email": u.Email, "user_id": u.ID}).Info("user: registered, awaiting approval")
	return u, nil
}

func (s *UserService) validate(input *RegisterInput) error {
	input.Email = otpsrv.NormalizeEmail(input.Email)

	switch {
	case input.NationalID == "":
		return user.ErrInvalidInput().WithDetail("field", "national_id")
	case input.Name == "":
		return user.ErrInvalidInput().WithDetail("field", "name")
	case !otpsrv.IsWellFormedEmail(input.Email):
		return user.ErrInvalidInput().WithDetail("field", "email")
	case input.Password == "":
		return user.ErrInvalidInput().WithDetail("field", "password")
	case input.Password != input.ConfirmPassword:
		return user.ErrRegistry.NewWithMessage(user.CodeInvalidInput, "Passwords do not match")
	case len(input.Document) == 0:
		return user.ErrInvalidInput().WithDetail("field", "document")
	case len(input.Roles) == 0:
		return user.ErrInvalidInput().WithDetail("field", "roles")
	}

	for _, r := range input.Roles {
		if !kernel.Role(r).IsAssignable() {
			return user.ErrRegistry.NewWithMessage(user.CodeInvalidInput, "Role cannot be requested at registration").
				WithDetail("role", r)
		}
	}
	return nil
}

// Get returns a single account.
func (s *UserService) Get(ctx context.Context, id int64) (*user.User, error) {
	return s.users.FindByID(ctx, id)
}

// List returns a page of accounts for the admin review queue.
func (s *UserService) List(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[user.User], error) {
	return s.users.List(ctx, opts.Normalize())
}

// SetStatus moves an account through the approval lifecycle.
func (s *UserService) SetStatus(ctx context.Context, id int64, status user.Status) error {
	if !status.IsValid() {
		return user.ErrInvalidStatus().WithDetail("status", string(status))
	}
	if err := s.users.SetStatus(ctx, id, status); err != nil {
		return err
	}
	logx.WithFields(logx.Fields{"user_id": id, "status": status}).Info("user: status changed")
	return nil
}

// GetDocument loads the stored identity document for an account.
func (s *UserService) GetDocument(ctx context.Context, id int64) ([]byte, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.docs.ReadFile(ctx, u.DocumentRef)
	if err != nil {
		return nil, user.ErrRegistry.NewWithCause(user.CodeDocumentStorage, err)
	}
	return data, nil
}
