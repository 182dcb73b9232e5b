package user

import (
	"context"

	"github.com/tambo-labs/tambo/pkg/kernel"
)

// Repository is the credential-store collaborator. Uniqueness of email and
// national-ID is enforced here. Lookups distinguish "not found" (a typed
// USER_NOT_FOUND error) from I/O failure (anything else) so callers never
// have to guess which one they got.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)

	// Save inserts the record and fills in its generated id.
	Save(ctx context.Context, u *User) error

	SetStatus(ctx context.Context, id int64, status Status) error
	List(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[User], error)
}
