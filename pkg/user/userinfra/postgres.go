package userinfra

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/tambo-labs/tambo/pkg/errx"
	"github.com/tambo-labs/tambo/pkg/kernel"
	"github.com/tambo-labs/tambo/pkg/user"
)

// PostgresUserRepository is the Postgres implementation of user.Repository.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates a new repository instance.
func NewPostgresUserRepository(db *sqlx.DB) user.Repository {
	return &PostgresUserRepository{db: db}
}

// userPersistence mirrors the users table. Roles live in a text[] column.
type userPersistence struct {
	ID           int64          `db:"id"`
	NationalID   string         `db:"national_id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Phone        string         `db:"phone"`
	PasswordHash string         `db:"password_hash"`
	DocumentRef  string         `db:"document_ref"`
	Roles        pq.StringArray `db:"roles"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
}

func toDomain(p userPersistence) user.User {
	return user.User{
		ID:           p.ID,
		NationalID:   p.NationalID,
		Name:         p.Name,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: p.PasswordHash,
		DocumentRef:  p.DocumentRef,
		Roles:        []string(p.Roles),
		Status:       user.Status(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

// Save inserts the record and fills in the generated id. Unique violations
// on email or national-ID surface as DUPLICATE_IDENTITY.
func (r *PostgresUserRepository) Save(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			national_id, name, email, phone, password_hash,
			document_ref, roles, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		u.NationalID, u.Name, u.Email, u.Phone, u.PasswordHash,
		u.DocumentRef, pq.StringArray(u.Roles), u.Status.String(), u.CreatedAt,
	).Scan(&u.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return user.ErrDuplicateIdentity().WithDetail("constraint", pqErr.Constraint)
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal).
			WithDetail("email", u.Email)
	}
	return nil
}

// FindByEmail looks up a credential record by its unique email.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var p userPersistence
	query := `SELECT * FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &p, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by email", errx.TypeInternal)
	}
	domainUser := toDomain(p)
	return &domainUser, nil
}

// FindByID looks up a credential record by its numeric id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var p userPersistence
	query := `SELECT * FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by id", errx.TypeInternal)
	}
	domainUser := toDomain(p)
	return &domainUser, nil
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, errx.Wrap(err, "failed to check email existence", errx.TypeInternal)
	}
	return exists, nil
}

func (r *PostgresUserRepository) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE national_id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, nationalID); err != nil {
		return false, errx.Wrap(err, "failed to check national ID existence", errx.TypeInternal)
	}
	return exists, nil
}

// SetStatus updates the account-status flag. Records are never deleted;
// deactivation is a status change like any other.
func (r *PostgresUserRepository) SetStatus(ctx context.Context, id int64, status user.Status) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET status = $1 WHERE id = $2`, status.String(), id)
	if err != nil {
		return errx.Wrap(err, "failed to update user status", errx.TypeInternal).
			WithDetail("user_id", id)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on status update", errx.TypeInternal)
	}
	if rowsAffected == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

// List returns a page of accounts ordered by registration time.
func (r *PostgresUserRepository) List(ctx context.Context, opts kernel.PaginationOptions) (kernel.Paginated[user.User], error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return kernel.Paginated[user.User]{}, errx.Wrap(err, "failed to count users", errx.TypeInternal)
	}

	var records []userPersistence
	query := `SELECT * FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	offset := (opts.Page - 1) * opts.PageSize
	if err := r.db.SelectContext(ctx, &records, query, opts.PageSize, offset); err != nil {
		return kernel.Paginated[user.User]{}, errx.Wrap(err, "failed to list users", errx.TypeInternal)
	}

	items := make([]user.User, 0, len(records))
	for _, p := range records {
		items = append(items, toDomain(p))
	}
	return kernel.NewPaginated(items, opts.Page, opts.PageSize, total), nil
}
