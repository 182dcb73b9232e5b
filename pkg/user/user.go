package user

import (
	"time"
)

// Status is the account-status flag driving the login gate. Registration
// creates pending accounts; an admin moves them to active or rejected, and
// may deactivate an active account later. Accounts are never hard-deleted.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusActive      Status = "ACTIVE"
	StatusRejected    Status = "REJECTED"
	StatusDeactivated Status = "DEACTIVATED"
)

func (s Status) String() string { return string(s) }

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected, StatusDeactivated:
		return true
	}
	return false
}

// User is a credential record. Email and national-ID are each globally
// unique; the password never leaves this struct in plaintext after
// registration.
type User struct {
	ID           int64     `db:"id" json:"id"`
	NationalID   string    `db:"national_id" json:"national_id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	DocumentRef  string    `db:"document_ref" json:"-"`
	Roles        []string  `db:"-" json:"roles"`
	Status       Status    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
