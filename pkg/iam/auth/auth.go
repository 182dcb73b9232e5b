package auth

import (
	"net/http"

	"github.com/tambo-labs/tambo/pkg/errx"
)

// ============================================================================
// Error Registry
// ============================================================================

// Login failures all answer with an unauthorized status. INVALID_CREDENTIALS
// covers both "no such email" and "wrong password"; the two are never
// distinguishable from outside, to resist credential enumeration. The
// account-state kinds are safe to surface: they say nothing about whether
// the submitted credentials were right.
var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidCredentials = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid email or password")
	CodePendingApproval    = ErrRegistry.Register("PENDING_APPROVAL", errx.TypeBusiness, http.StatusUnauthorized, "Account is awaiting admin approval")
	CodeRejected           = ErrRegistry.Register("REJECTED", errx.TypeBusiness, http.StatusUnauthorized, "Account registration was rejected")
	CodeDeactivated        = ErrRegistry.Register("DEACTIVATED", errx.TypeBusiness, http.StatusUnauthorized, "Account has been deactivated")
)

func ErrInvalidCredentials() *errx.Error { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrPendingApproval() *errx.Error    { return ErrRegistry.New(CodePendingApproval) }
func ErrRejected() *errx.Error           { return ErrRegistry.New(CodeRejected) }
func ErrDeactivated() *errx.Error        { return ErrRegistry.New(CodeDeactivated) }

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token      string   `json:"token"`
	Roles      []string `json:"roles"`
	NationalID string   `json:"national_id"`
}
