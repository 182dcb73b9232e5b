package kernel

// AuthContext is the authenticated identity injected into every admitted
// request. Handlers read it instead of re-parsing the bearer token.
type AuthContext struct {
	UserID UserID   `json:"user_id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
}

// IsValid reports whether the AuthContext carries a usable identity
func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.UserID.IsEmpty() && ac.Email != ""
}

// HasRole reports whether the context carries the given role
func (ac *AuthContext) HasRole(role string) bool {
	for _, r := range ac.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the context carries at least one of the roles
func (ac *AuthContext) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if ac.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the context carries the admin role
func (ac *AuthContext) IsAdmin() bool {
	return ac.HasRole(RoleAdmin.String())
}

// ContextKey is the type for values stored in request-scoped context
type ContextKey string

const (
	// AuthContextKey is the key under which AuthContext is stored per request
	AuthContextKey ContextKey = "auth_context"

	// RequestIDKey is the key under which the request ID is stored
	RequestIDKey ContextKey = "request_id"
)
