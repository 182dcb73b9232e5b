package auth

import "strings"

// Access is the decision class a route policy rule assigns.
type Access int

const (
	// AccessPublic admits every request unconditionally.
	AccessPublic Access = iota

	// AccessAuthenticated admits any request carrying a valid token.
	AccessAuthenticated

	// AccessRoles admits only tokens carrying at least one of the rule's roles.
	AccessRoles
)

// Rule maps a method + path pattern to an access class. A pattern ending in
// "/*" matches the prefix before the wildcard; anything else matches the
// path exactly. An empty method matches every method.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
	Roles   []string
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if prefix, ok := strings.CutSuffix(r.Pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == r.Pattern
}

// isExact reports whether the rule names a single path, not a subtree.
func (r Rule) isExact() bool {
	return !strings.HasSuffix(r.Pattern, "/*")
}

// Public builds a rule admitting everyone.
func Public(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessPublic}
}

// Authenticated builds a rule requiring a valid token.
func Authenticated(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessAuthenticated}
}

// Restricted builds a rule requiring one of the given roles.
func Restricted(method, pattern string, roles ...string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessRoles, Roles: roles}
}

// Policy is the static route access table. It is built once at startup and
// never mutated afterwards, so lookups need no locking. Precedence: exact
// rules win over wildcard rules regardless of declaration order; within
// each group the first declared match wins; a request matching no rule
// falls back to deny-unless-authenticated.
type Policy struct {
	exact    []Rule
	prefixed []Rule
}

// NewPolicy builds a policy from the given rules.
func NewPolicy(rules ...Rule) *Policy {
	p := &Policy{}
	for _, r := range rules {
		if r.isExact() {
			p.exact = append(p.exact, r)
		} else {
			p.prefixed = append(p.prefixed, r)
		}
	}
	return p
}

// Decide returns the access class and required roles for a request.
func (p *Policy) Decide(method, path string) (Access, []string) {
	for _, r := range p.exact {
		if r.matches(method, path) {
			return r.Access, r.Roles
		}
	}
	for _, r := range p.prefixed {
		if r.matches(method, path) {
			return r.Access, r.Roles
		}
	}
	return AccessAuthenticated, nil
}
