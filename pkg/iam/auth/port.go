package auth

// PasswordHasher hashes and verifies passwords. Registration and login must
// use the same implementation or no stored hash will ever match.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer is the slice of the token service that login needs.
type TokenIssuer interface {
	Issue(subject string, roles []string, userID int64) (string, error)
}

// TokenVerifier is the slice of the token service the middleware needs.
type TokenVerifier interface {
	Validate(tokenString, expectedSubject string) bool
	ExtractSubject(tokenString string) (string, error)
	ExtractUserID(tokenString string) (int64, error)
	ExtractRoles(tokenString string) ([]string, error)
}
