package domain

import "strings"

// Role is a canonical role label, always of the form ROLE_<NAME>.
type Role string

const rolePrefix = "ROLE_"

const (
	RoleUser  Role = "ROLE_USER"
	RoleAdmin Role = "ROLE_ADMIN"
)

// CanonicalRole normalizes a raw role label into its canonical form.
// It is idempotent: "admin", "ADMIN" and "ROLE_ADMIN" all map to "ROLE_ADMIN".
func CanonicalRole(raw string) Role {
	r := strings.ToUpper(strings.TrimSpace(raw))
	if r == "" {
		return ""
	}
	if strings.HasPrefix(r, rolePrefix) {
		return Role(r)
	}
	return Role(rolePrefix + r)
}

// Valid reports whether r is a non-empty canonical role with a name after the prefix.
func (r Role) Valid() bool {
	s := string(r)
	return strings.HasPrefix(s, rolePrefix) && len(s) > len(rolePrefix) && s == strings.ToUpper(s)
}

func (r Role) String() string {
	return string(r)
}

// NormalizeUsername returns the case-normalized form used for storage and lookups.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Principal is the authenticated identity resolved for a request.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// HasRole reports whether the principal carries exactly the given canonical role.
func (p Principal) HasRole(role Role) bool {
	return p.Role == role
}

// CredentialRecord pairs a principal with its stored password hash.
// The hash never leaves the core through JSON.
type CredentialRecord struct {
	Principal
	PasswordHash string `json:"-"`
}
