package auth

import (
	"slices"
	"time"
)

// AuthMethod names the mechanism that produced an Identity.
type AuthMethod string

const (
	AuthMethodJWT       AuthMethod = "jwt"
	AuthMethodAnonymous AuthMethod = "anonymous"
)

// Identity is an authenticated caller. For players, Principal doubles as
// the story user id (see PrincipalFromContext).
type Identity struct {
	Principal string
	Roles     []string
	Method    AuthMethod

	// Claims holds every claim of the verified token, copied.
	Claims map[string]any

	// ExpiresAt and IssuedAt are zero when the token omits exp or iat.
	ExpiresAt time.Time
	IssuedAt  time.Time
}

func (id *Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}

// IsExpired reports whether ExpiresAt is set and lies before now.
func (id *Identity) IsExpired(now time.Time) bool {
	if id.ExpiresAt.IsZero() {
		return false
	}
	return now.After(id.ExpiresAt)
}

// IsAnonymous reports whether id identifies nobody in particular.
func (id *Identity) IsAnonymous() bool {
	return id.Principal == "" || id.Method == AuthMethodAnonymous
}

// AnonymousIdentity returns the identity of an unauthenticated caller.
func AnonymousIdentity() *Identity {
	return &Identity{
		Principal: "anonymous",
		Method:    AuthMethodAnonymous,
		Claims:    map[string]any{},
	}
}
