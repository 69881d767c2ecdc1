package auth

import (
	"context"
	"net/http"
)

// Authenticator turns request credentials into an Identity.
//
// Authenticate distinguishes rejected credentials from a broken
// authenticator: the former is a non-nil result with Authenticated false and
// a nil error, the latter a non-nil error. Middleware answers 401 and 500
// respectively. Implementations must be safe for concurrent use.
type Authenticator interface {
	Name() string

	// Supports reports whether req carries credentials this authenticator
	// understands. Middleware rejects unsupported requests without calling
	// Authenticate.
	Supports(ctx context.Context, req *AuthRequest) bool

	Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}

// AuthRequest is the transport-independent view of a request. Headers may
// be nil.
type AuthRequest struct {
	Headers http.Header
}

// RequestFromHTTP wraps the headers of r.
func RequestFromHTTP(r *http.Request) *AuthRequest {
	return &AuthRequest{Headers: r.Header}
}

// AuthResult is the outcome of a completed authentication attempt.
// Identity is set only when Authenticated; Error only when not.
type AuthResult struct {
	Authenticated bool
	Identity      *Identity
	Error         error
	Method        string // name of the authenticator that decided
}

// AuthSuccess accepts identity.
func AuthSuccess(identity *Identity) *AuthResult {
	return &AuthResult{Authenticated: true, Identity: identity, Method: string(identity.Method)}
}

// AuthFailure rejects the request with err, decided by method.
func AuthFailure(err error, method string) *AuthResult {
	return &AuthResult{Error: err, Method: method}
}
