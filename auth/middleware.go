package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Middleware authenticates every request with authn. Requests that fail
// get 401; on success the Identity is stored in the request context.
// The returned function has the func(http.Handler) http.Handler shape
// used by chi.
func Middleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := RequestFromHTTP(r)
			if !authn.Supports(r.Context(), req) {
				writeAuthError(w, http.StatusUnauthorized, ErrMissingCredentials)
				return
			}

			result, err := authn.Authenticate(r.Context(), req)
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, errors.New("auth: authentication unavailable"))
				return
			}
			if !result.Authenticated {
				writeAuthError(w, http.StatusUnauthorized, result.Error)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), result.Identity)))
		})
	}
}

// RequireRole rejects requests whose identity lacks role with 403. It must
// run after Middleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id == nil {
				writeAuthError(w, http.StatusUnauthorized, ErrMissingCredentials)
				return
			}
			if !id.HasRole(role) {
				writeAuthError(w, http.StatusForbidden, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, code int, err error) {
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="storycache"`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
