// Package auth authenticates callers of the story cache service.
//
// Bearer JWTs are validated by JWTAuthenticator. The resulting Identity is
// stored in the request context, where the story service reads the player
// id (PrincipalFromContext) and the admin surface checks roles
// (RequireRole).
package auth
