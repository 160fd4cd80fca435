package auth

import "cypress/internal/domain/models"

// TokenVerifier validates bearer tokens presented by clients.
// The middleware stays agnostic to how verification happens, which keeps
// tests on a stub instead of a live JWKS endpoint.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
