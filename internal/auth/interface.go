package auth

import "botflow/internal/domain/models"

// TokenVerifier validates bearer tokens for the authenticated API surface.
// The middleware only depends on this, so test doubles and alternative
// identity providers can slot in.
type TokenVerifier interface {
	// VerifyToken validates a JWT string and returns its parsed claims.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
