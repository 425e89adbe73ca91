// Package auth provides JWT-based authentication for stocktrail.
// Tokens are issued at login and verified on every request; a role change
// made mid-session does not affect tokens already issued.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// IdentityKey is the context key for storing the authenticated identity.
	IdentityKey contextKey = "identity"
)

// Claims represents the JWT claims carried by a stocktrail token.
// It embeds RegisteredClaims for standard JWT fields (sub, exp, iat)
// and adds the identity fields the server needs on every request.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"` // User email address
	Role  string `json:"role,omitempty"`  // User role: viewer, editor or admin
}

// Identity is the authenticated actor derived from a verified token.
// It is a snapshot: the audit pipeline copies these fields into entries
// rather than joining against the live user record.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Identity converts verified claims into an Identity.
// Returns an error if the subject is not a valid UUID.
func (c *Claims) Identity() (*Identity, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}

	return &Identity{
		ID:    id,
		Email: c.Email,
		Role:  c.Role,
	}, nil
}
