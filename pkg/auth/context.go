// Context helpers for extracting the authenticated identity injected by the
// auth middleware. Services use these to resolve the audit actor.
package auth

import (
	"context"
	"fmt"
)

// SetIdentity stores the authenticated identity in the context.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity retrieves the authenticated identity from the request context.
// Returns nil and false if not present.
func GetIdentity(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(*Identity)
	return identity, ok
}

// RequireIdentity extracts the identity from context and returns an error if
// not found. Use this when the operation cannot proceed anonymously.
func RequireIdentity(ctx context.Context) (*Identity, error) {
	identity, ok := GetIdentity(ctx)
	if !ok || identity == nil {
		return nil, fmt.Errorf("authentication required: no identity in context")
	}
	return identity, nil
}
