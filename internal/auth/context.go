package auth

import (
	"context"

	"github.com/medicare/practice-api/pkg/types"
)

type contextKey string

const identityKey contextKey = "caller_identity"

// ContextWithIdentity returns a context carrying the caller identity
func ContextWithIdentity(ctx context.Context, identity types.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext extracts the caller identity set by the auth middleware
func IdentityFromContext(ctx context.Context) (types.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(types.Identity)
	return identity, ok
}
