// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the acting user ID.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or 0 if not set.
func ActorFromContext(ctx context.Context) int64 {
	if v := ctx.Value(ActorKey{}); v != nil {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
