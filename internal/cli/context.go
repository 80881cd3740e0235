package cli

import (
	"context"

	"github.com/example/brigadir/internal/ctxutil"
)

// actorContext builds the command context, attaching the acting user when the
// --as flag was given. Audit entries then carry "user:N" instead of "system".
func actorContext(actorID int64) context.Context {
	ctx := context.Background()
	if actorID != 0 {
		ctx = ctxutil.WithActorID(ctx, actorID)
	}
	return ctx
}
