package userctx

import "context"

// Context key type
type contextKey string

const actorKey contextKey = "actor"

// SetActor adds the acting user's identity to the request context.
func SetActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor retrieves the acting user's identity from the request context.
func GetActor(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return "anonymous"
	}
	return actor
}
