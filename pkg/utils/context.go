package utils

import (
	"context"
	"strings"
)

type contextKey string

const (
	ActorKey contextKey = "actor"

	// AnonymousActor is recorded when no caller identity reached the service.
	AnonymousActor = "anonymous"
)

// GetActorFromContext returns who is driving the current operation, for audit records.
func GetActorFromContext(ctx context.Context) string {
	actor, ok := ctx.Value(ActorKey).(string)
	if !ok || strings.TrimSpace(actor) == "" {
		return AnonymousActor
	}
	return actor
}

func SetActorContext(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, ActorKey, strings.TrimSpace(actor))
}
