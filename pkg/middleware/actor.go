package middleware

import (
	"net/http"

	"transit-booking/pkg/utils"

	"go.uber.org/zap"
)

// ActorHeader carries the caller identity resolved by the upstream gateway.
const ActorHeader = "X-Actor-ID"

// Actor puts the caller identity into the request context so audit records can name it.
func Actor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := r.Header.Get(ActorHeader)
			if actor == "" {
				logger.Debug("Request without actor header",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method))
			}

			ctx := utils.SetActorContext(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
