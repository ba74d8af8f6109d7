package middleware

import (
	"context"
	"net/http"
	"vizit/pkg/logger"
	"vizit/pkg/model"
)

// Identity headers carry the externally verified (userId, role) pair.
// Authentication happens upstream; this middleware only extracts and types
// the result.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

const actorKey contextKey = "actor"

func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(HeaderUserID)
			role := model.Role(r.Header.Get(HeaderUserRole))

			if userID == "" || !role.Valid() {
				log.Warn("Request with missing or invalid identity headers",
					"request_id", requestIDFrom(r.Context()),
					"path", r.URL.Path,
					"role", string(role),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing or invalid identity headers"}`))
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, model.Actor{
				ID:   userID,
				Role: role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the identity the Identity middleware attached.
func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(model.Actor)
	return actor, ok
}
