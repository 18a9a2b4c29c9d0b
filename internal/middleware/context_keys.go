package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
)

const (
	actorIDKey    = contextKey("actorID")
	actorIDHeader = "X-Actor-ID"
	// SystemActor is recorded in audit fields when no actor header is sent.
	SystemActor = "system"
)

// ActorMiddleware reads the acting user from the X-Actor-ID header set by the
// upstream gateway and stores it in the request context for audit fields.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(actorIDHeader)
		if actorID == "" {
			actorID = SystemActor
		}
		ctx := context.WithValue(c.Request.Context(), actorIDKey, actorID)
		logger := GetLoggerFromCtx(ctx).With(slog.String("actor_id", actorID))
		c.Request = c.Request.WithContext(WithLogger(ctx, logger))
		c.Next()
	}
}

// GetActorIDFromContext retrieves the acting user ID from the request context.
func GetActorIDFromContext(c *gin.Context) string {
	if actorID, ok := c.Request.Context().Value(actorIDKey).(string); ok && actorID != "" {
		return actorID
	}
	return SystemActor
}
