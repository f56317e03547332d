package orderserver

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// HeaderUserID carries the authenticated actor id set by the upstream gateway.
	HeaderUserID = "X-User-ID"
	// HeaderIdempotencyKey makes checkout requests replay safe.
	HeaderIdempotencyKey = "Idempotency-Key"

	actorContextKey = "orderserver.actor"
)

// ActorMiddleware resolves the actor once per request and tags the active span.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if actor != "" {
			c.Set(actorContextKey, actor)
			trace.SpanFromContext(c.Request.Context()).SetAttributes(attribute.String("enduser.id", actor))
		}
		c.Next()
	}
}

// actorID returns the request actor, or "" when the gateway sent none.
func actorID(c *gin.Context) string {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(string); ok {
			return actor
		}
	}
	return strings.TrimSpace(c.GetHeader(HeaderUserID))
}

func idempotencyKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
}
