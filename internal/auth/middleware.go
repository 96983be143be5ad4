package auth

import (
	"fmt"
	"net/http"
	"strings"

	"cartshare/backend/internal/ratelimit"
	"cartshare/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is the gin context key under which the authenticated
// user's id is stored.
const ContextUserIDKey = "userID"

// Middleware resolves the bearer token against the session store and
// aborts with 401 when it is missing, unknown or expired. An expired
// session is indistinguishable from an absent one; the store deletes it
// on first use.
func Middleware(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		ident, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(ContextUserIDKey, ident.UserID)
		c.Next()
	}
}

// RateLimitMiddleware rejects requests over the limiter's window with 429.
// Keyed by authenticated user when available, client IP otherwise.
func RateLimitMiddleware(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := c.Get(ContextUserIDKey); ok {
			key = fmt.Sprintf("user:%d", userID.(uint))
		}

		ok, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			// A broken counter store must not take the API down.
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
