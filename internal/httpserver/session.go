package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "checkout_session"
	sessionKey    = "sessionID"

	// Sessions match the cart TTL in the Redis store.
	sessionMaxAge = 30 * 60
)

// sessionMiddleware resolves the caller's session id from a cookie, minting
// one on first contact. The id keys both the cart and the checkout session.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, id, sessionMaxAge, "/", "", false, true)
		}
		c.Set(sessionKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
