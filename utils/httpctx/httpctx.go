package httpctx

import "github.com/gin-gonic/gin"

const (
	userIDKey    = "userID"
	sessionIDKey = "sessionID"
)

// SetSession records the authenticated user and session on the Gin context.
func SetSession(c *gin.Context, userID uint, sessionID string) {
	c.Set(userIDKey, userID)
	c.Set(sessionIDKey, sessionID)
}

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

func CurrentSessionID(c *gin.Context) (string, bool) {
	val, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	sid, ok := val.(string)
	return sid, ok && sid != ""
}
