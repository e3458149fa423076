package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/dmarkova/go-blog-platform/pkg/helpers"
)

const (
	// CtxUserIDKey holds the authenticated user's id (int64) in the Gin context.
	CtxUserIDKey = "userID"
	// CtxUsernameKey holds the session's username copy for convenience.
	CtxUsernameKey = "username"
)

// sessionUserID resolves the access-token cookie against the Redis session
// store. Returns (0, false) for anonymous or stale sessions.
func sessionUserID(c *gin.Context, rdb *redis.Client, jwt *helpers.JWTManager) (int64, string, bool) {
	token, err := c.Cookie("access_token")
	if err != nil || token == "" {
		return 0, "", false
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return 0, "", false
	}

	key := "user:session:" + formatID(claims.UserID)
	data, err := rdb.HGetAll(c.Request.Context(), key).Result()
	if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
		return 0, "", false
	}
	return claims.UserID, data["username"], true
}

// Session resolves the current identity if one exists and never aborts.
// Handlers behind it see either Anonymous (no userID key) or Authenticated.
func Session(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, name, ok := sessionUserID(c, rdb, jwt); ok {
			c.Set(CtxUserIDKey, uid)
			c.Set(CtxUsernameKey, name)
		}
		c.Next()
	}
}

// Auth requires an authenticated session and redirects anonymous requests to
// the login page.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, name, ok := sessionUserID(c, rdb, jwt)
		if !ok {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, uid)
		c.Set(CtxUsernameKey, name)
		c.Next()
	}
}

// UserID reads the authenticated user id set by Session or Auth.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
