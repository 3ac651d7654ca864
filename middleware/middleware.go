package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/config"
	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

const (
	ctxKeyDB     = "db"
	ctxKeyUserID = "user_id"
	ctxKeyRole   = "role"
)

// CORSMiddleware configures CORS headers for incoming requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization, session-token")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Content-Type", "application/json")

		// For preflight requests, respond with 204 and abort further processing.
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// DatabaseMiddleware injects the gorm DB into the request context so
// handlers can fetch it with GetDB.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxKeyDB, db)
		c.Next()
	}
}

// GetDB returns the request-scoped gorm DB, or nil when missing.
func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(ctxKeyDB)
	if !ok {
		return nil
	}
	db, ok := v.(*gorm.DB)
	if !ok {
		return nil
	}
	return db
}

// GetUserID returns the authenticated user's id from the request context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// GetRole returns the authenticated user's role from the request context.
func GetRole(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}

// resolveSessionRedis looks up the session token in Redis. The value is
// stored as "<userID>:<role>" with the session TTL.
func resolveSessionRedis(token string) (uint, string, bool) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		return 0, "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	val, err := rdb.Get(ctx, fmt.Sprintf("session:%s", token)).Result()
	if err != nil {
		return 0, "", false
	}
	parts := strings.SplitN(val, ":", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	var userID uint
	if _, err := fmt.Sscanf(parts[0], "%d", &userID); err != nil || userID == 0 {
		return 0, "", false
	}
	return userID, parts[1], true
}

// resolveSessionDB falls back to the sessions table when Redis misses.
func resolveSessionDB(db *gorm.DB, token string) (uint, string, bool) {
	if db == nil {
		return 0, "", false
	}
	var result struct {
		UserID uint
		Role   string
	}
	err := db.Table("sessions").
		Select("sessions.user_id, users.role").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.session_token = ? AND sessions.expires_at > ? AND sessions.deleted_at IS NULL", token, time.Now()).
		Take(&result).Error
	if err != nil || result.UserID == 0 {
		return 0, "", false
	}
	return result.UserID, result.Role, true
}

// SessionAuth authenticates the request via the session-token header and
// stores the acting user's id and role in the gin context. The role is
// refreshed from the user cache so role changes take effect without
// re-login.
func SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("session-token")
		if token == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session token is missing in 'session-token' header",
				Err: fmt.Errorf("session token not provided"),
			})
			c.Abort()
			return
		}

		db := GetDB(c)
		userID, role, ok := resolveSessionRedis(token)
		if !ok {
			userID, role, ok = resolveSessionDB(db, token)
		}
		if !ok {
			util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, "invalid or expired session token")
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Session not found or has expired",
				Err: fmt.Errorf("invalid session token"),
			})
			c.Abort()
			return
		}

		if _, cachedRole := util.GetUserEmailRole(db, userID); cachedRole != "" {
			role = cachedRole
		}

		c.Set(ctxKeyUserID, userID)
		c.Set(ctxKeyRole, role)
		c.Next()
	}
}

// CurrentUser loads the full acting user record for the request.
// It returns false when the request is unauthenticated or the account is
// missing or deactivated.
func CurrentUser(c *gin.Context, db *gorm.DB) (model.User, bool) {
	userID, ok := GetUserID(c)
	if !ok || db == nil {
		return model.User{}, false
	}
	var user model.User
	if err := db.Where("id = ? AND active = ?", userID, true).First(&user).Error; err != nil {
		return model.User{}, false
	}
	return user, true
}
