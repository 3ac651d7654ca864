package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngantran/healthtrack-api/util"
)

// EndpointCallLogger logs each HTTP request as an audit event.
// It relies on the DatabaseMiddleware having already set DB in context and
// util.SetAccessLoggerDB having been called during startup so events
// will be persisted to the access_logs table.
func EndpointCallLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()

		userID, _ := GetUserID(c)
		role, _ := GetRole(c)

		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		if userID != 0 {
			details["user_id"] = userID
		}
		if role != "" {
			details["role"] = role
		}

		util.LogAccessEvent(util.AccessEvent{
			EventType: util.EventEndpointCall,
			UserID:    fmt.Sprintf("%d", userID),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
