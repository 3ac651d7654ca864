package endpoint

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/util"
)

// sessionInfo is the validation result returned by ValidateToken.
type sessionInfo struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// lookupSession resolves an opaque session token to its owning account.
// Expired sessions are treated as not found.
func lookupSession(db *gorm.DB, token string) (sessionInfo, error) {
	var row struct {
		UserID    uint
		Email     string
		Role      string
		ExpiresAt time.Time
	}
	err := db.Table("sessions").
		Select("sessions.user_id, users.email, users.role, sessions.expires_at").
		Joins("JOIN users ON users.id = sessions.user_id").
		Where("sessions.session_token = ? AND sessions.deleted_at IS NULL AND users.active = ?", token, true).
		Scan(&row).Error
	if err != nil {
		return sessionInfo{}, fmt.Errorf("failed to look up session: %w", err)
	}
	if row.UserID == 0 || time.Now().After(row.ExpiresAt) {
		return sessionInfo{}, util.ErrNotFound("session")
	}
	return sessionInfo{
		UserID:    row.UserID,
		Email:     row.Email,
		Role:      row.Role,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// parseAccessToken validates a JWT access token signature and expiry.
func parseAccessToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return util.GetJWTSecretByte(), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateToken godoc
// @Summary      Validate a session token
// @Description  Resolve the session-token header to its account and expiry
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Session is valid"
// @Failure      401 {object} util.APIResponse "Missing, expired or unknown token"
// @Router       /token/validate [get]
func ValidateToken(c *gin.Context) {
	token := c.GetHeader("session-token")
	if token == "" {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "Missing session-token header",
			Err: errors.New("no session token provided"),
		})
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	info, err := lookupSession(db, token)
	if err != nil {
		if util.IsNotFound(err) {
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Session is expired or unknown", Err: err})
			return
		}
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate session", Err: err})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Session is valid", Data: info})
}
