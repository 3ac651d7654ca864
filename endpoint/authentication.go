package endpoint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/config"
	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

const (
	sessionTTL        = 7 * 24 * time.Hour
	accessTokenTTL    = time.Hour
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
	minPasswordLength = 8
)

// Sentinel errors for the authentication flow
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrAccountInactive    = errors.New("account is deactivated")
)

// SignupRequest carries the fields accepted when creating an account.
type SignupRequest struct {
	Username  string `json:"username" example:"johndoe"`
	Email     string `json:"email" example:"john@example.com"`
	Password  string `json:"password" example:"s3cret-pass"`
	FirstName string `json:"first_name" example:"John"`
	LastName  string `json:"last_name" example:"Doe"`
	Role      string `json:"role" example:"USER"`
}

// LoginRequest carries the credentials for a login attempt. Login accepts
// either the username or the email in the username field.
type LoginRequest struct {
	Username string `json:"username" example:"johndoe"`
	Password string `json:"password" example:"s3cret-pass"`
}

// ChangePasswordRequest carries the old and new password for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// LoginResponse is the payload returned on successful login.
type LoginResponse struct {
	SessionToken string     `json:"session_token"`
	AccessToken  string     `json:"access_token"`
	ExpiresAt    time.Time  `json:"expires_at"`
	User         model.User `json:"user"`
}

// clientInfo extracts the caller's IP address and browser identification
// from the request for session records and access logging.
func clientInfo(c *gin.Context) (ip, browser string) {
	ip = c.ClientIP()
	browser = c.GetHeader("User-Agent")
	if len(browser) > 512 {
		browser = browser[:512]
	}
	return ip, browser
}

func validateSignupRequest(req *SignupRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return util.ErrInvalidInput("username", "must not be empty")
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return util.ErrInvalidInput("email", "must be a valid email address")
	}
	if len(req.Password) < minPasswordLength {
		return util.ErrInvalidInput("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	switch req.Role {
	case "", model.RoleUser, model.RoleExpert:
		return nil
	default:
		// ADMIN (and anything else) is never self-assignable.
		return util.ErrInvalidInput("role", "must be USER or EXPERT")
	}
}

// signupUser creates a new account with an argon2id password hash. The
// username and email unique indexes back the duplicate checks, so a lost
// race still surfaces as a duplicate entry instead of a second row.
func signupUser(db *gorm.DB, req SignupRequest) (model.User, error) {
	if err := validateSignupRequest(&req); err != nil {
		return model.User{}, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to check existing accounts: %w", err)
	}
	if count > 0 {
		return model.User{}, util.ErrDuplicateEntry("username or email already registered")
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := util.HashPasswordArgon2(req.Password, salt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		Username:     req.Username,
		Email:        req.Email,
		Password:     hash,
		PasswordSalt: salt,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.User{}, util.ErrDuplicateEntry("username or email already registered")
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// generateSessionToken returns a 64-character opaque hex token.
func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// createJWTToken issues a signed HS256 access token carrying the user id and role.
func createJWTToken(user model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(util.GetJWTSecretByte())
}

// recordSession persists the session row and mirrors it into Redis for
// fast auth lookups. The Redis mirror is best-effort; the DB row remains
// the source of truth when Redis is unavailable.
func recordSession(db *gorm.DB, user model.User, token, ip, browser string) (model.Session, error) {
	session := model.Session{
		UserID:       user.ID,
		SessionToken: token,
		ExpiresAt:    time.Now().Add(sessionTTL),
		ClientIP:     ip,
		Browser:      browser,
	}
	if err := db.Create(&session).Error; err != nil {
		return model.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		ctx := context.Background()
		value := fmt.Sprintf("%d:%s", user.ID, user.Role)
		if err := rdb.Set(ctx, "session:"+token, value, sessionTTL).Err(); err == nil {
			_ = util.AddSessionToUserSet(user.ID, token, sessionTTL)
		}
	}
	return session, nil
}

// accountLocked reports whether the lockout window is still active.
func accountLocked(user *model.User) bool {
	return user.LockedUntil != nil && time.Now().Unix() < *user.LockedUntil
}

// registerFailedAttempt bumps the failure counter and locks the account
// once the threshold is reached. Returns true if this attempt triggered
// the lock.
func registerFailedAttempt(db *gorm.DB, user *model.User) bool {
	user.FailedAttempts++
	locked := false
	if user.FailedAttempts >= maxFailedAttempts {
		until := time.Now().Add(lockoutDuration).Unix()
		user.LockedUntil = &until
		user.FailedAttempts = 0
		locked = true
	}
	_ = db.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"failed_attempts": user.FailedAttempts,
			"locked_until":    user.LockedUntil,
		}).Error
	return locked
}

// clearFailedAttempts resets the lockout state after a successful login.
func clearFailedAttempts(db *gorm.DB, user *model.User) {
	if user.FailedAttempts == 0 && user.LockedUntil == nil {
		return
	}
	user.FailedAttempts = 0
	user.LockedUntil = nil
	_ = db.Model(&model.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"failed_attempts": 0,
			"locked_until":    nil,
		}).Error
}

// loginUser authenticates credentials and returns an established session.
func loginUser(db *gorm.DB, req LoginRequest, ip, browser string) (LoginResponse, error) {
	var user model.User
	err := db.Where("(username = ? OR email = ?) AND active = ?", req.Username, req.Username, true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.LogLoginFailure(req.Username, ip, browser, "unknown account")
			return LoginResponse{}, ErrInvalidCredentials
		}
		return LoginResponse{}, fmt.Errorf("failed to look up account: %w", err)
	}

	if accountLocked(&user) {
		util.LogLoginFailure(user.Email, ip, browser, "account locked")
		return LoginResponse{}, ErrAccountLocked
	}

	ok, err := util.VerifyPassword(req.Password, user.Password, user.PasswordSalt)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		if registerFailedAttempt(db, &user) {
			util.LogAccountLocked(user.ID, user.Email, ip, "too many failed login attempts")
			return LoginResponse{}, ErrAccountLocked
		}
		util.LogLoginFailure(user.Email, ip, browser, "wrong password")
		return LoginResponse{}, ErrInvalidCredentials
	}

	clearFailedAttempts(db, &user)

	token, err := generateSessionToken()
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to generate session token: %w", err)
	}
	session, err := recordSession(db, user, token, ip, browser)
	if err != nil {
		return LoginResponse{}, err
	}
	accessToken, err := createJWTToken(user)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	util.UserCacheSet(user.ID, user.Email, user.Role)
	util.LogLoginSuccess(user.ID, user.Email, ip, browser)

	return LoginResponse{
		SessionToken: session.SessionToken,
		AccessToken:  accessToken,
		ExpiresAt:    session.ExpiresAt,
		User:         user,
	}, nil
}

// changePassword verifies the old password, stores a fresh argon2id hash
// and revokes every session belonging to the user.
func changePassword(db *gorm.DB, actor model.User, req ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return util.ErrInvalidInput("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	ok, err := util.VerifyPassword(req.OldPassword, actor.Password, actor.PasswordSalt)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	salt, err := util.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := util.HashPasswordArgon2(req.NewPassword, salt)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.Model(&model.User{}).Where("id = ?", actor.ID).
		Updates(map[string]interface{}{
			"password":      hash,
			"password_salt": salt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	// All existing sessions are invalid after a password change.
	if err := db.Where("user_id = ?", actor.ID).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	_ = util.InvalidateUserSessions(actor.ID)
	util.UserCacheInvalidate(actor.ID)
	return nil
}

// Signup godoc
// @Summary      Register a new account
// @Description  Create a USER or EXPERT account. Admin accounts cannot be self-registered.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Account details"
// @Success      201 {object} util.APIResponse "Account created"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      409 {object} util.APIResponse "Username or email already registered"
// @Router       /signup [post]
func Signup(c *gin.Context) {
	var req SignupRequest
	if !bindJSONOrRespond(c, &req, "Invalid signup payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	user, err := signupUser(db, req)
	if err != nil {
		util.RespondDomainError(c, "Failed to create account", err)
		return
	}

	ip, browser := clientInfo(c)
	util.LogAccessEvent(util.AccessEvent{
		EventType: util.EventSignupSuccess,
		UserID:    fmt.Sprintf("%d", user.ID),
		Email:     user.Email,
		IP:        ip,
		UserAgent: browser,
		Message:   "account created",
	})
	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Account created successfully", Data: user})
}

// Login godoc
// @Summary      Authenticate and open a session
// @Description  Exchange credentials for an opaque session token and a short-lived JWT access token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} util.APIResponse "Login successful"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Invalid credentials or account locked"
// @Router       /login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSONOrRespond(c, &req, "Invalid login payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}

	ip, browser := clientInfo(c)
	resp, err := loginUser(db, req, ip, browser)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Invalid username or password", Err: err})
		case errors.Is(err, ErrAccountLocked):
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Account temporarily locked, try again later", Err: err})
		default:
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to log in", Err: err})
		}
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Login successful", Data: resp})
}

// Logout godoc
// @Summary      Close the current session
// @Tags         Authentication
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Logged out"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /logout [post]
func Logout(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	token := c.GetHeader("session-token")
	if err := db.Where("session_token = ?", token).Delete(&model.Session{}).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to close session", Err: err})
		return
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		_ = rdb.Del(context.Background(), "session:"+token).Err()
		_ = util.RemoveSessionTokenFromUserSet(actor.ID, token)
	}

	ip, browser := clientInfo(c)
	util.LogLogout(actor.ID, actor.Email, ip, browser)
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Logged out successfully", Data: nil})
}

// ChangePassword godoc
// @Summary      Change the current account's password
// @Description  Verifies the old password, stores a new hash and revokes all sessions
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body ChangePasswordRequest true "Old and new password"
// @Success      200 {object} util.APIResponse "Password changed"
// @Failure      400 {object} util.APIResponse "Invalid request"
// @Failure      401 {object} util.APIResponse "Wrong old password"
// @Router       /user/password [put]
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !bindJSONOrRespond(c, &req, "Invalid password payload") {
		return
	}
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	if err := changePassword(db, actor, req); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Old password is incorrect", Err: err})
			return
		}
		util.RespondDomainError(c, "Failed to change password", err)
		return
	}

	ip, browser := clientInfo(c)
	util.LogAccessEvent(util.AccessEvent{
		EventType: util.EventPasswordChanged,
		UserID:    fmt.Sprintf("%d", actor.ID),
		Email:     actor.Email,
		IP:        ip,
		UserAgent: browser,
		Message:   "password changed, sessions revoked",
	})
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Password changed successfully", Data: nil})
}
