package util

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ngantran/healthtrack-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AccessEventType represents different types of audit events
type AccessEventType string

const (
	EventLoginSuccess       AccessEventType = "LOGIN_SUCCESS"
	EventLoginFailure       AccessEventType = "LOGIN_FAILURE"
	EventSignupSuccess      AccessEventType = "SIGNUP_SUCCESS"
	EventLogout             AccessEventType = "LOGOUT"
	EventAccountLocked      AccessEventType = "ACCOUNT_LOCKED"
	EventPasswordChanged    AccessEventType = "PASSWORD_CHANGED"
	EventUnauthorizedAccess AccessEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  AccessEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity AccessEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall       AccessEventType = "ENDPOINT_CALL"
)

// AccessEvent represents an audit event to be logged
type AccessEvent struct {
	EventType AccessEventType
	UserID    string
	Email     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var accessLogger *log.Logger
var accessLogDB *gorm.DB

// SetAccessLoggerDB sets a gorm DB instance used to persist audit events.
// Call this during application startup after DB initialization.
func SetAccessLoggerDB(db *gorm.DB) {
	accessLogDB = db
}

func init() {
	accessLogger = log.New(os.Stdout, "[AUDIT] ", log.LstdFlags|log.Lmsgprefix)
}

// sanitizeLogValue removes newlines and other characters that could break log parsing
func sanitizeLogValue(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\t", " ")
	// Truncate very long values to prevent log flooding
	if len(value) > 200 {
		value = value[:200] + "..."
	}
	return value
}

// LogAccessEvent logs an audit event to stdout and, best-effort, to the
// access_logs table.
func LogAccessEvent(event AccessEvent) {
	msg := fmt.Sprintf("Event=%s UserID=%s Email=%s IP=%s UserAgent=%s Message=%s",
		sanitizeLogValue(string(event.EventType)),
		sanitizeLogValue(event.UserID),
		sanitizeLogValue(event.Email),
		sanitizeLogValue(event.IP),
		sanitizeLogValue(event.UserAgent),
		sanitizeLogValue(event.Message),
	)

	if len(event.Details) > 0 {
		// Don't log the Details map directly to avoid injection
		msg = fmt.Sprintf("%s DetailsCount=%d", msg, len(event.Details))
	}

	accessLogger.Println(msg)

	if accessLogDB == nil {
		return
	}

	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}

	// Resolve city/country for the IP (best-effort, local DB then cache)
	city, country := GetIPLocation(event.IP)
	var location string
	switch {
	case city != "" && country != "":
		location = fmt.Sprintf("%s/%s", city, country)
	case country != "":
		location = country
	case city != "":
		location = city
	}

	entry := model.AccessLog{
		EventType: string(event.EventType),
		UserID:    event.UserID,
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		Location:  sanitizeLogValue(location),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}

	if err := accessLogDB.Create(&entry).Error; err != nil {
		accessLogger.Printf("Failed to persist audit event: %v", err)
	}
}

// LogLoginSuccess logs a successful login event
func LogLoginSuccess(userID uint, email, ip, userAgent string) {
	LogAccessEvent(AccessEvent{
		EventType: EventLoginSuccess,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged in successfully",
	})
}

// LogLoginFailure logs a failed login attempt
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogAccessEvent(AccessEvent{
		EventType: EventLoginFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

// LogLogout logs a logout event
func LogLogout(userID uint, email, ip, userAgent string) {
	LogAccessEvent(AccessEvent{
		EventType: EventLogout,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged out",
	})
}

// LogAccountLocked logs when an account is locked
func LogAccountLocked(userID uint, email, ip string, reason string) {
	LogAccessEvent(AccessEvent{
		EventType: EventAccountLocked,
		UserID:    fmt.Sprintf("%d", userID),
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Account locked: %s", reason),
	})
}

// LogUnauthorizedAccess logs unauthorized access attempts
func LogUnauthorizedAccess(userID string, email, ip, resource, reason string) {
	LogAccessEvent(AccessEvent{
		EventType: EventUnauthorizedAccess,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

// LogRateLimitExceeded logs when rate limit is exceeded
func LogRateLimitExceeded(email, ip, endpoint string) {
	LogAccessEvent(AccessEvent{
		EventType: EventRateLimitExceeded,
		Email:     email,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}
