package endpoint

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

// setupServiceDB opens a fresh in-memory SQLite database with the full
// schema. The DSN is uniquified so parallel tests never share state.
func setupServiceDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	util.SetJWTSecret("test-secret")

	dsn := fmt.Sprintf("file:endpoint_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels...); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

// seedUser inserts an active account with the given role.
func seedUser(t *testing.T, db *gorm.DB, username, role string) model.User {
	t.Helper()
	user := model.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
		Active:   true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

// seedExpert registers an expert record for an EXPERT-role account.
func seedExpert(t *testing.T, db *gorm.DB, user model.User, expertise string) model.Expert {
	t.Helper()
	expert := model.Expert{UserID: user.ID, Expertise: expertise, Active: true}
	if err := db.Create(&expert).Error; err != nil {
		t.Fatalf("failed to seed expert for %s: %v", user.Username, err)
	}
	return expert
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
