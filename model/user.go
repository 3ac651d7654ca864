package model

import "gorm.io/gorm"

// Role values assignable to a User.
const (
	RoleUser   = "USER"
	RoleExpert = "EXPERT"
	RoleAdmin  = "ADMIN"
)

// Gender values for a HealthProfile.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// User represents an account holder
// @Description User account information
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"column:username;type:varchar(150);uniqueIndex" example:"johndoe"`
	Email        string `json:"email" gorm:"column:email;type:varchar(191);uniqueIndex" example:"john@example.com"`
	Password     string `json:"-" gorm:"column:password"`
	PasswordSalt string `json:"-" gorm:"column:password_salt"`
	FirstName    string `json:"first_name" gorm:"column:first_name" example:"John"`
	LastName     string `json:"last_name" gorm:"column:last_name" example:"Doe"`
	Role         string `json:"role" gorm:"column:role;type:varchar(20);default:USER" example:"USER"`
	AvatarURL    string `json:"avatar_url" gorm:"column:avatar_url" example:"https://cdn.example.com/a.png"`
	Active       bool   `json:"active" gorm:"column:active;default:true" example:"true"`

	FailedAttempts int    `json:"-" gorm:"column:failed_attempts;default:0"`
	LockedUntil    *int64 `json:"-" gorm:"column:locked_until"`
}

// ValidRole reports whether role is one of the assignable role values.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleExpert, RoleAdmin:
		return true
	}
	return false
}
