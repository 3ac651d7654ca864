package model

import "gorm.io/gorm"

// Exercise is a catalog entry shared across all plans.
// ID and timestamps are system-managed and never client-writable.
type Exercise struct {
	gorm.Model
	Name        string `json:"name" gorm:"column:name;type:varchar(100);not null" example:"Push-up"`
	Description string `json:"description" gorm:"column:description;type:text" example:"Standard push-up with straight back"`
	Active      bool   `json:"active" gorm:"column:active;default:true"`
}

// ExerciseRequest carries the client-writable exercise fields.
type ExerciseRequest struct {
	Name        string `json:"name" example:"Push-up"`
	Description string `json:"description,omitempty" example:"Standard push-up with straight back"`
}
