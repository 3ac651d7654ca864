package model

import "gorm.io/gorm"

// ExercisePlan represents a workout plan owned by a user.
// Plans are only ever soft-deleted via the Active flag.
type ExercisePlan struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"column:user_id;not null;index"`
	Name          string `json:"name" gorm:"column:name;type:varchar(100);not null" example:"Morning cardio"`
	Date          string `json:"date" gorm:"column:date;type:varchar(10)" example:"2025-01-15"`
	TotalDuration string `json:"total_duration" gorm:"column:total_duration;type:varchar(50)" example:"45 minutes"`
	Note          string `json:"note" gorm:"column:note;type:text"`
	Active        bool   `json:"active" gorm:"column:active;default:true"`
}

// ExercisePlanRequest is the client payload for creating or updating a plan.
type ExercisePlanRequest struct {
	Name          string `json:"name" example:"Morning cardio"`
	Date          string `json:"date" example:"2025-01-15"`
	TotalDuration string `json:"total_duration,omitempty" example:"45 minutes"`
	Note          string `json:"note,omitempty" example:"Focus on warm-up"`
}
