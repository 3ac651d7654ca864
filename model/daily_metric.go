package model

import "gorm.io/gorm"

// DailyHealthMetric stores one row of tracked numbers per user per calendar day.
// Dates are stored as "2006-01-02" strings so the (user_id, date) unique index
// compares whole days, not timestamps.
type DailyHealthMetric struct {
	gorm.Model
	UserID         uint    `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_metric_user_date"`
	Date           string  `json:"date" gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_metric_user_date" example:"2025-01-15"`
	Steps          int     `json:"steps" gorm:"column:steps;default:0" example:"5000"`
	WaterIntake    float64 `json:"water_intake" gorm:"column:water_intake;default:0" example:"1.5"`
	CaloriesBurned float64 `json:"calories_burned" gorm:"column:calories_burned;default:0" example:"320"`
	Active         bool    `json:"active" gorm:"column:active;default:true"`
}
