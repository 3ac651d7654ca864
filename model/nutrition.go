package model

import "gorm.io/gorm"

// Food is a catalog entry referenced by nutrition plans.
type Food struct {
	gorm.Model
	Name   string `json:"name" gorm:"column:name;type:varchar(100);not null" example:"Oatmeal"`
	Active bool   `json:"active" gorm:"column:active;default:true"`
}

// NutritionPlan groups foods under a goal for one health profile.
type NutritionPlan struct {
	gorm.Model
	HealthProfileID uint   `json:"health_profile_id" gorm:"column:health_profile_id;not null;index"`
	GoalType        string `json:"goal_type" gorm:"column:goal_type;type:varchar(100)" example:"WEIGHT_LOSS"`
	Foods           []Food `json:"foods" gorm:"many2many:nutrition_plan_foods"`
	Active          bool   `json:"active" gorm:"column:active;default:true"`
}
