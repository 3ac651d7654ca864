package model

import "gorm.io/gorm"

// PlanExercise attaches a catalog exercise to a plan.
// A given exercise appears at most once per plan while active.
type PlanExercise struct {
	gorm.Model
	PlanID      uint `json:"plan_id" gorm:"column:plan_id;not null;uniqueIndex:idx_plan_exercise"`
	ExerciseID  uint `json:"exercise_id" gorm:"column:exercise_id;not null;uniqueIndex:idx_plan_exercise"`
	Repetitions int  `json:"repetitions" gorm:"column:repetitions" example:"12"`
	Duration    int  `json:"duration" gorm:"column:duration" example:"10"`
	Active      bool `json:"active" gorm:"column:active;default:true"`
}

// PlanExerciseDetail is a PlanExercise joined with its catalog entry
// for listing the contents of a plan.
type PlanExerciseDetail struct {
	PlanExercise
	ExerciseName        string `json:"exercise_name" gorm:"column:exercise_name" example:"Push-up"`
	ExerciseDescription string `json:"exercise_description" gorm:"column:exercise_description"`
}
