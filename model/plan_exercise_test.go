package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanExercise_UniquePerPlan(t *testing.T) {
	db := setupTestDB(t, "plan_exercise_unique", &User{}, &ExercisePlan{}, &Exercise{}, &PlanExercise{})

	user := User{Username: "gina", Email: "gina@example.com", Role: RoleUser, Active: true}
	assert.NoError(t, db.Create(&user).Error)

	plan := ExercisePlan{UserID: user.ID, Name: "Leg day", Date: "2025-01-15", Active: true}
	assert.NoError(t, db.Create(&plan).Error)

	squat := Exercise{Name: "Squat", Description: "Bodyweight squat", Active: true}
	assert.NoError(t, db.Create(&squat).Error)

	first := PlanExercise{PlanID: plan.ID, ExerciseID: squat.ID, Repetitions: 12, Duration: 5, Active: true}
	assert.NoError(t, db.Create(&first).Error)

	dup := PlanExercise{PlanID: plan.ID, ExerciseID: squat.ID, Repetitions: 15, Duration: 5, Active: true}
	assert.Error(t, db.Create(&dup).Error)
}

func TestExpert_OnePerUser(t *testing.T) {
	db := setupTestDB(t, "expert_unique", &User{}, &Expert{})

	user := User{Username: "coach", Email: "coach@example.com", Role: RoleExpert, Active: true}
	assert.NoError(t, db.Create(&user).Error)

	first := Expert{UserID: user.ID, Expertise: ExpertiseWeightLoss, Active: true}
	assert.NoError(t, db.Create(&first).Error)

	second := Expert{UserID: user.ID, Expertise: ExpertiseWeightGain, Active: true}
	assert.Error(t, db.Create(&second).Error)
}

func TestConnection_Terminal(t *testing.T) {
	c := Connection{Status: ConnectionPending}
	assert.False(t, c.Terminal())

	c.Status = ConnectionAccepted
	assert.True(t, c.Terminal())

	c.Status = ConnectionRejected
	assert.True(t, c.Terminal())
}
