package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

func TestExerciseCatalogLifecycle(t *testing.T) {
	db := setupServiceDB(t, "exercise_crud")

	exercise, err := createExercise(db, &model.ExerciseRequest{Name: "Squat", Description: "Bodyweight squat"})
	require.NoError(t, err)

	got, err := getExercise(db, exercise.ID)
	require.NoError(t, err)
	assert.Equal(t, "Squat", got.Name)

	require.NoError(t, deleteExercise(db, exercise.ID))
	_, err = getExercise(db, exercise.ID)
	assert.True(t, util.IsNotFound(err))
}

func TestCreateExercise_RequiresName(t *testing.T) {
	db := setupServiceDB(t, "exercise_name")

	_, err := createExercise(db, &model.ExerciseRequest{Description: "nameless"})
	assert.True(t, util.IsInvalidInput(err))
}

func TestDeletedExerciseHiddenFromPlans(t *testing.T) {
	db := setupServiceDB(t, "exercise_hidden")
	user := seedUser(t, db, "wim", model.RoleUser)
	plan := seedPlan(t, db, user, "mixed")
	exercise := seedExercise(t, db, "Burpee")

	_, err := addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: exercise.ID, Repetitions: 10})
	require.NoError(t, err)
	require.NoError(t, deleteExercise(db, exercise.ID))

	entries, err := listPlanExercises(db, user, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
