package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

func seedPlan(t *testing.T, db *gorm.DB, actor model.User, name string) model.ExercisePlan {
	t.Helper()
	plan, err := createPlan(db, actor, &model.ExercisePlanRequest{Name: name, Date: "2025-04-01"})
	require.NoError(t, err)
	return plan
}

func seedExercise(t *testing.T, db *gorm.DB, name string) model.Exercise {
	t.Helper()
	exercise, err := createExercise(db, &model.ExerciseRequest{Name: name})
	require.NoError(t, err)
	return exercise
}

func TestCreatePlan_RequiresName(t *testing.T) {
	db := setupServiceDB(t, "plan_name")
	user := seedUser(t, db, "ali", model.RoleUser)

	_, err := createPlan(db, user, &model.ExercisePlanRequest{Date: "2025-04-01"})
	assert.True(t, util.IsInvalidInput(err))
}

func TestPatchPlan_AllowListOnly(t *testing.T) {
	db := setupServiceDB(t, "plan_patch")
	user := seedUser(t, db, "bea", model.RoleUser)
	plan := seedPlan(t, db, user, "morning cardio")

	updated, err := patchPlan(db, user, plan.ID, &model.ExercisePlanRequest{Note: "warm up first"})
	require.NoError(t, err)
	assert.Equal(t, "warm up first", updated.Note)
	assert.Equal(t, plan.Name, updated.Name)
	assert.Equal(t, plan.UserID, updated.UserID)
}

func TestPatchPlan_ForeignPlanLooksLikeMissing(t *testing.T) {
	db := setupServiceDB(t, "plan_foreign")
	owner := seedUser(t, db, "cal", model.RoleUser)
	stranger := seedUser(t, db, "dee", model.RoleUser)
	plan := seedPlan(t, db, owner, "leg day")

	_, err := patchPlan(db, stranger, plan.ID, &model.ExercisePlanRequest{Note: "hijack"})
	assert.True(t, util.IsNotFound(err))
}

func TestDeletePlan_SoftDeleteHidesPlan(t *testing.T) {
	db := setupServiceDB(t, "plan_softdelete")
	user := seedUser(t, db, "eve", model.RoleUser)
	plan := seedPlan(t, db, user, "core strength")

	require.NoError(t, deletePlan(db, user, plan.ID))

	plans, err := listPlans(db, user)
	require.NoError(t, err)
	assert.Empty(t, plans)

	// The row survives in storage with the flag cleared.
	var stored model.ExercisePlan
	require.NoError(t, db.First(&stored, plan.ID).Error)
	assert.False(t, stored.Active)

	// A deleted plan behaves as missing for every further operation.
	_, err = patchPlan(db, user, plan.ID, &model.ExercisePlanRequest{Note: "too late"})
	assert.True(t, util.IsNotFound(err))
}

func TestAddExerciseToPlan_DuplicateRejected(t *testing.T) {
	db := setupServiceDB(t, "plan_exercise_dup")
	user := seedUser(t, db, "fay", model.RoleUser)
	plan := seedPlan(t, db, user, "full body")
	exercise := seedExercise(t, db, "Push-up")

	entry, err := addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: exercise.ID, Repetitions: 12, Duration: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, entry.Repetitions)

	_, err = addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: exercise.ID, Repetitions: 15})
	assert.True(t, util.IsDuplicateEntry(err))
}

func TestAddExerciseToPlan_ReaddAfterSoftDeleteReactivates(t *testing.T) {
	db := setupServiceDB(t, "plan_exercise_readd")
	user := seedUser(t, db, "gem", model.RoleUser)
	plan := seedPlan(t, db, user, "stretching")
	exercise := seedExercise(t, db, "Lunge")

	entry, err := addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: exercise.ID, Repetitions: 10, Duration: 4})
	require.NoError(t, err)

	// Soft-delete the pair, then add the same exercise again.
	require.NoError(t, db.Model(&model.PlanExercise{}).Where("id = ?", entry.ID).Update("active", false).Error)

	readded, err := addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: exercise.ID, Repetitions: 20, Duration: 8})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, readded.ID)
	assert.True(t, readded.Active)
	assert.Equal(t, 20, readded.Repetitions)
	assert.Equal(t, 8, readded.Duration)
}

func TestAddExerciseToPlan_UnknownExercise(t *testing.T) {
	db := setupServiceDB(t, "plan_exercise_missing")
	user := seedUser(t, db, "hal", model.RoleUser)
	plan := seedPlan(t, db, user, "cycling")

	_, err := addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: 999})
	assert.True(t, util.IsNotFound(err))
}

func TestListPlanExercises_JoinsCatalog(t *testing.T) {
	db := setupServiceDB(t, "plan_exercise_list")
	user := seedUser(t, db, "ian", model.RoleUser)
	plan := seedPlan(t, db, user, "upper body")
	pushup := seedExercise(t, db, "Push-up")
	pullup := seedExercise(t, db, "Pull-up")

	_, err := addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: pushup.ID, Repetitions: 12})
	require.NoError(t, err)
	_, err = addExerciseToPlan(db, user, plan.ID, &PlanExerciseRequest{ExerciseID: pullup.ID, Repetitions: 8})
	require.NoError(t, err)

	entries, err := listPlanExercises(db, user, plan.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Push-up", entries[0].ExerciseName)
	assert.Equal(t, "Pull-up", entries[1].ExerciseName)
}
