package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

type PlanExerciseRequest struct {
	ExerciseID  uint `json:"exercise_id" binding:"required" example:"1"`
	Repetitions int  `json:"repetitions" example:"12"`
	Duration    int  `json:"duration" example:"10"`
}

// loadOwnPlan fetches an active plan owned by the actor. Foreign or
// soft-deleted plans come back as NotFound so nothing about other users'
// plans leaks.
func loadOwnPlan(db *gorm.DB, actor model.User, planID uint) (model.ExercisePlan, error) {
	var plan model.ExercisePlan
	err := db.Where("id = ? AND user_id = ? AND active = ?", planID, actor.ID, true).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ExercisePlan{}, util.ErrNotFound("exercise plan")
	}
	if err != nil {
		return model.ExercisePlan{}, err
	}
	return plan, nil
}

func createPlan(db *gorm.DB, actor model.User, req *model.ExercisePlanRequest) (model.ExercisePlan, error) {
	if req.Name == "" {
		return model.ExercisePlan{}, util.ErrInvalidInput("name", "must not be empty")
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return model.ExercisePlan{}, err
	}

	plan := model.ExercisePlan{
		UserID:        actor.ID,
		Name:          util.NormalizeName(req.Name),
		Date:          date,
		TotalDuration: req.TotalDuration,
		Note:          req.Note,
		Active:        true,
	}
	if err := db.Create(&plan).Error; err != nil {
		return model.ExercisePlan{}, err
	}
	return plan, nil
}

func listPlans(db *gorm.DB, actor model.User) ([]model.ExercisePlan, error) {
	var plans []model.ExercisePlan
	err := db.Where("user_id = ? AND active = ?", actor.ID, true).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

// patchPlan applies an explicit allow-list of client-patchable fields.
func patchPlan(db *gorm.DB, actor model.User, planID uint, req *model.ExercisePlanRequest) (model.ExercisePlan, error) {
	plan, err := loadOwnPlan(db, actor, planID)
	if err != nil {
		return model.ExercisePlan{}, err
	}

	if req.Name != "" {
		plan.Name = util.NormalizeName(req.Name)
	}
	if req.Date != "" {
		date, err := normalizeDate(req.Date)
		if err != nil {
			return model.ExercisePlan{}, err
		}
		plan.Date = date
	}
	if req.TotalDuration != "" {
		plan.TotalDuration = req.TotalDuration
	}
	if req.Note != "" {
		plan.Note = req.Note
	}

	if err := db.Save(&plan).Error; err != nil {
		return model.ExercisePlan{}, err
	}
	return plan, nil
}

// deletePlan soft-deletes a plan: the row stays in storage but drops out
// of every listing, including its plan-exercise composition.
func deletePlan(db *gorm.DB, actor model.User, planID uint) error {
	plan, err := loadOwnPlan(db, actor, planID)
	if err != nil {
		return err
	}
	plan.Active = false
	return db.Save(&plan).Error
}

// addExerciseToPlan attaches a catalog exercise to a plan. An active
// (plan, exercise) pair is a DuplicateEntry; a soft-deleted pair is
// reactivated with the new repetitions and duration.
func addExerciseToPlan(db *gorm.DB, actor model.User, planID uint, req *PlanExerciseRequest) (model.PlanExercise, error) {
	if req.Repetitions < 0 {
		return model.PlanExercise{}, util.ErrInvalidInput("repetitions", "must not be negative")
	}
	if req.Duration < 0 {
		return model.PlanExercise{}, util.ErrInvalidInput("duration", "must not be negative")
	}

	plan, err := loadOwnPlan(db, actor, planID)
	if err != nil {
		return model.PlanExercise{}, err
	}

	var exercise model.Exercise
	err = db.Where("id = ? AND active = ?", req.ExerciseID, true).First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PlanExercise{}, util.ErrNotFound("exercise")
	}
	if err != nil {
		return model.PlanExercise{}, err
	}

	var entry model.PlanExercise
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("plan_id = ? AND exercise_id = ?", plan.ID, exercise.ID).First(&entry).Error
		if err == nil {
			if entry.Active {
				return util.ErrDuplicateEntry("exercise already in plan")
			}
			entry.Active = true
			entry.Repetitions = req.Repetitions
			entry.Duration = req.Duration
			return tx.Save(&entry).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry = model.PlanExercise{
			PlanID:      plan.ID,
			ExerciseID:  exercise.ID,
			Repetitions: req.Repetitions,
			Duration:    req.Duration,
			Active:      true,
		}
		if createErr := tx.Create(&entry).Error; createErr != nil {
			// The unique index caught a concurrent insert of the same pair.
			if fetchErr := tx.Where("plan_id = ? AND exercise_id = ?", plan.ID, exercise.ID).First(&entry).Error; fetchErr == nil {
				return util.ErrDuplicateEntry("exercise already in plan")
			}
			return createErr
		}
		return nil
	})
	if err != nil {
		return model.PlanExercise{}, err
	}
	return entry, nil
}

// listPlanExercises returns the plan's active entries joined with the
// exercise catalog, in insertion order.
func listPlanExercises(db *gorm.DB, actor model.User, planID uint) ([]model.PlanExerciseDetail, error) {
	plan, err := loadOwnPlan(db, actor, planID)
	if err != nil {
		return nil, err
	}

	var entries []model.PlanExerciseDetail
	err = db.Table("plan_exercises").
		Joins("JOIN exercises ON exercises.id = plan_exercises.exercise_id").
		Select("plan_exercises.*, exercises.name as exercise_name, exercises.description as exercise_description").
		Where("plan_exercises.plan_id = ? AND plan_exercises.active = ? AND exercises.active = ?", plan.ID, true, true).
		Order("plan_exercises.id ASC").
		Find(&entries).Error
	return entries, err
}

// CreateExercisePlan godoc
// @Summary      Create an exercise plan
// @Tags         ExercisePlans
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body model.ExercisePlanRequest true "Plan details"
// @Success      201 {object} util.APIResponse "Plan created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Router       /exercises_plans [post]
func CreateExercisePlan(c *gin.Context) {
	var req model.ExercisePlanRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	plan, err := createPlan(db, actor, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to create exercise plan", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Exercise plan created", Data: plan})
}

// ListExercisePlans godoc
// @Summary      List the current user's exercise plans
// @Tags         ExercisePlans
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Plans fetched"
// @Router       /exercises_plans [get]
func ListExercisePlans(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	plans, err := listPlans(db, actor)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch exercise plans", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Exercise plans fetched successfully",
		Data: map[string]interface{}{"total": len(plans), "plans": plans},
	})
}

// UpdateExercisePlan godoc
// @Summary      Update an exercise plan
// @Tags         ExercisePlans
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Plan ID"
// @Param        request body model.ExercisePlanRequest true "Fields to update"
// @Success      200 {object} util.APIResponse "Plan updated"
// @Failure      404 {object} util.APIResponse "Plan not found"
// @Router       /exercises_plans/{id} [patch]
func UpdateExercisePlan(c *gin.Context) {
	planID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var req model.ExercisePlanRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	plan, err := patchPlan(db, actor, planID, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to update exercise plan", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Exercise plan updated", Data: plan})
}

// DeleteExercisePlan godoc
// @Summary      Soft-delete an exercise plan
// @Tags         ExercisePlans
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Plan ID"
// @Success      200 {object} util.APIResponse "Plan deleted"
// @Failure      404 {object} util.APIResponse "Plan not found"
// @Router       /exercises_plans/{id} [delete]
func DeleteExercisePlan(c *gin.Context) {
	planID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	if err := deletePlan(db, actor, planID); err != nil {
		util.RespondDomainError(c, "Failed to delete exercise plan", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Exercise plan deleted successfully"})
}

// AddExerciseToPlan godoc
// @Summary      Attach an exercise to a plan
// @Tags         ExercisePlans
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Plan ID"
// @Param        request body PlanExerciseRequest true "Exercise and dosage"
// @Success      201 {object} util.APIResponse "Exercise added"
// @Failure      404 {object} util.APIResponse "Plan or exercise not found"
// @Failure      409 {object} util.APIResponse "Exercise already in plan"
// @Router       /exercises_plans/{id}/exercises [post]
func AddExerciseToPlan(c *gin.Context) {
	planID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var req PlanExerciseRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	entry, err := addExerciseToPlan(db, actor, planID, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to add exercise to plan", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Exercise added to plan", Data: entry})
}

// ListExercisesInPlan godoc
// @Summary      List the exercises attached to a plan
// @Tags         ExercisePlans
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Plan ID"
// @Success      200 {object} util.APIResponse "Exercises fetched"
// @Failure      404 {object} util.APIResponse "Plan not found"
// @Router       /exercises_plans/{id}/exercises [get]
func ListExercisesInPlan(c *gin.Context) {
	planID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	entries, err := listPlanExercises(db, actor, planID)
	if err != nil {
		util.RespondDomainError(c, "Failed to fetch plan exercises", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Plan exercises fetched successfully",
		Data: map[string]interface{}{"total": len(entries), "exercises": entries},
	})
}
