package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

func createExercise(db *gorm.DB, req *model.ExerciseRequest) (model.Exercise, error) {
	if req.Name == "" {
		return model.Exercise{}, util.ErrInvalidInput("name", "must not be empty")
	}
	exercise := model.Exercise{
		Name:        util.NormalizeName(req.Name),
		Description: req.Description,
		Active:      true,
	}
	if err := db.Create(&exercise).Error; err != nil {
		return model.Exercise{}, err
	}
	return exercise, nil
}

func getExercise(db *gorm.DB, id uint) (model.Exercise, error) {
	var exercise model.Exercise
	err := db.Where("id = ? AND active = ?", id, true).First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Exercise{}, util.ErrNotFound("exercise")
	}
	return exercise, err
}

func deleteExercise(db *gorm.DB, id uint) error {
	exercise, err := getExercise(db, id)
	if err != nil {
		return err
	}
	exercise.Active = false
	return db.Save(&exercise).Error
}

// ListExercises godoc
// @Summary      List the exercise catalog
// @Tags         Exercises
// @Produce      json
// @Security     SessionToken
// @Param        limit query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200 {object} util.APIResponse "Exercises fetched"
// @Router       /exercises [get]
func ListExercises(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if _, ok := actingUserOrRespond(c, db); !ok {
		return
	}

	q := parseListQuery(c)

	var total int64
	if err := db.Model(&model.Exercise{}).Where("active = ?", true).Count(&total).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to count exercises", Err: err})
		return
	}

	var exercises []model.Exercise
	query := db.Where("active = ?", true).Order("id ASC")
	if err := applyListQuery(query, q).Find(&exercises).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch exercises", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Exercises fetched successfully",
		Data: map[string]interface{}{"total": total, "total_fetched": len(exercises), "exercises": exercises},
	})
}

// CreateExercise godoc
// @Summary      Add an exercise to the catalog
// @Tags         Exercises
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body model.ExerciseRequest true "Exercise details"
// @Success      201 {object} util.APIResponse "Exercise created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Router       /exercises [post]
func CreateExercise(c *gin.Context) {
	var req model.ExerciseRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if _, ok := actingUserOrRespond(c, db); !ok {
		return
	}

	exercise, err := createExercise(db, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to create exercise", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Exercise created", Data: exercise})
}

// GetExercise godoc
// @Summary      Fetch one catalog exercise
// @Tags         Exercises
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Exercise ID"
// @Success      200 {object} util.APIResponse "Exercise fetched"
// @Failure      404 {object} util.APIResponse "Exercise not found"
// @Router       /exercises/{id} [get]
func GetExercise(c *gin.Context) {
	id, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if _, ok := actingUserOrRespond(c, db); !ok {
		return
	}

	exercise, err := getExercise(db, id)
	if err != nil {
		util.RespondDomainError(c, "Failed to fetch exercise", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Exercise fetched successfully", Data: exercise})
}

// DeleteExercise godoc
// @Summary      Soft-delete a catalog exercise
// @Tags         Exercises
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Exercise ID"
// @Success      200 {object} util.APIResponse "Exercise deleted"
// @Failure      404 {object} util.APIResponse "Exercise not found"
// @Router       /exercises/{id} [delete]
func DeleteExercise(c *gin.Context) {
	id, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if _, ok := actingUserOrRespond(c, db); !ok {
		return
	}

	if err := deleteExercise(db, id); err != nil {
		util.RespondDomainError(c, "Failed to delete exercise", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Exercise deleted successfully"})
}
