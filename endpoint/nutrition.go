package endpoint

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

type NutritionPlanRequest struct {
	GoalType string `json:"goal_type" example:"WEIGHT_LOSS"`
	FoodIDs  []uint `json:"food_ids" example:"1,2,3"`
}

type FoodRequest struct {
	Name string `json:"name" binding:"required" example:"Oatmeal"`
}

// createNutritionPlan attaches a set of catalog foods to a new plan for
// the actor's health profile. Each referenced food must exist and be
// active.
func createNutritionPlan(db *gorm.DB, actor model.User, req *NutritionPlanRequest) (model.NutritionPlan, error) {
	if req.GoalType == "" {
		return model.NutritionPlan{}, util.ErrInvalidInput("goal_type", "must not be empty")
	}

	profile, err := getOwnProfile(db, actor)
	if err != nil {
		return model.NutritionPlan{}, err
	}

	var foods []model.Food
	if len(req.FoodIDs) > 0 {
		if err := db.Where("id IN ? AND active = ?", req.FoodIDs, true).Find(&foods).Error; err != nil {
			return model.NutritionPlan{}, err
		}
		if len(foods) != len(req.FoodIDs) {
			return model.NutritionPlan{}, util.ErrNotFound("food")
		}
	}

	plan := model.NutritionPlan{
		HealthProfileID: profile.ID,
		GoalType:        req.GoalType,
		Foods:           foods,
		Active:          true,
	}
	if err := db.Create(&plan).Error; err != nil {
		return model.NutritionPlan{}, err
	}
	return plan, nil
}

func listNutritionPlans(db *gorm.DB, actor model.User) ([]model.NutritionPlan, error) {
	profile, err := getOwnProfile(db, actor)
	if err != nil {
		return nil, err
	}

	var plans []model.NutritionPlan
	err = db.Preload("Foods").
		Where("health_profile_id = ? AND active = ?", profile.ID, true).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

// CreateNutritionPlan godoc
// @Summary      Create a nutrition plan for the current user's profile
// @Tags         Nutrition
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body NutritionPlanRequest true "Goal and foods"
// @Success      201 {object} util.APIResponse "Nutrition plan created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Failure      404 {object} util.APIResponse "Profile or food not found"
// @Router       /nutrition_plans [post]
func CreateNutritionPlan(c *gin.Context) {
	var req NutritionPlanRequest
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

	plan, err := createNutritionPlan(db, actor, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to create nutrition plan", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Nutrition plan created", Data: plan})
}

// ListNutritionPlans godoc
// @Summary      List the current user's nutrition plans
// @Tags         Nutrition
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Nutrition plans fetched"
// @Failure      404 {object} util.APIResponse "Profile not found"
// @Router       /nutrition_plans [get]
func ListNutritionPlans(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	plans, err := listNutritionPlans(db, actor)
	if err != nil {
		util.RespondDomainError(c, "Failed to fetch nutrition plans", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Nutrition plans fetched successfully",
		Data: map[string]interface{}{"total": len(plans), "nutrition_plans": plans},
	})
}

// ListFoods godoc
// @Summary      List the food catalog
// @Tags         Nutrition
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Foods fetched"
// @Router       /foods [get]
func ListFoods(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if _, ok := actingUserOrRespond(c, db); !ok {
		return
	}

	var foods []model.Food
	query := db.Where("active = ?", true).Order("id ASC")
	if err := applyListQuery(query, parseListQuery(c)).Find(&foods).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch foods", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Foods fetched successfully",
		Data: map[string]interface{}{"total": len(foods), "foods": foods},
	})
}

// CreateFood godoc
// @Summary      Add a food to the catalog
// @Tags         Nutrition
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body FoodRequest true "Food name"
// @Success      201 {object} util.APIResponse "Food created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Router       /foods [post]
func CreateFood(c *gin.Context) {
	var req FoodRequest
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

	name := util.NormalizeName(req.Name)
	if name == "" {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid food name", Err: fmt.Errorf("name must not be empty")})
		return
	}

	food := model.Food{Name: name, Active: true}
	if err := db.Create(&food).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to create food", Err: err})
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Food created", Data: food})
}
