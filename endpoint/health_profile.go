package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

// HealthProfileRequest carries the client-writable profile fields.
// Pointer fields make the PATCH allow-list explicit: only supplied keys
// are ever assigned, nothing is set reflectively from the payload.
type HealthProfileRequest struct {
	Height *float64 `json:"height,omitempty" example:"175"`
	Weight *float64 `json:"weight,omitempty" example:"70"`
	Age    *int     `json:"age,omitempty" example:"30"`
	Gender *string  `json:"gender,omitempty" example:"MALE"`
	Goal   *string  `json:"goal,omitempty" example:"Lose 5kg before summer"`
}

// HealthProfileResponse decorates a profile with the BMI classification band.
type HealthProfileResponse struct {
	model.HealthProfile
	BMICategory string `json:"bmi_category,omitempty"`
}

func profileResponse(p model.HealthProfile) HealthProfileResponse {
	resp := HealthProfileResponse{HealthProfile: p}
	if p.BMI != nil {
		resp.BMICategory = util.BMICategory(*p.BMI)
	}
	return resp
}

func validateProfileRequest(req *HealthProfileRequest) error {
	if req.Height != nil && *req.Height < 0 {
		return util.ErrInvalidInput("height", "must not be negative")
	}
	if req.Weight != nil && *req.Weight < 0 {
		return util.ErrInvalidInput("weight", "must not be negative")
	}
	if req.Age != nil && *req.Age <= 0 {
		return util.ErrInvalidInput("age", "must be positive")
	}
	if req.Gender != nil && !util.Contains(*req.Gender, []string{model.GenderMale, model.GenderFemale, model.GenderOther}) {
		return util.ErrInvalidInput("gender", "must be MALE, FEMALE or OTHER")
	}
	return nil
}

// applyProfileFields assigns the allow-listed fields that were supplied.
func applyProfileFields(profile *model.HealthProfile, req *HealthProfileRequest) {
	if req.Height != nil {
		profile.Height = *req.Height
	}
	if req.Weight != nil {
		profile.Weight = *req.Weight
	}
	if req.Age != nil {
		profile.Age = *req.Age
	}
	if req.Gender != nil {
		profile.Gender = *req.Gender
	}
	if req.Goal != nil {
		profile.Goal = *req.Goal
	}
}

// createHealthProfile creates the actor's one-and-only profile. A second
// profile for the same user is a DuplicateEntry.
func createHealthProfile(db *gorm.DB, actor model.User, req *HealthProfileRequest) (model.HealthProfile, error) {
	if err := validateProfileRequest(req); err != nil {
		return model.HealthProfile{}, err
	}

	var existing model.HealthProfile
	err := db.Where("user_id = ?", actor.ID).First(&existing).Error
	if err == nil {
		return model.HealthProfile{}, util.ErrDuplicateEntry("health profile already exists for this user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.HealthProfile{}, err
	}

	profile := model.HealthProfile{UserID: actor.ID, Active: true}
	applyProfileFields(&profile, req)
	if err := db.Create(&profile).Error; err != nil {
		// Unique index on user_id protects against a concurrent insert.
		var check model.HealthProfile
		if fetchErr := db.Where("user_id = ?", actor.ID).First(&check).Error; fetchErr == nil {
			return model.HealthProfile{}, util.ErrDuplicateEntry("health profile already exists for this user")
		}
		return model.HealthProfile{}, err
	}
	return profile, nil
}

func getOwnProfile(db *gorm.DB, actor model.User) (model.HealthProfile, error) {
	var profile model.HealthProfile
	err := db.Where("user_id = ? AND active = ?", actor.ID, true).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.HealthProfile{}, util.ErrNotFound("health profile")
	}
	return profile, err
}

// patchHealthProfile updates the actor's own profile through the field
// allow-list. A profile ID that is not the actor's own reads as missing.
// The BMI recomputes in the model's save hook.
func patchHealthProfile(db *gorm.DB, actor model.User, id uint, req *HealthProfileRequest) (model.HealthProfile, error) {
	if err := validateProfileRequest(req); err != nil {
		return model.HealthProfile{}, err
	}

	profile, err := getOwnProfile(db, actor)
	if err != nil {
		return model.HealthProfile{}, err
	}
	if profile.ID != id {
		return model.HealthProfile{}, util.ErrNotFound("health profile")
	}

	applyProfileFields(&profile, req)
	if err := db.Save(&profile).Error; err != nil {
		return model.HealthProfile{}, err
	}
	return profile, nil
}

// CreateHealthProfile godoc
// @Summary      Create the current user's health profile
// @Tags         HealthProfiles
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body HealthProfileRequest true "Profile fields"
// @Success      201 {object} util.APIResponse "Profile created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Failure      409 {object} util.APIResponse "Profile already exists"
// @Router       /healthprofiles [post]
func CreateHealthProfile(c *gin.Context) {
	var req HealthProfileRequest
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

	profile, err := createHealthProfile(db, actor, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to create health profile", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Health profile created", Data: profileResponse(profile)})
}

// GetHealthProfile godoc
// @Summary      Fetch the current user's health profile
// @Tags         HealthProfiles
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Profile fetched"
// @Failure      404 {object} util.APIResponse "Profile not found"
// @Router       /healthprofiles [get]
func GetHealthProfile(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	profile, err := getOwnProfile(db, actor)
	if err != nil {
		util.RespondDomainError(c, "Failed to fetch health profile", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health profile fetched successfully", Data: profileResponse(profile)})
}

// UpdateHealthProfile godoc
// @Summary      Update the current user's health profile
// @Tags         HealthProfiles
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Health profile ID"
// @Param        request body HealthProfileRequest true "Fields to update"
// @Success      200 {object} util.APIResponse "Profile updated"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Failure      404 {object} util.APIResponse "Profile not found"
// @Router       /healthprofiles/{id} [patch]
func UpdateHealthProfile(c *gin.Context) {
	id, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var req HealthProfileRequest
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

	profile, err := patchHealthProfile(db, actor, id, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to update health profile", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Health profile updated", Data: profileResponse(profile)})
}
