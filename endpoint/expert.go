package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

type ExpertRequest struct {
	Expertise string `json:"expertise" binding:"required" example:"WEIGHT_LOSS"`
}

// registerExpert creates the actor's Expert record. The account must
// already carry the EXPERT role and may hold at most one record.
func registerExpert(db *gorm.DB, actor model.User, expertise string) (model.Expert, error) {
	if actor.Role != model.RoleExpert {
		return model.Expert{}, util.ErrPermissionDenied("account role must be EXPERT")
	}
	if !model.ValidExpertise(expertise) {
		return model.Expert{}, util.ErrInvalidInput("expertise", "must be WEIGHT_GAIN, WEIGHT_LOSS or MAINTAINING")
	}

	var existing model.Expert
	err := db.Where("user_id = ?", actor.ID).First(&existing).Error
	if err == nil {
		return model.Expert{}, util.ErrDuplicateEntry("expert record already exists for this user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Expert{}, err
	}

	expert := model.Expert{UserID: actor.ID, Expertise: expertise, Active: true}
	if err := db.Create(&expert).Error; err != nil {
		// Unique index on user_id protects against a concurrent insert.
		var check model.Expert
		if fetchErr := db.Where("user_id = ?", actor.ID).First(&check).Error; fetchErr == nil {
			return model.Expert{}, util.ErrDuplicateEntry("expert record already exists for this user")
		}
		return model.Expert{}, err
	}
	return expert, nil
}

// listExperts returns the active experts with their public user info.
func listExperts(db *gorm.DB, q listQuery) ([]model.Expert, error) {
	var experts []model.Expert
	query := db.Preload("User").Where("active = ?", true).Order("created_at DESC")
	err := applyListQuery(query, q).Find(&experts).Error
	return experts, err
}

// listVisibleProfiles returns the health profiles an expert may see:
// exactly those of users holding an ACCEPTED connection to this expert.
// Pending and rejected connections grant nothing.
func listVisibleProfiles(db *gorm.DB, actor model.User) ([]model.HealthProfile, error) {
	if actor.Role != model.RoleExpert {
		return nil, util.ErrPermissionDenied("only experts may view connected profiles")
	}

	var expert model.Expert
	err := db.Where("user_id = ? AND active = ?", actor.ID, true).First(&expert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound("expert")
	}
	if err != nil {
		return nil, err
	}

	var profiles []model.HealthProfile
	err = db.Joins("JOIN connections ON connections.user_id = health_profiles.user_id").
		Where("connections.expert_id = ? AND connections.status = ? AND connections.active = ? AND health_profiles.active = ?",
			expert.ID, model.ConnectionAccepted, true, true).
		Find(&profiles).Error
	return profiles, err
}

// RegisterExpert godoc
// @Summary      Register the current account as an expert
// @Tags         Experts
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body ExpertRequest true "Expertise"
// @Success      201 {object} util.APIResponse "Expert registered"
// @Failure      400 {object} util.APIResponse "Invalid expertise"
// @Failure      403 {object} util.APIResponse "Role is not EXPERT"
// @Failure      409 {object} util.APIResponse "Expert record already exists"
// @Router       /experts [post]
func RegisterExpert(c *gin.Context) {
	var req ExpertRequest
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

	expert, err := registerExpert(db, actor, req.Expertise)
	if err != nil {
		util.RespondDomainError(c, "Failed to register expert", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Expert registered", Data: expert})
}

// ListExperts godoc
// @Summary      List registered experts
// @Tags         Experts
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Experts fetched"
// @Router       /experts [get]
func ListExperts(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	if _, ok := actingUserOrRespond(c, db); !ok {
		return
	}

	experts, err := listExperts(db, parseListQuery(c))
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch experts", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Experts fetched successfully",
		Data: map[string]interface{}{"total": len(experts), "experts": experts},
	})
}

// ListVisibleProfiles godoc
// @Summary      List health profiles connected to the current expert
// @Description  Returns profiles of users with an ACCEPTED connection to this expert
// @Tags         Experts
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Profiles fetched"
// @Failure      403 {object} util.APIResponse "Only experts may view connected profiles"
// @Router       /experts/profiles [get]
func ListVisibleProfiles(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	profiles, err := listVisibleProfiles(db, actor)
	if err != nil {
		if util.IsPermissionDenied(err) {
			util.LogUnauthorizedAccess(fmt.Sprintf("%d", actor.ID), actor.Email, c.ClientIP(), "experts/profiles", "non-expert requested connected profiles")
		}
		util.RespondDomainError(c, "Failed to fetch connected profiles", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Connected profiles fetched successfully",
		Data: map[string]interface{}{"total": len(profiles), "profiles": profiles},
	})
}
