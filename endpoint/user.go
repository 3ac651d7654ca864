package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

// Sentinel errors for user update operations
var (
	ErrUserEmailAlreadyExists = errors.New("email already exists")
)

// UpdateUserRequest lists exactly the patchable account fields. Payload
// keys outside this allow-list are never assigned to the record.
type UpdateUserRequest struct {
	FirstName string `json:"first_name" example:"John"`
	LastName  string `json:"last_name" example:"Doe"`
	Email     string `json:"email" example:"john@example.com"`
}

// validateUpdateRequest checks whether at least one field is provided for update.
func validateUpdateRequest(req *UpdateUserRequest) bool {
	return req.FirstName != "" || req.LastName != "" || req.Email != ""
}

func emailExists(db *gorm.DB, email string, excludeUserID uint) (bool, error) {
	var count int64
	err := db.Model(&model.User{}).
		Where("email = ? AND id <> ?", email, excludeUserID).
		Count(&count).Error
	return count > 0, err
}

// validateAndUpdateEmail checks email uniqueness and updates the user model if valid.
// Returns an error without sending HTTP responses, letting the caller handle the response.
func validateAndUpdateEmail(db *gorm.DB, user *model.User, newEmail string) error {
	if newEmail == "" || newEmail == user.Email {
		return nil
	}
	exists, err := emailExists(db, newEmail, user.ID)
	if err != nil {
		return fmt.Errorf("failed to validate email uniqueness: %w", err)
	}
	if exists {
		return ErrUserEmailAlreadyExists
	}
	user.Email = newEmail
	return nil
}

// updateUserFields applies the allow-listed changes from an
// UpdateUserRequest to a user model.
func updateUserFields(db *gorm.DB, user *model.User, req *UpdateUserRequest) error {
	if err := validateAndUpdateEmail(db, user, req.Email); err != nil {
		return err
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	return nil
}

// GetCurrentUser godoc
// @Summary      Fetch the current account
// @Tags         Users
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "User fetched"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /user [get]
func GetCurrentUser(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User fetched successfully", Data: actor})
}

// UpdateCurrentUser godoc
// @Summary      Update the current account
// @Description  Patch first name, last name and/or email of the authenticated user
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body UpdateUserRequest true "Fields to update"
// @Success      200 {object} util.APIResponse "User updated"
// @Failure      400 {object} util.APIResponse "Invalid request or email already exists"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /user [patch]
func UpdateCurrentUser(c *gin.Context) {
	var req UpdateUserRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}

	if !validateUpdateRequest(&req) {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "At least one field (first_name, last_name, or email) must be provided",
			Err: fmt.Errorf("no fields to update"),
		})
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

	if err := updateUserFields(db, &actor, &req); err != nil {
		if errors.Is(err, ErrUserEmailAlreadyExists) {
			util.CallUserError(c, util.APIErrorParams{Msg: "Email already exists", Err: err})
		} else {
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update user fields", Err: err})
		}
		return
	}

	if err := db.Save(&actor).Error; err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to update user", Err: err})
		return
	}

	// Email may have changed; drop the stale cache entry.
	util.UserCacheInvalidate(actor.ID)

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "User updated successfully", Data: actor})
}
