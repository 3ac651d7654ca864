package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

type ReminderRequest struct {
	Title    string `json:"title" example:"Drink water"`
	Time     string `json:"time" example:"08:00"`
	Describe string `json:"describe,omitempty" example:"One full glass right after waking up"`
}

func createReminder(db *gorm.DB, actor model.User, req *ReminderRequest) (model.Reminder, error) {
	if req.Title == "" {
		return model.Reminder{}, util.ErrInvalidInput("title", "must not be empty")
	}
	reminder := model.Reminder{
		UserID:   actor.ID,
		Title:    req.Title,
		Time:     req.Time,
		Describe: req.Describe,
		Active:   true,
	}
	if err := db.Create(&reminder).Error; err != nil {
		return model.Reminder{}, err
	}
	return reminder, nil
}

func loadOwnReminder(db *gorm.DB, actor model.User, id uint) (model.Reminder, error) {
	var reminder model.Reminder
	err := db.Where("id = ? AND user_id = ? AND active = ?", id, actor.ID, true).First(&reminder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Reminder{}, util.ErrNotFound("reminder")
	}
	return reminder, err
}

func patchReminder(db *gorm.DB, actor model.User, id uint, req *ReminderRequest) (model.Reminder, error) {
	reminder, err := loadOwnReminder(db, actor, id)
	if err != nil {
		return model.Reminder{}, err
	}
	if req.Title != "" {
		reminder.Title = req.Title
	}
	if req.Time != "" {
		reminder.Time = req.Time
	}
	if req.Describe != "" {
		reminder.Describe = req.Describe
	}
	if err := db.Save(&reminder).Error; err != nil {
		return model.Reminder{}, err
	}
	return reminder, nil
}

func deleteReminder(db *gorm.DB, actor model.User, id uint) error {
	reminder, err := loadOwnReminder(db, actor, id)
	if err != nil {
		return err
	}
	reminder.Active = false
	return db.Save(&reminder).Error
}

// ListReminders godoc
// @Summary      List the current user's reminders
// @Tags         Reminders
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Reminders fetched"
// @Router       /reminders [get]
func ListReminders(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	var reminders []model.Reminder
	err := db.Where("user_id = ? AND active = ?", actor.ID, true).
		Order("created_at DESC").
		Find(&reminders).Error
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch reminders", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Reminders fetched successfully",
		Data: map[string]interface{}{"total": len(reminders), "reminders": reminders},
	})
}

// CreateReminder godoc
// @Summary      Create a reminder
// @Tags         Reminders
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body ReminderRequest true "Reminder details"
// @Success      201 {object} util.APIResponse "Reminder created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Router       /reminders [post]
func CreateReminder(c *gin.Context) {
	var req ReminderRequest
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

	reminder, err := createReminder(db, actor, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to create reminder", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Reminder created", Data: reminder})
}

// UpdateReminder godoc
// @Summary      Update a reminder
// @Tags         Reminders
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Reminder ID"
// @Param        request body ReminderRequest true "Fields to update"
// @Success      200 {object} util.APIResponse "Reminder updated"
// @Failure      404 {object} util.APIResponse "Reminder not found"
// @Router       /reminders/{id} [patch]
func UpdateReminder(c *gin.Context) {
	id, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var req ReminderRequest
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

	reminder, err := patchReminder(db, actor, id, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to update reminder", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reminder updated", Data: reminder})
}

// DeleteReminder godoc
// @Summary      Soft-delete a reminder
// @Tags         Reminders
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Reminder ID"
// @Success      200 {object} util.APIResponse "Reminder deleted"
// @Failure      404 {object} util.APIResponse "Reminder not found"
// @Router       /reminders/{id} [delete]
func DeleteReminder(c *gin.Context) {
	id, ok := parseIDParamOrRespond(c, "id")
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

	if err := deleteReminder(db, actor, id); err != nil {
		util.RespondDomainError(c, "Failed to delete reminder", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Reminder deleted successfully"})
}
