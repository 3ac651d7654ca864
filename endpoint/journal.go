package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

type JournalRequest struct {
	Date    string `json:"date,omitempty" example:"2025-01-15"`
	Content string `json:"content" example:"Felt great after the morning run."`
}

// recordJournalEntry upserts the actor's journal entry for the request's
// day, one entry per user per day. A repeat submission on the same day
// updates the stored entry in place. The bool result reports whether a
// new entry was created so the caller can phrase the response.
func recordJournalEntry(db *gorm.DB, actor model.User, req *JournalRequest) (model.HealthJournal, bool, error) {
	if req.Content == "" {
		return model.HealthJournal{}, false, util.ErrInvalidInput("content", "must not be empty")
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return model.HealthJournal{}, false, err
	}

	var journal model.HealthJournal
	created := false
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND date = ? AND active = ?", actor.ID, date, true).First(&journal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			journal = model.HealthJournal{UserID: actor.ID, Date: date, Content: req.Content, Active: true}
			if createErr := tx.Create(&journal).Error; createErr != nil {
				// Lost the race to a concurrent insert for the same day.
				if fetchErr := tx.Where("user_id = ? AND date = ?", actor.ID, date).First(&journal).Error; fetchErr != nil {
					return createErr
				}
				journal.Content = req.Content
				return tx.Save(&journal).Error
			}
			created = true
			return nil
		}
		if err != nil {
			return err
		}
		journal.Content = req.Content
		return tx.Save(&journal).Error
	})
	if err != nil {
		return model.HealthJournal{}, false, err
	}
	return journal, created, nil
}

func listJournalEntries(db *gorm.DB, actor model.User) ([]model.HealthJournal, error) {
	var journals []model.HealthJournal
	err := db.Where("user_id = ? AND active = ?", actor.ID, true).
		Order("date DESC").
		Find(&journals).Error
	return journals, err
}

// RecordJournalEntry godoc
// @Summary      Write today's health journal
// @Description  Create or update the authenticated user's journal entry for a day
// @Tags         Journals
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body JournalRequest true "Journal content"
// @Success      200 {object} util.APIResponse "Journal updated"
// @Success      201 {object} util.APIResponse "Journal created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Router       /journals [post]
func RecordJournalEntry(c *gin.Context) {
	var req JournalRequest
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

	journal, created, err := recordJournalEntry(db, actor, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to record journal entry", err)
		return
	}

	if created {
		util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Journal entry created", Data: journal})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Updated today's journal entry", Data: journal})
}

// ListJournalEntries godoc
// @Summary      List health journal entries
// @Tags         Journals
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Journals fetched"
// @Router       /journals [get]
func ListJournalEntries(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	journals, err := listJournalEntries(db, actor)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch journal entries", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Journal entries fetched successfully",
		Data: map[string]interface{}{"total": len(journals), "journals": journals},
	})
}
