package endpoint

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

// DailyMetricRequest carries the client-writable metric fields. Pointer
// fields distinguish "omitted" from "zero" so a partial update leaves
// unsupplied values untouched.
type DailyMetricRequest struct {
	Date           string   `json:"date,omitempty" example:"2025-01-15"`
	Steps          *int     `json:"steps,omitempty" example:"5000"`
	WaterIntake    *float64 `json:"water_intake,omitempty" example:"1.5"`
	CaloriesBurned *float64 `json:"calories_burned,omitempty" example:"320"`
}

func validateMetricRequest(req *DailyMetricRequest) error {
	if req.Steps != nil && *req.Steps < 0 {
		return util.ErrInvalidInput("steps", "must not be negative")
	}
	if req.WaterIntake != nil && *req.WaterIntake < 0 {
		return util.ErrInvalidInput("water_intake", "must not be negative")
	}
	return nil
}

func applyMetricFields(metric *model.DailyHealthMetric, req *DailyMetricRequest) {
	if req.Steps != nil {
		metric.Steps = *req.Steps
	}
	if req.WaterIntake != nil {
		metric.WaterIntake = *req.WaterIntake
	}
	if req.CaloriesBurned != nil {
		metric.CaloriesBurned = *req.CaloriesBurned
	}
}

// recordDailyMetric upserts the actor's metric row for the request's day.
// If no row exists for (user, date) one is created with absent numerics
// defaulting to zero; otherwise only the supplied fields overwrite the
// stored values. The bool result reports whether a row was created.
//
// The insert runs inside a transaction and falls back to fetch-and-merge
// when the (user_id, date) unique index rejects a concurrent insert, so
// two near-simultaneous requests never produce two rows.
func recordDailyMetric(db *gorm.DB, actor model.User, req *DailyMetricRequest) (model.DailyHealthMetric, bool, error) {
	if err := validateMetricRequest(req); err != nil {
		return model.DailyHealthMetric{}, false, err
	}
	date, err := normalizeDate(req.Date)
	if err != nil {
		return model.DailyHealthMetric{}, false, err
	}

	var metric model.DailyHealthMetric
	created := false
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND date = ? AND active = ?", actor.ID, date, true).First(&metric).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metric = model.DailyHealthMetric{UserID: actor.ID, Date: date, Active: true}
			applyMetricFields(&metric, req)
			if createErr := tx.Create(&metric).Error; createErr != nil {
				// Lost the race: another request inserted this day first.
				if fetchErr := tx.Where("user_id = ? AND date = ?", actor.ID, date).First(&metric).Error; fetchErr != nil {
					return createErr
				}
				applyMetricFields(&metric, req)
				return tx.Save(&metric).Error
			}
			created = true
			return nil
		}
		if err != nil {
			return err
		}
		applyMetricFields(&metric, req)
		return tx.Save(&metric).Error
	})
	if err != nil {
		return model.DailyHealthMetric{}, false, err
	}
	return metric, created, nil
}

// ensureTodayMetric guarantees the actor has a metric row for today so a
// fresh day always has something to update. This is a named operation
// invoked by the list handler, not a hidden side effect of the read.
//
// Like recordDailyMetric, a create rejected by the (user_id, date) unique
// index means a concurrent request won the insert, which satisfies the
// guarantee just as well.
func ensureTodayMetric(db *gorm.DB, actor model.User) error {
	date := todayStr()
	var metric model.DailyHealthMetric
	err := db.Where("user_id = ? AND date = ? AND active = ?", actor.ID, date, true).First(&metric).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	metric = model.DailyHealthMetric{UserID: actor.ID, Date: date, Active: true}
	if createErr := db.Create(&metric).Error; createErr != nil {
		if fetchErr := db.Where("user_id = ? AND date = ?", actor.ID, date).First(&metric).Error; fetchErr != nil {
			return createErr
		}
	}
	return nil
}

func listDailyMetrics(db *gorm.DB, actor model.User) ([]model.DailyHealthMetric, error) {
	var metrics []model.DailyHealthMetric
	err := db.Where("user_id = ? AND active = ?", actor.ID, true).
		Order("date DESC").
		Find(&metrics).Error
	return metrics, err
}

// RecordDailyMetric godoc
// @Summary      Record daily health metric
// @Description  Create or update the authenticated user's metric row for a day
// @Tags         HealthMetrics
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body DailyMetricRequest true "Metric values"
// @Success      200 {object} util.APIResponse "Metric updated"
// @Success      201 {object} util.APIResponse "Metric created"
// @Failure      400 {object} util.APIResponse "Invalid input"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /health_metrics [post]
func RecordDailyMetric(c *gin.Context) {
	var req DailyMetricRequest
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

	metric, created, err := recordDailyMetric(db, actor, &req)
	if err != nil {
		util.RespondDomainError(c, "Failed to record daily metric", err)
		return
	}

	if created {
		util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Daily metric created", Data: metric})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Daily metric updated", Data: metric})
}

// ListDailyMetrics godoc
// @Summary      List daily health metrics
// @Description  List the authenticated user's metrics, newest date first. Ensures today's row exists.
// @Tags         HealthMetrics
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Metrics fetched"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /health_metrics [get]
func ListDailyMetrics(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	if err := ensureTodayMetric(db, actor); err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to prepare today's metric row", Err: err})
		return
	}

	metrics, err := listDailyMetrics(db, actor)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch daily metrics", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Daily metrics fetched successfully",
		Data: map[string]interface{}{"total": len(metrics), "metrics": metrics},
	})
}
