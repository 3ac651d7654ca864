package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

func TestRecordDailyMetric_CreateThenUpdate(t *testing.T) {
	db := setupServiceDB(t, "metric_upsert")
	user := seedUser(t, db, "mia", model.RoleUser)

	metric, created, err := recordDailyMetric(db, user, &DailyMetricRequest{
		Date:  "2025-01-15",
		Steps: intPtr(4000),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4000, metric.Steps)
	assert.Equal(t, "2025-01-15", metric.Date)

	// Second submission for the same day updates in place.
	updated, created, err := recordDailyMetric(db, user, &DailyMetricRequest{
		Date:        "2025-01-15",
		Steps:       intPtr(9000),
		WaterIntake: floatPtr(2.0),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, metric.ID, updated.ID)
	assert.Equal(t, 9000, updated.Steps)
	assert.Equal(t, 2.0, updated.WaterIntake)

	var count int64
	db.Model(&model.DailyHealthMetric{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordDailyMetric_PartialUpdateKeepsOtherFields(t *testing.T) {
	db := setupServiceDB(t, "metric_partial")
	user := seedUser(t, db, "noah", model.RoleUser)

	_, _, err := recordDailyMetric(db, user, &DailyMetricRequest{
		Date:           "2025-02-01",
		Steps:          intPtr(7000),
		WaterIntake:    floatPtr(1.5),
		CaloriesBurned: floatPtr(300),
	})
	require.NoError(t, err)

	updated, created, err := recordDailyMetric(db, user, &DailyMetricRequest{
		Date:        "2025-02-01",
		WaterIntake: floatPtr(2.5),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 7000, updated.Steps)
	assert.Equal(t, 2.5, updated.WaterIntake)
	assert.Equal(t, 300.0, updated.CaloriesBurned)
}

func TestRecordDailyMetric_NegativeValuesRejected(t *testing.T) {
	db := setupServiceDB(t, "metric_invalid")
	user := seedUser(t, db, "zoe", model.RoleUser)

	_, _, err := recordDailyMetric(db, user, &DailyMetricRequest{Steps: intPtr(-1)})
	assert.True(t, util.IsInvalidInput(err))

	_, _, err = recordDailyMetric(db, user, &DailyMetricRequest{WaterIntake: floatPtr(-0.5)})
	assert.True(t, util.IsInvalidInput(err))
}

func TestRecordDailyMetric_BadDateRejected(t *testing.T) {
	db := setupServiceDB(t, "metric_baddate")
	user := seedUser(t, db, "eli", model.RoleUser)

	_, _, err := recordDailyMetric(db, user, &DailyMetricRequest{Date: "15-01-2025", Steps: intPtr(10)})
	assert.True(t, util.IsInvalidInput(err))
}

func TestEnsureTodayMetric_Idempotent(t *testing.T) {
	db := setupServiceDB(t, "metric_today")
	user := seedUser(t, db, "ada", model.RoleUser)

	require.NoError(t, ensureTodayMetric(db, user))
	require.NoError(t, ensureTodayMetric(db, user))

	var count int64
	db.Model(&model.DailyHealthMetric{}).
		Where("user_id = ? AND date = ?", user.ID, todayStr()).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestEnsureTodayMetric_ConflictingRowSatisfiesGuarantee(t *testing.T) {
	db := setupServiceDB(t, "metric_today_conflict")
	user := seedUser(t, db, "bea", model.RoleUser)

	// An inactive row for today is invisible to the lookup but still
	// occupies the (user_id, date) unique index, so the insert is
	// rejected the way a concurrent winner's row would reject it.
	row := model.DailyHealthMetric{UserID: user.ID, Date: todayStr(), Active: true}
	require.NoError(t, db.Create(&row).Error)
	require.NoError(t, db.Model(&row).Update("active", false).Error)

	require.NoError(t, ensureTodayMetric(db, user))

	var count int64
	db.Model(&model.DailyHealthMetric{}).
		Where("user_id = ? AND date = ?", user.ID, todayStr()).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRecordDailyMetric_ConflictingRowMergedNotDuplicated(t *testing.T) {
	db := setupServiceDB(t, "metric_upsert_conflict")
	user := seedUser(t, db, "cal", model.RoleUser)

	row := model.DailyHealthMetric{UserID: user.ID, Date: "2025-03-01", Steps: 500, Active: true}
	require.NoError(t, db.Create(&row).Error)
	require.NoError(t, db.Model(&row).Update("active", false).Error)

	metric, created, err := recordDailyMetric(db, user, &DailyMetricRequest{
		Date:  "2025-03-01",
		Steps: intPtr(1200),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, row.ID, metric.ID)
	assert.Equal(t, 1200, metric.Steps)

	var count int64
	db.Model(&model.DailyHealthMetric{}).
		Where("user_id = ? AND date = ?", user.ID, "2025-03-01").
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListDailyMetrics_OwnRowsNewestFirst(t *testing.T) {
	db := setupServiceDB(t, "metric_list")
	user := seedUser(t, db, "kim", model.RoleUser)
	other := seedUser(t, db, "lee", model.RoleUser)

	for _, date := range []string{"2025-01-01", "2025-01-03", "2025-01-02"} {
		_, _, err := recordDailyMetric(db, user, &DailyMetricRequest{Date: date, Steps: intPtr(100)})
		require.NoError(t, err)
	}
	_, _, err := recordDailyMetric(db, other, &DailyMetricRequest{Date: "2025-01-01", Steps: intPtr(999)})
	require.NoError(t, err)

	metrics, err := listDailyMetrics(db, user)
	require.NoError(t, err)
	require.Len(t, metrics, 3)
	assert.Equal(t, "2025-01-03", metrics[0].Date)
	assert.Equal(t, "2025-01-02", metrics[1].Date)
	assert.Equal(t, "2025-01-01", metrics[2].Date)
}
