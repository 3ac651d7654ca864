package endpoint

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/middleware"
	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

const dateLayout = "2006-01-02"

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// actingUserOrRespond loads the authenticated account for the request.
// Every service call below takes this actor explicitly; nothing reads
// ambient identity state.
func actingUserOrRespond(c *gin.Context, db *gorm.DB) (model.User, bool) {
	user, ok := middleware.CurrentUser(c, db)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{
			Msg: "User not authenticated",
			Err: fmt.Errorf("no authenticated user in request context"),
		})
		return model.User{}, false
	}
	return user, true
}

func parseIDParamOrRespond(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		util.CallUserError(c, util.APIErrorParams{
			Msg: fmt.Sprintf("Invalid %s parameter", name),
			Err: fmt.Errorf("%s must be a positive integer", name),
		})
		return 0, false
	}
	return uint(id), true
}

type listQuery struct {
	Limit  int
	Offset int
}

func parseListQuery(c *gin.Context) listQuery {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return listQuery{Limit: limit, Offset: offset}
}

func applyListQuery(query *gorm.DB, q listQuery) *gorm.DB {
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	return query
}

func todayStr() string {
	return time.Now().Format(dateLayout)
}

// normalizeDate validates an optional client-supplied day, defaulting to
// today. Dates are compared as whole days throughout.
func normalizeDate(raw string) (string, error) {
	if raw == "" {
		return todayStr(), nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", util.ErrInvalidInput("date", "must be formatted as YYYY-MM-DD")
	}
	return parsed.Format(dateLayout), nil
}
