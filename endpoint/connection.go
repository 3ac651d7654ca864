package endpoint

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ngantran/healthtrack-api/model"
	"github.com/ngantran/healthtrack-api/util"
)

type ConnectionRequest struct {
	ExpertID uint `json:"expert_id" binding:"required" example:"1"`
}

type ConnectionStatusRequest struct {
	Status string `json:"status" binding:"required" example:"ACCEPTED"`
}

// initiateConnection creates a PENDING connection from the acting user to
// an expert. Only USER-role accounts may initiate; a live (pending or
// accepted) connection to the same expert may not be duplicated.
func initiateConnection(db *gorm.DB, actor model.User, expertID uint) (model.Connection, error) {
	if actor.Role != model.RoleUser {
		return model.Connection{}, util.ErrPermissionDenied("only USER accounts may initiate connections")
	}

	var expert model.Expert
	err := db.Where("id = ? AND active = ?", expertID, true).First(&expert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Connection{}, util.ErrNotFound("expert")
	}
	if err != nil {
		return model.Connection{}, err
	}

	var existing model.Connection
	err = db.Where("user_id = ? AND expert_id = ? AND active = ? AND status IN ?",
		actor.ID, expert.ID, true, []string{model.ConnectionPending, model.ConnectionAccepted}).
		First(&existing).Error
	if err == nil {
		return model.Connection{}, util.ErrDuplicateEntry("connection to this expert already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Connection{}, err
	}

	conn := model.Connection{
		UserID:   actor.ID,
		ExpertID: expert.ID,
		Status:   model.ConnectionPending,
		Active:   true,
	}
	if err := db.Create(&conn).Error; err != nil {
		return model.Connection{}, err
	}
	return conn, nil
}

// respondToConnection transitions a PENDING connection to ACCEPTED or
// REJECTED. Only the user behind the connection's expert may respond, and
// terminal states admit no further transitions.
func respondToConnection(db *gorm.DB, actor model.User, connID uint, newStatus string) (model.Connection, error) {
	if newStatus != model.ConnectionAccepted && newStatus != model.ConnectionRejected {
		return model.Connection{}, util.ErrInvalidInput("status", "must be ACCEPTED or REJECTED")
	}

	var conn model.Connection
	err := db.Where("id = ? AND active = ?", connID, true).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Connection{}, util.ErrNotFound("connection")
	}
	if err != nil {
		return model.Connection{}, err
	}

	var expert model.Expert
	if err := db.First(&expert, conn.ExpertID).Error; err != nil {
		return model.Connection{}, err
	}
	if expert.UserID != actor.ID {
		return model.Connection{}, util.ErrPermissionDenied("only the connection's expert may respond")
	}

	if conn.Terminal() {
		return model.Connection{}, util.ErrInvalidInput("status", fmt.Sprintf("connection is already %s", conn.Status))
	}

	conn.Status = newStatus
	if err := db.Save(&conn).Error; err != nil {
		return model.Connection{}, err
	}
	return conn, nil
}

// listConnections returns the connections visible to the actor: a USER
// sees those they initiated, an EXPERT those targeting their expert
// record, any other role sees none.
func listConnections(db *gorm.DB, actor model.User) ([]model.Connection, error) {
	var conns []model.Connection
	switch actor.Role {
	case model.RoleUser:
		err := db.Where("user_id = ? AND active = ?", actor.ID, true).
			Order("created_at DESC").Find(&conns).Error
		return conns, err
	case model.RoleExpert:
		err := db.Joins("JOIN experts ON experts.id = connections.expert_id").
			Where("experts.user_id = ? AND connections.active = ?", actor.ID, true).
			Order("connections.created_at DESC").Find(&conns).Error
		return conns, err
	default:
		return conns, nil
	}
}

// canAccessConnection is the object-level capability check: only the
// initiating user or the user behind the linked expert may see or touch
// a connection.
func canAccessConnection(db *gorm.DB, actor model.User, conn model.Connection) bool {
	if conn.UserID == actor.ID {
		return true
	}
	var expert model.Expert
	if err := db.First(&expert, conn.ExpertID).Error; err != nil {
		return false
	}
	return expert.UserID == actor.ID
}

// getConnection loads a connection the actor is a party to. A denied
// actor receives NotFound, not the record's existence.
func getConnection(db *gorm.DB, actor model.User, connID uint) (model.Connection, error) {
	var conn model.Connection
	err := db.Where("id = ? AND active = ?", connID, true).First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Connection{}, util.ErrNotFound("connection")
	}
	if err != nil {
		return model.Connection{}, err
	}
	if !canAccessConnection(db, actor, conn) {
		return model.Connection{}, util.ErrNotFound("connection")
	}
	return conn, nil
}

// CreateConnection godoc
// @Summary      Initiate a connection to an expert
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        request body ConnectionRequest true "Target expert"
// @Success      201 {object} util.APIResponse "Connection created"
// @Failure      403 {object} util.APIResponse "Only USER accounts may initiate"
// @Failure      404 {object} util.APIResponse "Expert not found"
// @Failure      409 {object} util.APIResponse "Connection already exists"
// @Router       /connections [post]
func CreateConnection(c *gin.Context) {
	var req ConnectionRequest
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

	conn, err := initiateConnection(db, actor, req.ExpertID)
	if err != nil {
		if util.IsPermissionDenied(err) {
			util.LogUnauthorizedAccess(fmt.Sprintf("%d", actor.ID), actor.Email, c.ClientIP(), "connections", "non-USER tried to initiate")
		}
		util.RespondDomainError(c, "Failed to create connection", err)
		return
	}

	util.CallSuccessCreated(c, util.APISuccessParams{Msg: "Connection created", Data: conn})
}

// UpdateConnection godoc
// @Summary      Respond to a pending connection
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Connection ID"
// @Param        request body ConnectionStatusRequest true "New status"
// @Success      200 {object} util.APIResponse "Connection updated"
// @Failure      400 {object} util.APIResponse "Invalid status or terminal connection"
// @Failure      403 {object} util.APIResponse "Not the connection's expert"
// @Failure      404 {object} util.APIResponse "Connection not found"
// @Router       /connections/{id} [patch]
func UpdateConnection(c *gin.Context) {
	connID, ok := parseIDParamOrRespond(c, "id")
	if !ok {
		return
	}

	var req ConnectionStatusRequest
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

	conn, err := respondToConnection(db, actor, connID, req.Status)
	if err != nil {
		util.RespondDomainError(c, "Failed to update connection", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Connection updated", Data: conn})
}

// ListConnections godoc
// @Summary      List connections visible to the current account
// @Tags         Connections
// @Produce      json
// @Security     SessionToken
// @Success      200 {object} util.APIResponse "Connections fetched"
// @Router       /connections [get]
func ListConnections(c *gin.Context) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	actor, ok := actingUserOrRespond(c, db)
	if !ok {
		return
	}

	conns, err := listConnections(db, actor)
	if err != nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Failed to fetch connections", Err: err})
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{
		Msg:  "Connections fetched successfully",
		Data: map[string]interface{}{"total": len(conns), "connections": conns},
	})
}

// GetConnection godoc
// @Summary      Fetch one connection
// @Tags         Connections
// @Produce      json
// @Security     SessionToken
// @Param        id path int true "Connection ID"
// @Success      200 {object} util.APIResponse "Connection fetched"
// @Failure      404 {object} util.APIResponse "Connection not found"
// @Router       /connections/{id} [get]
func GetConnection(c *gin.Context) {
	connID, ok := parseIDParamOrRespond(c, "id")
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

	conn, err := getConnection(db, actor, connID)
	if err != nil {
		util.RespondDomainError(c, "Failed to fetch connection", err)
		return
	}

	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Connection fetched successfully", Data: conn})
}
