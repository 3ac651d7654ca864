package model

import "gorm.io/gorm"

// Connection status values. PENDING is the initial state; ACCEPTED and
// REJECTED are terminal.
const (
	ConnectionPending  = "PENDING"
	ConnectionAccepted = "ACCEPTED"
	ConnectionRejected = "REJECTED"
)

// Connection is the handshake between a USER-role account and an Expert.
// Status is server-controlled and never client-writable at creation.
type Connection struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"column:user_id;not null;index"`
	User     User   `json:"-" gorm:"foreignKey:UserID"`
	ExpertID uint   `json:"expert_id" gorm:"column:expert_id;not null;index"`
	Expert   Expert `json:"-" gorm:"foreignKey:ExpertID"`
	Status   string `json:"status" gorm:"column:status;type:varchar(20);default:PENDING" example:"PENDING"`
	Active   bool   `json:"active" gorm:"column:active;default:true"`
}

// Terminal reports whether the connection has reached a final status.
func (c *Connection) Terminal() bool {
	return c.Status == ConnectionAccepted || c.Status == ConnectionRejected
}
