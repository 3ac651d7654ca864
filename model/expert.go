package model

import "gorm.io/gorm"

// Expertise values for an Expert.
const (
	ExpertiseWeightGain  = "WEIGHT_GAIN"
	ExpertiseWeightLoss  = "WEIGHT_LOSS"
	ExpertiseMaintaining = "MAINTAINING"
)

// Expert links an EXPERT-role user to their area of expertise.
// At most one Expert record may exist per user.
type Expert struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	User      User   `json:"user" gorm:"foreignKey:UserID"`
	Expertise string `json:"expertise" gorm:"column:expertise;type:varchar(30);not null" example:"WEIGHT_LOSS"`
	Active    bool   `json:"active" gorm:"column:active;default:true"`
}

// ValidExpertise reports whether e is a known expertise value.
func ValidExpertise(e string) bool {
	switch e {
	case ExpertiseWeightGain, ExpertiseWeightLoss, ExpertiseMaintaining:
		return true
	}
	return false
}
