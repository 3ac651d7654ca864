package model

import (
	"math"

	"gorm.io/gorm"
)

// HealthProfile is the one-per-user health record.
// BMI is derived from height and weight on every save and is nil
// when either measurement is missing or zero.
type HealthProfile struct {
	gorm.Model
	UserID uint     `json:"user_id" gorm:"column:user_id;uniqueIndex;not null"`
	User   User     `json:"-" gorm:"foreignKey:UserID"`
	Height float64  `json:"height" gorm:"column:height" example:"175"`
	Weight float64  `json:"weight" gorm:"column:weight" example:"70"`
	Age    int      `json:"age" gorm:"column:age" example:"30"`
	Gender string   `json:"gender" gorm:"column:gender;type:varchar(10)" example:"MALE"`
	Goal   string   `json:"goal" gorm:"column:goal;type:varchar(255)" example:"Lose 5kg before summer"`
	BMI    *float64 `json:"bmi" gorm:"column:bmi"`
	Active bool     `json:"active" gorm:"column:active;default:true"`
}

// ComputeBMI returns weight/(height_m)^2 rounded to two decimals.
// The second return value is false when height or weight is not positive,
// meaning the BMI is not computable.
func ComputeBMI(heightCm, weightKg float64) (float64, bool) {
	if heightCm <= 0 || weightKg <= 0 {
		return 0, false
	}
	h := heightCm / 100.0
	bmi := weightKg / (h * h)
	return math.Round(bmi*100) / 100, true
}

// BeforeSave recomputes the derived BMI whenever the profile is persisted.
func (p *HealthProfile) BeforeSave(tx *gorm.DB) error {
	if bmi, ok := ComputeBMI(p.Height, p.Weight); ok {
		p.BMI = &bmi
	} else {
		p.BMI = nil
	}
	return nil
}
