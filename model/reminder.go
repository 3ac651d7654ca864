package model

import "gorm.io/gorm"

type Reminder struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"column:user_id;not null;index"`
	Title    string `json:"title" gorm:"column:title;type:varchar(100);not null" example:"Drink water"`
	Time     string `json:"time" gorm:"column:time;type:varchar(50)" example:"08:00"`
	Describe string `json:"describe" gorm:"column:describe;type:text"`
	Active   bool   `json:"active" gorm:"column:active;default:true"`
}
