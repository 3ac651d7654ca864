package model

import "gorm.io/gorm"

// HealthJournal holds one free-text entry per user per calendar day.
type HealthJournal struct {
	gorm.Model
	UserID  uint   `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_journal_user_date"`
	Date    string `json:"date" gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_journal_user_date" example:"2025-01-15"`
	Content string `json:"content" gorm:"column:content;type:text"`
	Active  bool   `json:"active" gorm:"column:active;default:true"`
}
