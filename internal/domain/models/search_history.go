package models

import "time"

type SearchHistory struct {
	ID         int
	UserID     string `gorm:"uniqueIndex:idx_user_query"`
	Query      string `gorm:"uniqueIndex:idx_user_query"`
	Uses       int    `gorm:"default:1"`
	LastUsedAt time.Time
	CreatedAt  time.Time
}
