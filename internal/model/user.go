package model

import "time"

// User is a Telegram chat subscribed to daily reports.
type User struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex"`
	FirstName  string
	Username   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
