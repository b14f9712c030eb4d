package db

import "time"

// Session backs the cookie identity: the session id doubles as the stable
// opaque user id the game core keys memberships on.
type Session struct {
	ID         string    `gorm:"primaryKey;size:64"`
	PlayerName string    `gorm:"size:64"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
