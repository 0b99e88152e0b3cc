package models

import "time"

// Game is a catalog entry for a playable mini-game. Rows are seeded out of
// band; this service only reads them for existence checks and listings.
type Game struct {
	ID          string    `gorm:"primaryKey" json:"id"` // short slug, e.g. "tetris"
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
