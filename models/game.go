package models

import (
	"time"
)

// Game is a catalog entity. It owns its tournaments: deleting a game
// cascades to every tournament that references it.
type Game struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	Icon      string `json:"icon"`
	Developer string `json:"developer"`
	Genre     string `json:"genre" gorm:"column:game_genre"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Tournaments []Tournament `json:"tournaments,omitempty" gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE"`
}

func (Game) TableName() string {
	return "games"
}
