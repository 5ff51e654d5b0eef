package models

import (
	"time"
)

// Team owns its players: deleting a team removes every player that
// references it (orphan removal, players deleted first to satisfy the FK).
type Team struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Location string `json:"location" gorm:"not null"`
	LogoURL  string `json:"logo_url" gorm:"column:logo_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Players     []Player      `json:"players,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Tournaments []*Tournament `json:"-" gorm:"many2many:tournament_teams"`
}

func (Team) TableName() string {
	return "teams"
}
