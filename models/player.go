package models

import (
	"time"
)

// Player always belongs to exactly one team; team_id is mandatory and a
// player row cannot outlive its team.
type Player struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"not null"`
	Age        int    `json:"age" gorm:"not null"`
	ProfileURL string `json:"profile_url" gorm:"column:profile_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TeamID uint  `json:"team_id" gorm:"not null;index"`
	Team   *Team `json:"-" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

func (Player) TableName() string {
	return "players"
}
