package models

import (
	"time"
)

// Tournament is a competition instance. It optionally belongs to a Game and
// holds a shared many-to-many association with Teams through the
// tournament_teams join table — removing the association deletes neither side.
type Tournament struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	LogoURL   string    `json:"logo_url" gorm:"column:logo_url"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Optional owning game (nullable FK)
	GameID *uint `json:"game_id,omitempty" gorm:"index"`
	Game   *Game `json:"game,omitempty" gorm:"foreignKey:GameID"`

	Teams []*Team `json:"teams,omitempty" gorm:"many2many:tournament_teams"`
}

func (Tournament) TableName() string {
	return "tournaments"
}
