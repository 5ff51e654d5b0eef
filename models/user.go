package models

import (
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is an identity record. The password column only ever holds a bcrypt
// digest; it is excluded from every JSON response.
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"size:50;not null;uniqueIndex"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" gorm:"size:100;not null;uniqueIndex"`
	Password  string `json:"-" gorm:"size:255;not null"`
	Age       int    `json:"age,omitempty"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender,omitempty"`
	Address   string `json:"address"`
	Avatar    string `json:"avatar"`

	Role   string `json:"role" gorm:"not null;default:'ROLE_USER'"`
	Status string `json:"status" gorm:"default:'active'"`

	// Notification preferences
	Notifications   bool `json:"notifications" gorm:"default:true"`
	MarketingEmails bool `json:"marketing_emails" gorm:"default:false"`

	// Denormalized game stats — plain counters, not recomputed transactionally
	GamesPlayed   int    `json:"games_played" gorm:"default:0"`
	GamesWon      int    `json:"games_won" gorm:"default:0"`
	GamesLost     int    `json:"games_lost" gorm:"default:0"`
	WinPercentage string `json:"win_percentage" gorm:"default:'0%'"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
