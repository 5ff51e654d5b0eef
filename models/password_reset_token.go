package models

import (
	"time"
)

// PasswordResetToken stores the 6-digit verification codes used during the
// password reset flow. Multiple live tokens may exist for the same email;
// lookups always take the newest unused match. Rows are kept after use and
// purged later by the cleanup scheduler.
type PasswordResetToken struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"not null;index"`
	VerificationCode string    `json:"-" gorm:"not null"`
	ExpiryDate       time.Time `json:"expiry_date" gorm:"not null"`
	Used             bool      `json:"used" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpired reports whether the token's 15-minute window has passed.
func (t *PasswordResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiryDate)
}
