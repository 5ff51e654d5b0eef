// services/scheduler.go
package services

import (
	"log"
	"time"

	"tournament-management-system/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *AuthService) StartTokenCleanupScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: purge used and stale password reset tokens
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-24 * time.Hour)
			result := s.DB.Where("used = ? OR expiry_date < ?", true, cutoff).
				Delete(&models.PasswordResetToken{})
			if result.Error != nil {
				log.Printf("[Scheduler] Token cleanup failed: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("[Scheduler] Purged %d password reset tokens", result.RowsAffected)
			}
		}),
	)
}
