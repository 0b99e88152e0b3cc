package services

import (
	"log"
	"time"

	"game-arena-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartAutoStartScheduler runs a minutely sweep over tournaments whose
// scheduled start time has passed. Tournaments with at least two players
// start; the rest are cancelled.
func (s *TournamentService) StartAutoStartScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			var tournaments []models.Tournament
			now := time.Now()
			err := s.DB.Where("status = ? AND starts_at IS NOT NULL AND starts_at <= ?",
				models.TournamentRegistration, now).
				Find(&tournaments).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, t := range tournaments {
				if t.CurrentPlayers < 2 {
					if err := s.DB.Model(&t).Update("status", models.TournamentCancelled).Error; err != nil {
						log.Printf("[Scheduler] Failed to cancel tournament %s: %v", t.ID, err)
					} else {
						log.Printf("[Scheduler] Cancelled tournament %s (not enough players)", t.ID)
					}
					continue
				}
				if err := startTournament(s.DB, t.ID); err != nil {
					log.Printf("[Scheduler] Failed to start tournament %s: %v", t.ID, err)
				} else {
					log.Printf("✅ Auto-started tournament: %s", t.Name)
				}
			}
		}),
	)
}
