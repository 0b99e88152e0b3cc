package workers

import (
	"context"
	"log"
	"time"

	"game-arena-system/models"

	"gorm.io/gorm"
)

// staleRoomAge is how long a waiting room may sit without filling before it
// is cancelled.
const staleRoomAge = 30 * time.Minute

// PollStaleRooms cancels waiting rooms nobody joined in time, so the public
// room list and matchmaking pool stay free of abandoned entries.
func PollStaleRooms(ctx context.Context, db *gorm.DB, pollInterval time.Duration) {
	log.Println("Starting stale room reaper...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stale room reaper stopped.")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-staleRoomAge)
			res := db.Model(&models.MultiplayerRoom{}).
				Where("status = ? AND created_at < ?", models.RoomWaiting, cutoff).
				Update("status", models.RoomCancelled)
			if res.Error != nil {
				log.Printf("❌ Stale room reaper failed: %v", res.Error)
				continue
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Cancelled %d stale room(s)", res.RowsAffected)
			}
		}
	}
}
