package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"game-arena-system/models"
	"game-arena-system/utils"

	"gorm.io/gorm"
)

const archiveBatchSize = 25

// replayDocument is the export format written to object storage for each
// finished room.
type replayDocument struct {
	RoomID     string          `json:"room_id"`
	GameID     string          `json:"game_id"`
	Mode       string          `json:"mode"`
	WinnerID   *string         `json:"winner_id"`
	StartedAt  *time.Time      `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at"`
	GameState  json.RawMessage `json:"game_state"`
}

// PollReplays periodically exports finished rooms' final game state to
// object storage and stamps them archived. A failed upload leaves the row
// unstamped so the next tick retries it.
func PollReplays(ctx context.Context, db *gorm.DB, pollInterval time.Duration) {
	log.Println("Starting replay archiver...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Replay archiver stopped.")
			return
		case <-ticker.C:
			var rooms []models.MultiplayerRoom
			err := db.Where("status = ? AND archived_at IS NULL", models.RoomFinished).
				Order("finished_at ASC").
				Limit(archiveBatchSize).
				Find(&rooms).Error
			if err != nil {
				log.Printf("❌ Replay archiver query failed: %v", err)
				continue
			}

			for _, room := range rooms {
				if err := archiveRoom(db, &room); err != nil {
					log.Printf("❌ Failed to archive replay for room %s: %v", room.ID, err)
				}
			}
		}
	}
}

func archiveRoom(db *gorm.DB, room *models.MultiplayerRoom) error {
	doc := replayDocument{
		RoomID:     room.ID,
		GameID:     room.GameID,
		Mode:       room.Mode,
		WinnerID:   room.WinnerID,
		StartedAt:  room.StartedAt,
		FinishedAt: room.FinishedAt,
		GameState:  json.RawMessage(room.GameState),
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal replay: %w", err)
	}

	key := fmt.Sprintf("replays/%s.json", room.ID)
	url, err := utils.UploadBytesToR2(key, body, "application/json")
	if err != nil {
		return err
	}

	now := time.Now()
	if err := db.Model(room).Update("archived_at", &now).Error; err != nil {
		return fmt.Errorf("failed to stamp archived_at: %w", err)
	}

	log.Printf("✅ Archived replay for room %s: %s", room.ID, url)
	return nil
}
