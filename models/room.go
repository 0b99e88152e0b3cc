package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Room modes and statuses. A room is never physically deleted; it moves
// waiting → playing → finished, or waiting → cancelled if it empties first.
const (
	Mode1v1Ranked     = "1v1-ranked"
	Mode1v1Casual     = "1v1-casual"
	ModeCollaborative = "collaborative"

	RoomWaiting   = "waiting"
	RoomPlaying   = "playing"
	RoomFinished  = "finished"
	RoomCancelled = "cancelled"
)

// JSONB stores a raw JSON document in a Postgres jsonb column while
// marshalling into API responses unquoted.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "{}", nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = JSONB("{}")
		return nil
	case []byte:
		*j = JSONB(append([]byte(nil), v...))
		return nil
	case string:
		*j = JSONB(v)
		return nil
	default:
		return errors.New("jsonb: unsupported scan source")
	}
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return j, nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(append([]byte(nil), data...))
	return nil
}

// MultiplayerRoom is one multiplayer session for a game + mode.
type MultiplayerRoom struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	GameID         string     `gorm:"index;not null" json:"game_id"`
	Mode           string     `gorm:"type:varchar(16);not null" json:"mode"`
	Status         string     `gorm:"type:varchar(16);default:'waiting';index" json:"status"`
	MaxPlayers     int        `gorm:"not null" json:"max_players"`
	CurrentPlayers int        `gorm:"default:0" json:"current_players"`
	CreatedBy      string     `gorm:"index;not null" json:"created_by"`
	RoomCode       *string    `gorm:"uniqueIndex" json:"room_code,omitempty"` // nil = public room
	GameState      JSONB      `gorm:"type:jsonb;default:'{}'" json:"game_state"`
	WinnerID       *string    `json:"winner_id,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	ArchivedAt     *time.Time `gorm:"index" json:"archived_at,omitempty"` // replay export to object storage
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Players []RoomPlayer `gorm:"foreignKey:RoomID" json:"players,omitempty"`
}

// RoomPlayer joins a user to a room. Leaving marks the row disconnected
// rather than deleting it, so game history survives.
type RoomPlayer struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RoomID         string     `gorm:"index:idx_room_user,unique;not null" json:"room_id"`
	UserID         string     `gorm:"index:idx_room_user,unique;not null" json:"user_id"`
	PlayerNumber   int        `gorm:"not null" json:"player_number"`
	Ready          bool       `gorm:"default:false" json:"ready"`
	Disconnected   bool       `gorm:"default:false" json:"disconnected"`
	DisconnectedAt *time.Time `json:"disconnected_at,omitempty"`
	JoinedAt       time.Time  `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// MultiplayerAction is an append-only audit row for in-room events
// (currently only surrenders).
type MultiplayerAction struct {
	ID         string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RoomID     string    `gorm:"index;not null" json:"room_id"`
	UserID     string    `gorm:"not null" json:"user_id"`
	ActionType string    `gorm:"type:varchar(32);not null" json:"action_type"`
	ActionData JSONB     `gorm:"type:jsonb;default:'{}'" json:"action_data"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
