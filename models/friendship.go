package models

import "time"

// Friendship status values. Transitions: pending → accepted | blocked, and any
// row may be deleted by either party (cancel / unfriend).
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipBlocked  = "blocked"
)

// Friendship is a directional request between two users. Only the addressee
// may move it out of pending.
type Friendship struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RequesterID string    `gorm:"index;not null" json:"requester_id"`
	AddresseeID string    `gorm:"index;not null" json:"addressee_id"`
	Status      string    `gorm:"type:varchar(16);default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FriendEntry is the flattened list item returned by the friends endpoint.
type FriendEntry struct {
	FriendshipID string  `json:"friendship_id"`
	UserID       string  `json:"user_id"`
	Username     string  `json:"username"`
	DisplayName  *string `json:"display_name,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	TotalPoints  int64   `json:"total_points"`
	Status       string  `json:"status"`
	IsRequester  bool    `json:"is_requester"`
}
