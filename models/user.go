package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the platform identity row. Created on first auth, first matchmaking
// request, or tournament creation. Points accrue from tournament prizes and
// are never reset by this service.
type User struct {
	ID          string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	AuthUserID  string  `gorm:"uniqueIndex;not null" json:"auth_user_id"`
	Username    string  `gorm:"index;not null" json:"username"`
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	TotalPoints int64   `gorm:"default:0" json:"total_points"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
