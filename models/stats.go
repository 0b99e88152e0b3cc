package models

import "time"

// MultiplayerStats is the per user+game+mode rating row. Ratings start at
// 1000 and are clamped to [100, 3000] by the ELO service.
type MultiplayerStats struct {
	ID              string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID          string    `gorm:"index:idx_stats_key,unique;not null" json:"user_id"`
	GameID          string    `gorm:"index:idx_stats_key,unique;not null" json:"game_id"`
	Mode            string    `gorm:"index:idx_stats_key,unique;type:varchar(16);not null" json:"mode"`
	Wins            int       `gorm:"default:0" json:"wins"`
	Losses          int       `gorm:"default:0" json:"losses"`
	Draws           int       `gorm:"default:0" json:"draws"`
	EloRating       int       `gorm:"default:1000" json:"elo_rating"`
	HighestElo      int       `gorm:"default:1000" json:"highest_elo"`
	LowestElo       int       `gorm:"default:1000" json:"lowest_elo"`
	TotalGames      int       `gorm:"default:0" json:"total_games"`
	WinStreak       int       `gorm:"default:0" json:"win_streak"`
	BestWinStreak   int       `gorm:"default:0" json:"best_win_streak"`
	LossStreak      int       `gorm:"default:0" json:"loss_streak"`
	WorstLossStreak int       `gorm:"default:0" json:"worst_loss_streak"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
