package models

import "time"

// Tournament statuses. registration → in_progress → completed, with
// cancelled reachable from registration.
const (
	TournamentRegistration = "registration"
	TournamentInProgress   = "in_progress"
	TournamentCompleted    = "completed"
	TournamentCancelled    = "cancelled"
)

// Tournament match statuses. A bye never gets played; its winner is known
// at bracket generation time.
const (
	MatchPending   = "pending"
	MatchPlaying   = "playing"
	MatchCompleted = "completed"
	MatchBye       = "bye"
)

// Tournament is a single-elimination bracketed competition. current_players
// is capacity-guarded by a conditional update and the bracket is generated
// exactly once, when the tournament fills or its start time passes.
type Tournament struct {
	ID             string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	GameID         string     `gorm:"index;not null" json:"game_id"`
	Name           string     `gorm:"not null" json:"name"`
	Slug           string     `gorm:"uniqueIndex" json:"slug"`
	Format         string     `gorm:"type:varchar(32);default:'single_elimination'" json:"format"`
	Status         string     `gorm:"type:varchar(16);default:'registration';index" json:"status"`
	MaxPlayers     int        `gorm:"not null" json:"max_players"` // 8 or 16
	CurrentPlayers int        `gorm:"default:0" json:"current_players"`
	PrizePoints    int64      `gorm:"default:100" json:"prize_points"`
	CreatedBy      string     `gorm:"index;not null" json:"created_by"`
	WinnerID       *string    `json:"winner_id,omitempty"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TournamentParticipant is a user's entry with their seed. Seeds are handed
// out in join order; seed 1 is the creator.
type TournamentParticipant struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TournamentID  string    `gorm:"index:idx_tournament_user,unique;not null" json:"tournament_id"`
	UserID        string    `gorm:"index:idx_tournament_user,unique;not null" json:"user_id"`
	Seed          int       `gorm:"not null" json:"seed"`
	Eliminated    bool      `gorm:"default:false" json:"eliminated"`
	FinalPosition *int      `json:"final_position,omitempty"`
	JoinedAt      time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TournamentMatch is one bracket slot. Player ids stay nil until seeding or
// winner propagation fills them; winner propagation only ever writes into a
// nil slot so concurrent sibling completions cannot clobber each other.
type TournamentMatch struct {
	ID           string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	TournamentID string     `gorm:"index;not null" json:"tournament_id"`
	Round        int        `gorm:"not null" json:"round"`
	MatchNumber  int        `gorm:"not null" json:"match_number"`
	Player1ID    *string    `json:"player1_id"`
	Player2ID    *string    `json:"player2_id"`
	WinnerID     *string    `json:"winner_id"`
	RoomID       *string    `gorm:"index" json:"room_id"`
	Status       string     `gorm:"type:varchar(16);default:'pending'" json:"status"`
	ScheduledAt  *time.Time `json:"scheduled_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Filled from participants for API responses, not stored.
	Player1Username *string `gorm:"-" json:"player1_username,omitempty"`
	Player2Username *string `gorm:"-" json:"player2_username,omitempty"`
	WinnerUsername  *string `gorm:"-" json:"winner_username,omitempty"`
}
