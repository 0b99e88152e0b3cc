package services

import (
	"errors"
	"math"

	"game-arena-system/models"

	"gorm.io/gorm"
)

// Chess-style ELO for ranked 1v1 matches.

const (
	kFactorProvisional = 40 // first 30 games
	kFactorEstablished = 32 // 30-100 games
	kFactorExpert      = 24 // 100+ games

	minElo     = 100
	maxElo     = 3000
	initialElo = 1000
)

// KFactor scales rating swings by experience.
func KFactor(totalGames int) int {
	if totalGames < 30 {
		return kFactorProvisional
	}
	if totalGames < 100 {
		return kFactorEstablished
	}
	return kFactorExpert
}

// ExpectedScore is the standard logistic win probability.
func ExpectedScore(playerElo, opponentElo int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponentElo-playerElo)/400))
}

// EloChange holds both sides of a decisive result.
type EloChange struct {
	WinnerGain   int
	LoserLoss    int
	WinnerNewElo int
	LoserNewElo  int
}

func clampElo(elo int) int {
	if elo < minElo {
		return minElo
	}
	if elo > maxElo {
		return maxElo
	}
	return elo
}

// CalculateEloChange computes rating movement for a win/loss result.
func CalculateEloChange(winnerElo, loserElo, kWinner, kLoser int) EloChange {
	expectedWin := ExpectedScore(winnerElo, loserElo)
	gain := int(math.Round(float64(kWinner) * (1 - expectedWin)))
	loss := int(math.Round(float64(kLoser) * (1 - expectedWin)))

	return EloChange{
		WinnerGain:   gain,
		LoserLoss:    loss,
		WinnerNewElo: clampElo(winnerElo + gain),
		LoserNewElo:  clampElo(loserElo - loss),
	}
}

// CalculateDrawChange computes rating movement for a draw: the lower-rated
// player gains what the higher-rated player loses, scaled by k-factors.
func CalculateDrawChange(elo1, elo2, k1, k2 int) (change1, change2 int) {
	expected1 := ExpectedScore(elo1, elo2)
	change1 = int(math.Round(float64(k1) * (0.5 - expected1)))
	change2 = int(math.Round(float64(k2) * (0.5 - (1 - expected1))))
	return change1, change2
}

// MatchResult is the input to a rating update after a room finishes.
type MatchResult struct {
	WinnerID string
	LoserID  string
	GameID   string
	Mode     string
	IsDraw   bool
}

type EloService struct {
	DB *gorm.DB
}

func NewEloService(db *gorm.DB) *EloService {
	return &EloService{DB: db}
}

// GetOrCreateStats returns the stats row for user+game+mode, creating it at
// the initial rating when absent. Insert races fall back to a re-read.
func (s *EloService) GetOrCreateStats(userID, gameID, mode string) (*models.MultiplayerStats, error) {
	var stats models.MultiplayerStats
	err := s.DB.Where("user_id = ? AND game_id = ? AND mode = ?", userID, gameID, mode).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats = models.MultiplayerStats{
		UserID:     userID,
		GameID:     gameID,
		Mode:       mode,
		EloRating:  initialElo,
		HighestElo: initialElo,
		LowestElo:  initialElo,
	}
	if err := s.DB.Create(&stats).Error; err != nil {
		// Concurrent create: the row exists now, use it.
		var existing models.MultiplayerStats
		if rerr := s.DB.Where("user_id = ? AND game_id = ? AND mode = ?", userID, gameID, mode).First(&existing).Error; rerr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &stats, nil
}

// ApplyMatchResult updates both players' stats rows after a ranked match.
// Callers on the forfeit path treat this as best-effort: failures are logged
// by the caller and never surfaced to the leaving player.
func (s *EloService) ApplyMatchResult(result MatchResult) error {
	if result.Mode != models.Mode1v1Ranked {
		return nil
	}
	if result.WinnerID == "" || result.LoserID == "" {
		return errors.New("elo: match result is missing a player id")
	}

	winner, err := s.GetOrCreateStats(result.WinnerID, result.GameID, result.Mode)
	if err != nil {
		return err
	}
	loser, err := s.GetOrCreateStats(result.LoserID, result.GameID, result.Mode)
	if err != nil {
		return err
	}

	if result.IsDraw {
		return s.applyDraw(winner, loser)
	}

	change := CalculateEloChange(winner.EloRating, loser.EloRating, KFactor(winner.TotalGames), KFactor(loser.TotalGames))

	winner.Wins++
	winner.TotalGames++
	winner.EloRating = change.WinnerNewElo
	if change.WinnerNewElo > winner.HighestElo {
		winner.HighestElo = change.WinnerNewElo
	}
	winner.WinStreak++
	if winner.WinStreak > winner.BestWinStreak {
		winner.BestWinStreak = winner.WinStreak
	}
	winner.LossStreak = 0

	loser.Losses++
	loser.TotalGames++
	loser.EloRating = change.LoserNewElo
	if change.LoserNewElo < loser.LowestElo {
		loser.LowestElo = change.LoserNewElo
	}
	loser.WinStreak = 0
	loser.LossStreak++
	if loser.LossStreak > loser.WorstLossStreak {
		loser.WorstLossStreak = loser.LossStreak
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(winner).Error; err != nil {
			return err
		}
		return tx.Save(loser).Error
	})
}

func (s *EloService) applyDraw(stats1, stats2 *models.MultiplayerStats) error {
	change1, change2 := CalculateDrawChange(stats1.EloRating, stats2.EloRating, KFactor(stats1.TotalGames), KFactor(stats2.TotalGames))

	stats1.Draws++
	stats1.TotalGames++
	stats1.EloRating = clampElo(stats1.EloRating + change1)
	stats1.WinStreak = 0
	stats1.LossStreak = 0

	stats2.Draws++
	stats2.TotalGames++
	stats2.EloRating = clampElo(stats2.EloRating + change2)
	stats2.WinStreak = 0
	stats2.LossStreak = 0

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(stats1).Error; err != nil {
			return err
		}
		return tx.Save(stats2).Error
	})
}

// PlayerRank returns the 1-based leaderboard position for a player within a
// game+mode, or 0 when they have no stats row yet.
func (s *EloService) PlayerRank(userID, gameID, mode string) (int, error) {
	var stats models.MultiplayerStats
	if err := s.DB.Where("user_id = ? AND game_id = ? AND mode = ?", userID, gameID, mode).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	var better int64
	if err := s.DB.Model(&models.MultiplayerStats{}).
		Where("game_id = ? AND mode = ? AND elo_rating > ?", gameID, mode, stats.EloRating).
		Count(&better).Error; err != nil {
		return 0, err
	}
	return int(better) + 1, nil
}
