package services

import (
	"fmt"

	"game-arena-system/models"

	"github.com/google/uuid"
)

// Single-elimination bracket arithmetic. All of this assumes a bracket size
// that is an exact power of two (8 or 16 in practice); handlers validate
// max_players before anything here runs.

// BracketSlot identifies where a match winner lands in the next round.
type BracketSlot struct {
	Round       int    `json:"round"`
	MatchNumber int    `json:"match_number"`
	Position    string `json:"position"` // "player1" or "player2"
}

// RoundCount returns log2(maxPlayers): 3 for 8 players, 4 for 16.
func RoundCount(maxPlayers int) int {
	rounds := 0
	for n := maxPlayers; n > 1; n /= 2 {
		rounds++
	}
	return rounds
}

// RoundLabel names a round for display. Round 1 has the most matches; the
// highest round is the final.
func RoundLabel(round, totalRounds int) string {
	switch totalRounds - round + 1 {
	case 1:
		return "Finals"
	case 2:
		return "Semi-Finals"
	case 3:
		return "Quarter-Finals"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

// NextMatchSlot maps a completed match to the slot its winner occupies.
// Matches 2k-1 and 2k of round r feed match k of round r+1; the odd-numbered
// feeder takes the player1 slot.
func NextMatchSlot(round, matchNumber int) BracketSlot {
	position := "player2"
	if matchNumber%2 == 1 {
		position = "player1"
	}
	return BracketSlot{
		Round:       round + 1,
		MatchNumber: (matchNumber + 1) / 2,
		Position:    position,
	}
}

// GenerateBracket builds every match row for a single-elimination bracket.
// First-round pairings use standard seeding (1 vs N, 2 vs N-1, ...); a
// pairing with exactly one present player is a bye with that player already
// declared winner. Later rounds are created empty and fill as winners
// advance.
func GenerateBracket(participants []models.TournamentParticipant, maxPlayers int, tournamentID string) []models.TournamentMatch {
	seedToPlayer := make(map[int]string, len(participants))
	for _, p := range participants {
		seedToPlayer[p.Seed] = p.UserID
	}

	totalRounds := RoundCount(maxPlayers)
	matches := make([]models.TournamentMatch, 0, maxPlayers-1)

	for i := 0; i < maxPlayers/2; i++ {
		var player1, player2 *string
		if id, ok := seedToPlayer[i+1]; ok {
			player1 = &id
		}
		if id, ok := seedToPlayer[maxPlayers-i]; ok {
			player2 = &id
		}

		m := models.TournamentMatch{
			ID:           uuid.NewString(),
			TournamentID: tournamentID,
			Round:        1,
			MatchNumber:  i + 1,
			Player1ID:    player1,
			Player2ID:    player2,
			Status:       models.MatchPending,
		}
		if (player1 == nil) != (player2 == nil) {
			m.Status = models.MatchBye
			if player1 != nil {
				m.WinnerID = player1
			} else {
				m.WinnerID = player2
			}
		} else if player1 == nil && player2 == nil {
			// Empty pairing: a bye with no winner, resolved by PropagateByes.
			m.Status = models.MatchBye
		}
		matches = append(matches, m)
	}

	for round := 2; round <= totalRounds; round++ {
		matchCount := maxPlayers >> round
		for i := 0; i < matchCount; i++ {
			matches = append(matches, models.TournamentMatch{
				ID:           uuid.NewString(),
				TournamentID: tournamentID,
				Round:        round,
				MatchNumber:  i + 1,
				Status:       models.MatchPending,
			})
		}
	}

	return matches
}

// PropagateByes pushes bye winners into their next-round slots, round by
// round. When both feeders of a match are byes, the match itself becomes a
// bye unless both slots got filled (two real advancing players).
func PropagateByes(matches []models.TournamentMatch, totalRounds int) []models.TournamentMatch {
	index := make(map[[2]int]*models.TournamentMatch, len(matches))
	for i := range matches {
		index[[2]int{matches[i].Round, matches[i].MatchNumber}] = &matches[i]
	}

	for round := 1; round < totalRounds; round++ {
		for i := range matches {
			m := &matches[i]
			if m.Round != round || m.Status != models.MatchBye || m.WinnerID == nil {
				continue
			}
			slot := NextMatchSlot(m.Round, m.MatchNumber)
			next := index[[2]int{slot.Round, slot.MatchNumber}]
			if next == nil {
				continue
			}
			if slot.Position == "player1" {
				next.Player1ID = m.WinnerID
			} else {
				next.Player2ID = m.WinnerID
			}
		}

		// Resolve next-round matches whose feeders were both byes.
		for k := 1; k <= len(matches); k++ {
			next := index[[2]int{round + 1, k}]
			if next == nil {
				break
			}
			left := index[[2]int{round, 2*k - 1}]
			right := index[[2]int{round, 2 * k}]
			if left == nil || right == nil {
				continue
			}
			if left.Status != models.MatchBye || right.Status != models.MatchBye {
				continue
			}
			if next.Player1ID != nil && next.Player2ID != nil {
				continue // two real players advanced, play it out
			}
			next.Status = models.MatchBye
			if next.Player1ID != nil {
				next.WinnerID = next.Player1ID
			} else if next.Player2ID != nil {
				next.WinnerID = next.Player2ID
			}
		}
	}

	return matches
}
