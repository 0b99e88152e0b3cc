package services

import (
	"testing"

	"game-arena-system/models"
)

func participantList(n int) []models.TournamentParticipant {
	ids := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10", "u11", "u12", "u13", "u14", "u15", "u16"}
	out := make([]models.TournamentParticipant, n)
	for i := 0; i < n; i++ {
		out[i] = models.TournamentParticipant{UserID: ids[i], Seed: i + 1}
	}
	return out
}

func TestRoundCount(t *testing.T) {
	tests := []struct {
		maxPlayers int
		want       int
	}{
		{2, 1},
		{4, 2},
		{8, 3},
		{16, 4},
	}
	for _, tt := range tests {
		if got := RoundCount(tt.maxPlayers); got != tt.want {
			t.Errorf("RoundCount(%d) = %d, want %d", tt.maxPlayers, got, tt.want)
		}
	}
}

func TestRoundLabel(t *testing.T) {
	tests := []struct {
		round, totalRounds int
		want               string
	}{
		{4, 4, "Finals"},
		{3, 4, "Semi-Finals"},
		{2, 4, "Quarter-Finals"},
		{1, 4, "Round 1"},
		{3, 3, "Finals"},
		{1, 3, "Quarter-Finals"},
	}
	for _, tt := range tests {
		if got := RoundLabel(tt.round, tt.totalRounds); got != tt.want {
			t.Errorf("RoundLabel(%d, %d) = %q, want %q", tt.round, tt.totalRounds, got, tt.want)
		}
	}
}

func TestNextMatchSlot(t *testing.T) {
	tests := []struct {
		round, matchNumber int
		want               BracketSlot
	}{
		{1, 1, BracketSlot{Round: 2, MatchNumber: 1, Position: "player1"}},
		{1, 2, BracketSlot{Round: 2, MatchNumber: 1, Position: "player2"}},
		{1, 3, BracketSlot{Round: 2, MatchNumber: 2, Position: "player1"}},
		{1, 4, BracketSlot{Round: 2, MatchNumber: 2, Position: "player2"}},
		{2, 1, BracketSlot{Round: 3, MatchNumber: 1, Position: "player1"}},
		{2, 2, BracketSlot{Round: 3, MatchNumber: 1, Position: "player2"}},
		{3, 1, BracketSlot{Round: 4, MatchNumber: 1, Position: "player1"}},
	}
	for _, tt := range tests {
		if got := NextMatchSlot(tt.round, tt.matchNumber); got != tt.want {
			t.Errorf("NextMatchSlot(%d, %d) = %+v, want %+v", tt.round, tt.matchNumber, got, tt.want)
		}
	}
}

func TestGenerateBracketFull(t *testing.T) {
	matches := GenerateBracket(participantList(8), 8, "t1")

	if len(matches) != 7 {
		t.Fatalf("expected 7 matches for 8 players, got %d", len(matches))
	}

	// Standard seeding: 1v8, 2v7, 3v6, 4v5.
	wantPairs := [][2]string{{"u1", "u8"}, {"u2", "u7"}, {"u3", "u6"}, {"u4", "u5"}}
	for i, pair := range wantPairs {
		m := matches[i]
		if m.Round != 1 || m.MatchNumber != i+1 {
			t.Fatalf("match %d has round=%d number=%d", i, m.Round, m.MatchNumber)
		}
		if m.Player1ID == nil || *m.Player1ID != pair[0] {
			t.Errorf("match %d player1 = %v, want %s", i+1, m.Player1ID, pair[0])
		}
		if m.Player2ID == nil || *m.Player2ID != pair[1] {
			t.Errorf("match %d player2 = %v, want %s", i+1, m.Player2ID, pair[1])
		}
		if m.Status != models.MatchPending {
			t.Errorf("match %d status = %s, want pending", i+1, m.Status)
		}
	}

	// Rounds 2 and 3 start empty.
	for _, m := range matches[4:] {
		if m.Player1ID != nil || m.Player2ID != nil || m.WinnerID != nil {
			t.Errorf("round %d match %d should be empty", m.Round, m.MatchNumber)
		}
	}
}

func TestGenerateBracketWithByes(t *testing.T) {
	// 5 players in an 8 bracket: seeds 6, 7, 8 are absent.
	matches := GenerateBracket(participantList(5), 8, "t1")

	byField := func(round, number int) *models.TournamentMatch {
		for i := range matches {
			if matches[i].Round == round && matches[i].MatchNumber == number {
				return &matches[i]
			}
		}
		return nil
	}

	// 1v8: seed 8 missing, u1 advances on a bye.
	m := byField(1, 1)
	if m.Status != models.MatchBye {
		t.Errorf("match 1 status = %s, want bye", m.Status)
	}
	if m.WinnerID == nil || *m.WinnerID != "u1" {
		t.Errorf("match 1 winner = %v, want u1", m.WinnerID)
	}

	// 4v5: both present, plays out.
	m = byField(1, 4)
	if m.Status != models.MatchPending {
		t.Errorf("match 4 status = %s, want pending", m.Status)
	}
	if m.WinnerID != nil {
		t.Errorf("match 4 winner = %v, want nil", m.WinnerID)
	}
}

func TestPropagateByes(t *testing.T) {
	matches := GenerateBracket(participantList(5), 8, "t1")
	matches = PropagateByes(matches, 3)

	byField := func(round, number int) *models.TournamentMatch {
		for i := range matches {
			if matches[i].Round == round && matches[i].MatchNumber == number {
				return &matches[i]
			}
		}
		return nil
	}

	// Byes in matches 1 (u1), 2 (u2), 3 (u3) feed round 2.
	semi1 := byField(2, 1)
	if semi1.Player1ID == nil || *semi1.Player1ID != "u1" {
		t.Errorf("round 2 match 1 player1 = %v, want u1", semi1.Player1ID)
	}
	if semi1.Player2ID == nil || *semi1.Player2ID != "u2" {
		t.Errorf("round 2 match 1 player2 = %v, want u2", semi1.Player2ID)
	}
	// Both feeders were byes but two real players landed here: play it out.
	if semi1.Status != models.MatchPending {
		t.Errorf("round 2 match 1 status = %s, want pending", semi1.Status)
	}

	semi2 := byField(2, 2)
	if semi2.Player1ID == nil || *semi2.Player1ID != "u3" {
		t.Errorf("round 2 match 2 player1 = %v, want u3", semi2.Player1ID)
	}
	// 4v5 still has to play, so player2 stays open.
	if semi2.Player2ID != nil {
		t.Errorf("round 2 match 2 player2 = %v, want nil", semi2.Player2ID)
	}
	if semi2.Status != models.MatchPending {
		t.Errorf("round 2 match 2 status = %s, want pending", semi2.Status)
	}
}

func TestPropagateByesChains(t *testing.T) {
	// 2 players in an 8 bracket: u1 and u2 should meet in the final without
	// anyone touching the empty side of the bracket.
	matches := GenerateBracket(participantList(2), 8, "t1")
	matches = PropagateByes(matches, 3)

	byField := func(round, number int) *models.TournamentMatch {
		for i := range matches {
			if matches[i].Round == round && matches[i].MatchNumber == number {
				return &matches[i]
			}
		}
		return nil
	}

	// Matches 1 (1v8) and 2 (2v7) are byes for u1 and u2, which both feed
	// match 1 of round 2.
	semi1 := byField(2, 1)
	if semi1.Player1ID == nil || *semi1.Player1ID != "u1" {
		t.Fatalf("semi 1 player1 = %v, want u1", semi1.Player1ID)
	}
	if semi1.Player2ID == nil || *semi1.Player2ID != "u2" {
		t.Fatalf("semi 1 player2 = %v, want u2", semi1.Player2ID)
	}
	if semi1.Status != models.MatchPending {
		t.Errorf("semi 1 status = %s, want pending", semi1.Status)
	}

	// The other half of the bracket is empty all the way down.
	semi2 := byField(2, 2)
	if semi2.Status != models.MatchBye {
		t.Errorf("semi 2 status = %s, want bye", semi2.Status)
	}
	if semi2.WinnerID != nil {
		t.Errorf("semi 2 winner = %v, want nil", semi2.WinnerID)
	}
}
