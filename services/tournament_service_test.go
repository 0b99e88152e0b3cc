package services

import "testing"

func TestValidTournamentSize(t *testing.T) {
	tests := []struct {
		maxPlayers int
		want       bool
	}{
		{8, true},
		{16, true},
		{0, false},
		{2, false},
		{4, false},
		{12, false},
		{32, false},
	}
	for _, tt := range tests {
		if got := validTournamentSize(tt.maxPlayers); got != tt.want {
			t.Errorf("validTournamentSize(%d) = %t, want %t", tt.maxPlayers, got, tt.want)
		}
	}
}
