package services

import (
	"math"
	"testing"
)

func TestKFactor(t *testing.T) {
	tests := []struct {
		totalGames int
		want       int
	}{
		{0, 40},
		{29, 40},
		{30, 32},
		{99, 32},
		{100, 24},
		{500, 24},
	}
	for _, tt := range tests {
		if got := KFactor(tt.totalGames); got != tt.want {
			t.Errorf("KFactor(%d) = %d, want %d", tt.totalGames, got, tt.want)
		}
	}
}

func TestExpectedScore(t *testing.T) {
	// Equal ratings mean a coin flip.
	if got := ExpectedScore(1000, 1000); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("ExpectedScore(1000, 1000) = %f, want 0.5", got)
	}

	// A 400-point gap is a 10:1 favorite.
	if got := ExpectedScore(1400, 1000); math.Abs(got-10.0/11.0) > 1e-9 {
		t.Errorf("ExpectedScore(1400, 1000) = %f, want %f", got, 10.0/11.0)
	}

	// Symmetry: both sides sum to 1.
	a, b := ExpectedScore(1234, 987), ExpectedScore(987, 1234)
	if math.Abs(a+b-1) > 1e-9 {
		t.Errorf("expected scores do not sum to 1: %f + %f", a, b)
	}
}

func TestCalculateEloChange(t *testing.T) {
	// Evenly matched new players swing half the k-factor.
	change := CalculateEloChange(1000, 1000, 40, 40)
	if change.WinnerGain != 20 || change.LoserLoss != 20 {
		t.Errorf("even match change = +%d/-%d, want +20/-20", change.WinnerGain, change.LoserLoss)
	}
	if change.WinnerNewElo != 1020 || change.LoserNewElo != 980 {
		t.Errorf("even match ratings = %d/%d, want 1020/980", change.WinnerNewElo, change.LoserNewElo)
	}

	// An upset moves more points than a favorite winning.
	upset := CalculateEloChange(1000, 1400, 40, 40)
	expected := CalculateEloChange(1400, 1000, 40, 40)
	if upset.WinnerGain <= expected.WinnerGain {
		t.Errorf("upset gain %d should exceed favorite gain %d", upset.WinnerGain, expected.WinnerGain)
	}
}

func TestCalculateEloChangeClamps(t *testing.T) {
	// Loser near the floor cannot go below it.
	change := CalculateEloChange(1000, 105, 40, 40)
	if change.LoserNewElo < 100 {
		t.Errorf("loser rating %d went below floor", change.LoserNewElo)
	}

	// Winner near the ceiling cannot exceed it.
	change = CalculateEloChange(2995, 2990, 40, 40)
	if change.WinnerNewElo > 3000 {
		t.Errorf("winner rating %d went above ceiling", change.WinnerNewElo)
	}
}

func TestCalculateDrawChange(t *testing.T) {
	// Equal ratings: a draw moves nothing.
	c1, c2 := CalculateDrawChange(1000, 1000, 40, 40)
	if c1 != 0 || c2 != 0 {
		t.Errorf("even draw change = %d/%d, want 0/0", c1, c2)
	}

	// The lower-rated player gains from a draw, the higher-rated loses.
	c1, c2 = CalculateDrawChange(1200, 1000, 40, 40)
	if c1 >= 0 {
		t.Errorf("higher-rated draw change = %d, want negative", c1)
	}
	if c2 <= 0 {
		t.Errorf("lower-rated draw change = %d, want positive", c2)
	}
}
