package services

import (
	"strings"
	"testing"

	"game-arena-system/models"
)

func TestGenerateRoomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateRoomCode()
		if len(code) != 6 {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		for _, ch := range code {
			if !strings.ContainsRune(roomCodeChars, ch) {
				t.Fatalf("code %q contains disallowed character %q", code, ch)
			}
		}
	}
}

func TestNormalizeRoomCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc234", "ABC234"},
		{"  XYZ789  ", "XYZ789"},
		{"AbC23x", "ABC23X"},
	}
	for _, tt := range tests {
		if got := normalizeRoomCode(tt.in); got != tt.want {
			t.Errorf("normalizeRoomCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidRoomCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABC234", true},
		{"Z9Z9Z9", true},
		{"abc234", false}, // lower case is normalized before validation
		{"ABC23", false},
		{"ABC2345", false},
		{"ABC-34", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validRoomCode(tt.code); got != tt.want {
			t.Errorf("validRoomCode(%q) = %t, want %t", tt.code, got, tt.want)
		}
	}
}

func TestValidRoomMode(t *testing.T) {
	for _, mode := range []string{models.Mode1v1Ranked, models.Mode1v1Casual, models.ModeCollaborative} {
		if !validRoomMode(mode) {
			t.Errorf("validRoomMode(%q) = false, want true", mode)
		}
	}
	for _, mode := range []string{"", "ranked", "1v1", "coop"} {
		if validRoomMode(mode) {
			t.Errorf("validRoomMode(%q) = true, want false", mode)
		}
	}
}

func TestModeCapacity(t *testing.T) {
	tests := []struct {
		mode string
		want int
	}{
		{models.Mode1v1Ranked, 2},
		{models.Mode1v1Casual, 2},
		{models.ModeCollaborative, 4},
	}
	for _, tt := range tests {
		if got := modeCapacity(tt.mode); got != tt.want {
			t.Errorf("modeCapacity(%q) = %d, want %d", tt.mode, got, tt.want)
		}
	}
}

func TestQueueModeToRoomMode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"ranked", models.Mode1v1Ranked, true},
		{"casual", models.Mode1v1Casual, true},
		{"collaborative", "", false},
		{"1v1-ranked", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := queueModeToRoomMode(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("queueModeToRoomMode(%q) = (%q, %t), want (%q, %t)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
