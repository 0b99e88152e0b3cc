package services

import (
	"testing"

	"game-arena-system/models"
)

func TestFriendRespondOutcome(t *testing.T) {
	pending := models.Friendship{
		RequesterID: "alice",
		AddresseeID: "bob",
		Status:      models.FriendshipPending,
	}
	accepted := pending
	accepted.Status = models.FriendshipAccepted

	tests := []struct {
		name       string
		friendship models.Friendship
		actorID    string
		action     string
		wantStatus string
		wantCode   int
	}{
		{"addressee accepts", pending, "bob", "accept", models.FriendshipAccepted, 0},
		{"addressee blocks", pending, "bob", "block", models.FriendshipBlocked, 0},
		{"requester cannot accept", pending, "alice", "accept", "", 403},
		{"outsider cannot accept", pending, "carol", "accept", "", 403},
		{"unknown action", pending, "bob", "befriend", "", 400},
		{"already accepted", accepted, "bob", "accept", "", 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := friendRespondOutcome(tt.friendship, tt.actorID, tt.action)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("got (%q, %d), want (%q, %d)", status, code, tt.wantStatus, tt.wantCode)
			}
			if code != 0 && msg == "" {
				t.Error("rejection should carry a message")
			}
		})
	}
}

func TestIsFriendshipParty(t *testing.T) {
	f := models.Friendship{RequesterID: "alice", AddresseeID: "bob"}
	if !isFriendshipParty(f, "alice") || !isFriendshipParty(f, "bob") {
		t.Error("both parties should pass")
	}
	if isFriendshipParty(f, "carol") {
		t.Error("outsider should not pass")
	}
}
