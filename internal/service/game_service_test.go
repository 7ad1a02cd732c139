package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/tessyr/starfall/api/pkg/starfall"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"24h", 24 * time.Hour},
		{"1h30m", 90 * time.Minute},
		{"", 24 * time.Hour},
		{"24:00:00", 24 * time.Hour},
		{"00:05:00", 5 * time.Minute},
		{"bogus", 24 * time.Hour},
	}
	for _, tt := range tests {
		got := parseDuration(tt.input)
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestToPgInterval(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "24 hours"},
		{"48h", "2880 minutes"},
		{"30s", "30 seconds"},
		{"junk", "24 hours"},
	}
	for _, tt := range tests {
		got := toPgInterval(tt.input, "24 hours")
		if got != tt.want {
			t.Errorf("toPgInterval(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCreateGame(t *testing.T) {
	gameRepo := newMockGameRepo()
	svc := NewGameService(gameRepo, newMockCache())

	game, err := svc.CreateGame(context.Background(), "Test Game", "user-1", "")
	if err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if game.Name != "Test Game" {
		t.Errorf("expected name 'Test Game', got %s", game.Name)
	}
	if game.Status != "waiting" {
		t.Errorf("expected status 'waiting', got %s", game.Status)
	}
	if game.TurnDuration != "24 hours" {
		t.Errorf("expected default turn duration '24 hours', got %s", game.TurnDuration)
	}
	if len(game.Players) != 1 || game.Players[0].UserID != "user-1" {
		t.Errorf("expected creator auto-joined, got %+v", game.Players)
	}
}

func TestJoinGame(t *testing.T) {
	gameRepo := newMockGameRepo()
	svc := NewGameService(gameRepo, newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")

	if err := svc.JoinGame(context.Background(), game.ID, "user-2"); err != nil {
		t.Fatalf("JoinGame: %v", err)
	}
	if len(gameRepo.players[game.ID]) != 2 {
		t.Fatalf("expected 2 players, got %d", len(gameRepo.players[game.ID]))
	}
}

func TestJoinGameNotFound(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	err := svc.JoinGame(context.Background(), "nonexistent", "user-1")
	if err != ErrGameNotFound {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestJoinGameTwice(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	err := svc.JoinGame(context.Background(), game.ID, "user-1")
	if err != ErrAlreadyJoined {
		t.Errorf("expected ErrAlreadyJoined, got %v", err)
	}
}

func TestJoinGameFull(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	for _, u := range []string{"user-2", "user-3", "user-4"} {
		if err := svc.JoinGame(context.Background(), game.ID, u); err != nil {
			t.Fatalf("JoinGame(%s): %v", u, err)
		}
	}
	err := svc.JoinGame(context.Background(), game.ID, "user-5")
	if err != ErrGameFull {
		t.Errorf("expected ErrGameFull, got %v", err)
	}
}

func TestStartGame(t *testing.T) {
	gameRepo := newMockGameRepo()
	cache := newMockCache()
	svc := NewGameService(gameRepo, cache)

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	svc.JoinGame(context.Background(), game.ID, "user-2")

	started, err := svc.StartGame(context.Background(), game.ID, "user-1")
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	if started.Status != "active" {
		t.Errorf("expected status 'active', got %s", started.Status)
	}

	seen := make(map[string]bool)
	for _, p := range started.Players {
		if p.Faction == "" {
			t.Errorf("player %s has no faction", p.UserID)
		}
		if seen[p.Faction] {
			t.Errorf("faction %s assigned twice", p.Faction)
		}
		seen[p.Faction] = true
	}

	stateJSON := cache.states[game.ID]
	if stateJSON == nil {
		t.Fatal("expected initial state in cache")
	}
	var gs starfall.GameState
	if err := json.Unmarshal(stateJSON, &gs); err != nil {
		t.Fatalf("unmarshal cached state: %v", err)
	}
	if gs.Round != 1 {
		t.Errorf("expected round 1, got %d", gs.Round)
	}
	for _, p := range started.Players {
		if gs.UnitCount(starfall.PlayerID(p.Faction)) == 0 {
			t.Errorf("faction %s has no starting units", p.Faction)
		}
	}
}

func TestStartGameRequiresCreator(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	svc.JoinGame(context.Background(), game.ID, "user-2")

	if _, err := svc.StartGame(context.Background(), game.ID, "user-2"); err != ErrNotCreator {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}
}

func TestStartGameNeedsTwoPlayers(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	if _, err := svc.StartGame(context.Background(), game.ID, "user-1"); err != ErrNotEnough {
		t.Errorf("expected ErrNotEnough, got %v", err)
	}
}

func TestStopGame(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	svc.JoinGame(context.Background(), game.ID, "user-2")
	svc.StartGame(context.Background(), game.ID, "user-1")

	stopped, err := svc.StopGame(context.Background(), game.ID, "user-1")
	if err != nil {
		t.Fatalf("StopGame: %v", err)
	}
	if stopped.Status != "finished" {
		t.Errorf("expected status 'finished', got %s", stopped.Status)
	}
}

func TestDeleteGameOnlyWaiting(t *testing.T) {
	svc := NewGameService(newMockGameRepo(), newMockCache())

	game, _ := svc.CreateGame(context.Background(), "Test", "user-1", "")
	svc.JoinGame(context.Background(), game.ID, "user-2")
	svc.StartGame(context.Background(), game.ID, "user-1")

	if err := svc.DeleteGame(context.Background(), game.ID, "user-1"); err != ErrGameNotWaiting {
		t.Errorf("expected ErrGameNotWaiting, got %v", err)
	}
}
