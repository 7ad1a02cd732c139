package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tessyr/starfall/api/internal/model"
	"github.com/tessyr/starfall/api/internal/repository"
	"github.com/tessyr/starfall/api/pkg/starfall"
)

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrGameNotWaiting = errors.New("game is not in waiting status")
	ErrGameNotActive  = errors.New("game is not active")
	ErrGameFull       = errors.New("game already has 4 players")
	ErrNotEnough      = errors.New("need at least 2 players to start")
	ErrNotCreator     = errors.New("only the creator can start the game")
	ErrAlreadyJoined  = errors.New("already joined this game")
	ErrNotInGame      = errors.New("you are not in this game")
)

// allFactions are the playable factions, matched to the standard
// galaxy's home systems.
var allFactions = []string{"red", "blue", "green", "yellow"}

// GameService handles game lifecycle operations.
type GameService struct {
	gameRepo repository.GameRepository
	cache    repository.GameCache
}

// NewGameService creates a GameService.
func NewGameService(gameRepo repository.GameRepository, cache repository.GameCache) *GameService {
	return &GameService{gameRepo: gameRepo, cache: cache}
}

// CreateGame creates a new game in "waiting" status. The creator joins
// automatically.
func (s *GameService) CreateGame(ctx context.Context, name, creatorID, turnDur string) (*model.Game, error) {
	turnDur = toPgInterval(turnDur, "24 hours")

	game, err := s.gameRepo.Create(ctx, name, creatorID, turnDur)
	if err != nil {
		return nil, err
	}
	if err := s.gameRepo.JoinGame(ctx, game.ID, creatorID); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, game.ID)
}

// JoinGame adds a player to a waiting game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}

	for _, p := range game.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}

	count, err := s.gameRepo.PlayerCount(ctx, gameID)
	if err != nil {
		return err
	}
	if count >= len(allFactions) {
		return ErrGameFull
	}
	return s.gameRepo.JoinGame(ctx, gameID, userID)
}

// StartGame assigns factions, builds the initial galaxy, and activates
// the game.
func (s *GameService) StartGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "waiting" {
		return nil, ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if len(game.Players) < 2 {
		return nil, ErrNotEnough
	}

	// Factions are assigned in join order so each lines up with its home
	// system on the standard galaxy.
	assignments := make(map[string]string)
	var players []starfall.PlayerID
	for i, p := range game.Players {
		assignments[p.UserID] = allFactions[i]
		players = append(players, starfall.PlayerID(allFactions[i]))
	}

	if err := s.gameRepo.AssignFactions(ctx, gameID, assignments); err != nil {
		return nil, err
	}

	initial := starfall.NewInitialState(players)
	initial.ActivePlayer = players[0]
	stateJSON, err := json.Marshal(initial)
	if err != nil {
		return nil, fmt.Errorf("marshal initial state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, gameID, stateJSON); err != nil {
		return nil, fmt.Errorf("cache initial state: %w", err)
	}

	if err := s.gameRepo.SetStatus(ctx, gameID, "active"); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// GetGame returns a game by ID.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// ListGames returns open games or games the user is in.
func (s *GameService) ListGames(ctx context.Context, userID, filter string) ([]model.Game, error) {
	if filter == "my" {
		return s.gameRepo.ListByUser(ctx, userID)
	}
	return s.gameRepo.ListOpen(ctx)
}

// StopGame ends an active game without a winner. Creator only.
func (s *GameService) StopGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if err := s.gameRepo.SetFinished(ctx, gameID, ""); err != nil {
		return nil, err
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// DeleteGame removes a waiting game. Creator only.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	if game.CreatorID != userID {
		return ErrNotCreator
	}
	return s.gameRepo.Delete(ctx, gameID)
}

// factionOf returns the faction assigned to a user in the game, or "".
func factionOf(game *model.Game, userID string) string {
	for _, p := range game.Players {
		if p.UserID == userID {
			return p.Faction
		}
	}
	return ""
}

// gameFactions returns the factions assigned in a game.
func gameFactions(game *model.Game) []string {
	var factions []string
	for _, p := range game.Players {
		if p.Faction != "" {
			factions = append(factions, p.Faction)
		}
	}
	return factions
}

// toPgInterval converts Go-style duration strings (e.g. "5m", "1h") to
// PostgreSQL interval format. Returns defaultVal if input is empty or
// malformed.
func toPgInterval(s, defaultVal string) string {
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%d seconds", totalSeconds)
	}
	return fmt.Sprintf("%d minutes", totalSeconds/60)
}

// parseDuration converts Postgres interval strings like "24:00:00" or Go
// duration strings like "5m" to time.Duration.
func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err == nil {
		return d
	}
	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		h, e1 := strconv.Atoi(parts[0])
		m, e2 := strconv.Atoi(parts[1])
		sec, e3 := strconv.Atoi(parts[2])
		if e1 == nil && e2 == nil && e3 == nil {
			return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
		}
	}
	return 24 * time.Hour
}
