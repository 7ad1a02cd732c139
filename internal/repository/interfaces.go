package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tessyr/starfall/api/internal/model"
)

// UserRepository defines user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByProviderID(ctx context.Context, provider, providerID string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// GameRepository defines game and player data operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID, turnDur string) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListOpen(ctx context.Context) ([]model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	JoinGame(ctx context.Context, gameID, userID string) error
	PlayerCount(ctx context.Context, gameID string) (int, error)
	AssignFactions(ctx context.Context, gameID string, assignments map[string]string) error
	SetStatus(ctx context.Context, gameID, status string) error
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// ActionRepository defines tactical action and move order data operations.
type ActionRepository interface {
	CreateAction(ctx context.Context, gameID string, round int, player, activeSystem string, stateBefore json.RawMessage, deadline time.Time) (*model.TacticalAction, error)
	CurrentAction(ctx context.Context, gameID string) (*model.TacticalAction, error)
	ListActions(ctx context.Context, gameID string) ([]model.TacticalAction, error)
	ResolveAction(ctx context.Context, actionID string, stateAfter json.RawMessage) error
	SaveMoveOrders(ctx context.Context, orders []model.MoveOrder) error
	MoveOrdersByAction(ctx context.Context, actionID string) ([]model.MoveOrder, error)
	ListExpired(ctx context.Context) ([]model.TacticalAction, error)
}

// GameCache defines live game state operations (Redis).
type GameCache interface {
	SetGameState(ctx context.Context, gameID string, state json.RawMessage) error
	GetGameState(ctx context.Context, gameID string) (json.RawMessage, error)
	SetMoves(ctx context.Context, gameID, player string, moves json.RawMessage) error
	GetMoves(ctx context.Context, gameID, player string) (json.RawMessage, error)
	ClearMoves(ctx context.Context, gameID, player string) error
	SetTimer(ctx context.Context, gameID string, deadline time.Time) error
	ClearTimer(ctx context.Context, gameID string) error
	ClearActionData(ctx context.Context, gameID string, players []string) error
	DeleteGameData(ctx context.Context, gameID string, players []string) error
}
