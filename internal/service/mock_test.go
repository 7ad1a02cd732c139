package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tessyr/starfall/api/internal/model"
)

type mockGameRepo struct {
	games   map[string]*model.Game
	players map[string][]model.GamePlayer
}

func newMockGameRepo() *mockGameRepo {
	return &mockGameRepo{
		games:   make(map[string]*model.Game),
		players: make(map[string][]model.GamePlayer),
	}
}

func (m *mockGameRepo) Create(_ context.Context, name, creatorID, turnDur string) (*model.Game, error) {
	g := &model.Game{
		ID:           fmt.Sprintf("game-%d", len(m.games)+1),
		Name:         name,
		CreatorID:    creatorID,
		Status:       "waiting",
		TurnDuration: turnDur,
		CreatedAt:    time.Now(),
	}
	m.games[g.ID] = g
	return g, nil
}

func (m *mockGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	cp.Players = m.players[id]
	return &cp, nil
}

func (m *mockGameRepo) ListOpen(_ context.Context) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.Status == "waiting" {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGameRepo) ListByUser(_ context.Context, userID string) ([]model.Game, error) {
	seen := make(map[string]bool)
	var result []model.Game
	for gameID, players := range m.players {
		for _, p := range players {
			if p.UserID == userID && !seen[gameID] {
				if g, ok := m.games[gameID]; ok {
					result = append(result, *g)
					seen[gameID] = true
				}
			}
		}
	}
	return result, nil
}

func (m *mockGameRepo) ListActive(_ context.Context) ([]model.Game, error) {
	var result []model.Game
	for _, g := range m.games {
		if g.Status == "active" {
			cp := *g
			cp.Players = m.players[g.ID]
			result = append(result, cp)
		}
	}
	return result, nil
}

func (m *mockGameRepo) JoinGame(_ context.Context, gameID, userID string) error {
	m.players[gameID] = append(m.players[gameID], model.GamePlayer{
		GameID:   gameID,
		UserID:   userID,
		JoinedAt: time.Now(),
	})
	return nil
}

func (m *mockGameRepo) PlayerCount(_ context.Context, gameID string) (int, error) {
	return len(m.players[gameID]), nil
}

func (m *mockGameRepo) AssignFactions(_ context.Context, gameID string, assignments map[string]string) error {
	players := m.players[gameID]
	for i := range players {
		if faction, ok := assignments[players[i].UserID]; ok {
			players[i].Faction = faction
		}
	}
	m.players[gameID] = players
	return nil
}

func (m *mockGameRepo) SetStatus(_ context.Context, gameID, status string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = status
		if status == "active" {
			now := time.Now()
			g.StartedAt = &now
		}
	}
	return nil
}

func (m *mockGameRepo) SetFinished(_ context.Context, gameID, winner string) error {
	if g, ok := m.games[gameID]; ok {
		g.Status = "finished"
		g.Winner = winner
	}
	return nil
}

func (m *mockGameRepo) Delete(_ context.Context, gameID string) error {
	delete(m.games, gameID)
	delete(m.players, gameID)
	return nil
}

type mockActionRepo struct {
	actions map[string]*model.TacticalAction
	orders  map[string][]model.MoveOrder
}

func newMockActionRepo() *mockActionRepo {
	return &mockActionRepo{
		actions: make(map[string]*model.TacticalAction),
		orders:  make(map[string][]model.MoveOrder),
	}
}

func (m *mockActionRepo) CreateAction(_ context.Context, gameID string, round int, player, activeSystem string, stateBefore json.RawMessage, deadline time.Time) (*model.TacticalAction, error) {
	a := &model.TacticalAction{
		ID:           fmt.Sprintf("action-%d", len(m.actions)+1),
		GameID:       gameID,
		Round:        round,
		Player:       player,
		ActiveSystem: activeSystem,
		StateBefore:  stateBefore,
		Deadline:     deadline,
		CreatedAt:    time.Now(),
	}
	m.actions[a.ID] = a
	return a, nil
}

func (m *mockActionRepo) CurrentAction(_ context.Context, gameID string) (*model.TacticalAction, error) {
	for _, a := range m.actions {
		if a.GameID == gameID && a.ResolvedAt == nil {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockActionRepo) ListActions(_ context.Context, gameID string) ([]model.TacticalAction, error) {
	var result []model.TacticalAction
	for _, a := range m.actions {
		if a.GameID == gameID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockActionRepo) ResolveAction(_ context.Context, actionID string, stateAfter json.RawMessage) error {
	if a, ok := m.actions[actionID]; ok {
		a.StateAfter = stateAfter
		now := time.Now()
		a.ResolvedAt = &now
	}
	return nil
}

func (m *mockActionRepo) SaveMoveOrders(_ context.Context, orders []model.MoveOrder) error {
	for _, o := range orders {
		m.orders[o.ActionID] = append(m.orders[o.ActionID], o)
	}
	return nil
}

func (m *mockActionRepo) MoveOrdersByAction(_ context.Context, actionID string) ([]model.MoveOrder, error) {
	return m.orders[actionID], nil
}

func (m *mockActionRepo) ListExpired(_ context.Context) ([]model.TacticalAction, error) {
	var result []model.TacticalAction
	for _, a := range m.actions {
		if a.ResolvedAt == nil && time.Now().After(a.Deadline) {
			result = append(result, *a)
		}
	}
	return result, nil
}

// mockCache implements repository.GameCache for testing.
type mockCache struct {
	states map[string]json.RawMessage
	moves  map[string]json.RawMessage // key: "gameID:player"
	timers map[string]time.Time
}

func newMockCache() *mockCache {
	return &mockCache{
		states: make(map[string]json.RawMessage),
		moves:  make(map[string]json.RawMessage),
		timers: make(map[string]time.Time),
	}
}

func (c *mockCache) SetGameState(_ context.Context, gameID string, state json.RawMessage) error {
	c.states[gameID] = state
	return nil
}

func (c *mockCache) GetGameState(_ context.Context, gameID string) (json.RawMessage, error) {
	return c.states[gameID], nil
}

func (c *mockCache) SetMoves(_ context.Context, gameID, player string, moves json.RawMessage) error {
	c.moves[gameID+":"+player] = moves
	return nil
}

func (c *mockCache) GetMoves(_ context.Context, gameID, player string) (json.RawMessage, error) {
	return c.moves[gameID+":"+player], nil
}

func (c *mockCache) ClearMoves(_ context.Context, gameID, player string) error {
	delete(c.moves, gameID+":"+player)
	return nil
}

func (c *mockCache) SetTimer(_ context.Context, gameID string, deadline time.Time) error {
	c.timers[gameID] = deadline
	return nil
}

func (c *mockCache) ClearTimer(_ context.Context, gameID string) error {
	delete(c.timers, gameID)
	return nil
}

func (c *mockCache) ClearActionData(_ context.Context, gameID string, players []string) error {
	delete(c.timers, gameID)
	for _, p := range players {
		delete(c.moves, gameID+":"+p)
	}
	return nil
}

func (c *mockCache) DeleteGameData(_ context.Context, gameID string, players []string) error {
	delete(c.states, gameID)
	delete(c.timers, gameID)
	for _, p := range players {
		delete(c.moves, gameID+":"+p)
	}
	return nil
}
