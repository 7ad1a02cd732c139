package model

import (
	"encoding/json"
	"time"
)

// User represents a registered user.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game represents one Starfall game.
type Game struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	CreatorID    string       `json:"creator_id"`
	Status       string       `json:"status"` // waiting, active, finished
	Winner       string       `json:"winner,omitempty"`
	TurnDuration string       `json:"turn_duration"`
	CreatedAt    time.Time    `json:"created_at"`
	StartedAt    *time.Time   `json:"started_at,omitempty"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	Players      []GamePlayer `json:"players,omitempty"`
}

// GamePlayer represents a player's membership in a game.
type GamePlayer struct {
	GameID   string    `json:"game_id"`
	UserID   string    `json:"user_id"`
	Faction  string    `json:"faction,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// TacticalAction is one player's tactical action within a round:
// activate a system, move ships with their cargo, then invade.
// StateBefore and StateAfter are serialized engine GameStates.
type TacticalAction struct {
	ID           string          `json:"id"`
	GameID       string          `json:"game_id"`
	Round        int             `json:"round"`
	Player       string          `json:"player"`
	ActiveSystem string          `json:"active_system"`
	StateBefore  json.RawMessage `json:"state_before"`
	StateAfter   json.RawMessage `json:"state_after,omitempty"`
	Deadline     time.Time       `json:"deadline"`
	ResolvedAt   *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// MoveOrder is a persisted record of one ship move within a tactical
// action, cargo manifest included.
type MoveOrder struct {
	ID         string    `json:"id"`
	ActionID   string    `json:"action_id"`
	Player     string    `json:"player"`
	ShipType   string    `json:"ship_type"`
	FromSystem string    `json:"from_system"`
	ToSystem   string    `json:"to_system"`
	Cargo      string    `json:"cargo,omitempty"` // comma-separated unit type names
	Result     string    `json:"result,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
