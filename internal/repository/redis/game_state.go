package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key patterns for Redis game state.
func stateKey(gameID string) string         { return "game:" + gameID + ":state" }
func movesKey(gameID, player string) string { return "game:" + gameID + ":moves:" + player }
func timerKey(gameID string) string         { return "game:" + gameID + ":timer" }

// SetGameState stores the live game state JSON.
func (c *Client) SetGameState(ctx context.Context, gameID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(gameID), []byte(state), 0).Err()
}

// GetGameState retrieves the live game state JSON, or nil if absent.
func (c *Client) GetGameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetMoves stores a player's proposed moves for the current tactical action.
func (c *Client) SetMoves(ctx context.Context, gameID, player string, moves json.RawMessage) error {
	return c.rdb.Set(ctx, movesKey(gameID, player), []byte(moves), 0).Err()
}

// GetMoves retrieves a player's proposed moves, or nil if none submitted.
func (c *Client) GetMoves(ctx context.Context, gameID, player string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, movesKey(gameID, player)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get moves: %w", err)
	}
	return json.RawMessage(data), nil
}

// ClearMoves removes a player's proposed moves.
func (c *Client) ClearMoves(ctx context.Context, gameID, player string) error {
	return c.rdb.Del(ctx, movesKey(gameID, player)).Err()
}

// actionGracePeriod is the extra time after the displayed deadline before
// auto-resolution triggers, giving the active player a few seconds of leeway.
const actionGracePeriod = 5 * time.Second

// SetTimer creates a timer key with a TTL. When the key expires,
// Redis keyspace notifications trigger action resolution.
func (c *Client) SetTimer(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + actionGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTimer removes the timer for a game.
func (c *Client) ClearTimer(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// ClearActionData removes moves and timer for a game. Called after an
// action resolves to prepare for the next one.
func (c *Client) ClearActionData(ctx context.Context, gameID string, players []string) error {
	keys := []string{timerKey(gameID)}
	for _, p := range players {
		keys = append(keys, movesKey(gameID, p))
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DeleteGameData removes all Redis data for a game (on game end).
func (c *Client) DeleteGameData(ctx context.Context, gameID string, players []string) error {
	keys := []string{stateKey(gameID), timerKey(gameID)}
	for _, p := range players {
		keys = append(keys, movesKey(gameID, p))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
