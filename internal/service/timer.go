package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tessyr/starfall/api/internal/repository"
)

// TimerListener listens for Redis keyspace notifications on expired timer
// keys and resolves a game's tactical action when its timer expires. Also
// runs a polling fallback to catch expirations if keyspace notifications
// are unavailable.
type TimerListener struct {
	rdb        *redis.Client
	actionSvc  *ActionService
	actionRepo repository.ActionRepository
}

// NewTimerListener creates a TimerListener.
func NewTimerListener(rdb *redis.Client, actionSvc *ActionService, actionRepo repository.ActionRepository) *TimerListener {
	return &TimerListener{rdb: rdb, actionSvc: actionSvc, actionRepo: actionRepo}
}

// Start begins listening for expired key events and runs a polling fallback.
func (t *TimerListener) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollExpiredActions(ctx)
}

// listenKeyspace subscribes to Redis keyspace notifications for expired keys.
func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

// pollExpiredActions periodically checks for actions past their deadline
// and resolves them.
func (t *TimerListener) pollExpiredActions(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("Action deadline poller started (10s interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Action deadline poller stopped")
			return
		case <-ticker.C:
			t.checkExpiredActions(ctx)
		}
	}
}

// checkExpiredActions finds unresolved actions past their deadline and resolves them.
func (t *TimerListener) checkExpiredActions(ctx context.Context) {
	actions, err := t.actionRepo.ListExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expired actions")
		return
	}
	if len(actions) > 0 {
		log.Info().Int("count", len(actions)).Msg("Poller found expired actions")
	}
	for _, a := range actions {
		log.Info().Str("gameId", a.GameID).Str("player", a.Player).
			Str("system", a.ActiveSystem).Time("deadline", a.Deadline).
			Msg("Poller resolving expired action")
		if err := t.actionSvc.ResolveAction(ctx, a.GameID); err != nil {
			log.Error().Err(err).Str("gameId", a.GameID).Msg("Action resolution failed from poller")
		}
	}
}

// handleExpiry processes an expired key. Only acts on game timer keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	if !strings.HasPrefix(key, "game:") || !strings.HasSuffix(key, ":timer") {
		return
	}

	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return
	}
	gameID := parts[1]

	log.Info().Str("gameId", gameID).Msg("Timer expired, triggering action resolution")
	if err := t.actionSvc.ResolveAction(ctx, gameID); err != nil {
		log.Error().Err(err).Str("gameId", gameID).Msg("Action resolution failed after timer expiry")
	}
}
