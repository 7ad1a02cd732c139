package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tessyr/starfall/api/internal/model"
	"github.com/tessyr/starfall/api/internal/repository"
	"github.com/tessyr/starfall/api/pkg/starfall"
)

var (
	ErrNoActiveAction   = errors.New("no active tactical action")
	ErrActionInProgress = errors.New("a tactical action is already in progress")
	ErrNotYourAction    = errors.New("the current tactical action belongs to another player")
	ErrUnknownSystem    = errors.New("unknown system")
	ErrSystemTokened    = errors.New("system already holds your command token")
	ErrStateUnavailable = errors.New("game state unavailable")
	ErrInvalidUnitType  = errors.New("invalid unit type")
)

// PickupInput names cargo to take aboard at one system along the move.
type PickupInput struct {
	SystemID string   `json:"system_id"`
	Units    []string `json:"units"`
}

// MoveInput represents a single ship move from the client. The
// destination is always the action's active system. Invade, when set,
// names a planet there for the ground forces to land on.
type MoveInput struct {
	ShipType   string        `json:"ship_type"`
	FromSystem string        `json:"from_system"`
	Pickups    []PickupInput `json:"pickups,omitempty"`
	Invade     string        `json:"invade,omitempty"`
}

// MoveValidation is the per-move outcome of submission: valid, or a
// named rule violation with a suggested fix.
type MoveValidation struct {
	ShipType   string                   `json:"ship_type"`
	FromSystem string                   `json:"from_system"`
	Result     *starfall.RecoveryResult `json:"result"`
}

// ActionService orchestrates tactical actions: activation, move
// submission, and resolution against the transport engine.
type ActionService struct {
	gameRepo    repository.GameRepository
	actionRepo  repository.ActionRepository
	cache       repository.GameCache
	broadcaster Broadcaster

	// gameLocks prevents concurrent resolution for the same game.
	// Both the keyspace listener and the poller can fire simultaneously;
	// without locking, both resolve the same action.
	gameLocks sync.Map
}

// NewActionService creates an ActionService.
func NewActionService(
	gameRepo repository.GameRepository,
	actionRepo repository.ActionRepository,
	cache repository.GameCache,
	broadcaster Broadcaster,
) *ActionService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &ActionService{
		gameRepo:    gameRepo,
		actionRepo:  actionRepo,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

// ActivateSystem starts a tactical action: the player's command token
// will be placed in the system when the action resolves, so a system
// already holding their token cannot be activated.
func (s *ActionService) ActivateSystem(ctx context.Context, gameID, userID, systemID string) (*model.TacticalAction, error) {
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
	faction := factionOf(game, userID)
	if faction == "" {
		return nil, ErrNotInGame
	}

	existing, err := s.actionRepo.CurrentAction(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrActionInProgress
	}

	gs, err := s.loadState(ctx, gameID, nil)
	if err != nil {
		return nil, err
	}
	if gs.Galaxy.System(systemID) == nil {
		return nil, ErrUnknownSystem
	}
	if gs.HasCommandToken(starfall.PlayerID(faction), systemID) {
		return nil, ErrSystemTokened
	}

	gs.ActivePlayer = starfall.PlayerID(faction)
	gs.ActiveSystem = systemID

	stateJSON, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}

	deadline := time.Now().Add(parseDuration(game.TurnDuration))
	action, err := s.actionRepo.CreateAction(ctx, gameID, gs.Round, faction, systemID, stateJSON, deadline)
	if err != nil {
		return nil, fmt.Errorf("create action: %w", err)
	}

	if err := s.cache.SetGameState(ctx, gameID, stateJSON); err != nil {
		return nil, fmt.Errorf("cache state: %w", err)
	}
	if err := s.cache.SetTimer(ctx, gameID, deadline); err != nil {
		return nil, fmt.Errorf("set timer: %w", err)
	}

	s.broadcaster.BroadcastGameEvent(gameID, "action_activated", map[string]any{
		"action_id": action.ID,
		"player":    faction,
		"system":    systemID,
		"deadline":  deadline.Format(time.RFC3339),
	})

	return action, nil
}

// SubmitMoves validates the player's ship moves against the transport
// rules and caches them for resolution. Rule violations come back as
// per-move results with suggested fixes; nothing is cached unless every
// move is valid.
func (s *ActionService) SubmitMoves(ctx context.Context, gameID, userID string, inputs []MoveInput) ([]MoveValidation, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	faction := factionOf(game, userID)
	if faction == "" {
		return nil, ErrNotInGame
	}

	action, err := s.actionRepo.CurrentAction(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, ErrNoActiveAction
	}
	if action.Player != faction {
		return nil, ErrNotYourAction
	}

	gs, err := s.loadState(ctx, gameID, action)
	if err != nil {
		return nil, err
	}

	player := starfall.PlayerID(faction)
	validator := starfall.NewTransportValidator()
	manager := starfall.NewTransportManager()

	// Validation consumes ships and cargo from a scratch board, so two
	// moves in one submission cannot claim the same unit.
	board := gs.Clone()

	validations := make([]MoveValidation, 0, len(inputs))
	allValid := true
	for _, in := range inputs {
		res, err := starfall.AttemptRecovery(func() error {
			return s.checkMove(board, validator, manager, player, action.ActiveSystem, in)
		})
		if err != nil {
			return nil, fmt.Errorf("validate move %s from %s: %w", in.ShipType, in.FromSystem, err)
		}
		if !res.Success {
			allValid = false
		}
		validations = append(validations, MoveValidation{
			ShipType:   in.ShipType,
			FromSystem: in.FromSystem,
			Result:     res,
		})
	}

	if !allValid {
		return validations, nil
	}

	movesJSON, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("marshal moves: %w", err)
	}
	if err := s.cache.SetMoves(ctx, gameID, faction, movesJSON); err != nil {
		return nil, fmt.Errorf("cache moves: %w", err)
	}

	s.broadcaster.BroadcastGameEvent(gameID, "moves_submitted", map[string]any{
		"player":     faction,
		"move_count": len(inputs),
	})

	return validations, nil
}

// checkMove runs one move through the validation pipeline: pickup
// eligibility, then capacity, then movement consistency, then board
// presence. The ship and its cargo are consumed from the scratch board
// so later moves cannot claim them again.
func (s *ActionService) checkMove(
	board *starfall.GameState,
	validator *starfall.TransportValidator,
	manager *starfall.TransportManager,
	player starfall.PlayerID,
	activeSystem string,
	in MoveInput,
) error {
	ship, err := parseShip(in.ShipType, player)
	if err != nil {
		return err
	}
	origin := board.Galaxy.System(in.FromSystem)
	if origin == nil {
		return &starfall.PreconditionError{SystemID: in.FromSystem, Msg: "move from unknown system"}
	}

	var cargo []starfall.Unit
	for _, p := range in.Pickups {
		if board.Galaxy.System(p.SystemID) == nil {
			return &starfall.PreconditionError{SystemID: p.SystemID, Msg: "pickup from unknown system"}
		}
		hasToken := board.HasCommandToken(player, p.SystemID)
		if !manager.ValidatePickupDuringMovement(p.SystemID, in.FromSystem, activeSystem, hasToken) {
			return &starfall.PickupError{SystemID: p.SystemID, Player: player}
		}
		units, err := unitsFromNames(p.Units, player)
		if err != nil {
			return err
		}
		cargo = append(cargo, units...)
	}

	checked, err := validator.ValidatePreTransport(ship, cargo, in.FromSystem)
	if err != nil {
		return err
	}
	if _, err := validator.ValidateMovement(checked, in.FromSystem, activeSystem); err != nil {
		return err
	}

	if !board.Galaxy.WithinRange(in.FromSystem, activeSystem, ship.Move()) {
		return &starfall.ConsistencyError{
			FromSystem: in.FromSystem,
			ToSystem:   activeSystem,
			ShipType:   ship.Type,
			Reason:     "active system beyond the ship's movement range",
		}
	}
	if !origin.RemoveFromSpace(ship) {
		return &starfall.ConsistencyError{
			FromSystem: in.FromSystem,
			ToSystem:   activeSystem,
			ShipType:   ship.Type,
			Reason:     "ship not present in origin system",
		}
	}
	for _, p := range in.Pickups {
		units, _ := unitsFromNames(p.Units, player)
		if err := removePickedUnits(board.Galaxy.System(p.SystemID), units); err != nil {
			return &starfall.ConsistencyError{
				FromSystem: in.FromSystem,
				ToSystem:   activeSystem,
				ShipType:   ship.Type,
				Reason:     "picked up units not present in " + p.SystemID,
			}
		}
	}
	return nil
}

// ResolveAction resolves the current tactical action after its deadline:
// ships move with their cargo to the active system, ground forces land,
// leftover cargo unloads to the space area, and the command token is
// placed.
func (s *ActionService) ResolveAction(ctx context.Context, gameID string) error {
	return s.resolveInternal(ctx, gameID, false)
}

// ConfirmAction lets the acting player resolve before the deadline.
func (s *ActionService) ConfirmAction(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	faction := factionOf(game, userID)
	if faction == "" {
		return ErrNotInGame
	}
	action, err := s.actionRepo.CurrentAction(ctx, gameID)
	if err != nil {
		return err
	}
	if action == nil {
		return ErrNoActiveAction
	}
	if action.Player != faction {
		return ErrNotYourAction
	}
	return s.resolveInternal(ctx, gameID, true)
}

func (s *ActionService) resolveInternal(ctx context.Context, gameID string, early bool) error {
	// Per-game lock prevents concurrent resolution from keyspace + poller
	// or from a player confirming while the timer fires.
	mu := s.gameLock(gameID)
	mu.Lock()
	defer mu.Unlock()

	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil || game == nil {
		return fmt.Errorf("find game: %w", err)
	}
	if game.Status != "active" {
		log.Info().Str("gameId", gameID).Str("status", game.Status).Msg("Skipping resolution for non-active game")
		return nil
	}

	action, err := s.actionRepo.CurrentAction(ctx, gameID)
	if err != nil {
		return fmt.Errorf("get current action: %w", err)
	}
	if action == nil {
		log.Debug().Str("gameId", gameID).Msg("No action to resolve")
		return nil
	}
	if !early && time.Now().Before(action.Deadline) {
		log.Debug().Str("gameId", gameID).Time("deadline", action.Deadline).Msg("Action deadline not yet reached, skipping")
		return nil
	}

	log.Info().Str("gameId", gameID).Str("actionId", action.ID).
		Str("player", action.Player).Str("system", action.ActiveSystem).
		Bool("early", early).Msg("Resolving tactical action")

	gs, err := s.loadState(ctx, gameID, action)
	if err != nil {
		return err
	}
	working := gs.Clone()

	var moves []MoveInput
	movesRaw, err := s.cache.GetMoves(ctx, gameID, action.Player)
	if err != nil {
		return fmt.Errorf("get cached moves: %w", err)
	}
	if movesRaw != nil {
		if err := json.Unmarshal(movesRaw, &moves); err != nil {
			log.Warn().Str("gameId", gameID).Str("player", action.Player).Msg("Invalid cached moves, resolving without movement")
			moves = nil
		}
	}

	player := starfall.PlayerID(action.Player)
	executor := starfall.NewMovementExecutor(working.Galaxy)
	invasion := starfall.NewInvasionController(working.Galaxy)
	manager := starfall.NewTransportManager()

	var orders []model.MoveOrder
	for _, in := range moves {
		order, err := s.executeMove(working, executor, invasion, manager, player, action, in)
		if err != nil {
			return fmt.Errorf("execute move %s from %s: %w", in.ShipType, in.FromSystem, err)
		}
		orders = append(orders, order)
	}

	working.PlaceCommandToken(player, action.ActiveSystem)
	working.ActiveSystem = ""

	stateAfter, err := json.Marshal(working)
	if err != nil {
		return fmt.Errorf("marshal state after: %w", err)
	}
	if err := s.actionRepo.ResolveAction(ctx, action.ID, stateAfter); err != nil {
		return fmt.Errorf("resolve action: %w", err)
	}
	if len(orders) > 0 {
		if err := s.actionRepo.SaveMoveOrders(ctx, orders); err != nil {
			return fmt.Errorf("save move orders: %w", err)
		}
	}
	if err := s.cache.SetGameState(ctx, gameID, stateAfter); err != nil {
		return fmt.Errorf("set new state: %w", err)
	}
	if err := s.cache.ClearActionData(ctx, gameID, gameFactions(game)); err != nil {
		return fmt.Errorf("clear action data: %w", err)
	}

	log.Info().Str("gameId", gameID).Str("actionId", action.ID).
		Int("moveCount", len(orders)).Msg("Tactical action resolved")

	s.broadcaster.BroadcastGameEvent(gameID, "action_resolved", map[string]any{
		"action_id": action.ID,
		"player":    action.Player,
		"system":    action.ActiveSystem,
		"moves":     len(orders),
	})

	return nil
}

// executeMove applies one validated move to the working state: pick up
// cargo, relocate the ship, land invaders, unload the rest. Rule
// violations and missing ships or cargo surface in the order's result
// instead of failing resolution; the submission already passed
// validation, so they indicate the board changed underneath the player.
func (s *ActionService) executeMove(
	working *starfall.GameState,
	executor *starfall.MovementExecutor,
	invasion *starfall.InvasionController,
	manager *starfall.TransportManager,
	player starfall.PlayerID,
	action *model.TacticalAction,
	in MoveInput,
) (model.MoveOrder, error) {
	order := model.MoveOrder{
		ActionID:   action.ID,
		Player:     string(player),
		ShipType:   in.ShipType,
		FromSystem: in.FromSystem,
		ToSystem:   action.ActiveSystem,
	}

	ship, err := parseShip(in.ShipType, player)
	if err != nil {
		order.Result = err.Error()
		return order, nil
	}

	validator := invasion.Validator()
	var cargo []starfall.Unit
	for _, p := range in.Pickups {
		hasToken := working.HasCommandToken(player, p.SystemID)
		if !manager.ValidatePickupDuringMovement(p.SystemID, in.FromSystem, action.ActiveSystem, hasToken) {
			pe := &starfall.PickupError{SystemID: p.SystemID, Player: player}
			order.Result = pe.Error()
			return order, nil
		}
		units, err := unitsFromNames(p.Units, player)
		if err != nil {
			order.Result = err.Error()
			return order, nil
		}
		cargo = append(cargo, units...)
	}
	order.Cargo = cargoManifest(cargo)

	checked, err := validator.ValidatePreTransport(ship, cargo, in.FromSystem)
	if err != nil {
		order.Result = err.Error()
		return order, nil
	}
	mchecked, err := validator.ValidateMovement(checked, in.FromSystem, action.ActiveSystem)
	if err != nil {
		order.Result = err.Error()
		return order, nil
	}
	if !working.Galaxy.WithinRange(in.FromSystem, action.ActiveSystem, ship.Move()) {
		ce := &starfall.ConsistencyError{
			FromSystem: in.FromSystem,
			ToSystem:   action.ActiveSystem,
			ShipType:   ship.Type,
			Reason:     "active system beyond the ship's movement range",
		}
		order.Result = ce.Error()
		return order, nil
	}

	// Confirm the ship and its cargo are still on the board before
	// touching it. The check runs against a scratch copy so an order
	// invalidated by an earlier move or by state drift fails on its own
	// without leaving the working state half-applied.
	scratch := working.Clone()
	if sys := scratch.Galaxy.System(in.FromSystem); sys == nil || !sys.RemoveFromSpace(ship) {
		ce := &starfall.ConsistencyError{
			FromSystem: in.FromSystem,
			ToSystem:   action.ActiveSystem,
			ShipType:   ship.Type,
			Reason:     "ship not present in origin system",
		}
		order.Result = ce.Error()
		return order, nil
	}
	for _, p := range in.Pickups {
		units, _ := unitsFromNames(p.Units, player)
		if err := removePickedUnits(scratch.Galaxy.System(p.SystemID), units); err != nil {
			order.Result = err.Error()
			return order, nil
		}
	}

	// Past this point failures abort resolution: the working state has
	// been mutated and must not be committed half-applied.
	for _, p := range in.Pickups {
		units, _ := unitsFromNames(p.Units, player)
		if err := removePickedUnits(working.Galaxy.System(p.SystemID), units); err != nil {
			return order, err
		}
	}

	state := mchecked.State()
	if err := executor.Execute(starfall.ShipMove{
		Ship:       ship,
		FromSystem: in.FromSystem,
		ToSystem:   action.ActiveSystem,
		Transport:  state,
	}); err != nil {
		return order, err
	}
	order.Result = "moved"

	if in.Invade != "" {
		lchecked, err := validator.ValidateLanding(mchecked, working.Galaxy.System(action.ActiveSystem), in.Invade)
		if err != nil {
			return order, err
		}
		landed, err := invasion.LandGroundForces(lchecked, action.ActiveSystem)
		if err != nil {
			return order, err
		}
		order.Result = fmt.Sprintf("moved, landed %d on %s", len(landed), in.Invade)
	}

	// Whatever stayed aboard unloads into the active system's space area.
	for _, u := range manager.UnloadUnits(state, action.ActiveSystem) {
		working.Galaxy.System(action.ActiveSystem).PlaceInSpace(u)
	}

	return order, nil
}

// RecoverActiveGames rehydrates Redis state for all active games from
// Postgres. Called on server startup to restore timers and game state
// lost during a restart.
func (s *ActionService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("No active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("Recovering active games after restart")

	for _, game := range games {
		action, err := s.actionRepo.CurrentAction(ctx, game.ID)
		if err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to get current action during recovery")
			continue
		}
		if action == nil {
			log.Warn().Str("gameId", game.ID).Msg("Active game has no current action, skipping")
			continue
		}

		if err := s.cache.SetGameState(ctx, game.ID, action.StateBefore); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore game state")
			continue
		}

		if time.Now().Before(action.Deadline) {
			if err := s.cache.SetTimer(ctx, game.ID, action.Deadline); err != nil {
				log.Error().Err(err).Str("gameId", game.ID).Msg("Failed to restore timer")
			}
		}

		log.Info().Str("gameId", game.ID).Str("actionId", action.ID).
			Str("player", action.Player).Time("deadline", action.Deadline).
			Msg("Recovered game state")
	}

	return nil
}

// ListActions returns the resolved action history for a game.
func (s *ActionService) ListActions(ctx context.Context, gameID string) ([]model.TacticalAction, error) {
	return s.actionRepo.ListActions(ctx, gameID)
}

// CurrentAction returns the unresolved action for a game, or nil.
func (s *ActionService) CurrentAction(ctx context.Context, gameID string) (*model.TacticalAction, error) {
	return s.actionRepo.CurrentAction(ctx, gameID)
}

// MoveOrders returns the persisted move orders of a resolved action.
func (s *ActionService) MoveOrders(ctx context.Context, actionID string) ([]model.MoveOrder, error) {
	return s.actionRepo.MoveOrdersByAction(ctx, actionID)
}

// CleanupStoppedGame broadcasts game_ended and clears cached game data.
func (s *ActionService) CleanupStoppedGame(ctx context.Context, gameID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil || game == nil {
		return fmt.Errorf("find game: %w", err)
	}
	s.broadcaster.BroadcastGameEvent(gameID, "game_ended", map[string]any{
		"reason": "stopped",
	})
	return s.cache.DeleteGameData(ctx, gameID, gameFactions(game))
}

// loadState reads the game state from Redis, falling back to the
// action's state_before when the cache is cold.
func (s *ActionService) loadState(ctx context.Context, gameID string, action *model.TacticalAction) (*starfall.GameState, error) {
	stateJSON, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get cached state: %w", err)
	}
	if stateJSON == nil && action != nil {
		stateJSON = action.StateBefore
	}
	if stateJSON == nil {
		return nil, ErrStateUnavailable
	}
	var gs starfall.GameState
	if err := json.Unmarshal(stateJSON, &gs); err != nil {
		return nil, fmt.Errorf("unmarshal game state: %w", err)
	}
	return &gs, nil
}

// gameLock returns the mutex for a given game ID.
func (s *ActionService) gameLock(gameID string) *sync.Mutex {
	v, _ := s.gameLocks.LoadOrStore(gameID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// parseShip resolves a ship unit from its type name.
func parseShip(name string, owner starfall.PlayerID) (starfall.Unit, error) {
	t, ok := starfall.ParseUnitType(name)
	if !ok || !t.IsShip() {
		return starfall.Unit{}, fmt.Errorf("%w: %q is not a ship", ErrInvalidUnitType, name)
	}
	return starfall.Unit{Type: t, Owner: owner}, nil
}

// unitsFromNames resolves cargo units from their type names.
func unitsFromNames(names []string, owner starfall.PlayerID) ([]starfall.Unit, error) {
	units := make([]starfall.Unit, 0, len(names))
	for _, n := range names {
		t, ok := starfall.ParseUnitType(n)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUnitType, n)
		}
		units = append(units, starfall.Unit{Type: t, Owner: owner})
	}
	return units, nil
}

// cargoManifest renders a cargo list for the persisted move order.
func cargoManifest(units []starfall.Unit) string {
	if len(units) == 0 {
		return ""
	}
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = u.Type.String()
	}
	return strings.Join(names, ",")
}

// removePickedUnits takes picked-up units off the board: space area
// first, then planets in order. Mirrors the movement executor's pickup.
func removePickedUnits(sys *starfall.System, units []starfall.Unit) error {
	if sys == nil {
		return &starfall.PreconditionError{Msg: "pickup from unknown system"}
	}
	for _, u := range units {
		if sys.RemoveFromSpace(u) {
			continue
		}
		removed := false
		for i := range sys.Planets {
			if sys.RemoveFromPlanet(sys.Planets[i].Name, u) {
				removed = true
				break
			}
		}
		if !removed {
			return &starfall.PreconditionError{SystemID: sys.ID, Msg: "picked up unit not present in system"}
		}
	}
	return nil
}
