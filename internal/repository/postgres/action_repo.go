package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tessyr/starfall/api/internal/model"
)

// ActionRepo handles tactical action and move order database operations.
type ActionRepo struct {
	db *sql.DB
}

// NewActionRepo creates an ActionRepo.
func NewActionRepo(db *sql.DB) *ActionRepo {
	return &ActionRepo{db: db}
}

// CreateAction inserts a new tactical action with its state snapshot.
func (r *ActionRepo) CreateAction(ctx context.Context, gameID string, round int, player, activeSystem string, stateBefore json.RawMessage, deadline time.Time) (*model.TacticalAction, error) {
	var a model.TacticalAction
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tactical_actions (game_id, round, player, active_system, state_before, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, game_id, round, player, active_system, state_before, deadline, created_at`,
		gameID, round, player, activeSystem, []byte(stateBefore), deadline,
	).Scan(&a.ID, &a.GameID, &a.Round, &a.Player, &a.ActiveSystem, &a.StateBefore, &a.Deadline, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create action: %w", err)
	}
	return &a, nil
}

// CurrentAction returns the game's most recent unresolved action, or nil.
func (r *ActionRepo) CurrentAction(ctx context.Context, gameID string) (*model.TacticalAction, error) {
	var a model.TacticalAction
	err := r.db.QueryRowContext(ctx,
		`SELECT id, game_id, round, player, active_system, state_before, deadline, created_at
		 FROM tactical_actions
		 WHERE game_id = $1 AND resolved_at IS NULL
		 ORDER BY created_at DESC LIMIT 1`, gameID,
	).Scan(&a.ID, &a.GameID, &a.Round, &a.Player, &a.ActiveSystem, &a.StateBefore, &a.Deadline, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current action: %w", err)
	}
	return &a, nil
}

// ListActions returns every action of a game, oldest first.
func (r *ActionRepo) ListActions(ctx context.Context, gameID string) ([]model.TacticalAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, round, player, active_system, state_before, state_after, deadline, resolved_at, created_at
		 FROM tactical_actions WHERE game_id = $1 ORDER BY created_at`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var actions []model.TacticalAction
	for rows.Next() {
		var a model.TacticalAction
		var after []byte
		if err := rows.Scan(&a.ID, &a.GameID, &a.Round, &a.Player, &a.ActiveSystem, &a.StateBefore, &after, &a.Deadline, &a.ResolvedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		a.StateAfter = after
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// ResolveAction records the post-resolution state and timestamp.
func (r *ActionRepo) ResolveAction(ctx context.Context, actionID string, stateAfter json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tactical_actions SET state_after = $1, resolved_at = now() WHERE id = $2`,
		[]byte(stateAfter), actionID)
	if err != nil {
		return fmt.Errorf("resolve action: %w", err)
	}
	return nil
}

// SaveMoveOrders persists the resolved move orders of an action.
func (r *ActionRepo) SaveMoveOrders(ctx context.Context, orders []model.MoveOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, o := range orders {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO move_orders (action_id, player, ship_type, from_system, to_system, cargo, result)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ActionID, o.Player, o.ShipType, o.FromSystem, o.ToSystem, o.Cargo, o.Result)
		if err != nil {
			return fmt.Errorf("insert move order: %w", err)
		}
	}
	return tx.Commit()
}

// MoveOrdersByAction returns the move orders recorded for an action.
func (r *ActionRepo) MoveOrdersByAction(ctx context.Context, actionID string) ([]model.MoveOrder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, action_id, player, ship_type, from_system, to_system, cargo, result, created_at
		 FROM move_orders WHERE action_id = $1 ORDER BY created_at`, actionID)
	if err != nil {
		return nil, fmt.Errorf("list move orders: %w", err)
	}
	defer rows.Close()

	var orders []model.MoveOrder
	for rows.Next() {
		var o model.MoveOrder
		var cargo, result sql.NullString
		if err := rows.Scan(&o.ID, &o.ActionID, &o.Player, &o.ShipType, &o.FromSystem, &o.ToSystem, &cargo, &result, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan move order: %w", err)
		}
		o.Cargo = cargo.String
		o.Result = result.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ListExpired returns unresolved actions whose deadline has passed.
func (r *ActionRepo) ListExpired(ctx context.Context) ([]model.TacticalAction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, round, player, active_system, state_before, deadline, created_at
		 FROM tactical_actions
		 WHERE resolved_at IS NULL AND deadline < now()`)
	if err != nil {
		return nil, fmt.Errorf("list expired actions: %w", err)
	}
	defer rows.Close()

	var actions []model.TacticalAction
	for rows.Next() {
		var a model.TacticalAction
		if err := rows.Scan(&a.ID, &a.GameID, &a.Round, &a.Player, &a.ActiveSystem, &a.StateBefore, &a.Deadline, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}
