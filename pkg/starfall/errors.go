package starfall

import "fmt"

// RuleError is the family of game-rule violations raised by the transport
// layer. Every member carries structured context for its specific rule.
// Programming mistakes are PreconditionErrors, which are deliberately
// outside this family.
type RuleError interface {
	error
	// RuleViolation marks the error as an invalid proposed action rather
	// than a broken contract.
	RuleViolation()
}

// CapacityError reports cargo exceeding a ship's capacity or containing
// an untransportable unit type.
type CapacityError struct {
	ShipType        UnitType
	ShipCapacity    int
	UnitsRequested  int
	Untransportable bool // a requested unit was not a valid cargo type
}

func (e *CapacityError) Error() string {
	if e.Untransportable {
		return fmt.Sprintf("cannot load %d units onto %s: cargo must be fighters or ground forces", e.UnitsRequested, e.ShipType)
	}
	return fmt.Sprintf("cannot load %d units onto %s (capacity %d)", e.UnitsRequested, e.ShipType, e.ShipCapacity)
}

func (e *CapacityError) RuleViolation() {}

// PickupError reports a pickup blocked by the command-token rule.
type PickupError struct {
	SystemID string
	Player   PlayerID
}

func (e *PickupError) Error() string {
	return fmt.Sprintf("%s cannot pick up units from %s: command token present in a non-active system", e.Player, e.SystemID)
}

func (e *PickupError) RuleViolation() {}

// ConsistencyError reports a malformed or cross-player transport state
// detected during movement validation.
type ConsistencyError struct {
	FromSystem string
	ToSystem   string
	ShipType   UnitType
	Reason     string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistent transport %s -> %s (%s): %s", e.FromSystem, e.ToSystem, e.ShipType, e.Reason)
}

func (e *ConsistencyError) RuleViolation() {}

// PreconditionError reports a contract violation by the caller: nil
// arguments or references to systems/planets that do not exist. It is
// not a game-rule violation and never reaches players.
type PreconditionError struct {
	SystemID string
	Planet   string
	Msg      string
}

func (e *PreconditionError) Error() string {
	s := "precondition failed: " + e.Msg
	if e.SystemID != "" {
		s += " (system " + e.SystemID
		if e.Planet != "" {
			s += ", planet " + e.Planet
		}
		s += ")"
	}
	return s
}
