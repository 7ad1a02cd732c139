package starfall

// TransportValidator orchestrates the transport validation pipeline:
// pre-transport, movement, then landing. Each stage returns a typed
// token that the next stage requires, so calling landing validation on
// a transport whose movement was never checked does not compile.
type TransportValidator struct {
	manager *TransportManager
	rules   *TransportRules
}

// NewTransportValidator creates a TransportValidator.
func NewTransportValidator() *TransportValidator {
	return &TransportValidator{
		manager: NewTransportManager(),
		rules:   NewTransportRules(),
	}
}

// PreTransportChecked certifies that a proposed load passed capacity and
// cargo-type validation.
type PreTransportChecked struct {
	state *TransportState
}

// State returns the validated transport state.
func (c PreTransportChecked) State() *TransportState { return c.state }

// MovementChecked certifies that a transport passed movement validation
// for a specific system-to-system move.
type MovementChecked struct {
	state *TransportState
	from  string
	to    string
}

// State returns the validated transport state.
func (c MovementChecked) State() *TransportState { return c.state }

// Destination returns the system the validated move ends in.
func (c MovementChecked) Destination() string { return c.to }

// LandingChecked certifies landing validation and carries the subset of
// cargo cleared to land on the planet.
type LandingChecked struct {
	state    *TransportState
	planet   string
	landable []Unit
}

// Landable returns the cargo units cleared to land: ground forces only,
// each exactly once. Fighters stay aboard.
func (c LandingChecked) Landable() []Unit { return c.landable }

// Planet returns the validated landing planet.
func (c LandingChecked) Planet() string { return c.planet }

// ValidatePreTransport checks a proposed load before anything moves.
// Returns a CapacityError with ship context on violation.
func (v *TransportValidator) ValidatePreTransport(ship Unit, units []Unit, originSystemID string) (PreTransportChecked, error) {
	state, err := v.manager.LoadUnits(ship, units, originSystemID)
	if err != nil {
		return PreTransportChecked{}, err
	}
	return PreTransportChecked{state: state}, nil
}

// ValidateMovement re-validates internal consistency and physical
// feasibility of the move. Cross-player cargo and infeasible moves are
// ConsistencyErrors.
func (v *TransportValidator) ValidateMovement(checked PreTransportChecked, fromSystem, toSystem string) (MovementChecked, error) {
	state := checked.state
	if state == nil {
		return MovementChecked{}, &PreconditionError{Msg: "movement validation on zero transport"}
	}
	if err := v.checkConsistency(state, fromSystem, toSystem); err != nil {
		return MovementChecked{}, err
	}
	if !v.rules.ValidateMovementConstraints(state, fromSystem, toSystem) {
		return MovementChecked{}, &ConsistencyError{
			FromSystem: fromSystem,
			ToSystem:   toSystem,
			ShipType:   state.Ship.Type,
			Reason:     "transport cannot make this move",
		}
	}
	return MovementChecked{state: state, from: fromSystem, to: toSystem}, nil
}

// ValidateLanding filters the cargo down to what may land on the named
// planet during the invasion step: ground forces only. A missing planet
// is the caller's mistake, not a rule violation.
func (v *TransportValidator) ValidateLanding(checked MovementChecked, sys *System, planetName string) (LandingChecked, error) {
	state := checked.state
	if state == nil {
		return LandingChecked{}, &PreconditionError{Msg: "landing validation on zero transport"}
	}
	if sys == nil {
		return LandingChecked{}, &PreconditionError{Planet: planetName, Msg: "landing validation without a system"}
	}
	if planetName == "" {
		return LandingChecked{}, &PreconditionError{SystemID: sys.ID, Msg: "landing validation without a planet name"}
	}
	if sys.Planet(planetName) == nil {
		return LandingChecked{}, &PreconditionError{SystemID: sys.ID, Planet: planetName, Msg: "planet not in system"}
	}
	var landable []Unit
	for _, u := range state.Cargo {
		if u.Type.IsGroundForce() {
			landable = append(landable, u)
		}
	}
	return LandingChecked{state: state, planet: planetName, landable: landable}, nil
}

// ValidateConsistency checks a transport state in isolation for
// cross-player contamination.
func (v *TransportValidator) ValidateConsistency(state *TransportState) error {
	if state == nil {
		return &PreconditionError{Msg: "consistency check on zero transport"}
	}
	return v.checkConsistency(state, state.OriginSystem, "")
}

func (v *TransportValidator) checkConsistency(state *TransportState, from, to string) error {
	if state.Ship.Owner != state.Player {
		return &ConsistencyError{
			FromSystem: from,
			ToSystem:   to,
			ShipType:   state.Ship.Type,
			Reason:     "ship not owned by controlling player",
		}
	}
	for _, u := range state.Cargo {
		if u.Owner != state.Player {
			return &ConsistencyError{
				FromSystem: from,
				ToSystem:   to,
				ShipType:   state.Ship.Type,
				Reason:     "cargo spans multiple players",
			}
		}
	}
	return nil
}
