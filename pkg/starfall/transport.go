package starfall

// TransportState tracks one ship and the cargo it is carrying for the
// duration of a single tactical action. The ship is referenced, not
// owned: it still exists in its system's space area. Cargo units are
// held here and absent from system unit lists while aboard.
type TransportState struct {
	Ship         Unit     `json:"ship"`
	Cargo        []Unit   `json:"cargo,omitempty"`
	OriginSystem string   `json:"origin_system"`
	Player       PlayerID `json:"player"`
}

// RemainingCapacity returns the unused cargo slots on the ship.
func (t *TransportState) RemainingCapacity() int {
	return t.Ship.Capacity() - len(t.Cargo)
}

// TransportManager implements per-ship capacity and pickup-eligibility
// checks. It is stateless; all state lives in the TransportState values
// it produces.
type TransportManager struct{}

// NewTransportManager creates a TransportManager.
func NewTransportManager() *TransportManager {
	return &TransportManager{}
}

// CanTransportUnits reports whether the ship could carry all the given
// units at once. An empty request always fits.
func (m *TransportManager) CanTransportUnits(ship Unit, units []Unit) bool {
	if len(units) > ship.Capacity() {
		return false
	}
	for _, u := range units {
		if !u.Transportable() {
			return false
		}
	}
	return true
}

// LoadUnits loads units onto the ship, producing the TransportState that
// follows them through the move. Returns a CapacityError if the cargo
// does not fit or contains an untransportable type.
func (m *TransportManager) LoadUnits(ship Unit, units []Unit, originSystemID string) (*TransportState, error) {
	for _, u := range units {
		if !u.Transportable() {
			return nil, &CapacityError{
				ShipType:        ship.Type,
				ShipCapacity:    ship.Capacity(),
				UnitsRequested:  len(units),
				Untransportable: true,
			}
		}
	}
	if len(units) > ship.Capacity() {
		return nil, &CapacityError{
			ShipType:       ship.Type,
			ShipCapacity:   ship.Capacity(),
			UnitsRequested: len(units),
		}
	}
	cargo := make([]Unit, len(units))
	copy(cargo, units)
	return &TransportState{
		Ship:         ship,
		Cargo:        cargo,
		OriginSystem: originSystemID,
		Player:       ship.Owner,
	}, nil
}

// UnloadUnits returns the transported units and clears the cargo.
// Unloading an empty state is a harmless no-op returning nil.
func (m *TransportManager) UnloadUnits(state *TransportState, destinationSystemID string) []Unit {
	if len(state.Cargo) == 0 {
		return nil
	}
	units := state.Cargo
	state.Cargo = nil
	return units
}

// CanPickupFromSystem applies the command-token pickup rule: a player may
// not pick up units from a system holding one of their command tokens,
// unless that system is the active system of the current tactical action.
// The token-presence and active-system facts are computed by the caller.
func (m *TransportManager) CanPickupFromSystem(systemID string, player PlayerID, hasCommandToken, isActiveSystem bool) bool {
	if hasCommandToken && !isActiveSystem {
		return false
	}
	return true
}

// ValidatePickupDuringMovement checks pickup eligibility at a system
// passed through during movement. Pickup at the starting system is
// unconditionally allowed; every other system, the active system
// included, follows the command-token rule.
func (m *TransportManager) ValidatePickupDuringMovement(pickupSystemID, startingSystemID, activeSystemID string, hasCommandToken bool) bool {
	if pickupSystemID == startingSystemID {
		return true
	}
	return m.CanPickupFromSystem(pickupSystemID, "", hasCommandToken, pickupSystemID == activeSystemID)
}
