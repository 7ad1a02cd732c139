package starfall

// TransportRules implements the movement, destruction and retreat
// semantics of transported units.
type TransportRules struct{}

// NewTransportRules creates a TransportRules.
func NewTransportRules() *TransportRules {
	return &TransportRules{}
}

// ValidateMovementConstraints reports whether the transport may make the
// given move. Cargo moves atomically with its ship; there is no
// independent path for cargo, so the move is legal exactly when the
// ship's own move is.
func (r *TransportRules) ValidateMovementConstraints(state *TransportState, fromSystem, toSystem string) bool {
	if state == nil {
		return false
	}
	// Cargo never constrains the ship: a transport with any cargo load
	// moves exactly as the bare ship would.
	return fromSystem != toSystem
}

// UnitsInSpaceArea returns the units that occupy the system's space area
// while in transit. Cargo rides in space with its ship, never on a planet.
func (r *TransportRules) UnitsInSpaceArea(state *TransportState) []Unit {
	if state == nil || len(state.Cargo) == 0 {
		return nil
	}
	units := make([]Unit, len(state.Cargo))
	copy(units, state.Cargo)
	return units
}

// HandleShipDestruction resolves the loss of the transport ship:
// the ship and everything aboard are destroyed together. The returned
// slice holds the ship followed by each cargo unit, and the state's
// cargo is cleared.
func (r *TransportRules) HandleShipDestruction(state *TransportState) []Unit {
	destroyed := make([]Unit, 0, 1+len(state.Cargo))
	destroyed = append(destroyed, state.Ship)
	destroyed = append(destroyed, state.Cargo...)
	state.Cargo = nil
	return destroyed
}

// CanCargoRetreatSeparately reports whether transported units may retreat
// independently of their ship. They never can.
func (r *TransportRules) CanCargoRetreatSeparately(state *TransportState) bool {
	return false
}
