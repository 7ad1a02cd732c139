package starfall

// ShipMove is the movement-operation carrier consumed by the movement
// executor. When Transport is set, the ship's cargo relocates with it in
// the same operation; there is never a separate cargo move.
type ShipMove struct {
	Ship       Unit            `json:"ship"`
	FromSystem string          `json:"from_system"`
	ToSystem   string          `json:"to_system"`
	Transport  *TransportState `json:"transport,omitempty"`
}

// MovementExecutor applies confirmed ship moves to the galaxy. Transport
// components validate; the executor is the only party that mutates
// system unit collections during movement.
type MovementExecutor struct {
	galaxy *Galaxy
}

// NewMovementExecutor creates a MovementExecutor over the galaxy.
func NewMovementExecutor(g *Galaxy) *MovementExecutor {
	return &MovementExecutor{galaxy: g}
}

// Execute relocates the ship (and, atomically, its cargo) from one
// system's space area to another. The cargo stays inside the
// TransportState; only the ship appears in system unit lists.
func (x *MovementExecutor) Execute(move ShipMove) error {
	from := x.galaxy.System(move.FromSystem)
	if from == nil {
		return &PreconditionError{SystemID: move.FromSystem, Msg: "move from unknown system"}
	}
	to := x.galaxy.System(move.ToSystem)
	if to == nil {
		return &PreconditionError{SystemID: move.ToSystem, Msg: "move to unknown system"}
	}
	if !from.RemoveFromSpace(move.Ship) {
		return &PreconditionError{SystemID: move.FromSystem, Msg: "ship not present in system"}
	}
	to.PlaceInSpace(move.Ship)
	return nil
}

// PickupForMove removes the requested units from the origin system's
// space area and planets and loads them aboard the ship. Units are taken
// from space first, then planets in order.
func (x *MovementExecutor) PickupForMove(systemID string, ship Unit, units []Unit) (*TransportState, error) {
	sys := x.galaxy.System(systemID)
	if sys == nil {
		return nil, &PreconditionError{SystemID: systemID, Msg: "pickup from unknown system"}
	}
	state, err := NewTransportManager().LoadUnits(ship, units, systemID)
	if err != nil {
		return nil, err
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
			return nil, &PreconditionError{SystemID: systemID, Msg: "requested cargo unit not present in system"}
		}
	}
	return state, nil
}

// InvasionController performs the landing step of an invasion: ground
// forces leave the ship's hold for a named planet.
type InvasionController struct {
	galaxy    *Galaxy
	validator *TransportValidator
}

// NewInvasionController creates an InvasionController over the galaxy.
func NewInvasionController(g *Galaxy) *InvasionController {
	return &InvasionController{galaxy: g, validator: NewTransportValidator()}
}

// LandGroundForces lands the validated ground forces on the planet and
// removes exactly those units from the transport's cargo. Fighters stay
// aboard. Returns the units that landed.
func (c *InvasionController) LandGroundForces(checked LandingChecked, systemID string) ([]Unit, error) {
	sys := c.galaxy.System(systemID)
	if sys == nil {
		return nil, &PreconditionError{SystemID: systemID, Planet: checked.planet, Msg: "landing in unknown system"}
	}
	planet := sys.Planet(checked.planet)
	if planet == nil {
		return nil, &PreconditionError{SystemID: systemID, Planet: checked.planet, Msg: "planet not in system"}
	}

	state := checked.state
	landed := make([]Unit, 0, len(checked.landable))
	remaining := state.Cargo[:0]
	for _, u := range state.Cargo {
		if u.Type.IsGroundForce() {
			planet.Units = append(planet.Units, u)
			landed = append(landed, u)
		} else {
			remaining = append(remaining, u)
		}
	}
	if len(remaining) == 0 {
		state.Cargo = nil
	} else {
		state.Cargo = remaining
	}
	return landed, nil
}

// Validator exposes the controller's validation pipeline so callers run
// landing validation against the same rules the landing itself uses.
func (c *InvasionController) Validator() *TransportValidator {
	return c.validator
}
