package starfall

// PlayerID identifies a player (faction) in a game.
type PlayerID string

// UnitType represents the type of a unit on the board.
type UnitType int

const (
	Fighter UnitType = iota
	Infantry
	Mech
	Carrier
	Destroyer
	Cruiser
	Dreadnought
	Flagship
	WarSun
)

// UnitSpec holds the static data for one unit type.
type UnitSpec struct {
	Type          UnitType
	Name          string
	Capacity      int  // cargo slots, ships only
	Move          int  // systems per tactical action, ships only
	Transportable bool // true only for fighters and ground forces
	Ship          bool
	GroundForce   bool
}

// unitSpecStore provides O(1) struct-based lookup for unit specs.
type unitSpecStore struct {
	Fighter     UnitSpec
	Infantry    UnitSpec
	Mech        UnitSpec
	Carrier     UnitSpec
	Destroyer   UnitSpec
	Cruiser     UnitSpec
	Dreadnought UnitSpec
	Flagship    UnitSpec
	WarSun      UnitSpec
}

var unitSpecs = unitSpecStore{
	Fighter:     UnitSpec{Type: Fighter, Name: "Fighter", Transportable: true},
	Infantry:    UnitSpec{Type: Infantry, Name: "Infantry", Transportable: true, GroundForce: true},
	Mech:        UnitSpec{Type: Mech, Name: "Mech", Transportable: true, GroundForce: true},
	Carrier:     UnitSpec{Type: Carrier, Name: "Carrier", Capacity: 4, Move: 1, Ship: true},
	Destroyer:   UnitSpec{Type: Destroyer, Name: "Destroyer", Capacity: 0, Move: 2, Ship: true},
	Cruiser:     UnitSpec{Type: Cruiser, Name: "Cruiser", Capacity: 0, Move: 2, Ship: true},
	Dreadnought: UnitSpec{Type: Dreadnought, Name: "Dreadnought", Capacity: 1, Move: 1, Ship: true},
	Flagship:    UnitSpec{Type: Flagship, Name: "Flagship", Capacity: 3, Move: 1, Ship: true},
	WarSun:      UnitSpec{Type: WarSun, Name: "War Sun", Capacity: 6, Move: 2, Ship: true},
}

// Spec returns the static spec for a unit type.
func (t UnitType) Spec() *UnitSpec {
	switch t {
	case Fighter:
		return &unitSpecs.Fighter
	case Infantry:
		return &unitSpecs.Infantry
	case Mech:
		return &unitSpecs.Mech
	case Carrier:
		return &unitSpecs.Carrier
	case Destroyer:
		return &unitSpecs.Destroyer
	case Cruiser:
		return &unitSpecs.Cruiser
	case Dreadnought:
		return &unitSpecs.Dreadnought
	case Flagship:
		return &unitSpecs.Flagship
	case WarSun:
		return &unitSpecs.WarSun
	default:
		return nil
	}
}

func (t UnitType) String() string {
	if s := t.Spec(); s != nil {
		return s.Name
	}
	return "unknown"
}

// Capacity returns the cargo capacity of a unit type. Non-ships carry nothing.
func (t UnitType) Capacity() int {
	if s := t.Spec(); s != nil {
		return s.Capacity
	}
	return 0
}

// Move returns how many systems the unit may cross in one tactical
// action. Non-ships move zero systems on their own.
func (t UnitType) Move() int {
	if s := t.Spec(); s != nil {
		return s.Move
	}
	return 0
}

// Transportable reports whether the unit type may be carried as cargo.
// Ships are never cargo.
func (t UnitType) Transportable() bool {
	if s := t.Spec(); s != nil {
		return s.Transportable
	}
	return false
}

// IsShip reports whether the unit type is a ship.
func (t UnitType) IsShip() bool {
	if s := t.Spec(); s != nil {
		return s.Ship
	}
	return false
}

// IsGroundForce reports whether the unit type can land on a planet.
func (t UnitType) IsGroundForce() bool {
	if s := t.Spec(); s != nil {
		return s.GroundForce
	}
	return false
}

// AllUnitTypes returns every unit type in declaration order.
func AllUnitTypes() []UnitType {
	return []UnitType{Fighter, Infantry, Mech, Carrier, Destroyer, Cruiser, Dreadnought, Flagship, WarSun}
}

// ParseUnitType resolves a unit type from its display name.
func ParseUnitType(name string) (UnitType, bool) {
	for _, t := range AllUnitTypes() {
		if t.Spec().Name == name {
			return t, true
		}
	}
	return 0, false
}

// Unit represents a single unit on the board.
type Unit struct {
	Type  UnitType `json:"type"`
	Owner PlayerID `json:"owner"`
}

// Capacity returns the unit's cargo capacity.
func (u Unit) Capacity() int { return u.Type.Capacity() }

// Move returns the unit's movement value.
func (u Unit) Move() int { return u.Type.Move() }

// Transportable reports whether the unit may be carried as cargo.
func (u Unit) Transportable() bool { return u.Type.Transportable() }
