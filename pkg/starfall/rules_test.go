package starfall

import "testing"

func loadedState(t *testing.T, ship Unit, cargo ...Unit) *TransportState {
	t.Helper()
	state, err := NewTransportManager().LoadUnits(ship, cargo, "ring-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return state
}

func TestValidateMovementConstraints(t *testing.T) {
	r := NewTransportRules()
	state := loadedState(t, Unit{Carrier, "red"}, Unit{Infantry, "red"})

	if !r.ValidateMovementConstraints(state, "ring-1", "nexus") {
		t.Error("loaded transport should be able to move between systems")
	}
	if r.ValidateMovementConstraints(state, "ring-1", "ring-1") {
		t.Error("a move must change systems")
	}
	if r.ValidateMovementConstraints(nil, "ring-1", "nexus") {
		t.Error("nil state cannot move")
	}
}

func TestUnitsInSpaceArea(t *testing.T) {
	r := NewTransportRules()
	state := loadedState(t, Unit{Carrier, "red"}, Unit{Infantry, "red"}, Unit{Fighter, "red"})

	units := r.UnitsInSpaceArea(state)
	if len(units) != 2 {
		t.Fatalf("expected 2 units in space area, got %d", len(units))
	}

	empty := &TransportState{Ship: Unit{Carrier, "red"}, Player: "red"}
	if got := r.UnitsInSpaceArea(empty); len(got) != 0 {
		t.Errorf("empty cargo should occupy nothing, got %d", len(got))
	}
}

func TestHandleShipDestruction(t *testing.T) {
	r := NewTransportRules()

	cases := []struct {
		name  string
		cargo []Unit
	}{
		{"no cargo", nil},
		{"one infantry", []Unit{{Infantry, "red"}}},
		{"mixed cargo", []Unit{{Infantry, "red"}, {Fighter, "red"}}},
		{"full carrier", []Unit{{Infantry, "red"}, {Infantry, "red"}, {Fighter, "red"}, {Fighter, "red"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &TransportState{
				Ship:         Unit{Carrier, "red"},
				Cargo:        append([]Unit(nil), tc.cargo...),
				OriginSystem: "ring-1",
				Player:       "red",
			}
			destroyed := r.HandleShipDestruction(state)
			if len(destroyed) != 1+len(tc.cargo) {
				t.Fatalf("expected %d destroyed units, got %d", 1+len(tc.cargo), len(destroyed))
			}
			if destroyed[0] != (Unit{Carrier, "red"}) {
				t.Errorf("first destroyed unit should be the ship, got %+v", destroyed[0])
			}
			for i, u := range tc.cargo {
				if destroyed[1+i] != u {
					t.Errorf("destroyed[%d] = %+v, want %+v", 1+i, destroyed[1+i], u)
				}
			}
			if len(state.Cargo) != 0 {
				t.Error("cargo must be cleared when the ship is destroyed")
			}
		})
	}
}

func TestDestructionDestroysCarrierInfantryAndFighter(t *testing.T) {
	r := NewTransportRules()
	state := loadedState(t, Unit{Carrier, "red"}, Unit{Infantry, "red"}, Unit{Fighter, "red"})

	destroyed := r.HandleShipDestruction(state)
	if len(destroyed) != 3 {
		t.Fatalf("expected 3 destroyed units, got %d", len(destroyed))
	}
	counts := map[UnitType]int{}
	for _, u := range destroyed {
		counts[u.Type]++
	}
	if counts[Carrier] != 1 || counts[Infantry] != 1 || counts[Fighter] != 1 {
		t.Errorf("unexpected destroyed set: %+v", counts)
	}
}

func TestCargoCannotRetreatSeparately(t *testing.T) {
	r := NewTransportRules()
	state := loadedState(t, Unit{Carrier, "red"}, Unit{Infantry, "red"})
	if r.CanCargoRetreatSeparately(state) {
		t.Error("cargo must never retreat independently of its ship")
	}
	if r.CanCargoRetreatSeparately(nil) {
		t.Error("nil state cannot retreat")
	}
}
