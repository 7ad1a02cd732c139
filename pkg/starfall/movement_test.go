package starfall

import "testing"

func testGalaxy() *Galaxy {
	return &Galaxy{
		Systems: map[string]*System{
			"ring-1": {ID: "ring-1", Planets: []Planet{{Name: "Vega Major"}}},
			"nexus":  {ID: "nexus", Planets: []Planet{{Name: "Mecatol"}}},
		},
		Adjacencies: map[string][]string{
			"ring-1": {"nexus"},
			"nexus":  {"ring-1"},
		},
	}
}

func TestExecuteShipMoveRelocatesShipAndCargo(t *testing.T) {
	g := testGalaxy()
	carrier := Unit{Carrier, "red"}
	g.System("ring-1").PlaceInSpace(carrier)

	x := NewMovementExecutor(g)
	state, err := x.PickupForMove("ring-1", carrier, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := x.Execute(ShipMove{Ship: carrier, FromSystem: "ring-1", ToSystem: "nexus", Transport: state}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(g.System("ring-1").Space) != 0 {
		t.Error("ship should have left ring-1")
	}
	if len(g.System("nexus").Space) != 1 {
		t.Error("ship should be in nexus space area")
	}
}

func TestExecuteShipMovePreconditions(t *testing.T) {
	g := testGalaxy()
	x := NewMovementExecutor(g)
	carrier := Unit{Carrier, "red"}

	if err := x.Execute(ShipMove{Ship: carrier, FromSystem: "void", ToSystem: "nexus"}); err == nil {
		t.Error("unknown origin must fail")
	}
	if err := x.Execute(ShipMove{Ship: carrier, FromSystem: "ring-1", ToSystem: "void"}); err == nil {
		t.Error("unknown destination must fail")
	}
	if err := x.Execute(ShipMove{Ship: carrier, FromSystem: "ring-1", ToSystem: "nexus"}); err == nil {
		t.Error("absent ship must fail")
	}
}

func TestPickupForMoveTakesUnitsOutOfSystem(t *testing.T) {
	g := testGalaxy()
	sys := g.System("ring-1")
	carrier := Unit{Carrier, "red"}
	sys.PlaceInSpace(carrier)
	sys.PlaceInSpace(Unit{Fighter, "red"})
	sys.Planets[0].Units = []Unit{{Infantry, "red"}, {Infantry, "red"}}

	x := NewMovementExecutor(g)
	state, err := x.PickupForMove("ring-1", carrier,
		[]Unit{{Fighter, "red"}, {Infantry, "red"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Cargo) != 2 {
		t.Fatalf("expected 2 cargo units, got %d", len(state.Cargo))
	}
	// Cargo is out of the system's direct unit lists while aboard.
	if len(sys.Space) != 1 {
		t.Errorf("only the carrier should remain in space, got %d units", len(sys.Space))
	}
	if len(sys.Planets[0].Units) != 1 {
		t.Errorf("one infantry should remain on the planet, got %d", len(sys.Planets[0].Units))
	}
}

func TestPickupForMoveMissingUnit(t *testing.T) {
	g := testGalaxy()
	carrier := Unit{Carrier, "red"}
	g.System("ring-1").PlaceInSpace(carrier)

	x := NewMovementExecutor(g)
	_, err := x.PickupForMove("ring-1", carrier, []Unit{{Infantry, "red"}})
	if _, ok := err.(*PreconditionError); !ok {
		t.Errorf("requesting absent cargo is a precondition failure, got %v", err)
	}
}

func TestLandGroundForces(t *testing.T) {
	g := testGalaxy()
	v := NewTransportValidator()

	checked, err := v.ValidatePreTransport(Unit{Carrier, "red"},
		[]Unit{{Infantry, "red"}, {Fighter, "red"}, {Mech, "red"}}, "ring-1")
	if err != nil {
		t.Fatal(err)
	}
	mv, err := v.ValidateMovement(checked, "ring-1", "nexus")
	if err != nil {
		t.Fatal(err)
	}
	landing, err := v.ValidateLanding(mv, g.System("nexus"), "Mecatol")
	if err != nil {
		t.Fatal(err)
	}

	c := NewInvasionController(g)
	landed, err := c.LandGroundForces(landing, "nexus")
	if err != nil {
		t.Fatalf("LandGroundForces: %v", err)
	}
	if len(landed) != 2 {
		t.Fatalf("expected 2 landed units, got %d", len(landed))
	}
	for _, u := range landed {
		if u.Type == Fighter {
			t.Error("a fighter landed")
		}
	}

	planet := g.System("nexus").Planet("Mecatol")
	if len(planet.Units) != 2 {
		t.Errorf("planet should hold the landed units, got %d", len(planet.Units))
	}

	// The fighter stays aboard.
	state := mv.State()
	if len(state.Cargo) != 1 || state.Cargo[0].Type != Fighter {
		t.Errorf("only the fighter should remain aboard, got %+v", state.Cargo)
	}
}

func TestLandGroundForcesEmptiesCargoWhenAllLand(t *testing.T) {
	g := testGalaxy()
	v := NewTransportValidator()

	checked, _ := v.ValidatePreTransport(Unit{Carrier, "red"}, []Unit{{Infantry, "red"}}, "ring-1")
	mv, _ := v.ValidateMovement(checked, "ring-1", "nexus")
	landing, _ := v.ValidateLanding(mv, g.System("nexus"), "Mecatol")

	c := NewInvasionController(g)
	landed, err := c.LandGroundForces(landing, "nexus")
	if err != nil {
		t.Fatal(err)
	}
	if len(landed) != 1 {
		t.Fatalf("expected 1 landed unit, got %d", len(landed))
	}
	if len(mv.State().Cargo) != 0 {
		t.Error("cargo should be empty after everything lands")
	}
}

func TestLandGroundForcesUnknownSystem(t *testing.T) {
	g := testGalaxy()
	v := NewTransportValidator()
	checked, _ := v.ValidatePreTransport(Unit{Carrier, "red"}, []Unit{{Infantry, "red"}}, "ring-1")
	mv, _ := v.ValidateMovement(checked, "ring-1", "nexus")
	landing, _ := v.ValidateLanding(mv, g.System("nexus"), "Mecatol")

	c := NewInvasionController(g)
	if _, err := c.LandGroundForces(landing, "void"); err == nil {
		t.Error("unknown system must fail")
	}
}
