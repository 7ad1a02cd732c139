package starfall

import "testing"

// --- Unit spec tests ---

func TestUnitSpecCapacities(t *testing.T) {
	cases := []struct {
		unitType UnitType
		capacity int
	}{
		{Carrier, 4}, {Dreadnought, 1}, {Destroyer, 0}, {Cruiser, 0},
		{Flagship, 3}, {WarSun, 6}, {Fighter, 0}, {Infantry, 0}, {Mech, 0},
	}
	for _, tc := range cases {
		if got := tc.unitType.Capacity(); got != tc.capacity {
			t.Errorf("%s capacity = %d, want %d", tc.unitType, got, tc.capacity)
		}
	}
}

func TestTransportabilityIsClosed(t *testing.T) {
	for _, ut := range AllUnitTypes() {
		spec := ut.Spec()
		if spec == nil {
			t.Fatalf("%d has no spec", ut)
		}
		if spec.Ship && spec.Transportable {
			t.Errorf("%s: ships are never cargo", ut)
		}
		if spec.GroundForce && !spec.Transportable {
			t.Errorf("%s: ground forces must be transportable", ut)
		}
	}
}

func TestUnitSpecMoveValues(t *testing.T) {
	cases := []struct {
		unitType UnitType
		move     int
	}{
		{Carrier, 1}, {Dreadnought, 1}, {Flagship, 1},
		{Destroyer, 2}, {Cruiser, 2}, {WarSun, 2},
		{Fighter, 0}, {Infantry, 0}, {Mech, 0},
	}
	for _, tc := range cases {
		if got := tc.unitType.Move(); got != tc.move {
			t.Errorf("%s move = %d, want %d", tc.unitType, got, tc.move)
		}
	}
}

func TestOnlyFightersAndGroundForcesTransportable(t *testing.T) {
	want := map[UnitType]bool{Fighter: true, Infantry: true, Mech: true}
	for _, ut := range AllUnitTypes() {
		if got := ut.Transportable(); got != want[ut] {
			t.Errorf("%s transportable = %v, want %v", ut, got, want[ut])
		}
	}
}

// --- Galaxy tests ---

func TestStandardGalaxyAdjacencyBidirectional(t *testing.T) {
	g := StandardGalaxy()
	for from, tos := range g.Adjacencies {
		for _, to := range tos {
			if !g.Adjacent(to, from) {
				t.Errorf("adjacency %s -> %s has no reverse", from, to)
			}
		}
	}
}

func TestWithinRange(t *testing.T) {
	g := StandardGalaxy()
	cases := []struct {
		from, to string
		moves    int
		want     bool
	}{
		{"home-red", "home-red", 0, true},
		{"home-red", "ring-1", 1, true},
		{"home-red", "nexus", 1, false},
		{"home-red", "nexus", 2, true},
		{"home-red", "home-blue", 2, false},
		{"home-red", "home-blue", 3, true},
		{"home-red", "home-yellow", 3, false},
		{"home-red", "home-yellow", 4, true},
		{"home-red", "void", 6, false},
	}
	for _, tc := range cases {
		if got := g.WithinRange(tc.from, tc.to, tc.moves); got != tc.want {
			t.Errorf("WithinRange(%s, %s, %d) = %v, want %v", tc.from, tc.to, tc.moves, got, tc.want)
		}
	}
}

func TestStandardGalaxySystems(t *testing.T) {
	g := StandardGalaxy()
	if len(g.Systems) != 11 {
		t.Errorf("expected 11 systems, got %d", len(g.Systems))
	}
	nexus := g.System("nexus")
	if nexus == nil || nexus.Planet("Mecatol") == nil {
		t.Error("nexus should exist and hold Mecatol")
	}
	for _, home := range []string{"home-red", "home-blue", "home-green", "home-yellow"} {
		if !g.Adjacent(home, homeRing(home)) {
			t.Errorf("%s should touch the ring", home)
		}
	}
}

func homeRing(home string) string {
	switch home {
	case "home-red":
		return "ring-1"
	case "home-blue":
		return "ring-2"
	case "home-green":
		return "ring-3"
	default:
		return "ring-4"
	}
}

func TestNewInitialState(t *testing.T) {
	gs := NewInitialState([]PlayerID{"red", "blue"})
	if gs.Round != 1 {
		t.Errorf("round = %d, want 1", gs.Round)
	}
	for _, p := range []PlayerID{"red", "blue"} {
		if got := gs.UnitCount(p); got != 6 {
			t.Errorf("%s: expected 6 starting units, got %d", p, got)
		}
	}
	if gs.UnitCount("green") != 0 {
		t.Error("absent player should have no units")
	}
}

func TestSystemRemoveFromSpace(t *testing.T) {
	sys := &System{ID: "ring-1", Space: []Unit{{Carrier, "red"}, {Fighter, "red"}}}
	if !sys.RemoveFromSpace(Unit{Fighter, "red"}) {
		t.Fatal("remove should succeed")
	}
	if len(sys.Space) != 1 {
		t.Errorf("expected 1 unit left, got %d", len(sys.Space))
	}
	if sys.RemoveFromSpace(Unit{Fighter, "red"}) {
		t.Error("second remove should fail")
	}
}

func TestCommandTokens(t *testing.T) {
	gs := &GameState{Galaxy: StandardGalaxy()}
	if gs.HasCommandToken("red", "ring-1") {
		t.Error("no tokens placed yet")
	}
	gs.PlaceCommandToken("red", "ring-1")
	gs.PlaceCommandToken("red", "ring-1") // duplicate is a no-op
	if !gs.HasCommandToken("red", "ring-1") {
		t.Error("token should be present")
	}
	if len(gs.CommandTokens["red"]) != 1 {
		t.Errorf("duplicate placement must not stack: %v", gs.CommandTokens["red"])
	}
}

func TestGameStateClone(t *testing.T) {
	gs := NewInitialState([]PlayerID{"red"})
	gs.PlaceCommandToken("red", "home-red")

	c := gs.Clone()
	c.Galaxy.System("home-red").Space = nil
	c.PlaceCommandToken("red", "nexus")

	if gs.UnitCount("red") != 6 {
		t.Error("mutating the clone changed the original galaxy")
	}
	if gs.HasCommandToken("red", "nexus") {
		t.Error("mutating clone tokens changed the original")
	}
}
