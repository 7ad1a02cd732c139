package starfall

import "testing"

func fleetOf(ships ...Unit) *Fleet {
	return &Fleet{Player: "red", System: "ring-1", Ships: ships}
}

func TestTotalTransportCapacity(t *testing.T) {
	cases := []struct {
		name  string
		fleet *Fleet
		want  int
	}{
		{"empty fleet", fleetOf(), 0},
		{"single carrier", fleetOf(Unit{Carrier, "red"}), 4},
		{"zero-capacity ships count as zero", fleetOf(Unit{Destroyer, "red"}, Unit{Cruiser, "red"}), 0},
		{"mixed fleet", fleetOf(Unit{Carrier, "red"}, Unit{Dreadnought, "red"}, Unit{Destroyer, "red"}), 5},
		{"war sun and flagship", fleetOf(Unit{WarSun, "red"}, Unit{Flagship, "red"}), 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fleet.TotalTransportCapacity(); got != tc.want {
				t.Errorf("TotalTransportCapacity = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFleetCanTransportUnits(t *testing.T) {
	fleet := fleetOf(Unit{Carrier, "red"}, Unit{Dreadnought, "red"})

	five := make([]Unit, 5)
	for i := range five {
		five[i] = Unit{Infantry, "red"}
	}
	if !fleet.CanTransportUnits(five) {
		t.Error("5 infantry should fit capacity 5")
	}
	if fleet.CanTransportUnits(append(five, Unit{Infantry, "red"})) {
		t.Error("6 infantry should not fit capacity 5")
	}
	if fleet.CanTransportUnits([]Unit{{Destroyer, "red"}}) {
		t.Error("ships are never valid cargo")
	}
}

func TestNewFleetCollectsOnlyOwnShips(t *testing.T) {
	sys := &System{ID: "ring-1", Space: []Unit{
		{Carrier, "red"},
		{Fighter, "red"},
		{Dreadnought, "blue"},
		{Cruiser, "red"},
	}}
	fleet := NewFleet(sys, "red")
	if len(fleet.Ships) != 2 {
		t.Fatalf("expected 2 ships, got %d", len(fleet.Ships))
	}
	if fleet.Ships[0].Type != Carrier || fleet.Ships[1].Type != Cruiser {
		t.Errorf("fleet order must follow space-area order: %+v", fleet.Ships)
	}
}

func TestOptimizeDistributionGreedyFill(t *testing.T) {
	// Carrier(4) + two dreadnoughts(1 each), 6 infantry: 4/1/1, none left over.
	fleet := fleetOf(Unit{Carrier, "red"}, Unit{Dreadnought, "red"}, Unit{Dreadnought, "red"})
	units := make([]Unit, 6)
	for i := range units {
		units[i] = Unit{Infantry, "red"}
	}

	states := fleet.OptimizeDistribution(units, "ring-1")
	if len(states) != 3 {
		t.Fatalf("expected a state per ship, got %d", len(states))
	}
	if got := len(states[0].Cargo); got != 4 {
		t.Errorf("carrier should carry 4, got %d", got)
	}
	if got := len(states[1].Cargo); got != 1 {
		t.Errorf("first dreadnought should carry 1, got %d", got)
	}
	if got := len(states[2].Cargo); got != 1 {
		t.Errorf("second dreadnought should carry 1, got %d", got)
	}

	total := 0
	for _, s := range states {
		total += len(s.Cargo)
	}
	if total != 6 {
		t.Errorf("all 6 units must be placed, placed %d", total)
	}
}

func TestOptimizeDistributionLargestShipFirst(t *testing.T) {
	// Fleet order has the small ship first; the war sun still fills first.
	fleet := fleetOf(Unit{Dreadnought, "red"}, Unit{WarSun, "red"})
	units := []Unit{{Infantry, "red"}, {Infantry, "red"}, {Infantry, "red"}}

	states := fleet.OptimizeDistribution(units, "ring-1")
	if got := len(states[1].Cargo); got != 3 {
		t.Errorf("war sun should take all 3, got %d", got)
	}
	if got := len(states[0].Cargo); got != 0 {
		t.Errorf("dreadnought should stay empty, got %d", got)
	}
}

func TestOptimizeDistributionStableTieBreak(t *testing.T) {
	// Equal capacities fill in fleet order.
	fleet := fleetOf(Unit{Dreadnought, "red"}, Unit{Dreadnought, "red"})
	units := []Unit{{Infantry, "red"}}

	states := fleet.OptimizeDistribution(units, "ring-1")
	if len(states[0].Cargo) != 1 || len(states[1].Cargo) != 0 {
		t.Errorf("first dreadnought in fleet order must fill first: %d/%d",
			len(states[0].Cargo), len(states[1].Cargo))
	}
}

func TestOptimizeDistributionEmptyStatesIncluded(t *testing.T) {
	fleet := fleetOf(Unit{Carrier, "red"}, Unit{Destroyer, "red"})
	states := fleet.OptimizeDistribution(nil, "ring-1")
	if len(states) != 2 {
		t.Fatalf("every ship appears in the plan, got %d states", len(states))
	}
	for i, s := range states {
		if len(s.Cargo) != 0 {
			t.Errorf("state %d should be empty", i)
		}
		if s.OriginSystem != "ring-1" || s.Player != "red" {
			t.Errorf("state %d metadata: %+v", i, s)
		}
	}
}

func TestOptimizeDistributionCapacityExhausted(t *testing.T) {
	// More units requested than total capacity: fill to capacity, leave the rest.
	fleet := fleetOf(Unit{Dreadnought, "red"})
	units := []Unit{{Infantry, "red"}, {Infantry, "red"}}

	states := fleet.OptimizeDistribution(units, "ring-1")
	if got := len(states[0].Cargo); got != 1 {
		t.Errorf("dreadnought carries 1, got %d", got)
	}
}
