package starfall

import "sort"

// Fleet is the ordered set of one player's ships in one system. Order is
// the system's stable space-area order and drives every deterministic
// tie-break below.
type Fleet struct {
	Player PlayerID
	System string
	Ships  []Unit
}

// NewFleet collects the player's ships in the given system into a Fleet.
func NewFleet(sys *System, player PlayerID) *Fleet {
	return &Fleet{
		Player: player,
		System: sys.ID,
		Ships:  sys.ShipsOf(player),
	}
}

// TotalTransportCapacity sums cargo capacity across the fleet's ships.
// Zero-capacity ships contribute zero; they are not excluded.
func (f *Fleet) TotalTransportCapacity() int {
	total := 0
	for _, s := range f.Ships {
		total += s.Capacity()
	}
	return total
}

// CanTransportUnits reports whether the fleet as a whole could carry all
// the given units: total requested within total capacity, and every unit
// a valid cargo type.
func (f *Fleet) CanTransportUnits(units []Unit) bool {
	if len(units) > f.TotalTransportCapacity() {
		return false
	}
	for _, u := range units {
		if !u.Transportable() {
			return false
		}
	}
	return true
}

// OptimizeDistribution assigns units across the fleet's ships greedily:
// ships sorted by descending capacity, each filled before advancing to
// the next, until units or capacity run out. Ships of equal capacity
// keep their fleet order, so the result is deterministic. Every ship
// appears in the result, cargo or not.
func (f *Fleet) OptimizeDistribution(units []Unit, originSystemID string) []*TransportState {
	order := make([]int, len(f.Ships))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.Ships[order[a]].Capacity() > f.Ships[order[b]].Capacity()
	})

	states := make([]*TransportState, len(f.Ships))
	next := 0
	for _, idx := range order {
		ship := f.Ships[idx]
		take := ship.Capacity()
		if remaining := len(units) - next; take > remaining {
			take = remaining
		}
		state := &TransportState{
			Ship:         ship,
			OriginSystem: originSystemID,
			Player:       ship.Owner,
		}
		if take > 0 {
			state.Cargo = make([]Unit, take)
			copy(state.Cargo, units[next:next+take])
			next += take
		}
		states[idx] = state
	}
	return states
}
