package starfall

// Planet is a named planet inside a system, with the ground units on it.
type Planet struct {
	Name  string `json:"name"`
	Units []Unit `json:"units,omitempty"`
}

// System is one tile of the galaxy: a space area plus zero or more planets.
type System struct {
	ID      string   `json:"id"`
	Space   []Unit   `json:"space,omitempty"`
	Planets []Planet `json:"planets,omitempty"`
}

// Planet returns the named planet in the system, or nil if absent.
func (s *System) Planet(name string) *Planet {
	for i := range s.Planets {
		if s.Planets[i].Name == name {
			return &s.Planets[i]
		}
	}
	return nil
}

// ShipsOf returns the ships in the system's space area belonging to a player,
// in stable space-area order.
func (s *System) ShipsOf(player PlayerID) []Unit {
	var ships []Unit
	for _, u := range s.Space {
		if u.Owner == player && u.Type.IsShip() {
			ships = append(ships, u)
		}
	}
	return ships
}

// PlaceInSpace adds a unit to the system's space area.
func (s *System) PlaceInSpace(u Unit) {
	s.Space = append(s.Space, u)
}

// RemoveFromSpace removes the first matching unit from the space area.
// Returns false if no such unit is present.
func (s *System) RemoveFromSpace(u Unit) bool {
	for i := range s.Space {
		if s.Space[i] == u {
			s.Space = append(s.Space[:i], s.Space[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveFromPlanet removes the first matching unit from the named planet.
// Returns false if the planet or unit is absent.
func (s *System) RemoveFromPlanet(planet string, u Unit) bool {
	p := s.Planet(planet)
	if p == nil {
		return false
	}
	for i := range p.Units {
		if p.Units[i] == u {
			p.Units = append(p.Units[:i], p.Units[i+1:]...)
			return true
		}
	}
	return false
}

// Galaxy is the board: systems keyed by ID plus their adjacency.
type Galaxy struct {
	Systems     map[string]*System  `json:"systems"`
	Adjacencies map[string][]string `json:"adjacencies"`
}

// System returns the system with the given ID, or nil.
func (g *Galaxy) System(id string) *System {
	return g.Systems[id]
}

// Adjacent reports whether two systems share an edge.
func (g *Galaxy) Adjacent(from, to string) bool {
	for _, id := range g.Adjacencies[from] {
		if id == to {
			return true
		}
	}
	return false
}

// WithinRange reports whether to is reachable from from in at most moves
// hops of adjacency. A system is always within range of itself.
func (g *Galaxy) WithinRange(from, to string, moves int) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{from: true}
	frontier := []string{from}
	for step := 0; step < moves; step++ {
		var next []string
		for _, id := range frontier {
			for _, adj := range g.Adjacencies[id] {
				if adj == to {
					return true
				}
				if !visited[adj] {
					visited[adj] = true
					next = append(next, adj)
				}
			}
		}
		frontier = next
	}
	return false
}

// GameState is a complete snapshot of one game at a point in time.
type GameState struct {
	Round         int                   `json:"round"`
	ActivePlayer  PlayerID              `json:"active_player"`
	ActiveSystem  string                `json:"active_system,omitempty"`
	Galaxy        *Galaxy               `json:"galaxy"`
	CommandTokens map[PlayerID][]string `json:"command_tokens,omitempty"` // player -> systems holding a token
}

// HasCommandToken reports whether the player has a command token in the system.
func (gs *GameState) HasCommandToken(player PlayerID, systemID string) bool {
	for _, id := range gs.CommandTokens[player] {
		if id == systemID {
			return true
		}
	}
	return false
}

// PlaceCommandToken records a command token for the player in the system.
// Placing a second token in the same system is a no-op.
func (gs *GameState) PlaceCommandToken(player PlayerID, systemID string) {
	if gs.HasCommandToken(player, systemID) {
		return
	}
	if gs.CommandTokens == nil {
		gs.CommandTokens = make(map[PlayerID][]string)
	}
	gs.CommandTokens[player] = append(gs.CommandTokens[player], systemID)
}

// UnitsOf returns every unit belonging to the player, space and ground alike.
func (gs *GameState) UnitsOf(player PlayerID) []Unit {
	var units []Unit
	for _, sys := range gs.Galaxy.Systems {
		for _, u := range sys.Space {
			if u.Owner == player {
				units = append(units, u)
			}
		}
		for _, p := range sys.Planets {
			for _, u := range p.Units {
				if u.Owner == player {
					units = append(units, u)
				}
			}
		}
	}
	return units
}

// UnitCount returns the number of units belonging to the player.
func (gs *GameState) UnitCount(player PlayerID) int {
	return len(gs.UnitsOf(player))
}

// Clone returns a deep copy of the GameState. Mutations to the clone
// do not affect the original, which is needed when a tactical action
// is resolved against a working copy before being committed.
func (gs *GameState) Clone() *GameState {
	c := &GameState{
		Round:        gs.Round,
		ActivePlayer: gs.ActivePlayer,
		ActiveSystem: gs.ActiveSystem,
	}
	if gs.Galaxy != nil {
		c.Galaxy = &Galaxy{
			Systems:     make(map[string]*System, len(gs.Galaxy.Systems)),
			Adjacencies: gs.Galaxy.Adjacencies,
		}
		for id, sys := range gs.Galaxy.Systems {
			cs := &System{ID: sys.ID}
			if sys.Space != nil {
				cs.Space = make([]Unit, len(sys.Space))
				copy(cs.Space, sys.Space)
			}
			if sys.Planets != nil {
				cs.Planets = make([]Planet, len(sys.Planets))
				for i, p := range sys.Planets {
					cp := Planet{Name: p.Name}
					if p.Units != nil {
						cp.Units = make([]Unit, len(p.Units))
						copy(cp.Units, p.Units)
					}
					cs.Planets[i] = cp
				}
			}
			c.Galaxy.Systems[id] = cs
		}
	}
	if gs.CommandTokens != nil {
		c.CommandTokens = make(map[PlayerID][]string, len(gs.CommandTokens))
		for k, v := range gs.CommandTokens {
			ids := make([]string, len(v))
			copy(ids, v)
			c.CommandTokens[k] = ids
		}
	}
	return c
}
