package starfall

// standardSystems lists the systems of the standard demo galaxy.
// A central nexus ring surrounded by home systems, enough board for a
// four-player game.
func standardSystems() []*System {
	return []*System{
		{ID: "nexus", Planets: []Planet{{Name: "Mecatol"}}},
		{ID: "ring-1", Planets: []Planet{{Name: "Vega Major"}, {Name: "Vega Minor"}}},
		{ID: "ring-2"},
		{ID: "ring-3", Planets: []Planet{{Name: "Lodor"}}},
		{ID: "ring-4"},
		{ID: "ring-5", Planets: []Planet{{Name: "Quann"}}},
		{ID: "ring-6", Planets: []Planet{{Name: "Saudor"}}},
		{ID: "home-red", Planets: []Planet{{Name: "Ascella"}}},
		{ID: "home-blue", Planets: []Planet{{Name: "Barra"}}},
		{ID: "home-green", Planets: []Planet{{Name: "Corath"}}},
		{ID: "home-yellow", Planets: []Planet{{Name: "Drell"}}},
	}
}

// standardAdjacencies returns one direction of each edge; StandardGalaxy
// mirrors them.
func standardAdjacencies() map[string][]string {
	return map[string][]string{
		"nexus":  {"ring-1", "ring-2", "ring-3", "ring-4", "ring-5", "ring-6"},
		"ring-1": {"ring-2", "ring-6", "home-red"},
		"ring-2": {"ring-3", "home-blue"},
		"ring-3": {"ring-4", "home-green"},
		"ring-4": {"ring-5", "home-yellow"},
		"ring-5": {"ring-6"},
		"ring-6": {},
	}
}

// StandardGalaxy builds the standard demo galaxy with bidirectional adjacency.
func StandardGalaxy() *Galaxy {
	g := &Galaxy{
		Systems:     make(map[string]*System),
		Adjacencies: make(map[string][]string),
	}
	for _, sys := range standardSystems() {
		g.Systems[sys.ID] = sys
	}
	for from, tos := range standardAdjacencies() {
		for _, to := range tos {
			g.Adjacencies[from] = append(g.Adjacencies[from], to)
			g.Adjacencies[to] = append(g.Adjacencies[to], from)
		}
	}
	return g
}

// NewInitialState returns a fresh four-player game on the standard galaxy.
// Each player starts with a carrier, a cruiser, two fighters and two
// infantry at home.
func NewInitialState(players []PlayerID) *GameState {
	gs := &GameState{
		Round:  1,
		Galaxy: StandardGalaxy(),
	}
	homes := []string{"home-red", "home-blue", "home-green", "home-yellow"}
	for i, p := range players {
		if i >= len(homes) {
			break
		}
		sys := gs.Galaxy.System(homes[i])
		sys.Space = append(sys.Space,
			Unit{Type: Carrier, Owner: p},
			Unit{Type: Cruiser, Owner: p},
			Unit{Type: Fighter, Owner: p},
			Unit{Type: Fighter, Owner: p},
		)
		home := &sys.Planets[0]
		home.Units = append(home.Units,
			Unit{Type: Infantry, Owner: p},
			Unit{Type: Infantry, Owner: p},
		)
	}
	return gs
}
