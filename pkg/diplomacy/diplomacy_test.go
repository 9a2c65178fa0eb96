package diplomacy

import "testing"

// newTestState builds a minimal game state around the given units, with no
// supply centers, for resolution tests that don't care about ownership.
func newTestState(units ...Unit) *GameState {
	return &GameState{
		Year:          1901,
		Season:        Spring,
		Phase:         PhaseMovement,
		Units:         units,
		SupplyCenters: make(map[string]Power),
	}
}

// resultAt returns the resolved result for the order at location, or -1 if
// no such order was resolved.
func resultAt(results []ResolvedOrder, location string) OrderResult {
	for _, r := range results {
		if r.Order.Location == location {
			return r.Result
		}
	}
	return OrderResult(-1)
}

// --- Map tests ---

func TestStandardMapProvinceCount(t *testing.T) {
	board := StandardMap()
	if len(board.Provinces) != 75 {
		t.Errorf("expected 75 provinces, got %d", len(board.Provinces))
	}
}

func TestStandardMapSupplyCenterCount(t *testing.T) {
	board := StandardMap()
	count := 0
	for _, p := range board.Provinces {
		if p.IsSupplyCenter {
			count++
		}
	}
	if count != 34 {
		t.Errorf("expected 34 supply centers, got %d", count)
	}
}

func TestStandardMapAdjacencyBidirectional(t *testing.T) {
	board := StandardMap()
	for from, adjs := range board.Adjacencies {
		for _, adj := range adjs {
			found := false
			for _, rev := range board.Adjacencies[adj.To] {
				if rev.To == from {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("adjacency %s -> %s has no reverse", from, adj.To)
			}
		}
	}
}

func TestStandardMapSplitCoasts(t *testing.T) {
	board := StandardMap()
	cases := []struct {
		prov   string
		coasts []Coast
	}{
		{"spa", []Coast{NorthCoast, SouthCoast}},
		{"stp", []Coast{NorthCoast, SouthCoast}},
		{"bul", []Coast{EastCoast, SouthCoast}},
	}
	for _, tc := range cases {
		p := board.Provinces[tc.prov]
		if p == nil {
			t.Fatalf("province %s not found", tc.prov)
		}
		if len(p.Coasts) != len(tc.coasts) {
			t.Errorf("%s: expected %d coasts, got %d", tc.prov, len(tc.coasts), len(p.Coasts))
		}
	}
}

func TestInitialStateSetup(t *testing.T) {
	gs := NewInitialState()
	if gs.Year != 1901 {
		t.Errorf("expected year 1901, got %d", gs.Year)
	}
	if gs.Season != Spring {
		t.Errorf("expected Spring, got %s", gs.Season)
	}
	if len(gs.Units) != 22 {
		t.Errorf("expected 22 units, got %d", len(gs.Units))
	}
	for _, p := range AllPowers() {
		expected := 3
		if p == Russia {
			expected = 4
		}
		if gs.UnitCount(p) != expected {
			t.Errorf("%s: expected %d units, got %d", p, expected, gs.UnitCount(p))
		}
	}
}

func TestAdjacentArmyMovement(t *testing.T) {
	board := StandardMap()
	if !board.Adjacent("vie", NoCoast, "bud", NoCoast, false) {
		t.Error("army should be able to move vie -> bud")
	}
	if board.Adjacent("bre", NoCoast, "eng", NoCoast, false) {
		t.Error("army should not move bre -> eng")
	}
}

func TestAdjacentFleetMovement(t *testing.T) {
	board := StandardMap()
	if !board.Adjacent("eng", NoCoast, "nth", NoCoast, true) {
		t.Error("fleet should move eng -> nth")
	}
	if board.Adjacent("eng", NoCoast, "par", NoCoast, true) {
		t.Error("fleet should not move to inland par")
	}
}

func TestSplitCoastFleetAdjacency(t *testing.T) {
	board := StandardMap()
	if !board.Adjacent("spa", SouthCoast, "gol", NoCoast, true) {
		t.Error("F spa/sc should reach gol")
	}
	if board.Adjacent("spa", NorthCoast, "gol", NoCoast, true) {
		t.Error("F spa/nc should NOT reach gol")
	}
	if !board.Adjacent("spa", NorthCoast, "mao", NoCoast, true) {
		t.Error("F spa/nc should reach mao")
	}
}

// Regression: ApplyResolution must move the correct unit when one move's
// destination is another move's source (chained moves).
func TestApplyResolution_ChainedMoves(t *testing.T) {
	board := StandardMap()
	gs := newTestState(
		Unit{Army, France, "par", NoCoast},
		Unit{Fleet, England, "bre", NoCoast},
	)

	orders := []Order{
		{UnitType: Army, Power: France, Location: "par", Type: OrderMove, Target: "bre"},
		{UnitType: Fleet, Power: England, Location: "bre", Type: OrderMove, Target: "gas"},
	}

	results, dislodged := ResolveOrders(orders, gs, board)

	if r := resultAt(results, "par"); r != ResultSucceeded {
		t.Fatalf("par->bre: want succeeded, got %v", r)
	}
	if r := resultAt(results, "bre"); r != ResultSucceeded {
		t.Fatalf("bre->gas: want succeeded, got %v", r)
	}

	ApplyResolution(gs, board, results, dislodged)

	for _, u := range gs.Units {
		switch {
		case u.Power == France && u.Type == Army:
			if u.Province != "bre" {
				t.Errorf("French army should be at bre, got %s", u.Province)
			}
		case u.Power == England && u.Type == Fleet:
			if u.Province != "gas" {
				t.Errorf("English fleet should be at gas, got %s", u.Province)
			}
		default:
			t.Errorf("unexpected unit: %+v", u)
		}
	}
}

// Regression: a three-way move chain A->B, B->C, C->A must all resolve.
func TestApplyResolution_ThreeWayRotation(t *testing.T) {
	board := StandardMap()
	gs := newTestState(
		Unit{Fleet, France, "bre", NoCoast},
		Unit{Fleet, England, "eng", NoCoast},
		Unit{Fleet, Germany, "mao", NoCoast},
	)

	orders := []Order{
		{UnitType: Fleet, Power: France, Location: "bre", Type: OrderMove, Target: "eng"},
		{UnitType: Fleet, Power: England, Location: "eng", Type: OrderMove, Target: "mao"},
		{UnitType: Fleet, Power: Germany, Location: "mao", Type: OrderMove, Target: "bre"},
	}

	results, dislodged := ResolveOrders(orders, gs, board)
	ApplyResolution(gs, board, results, dislodged)

	expect := map[Power]string{France: "eng", England: "mao", Germany: "bre"}
	for _, u := range gs.Units {
		if want, ok := expect[u.Power]; ok {
			if u.Province != want {
				t.Errorf("%s fleet should be at %s, got %s", u.Power, want, u.Province)
			}
		}
	}
}
