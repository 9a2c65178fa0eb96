package diplomacy

import "testing"

type distPair = struct {
	unit Unit
	dist int
}

func TestWorseForOwner_DistanceDominates(t *testing.T) {
	far := distPair{unit: Unit{Type: Army, Province: "aaa"}, dist: 5}
	near := distPair{unit: Unit{Type: Army, Province: "bbb"}, dist: 2}

	if !worseForOwner(far, near, near.dist) {
		t.Error("a unit farther from home should be preferred for disbandment")
	}
	if worseForOwner(near, far, far.dist) {
		t.Error("a unit closer to home should not be preferred for disbandment")
	}
}

func TestWorseForOwner_ArmyBeforeFleetOnTie(t *testing.T) {
	army := distPair{unit: Unit{Type: Army, Province: "aaa"}, dist: 3}
	fleet := distPair{unit: Unit{Type: Fleet, Province: "bbb"}, dist: 3}

	if !worseForOwner(army, fleet, fleet.dist) {
		t.Error("on a distance tie, an army should be disbanded before a fleet")
	}
	if worseForOwner(fleet, army, army.dist) {
		t.Error("a fleet should not be preferred over an army on a distance tie")
	}
}

func TestWorseForOwner_AlphabeticalOnFullTie(t *testing.T) {
	earlier := distPair{unit: Unit{Type: Army, Province: "aaa"}, dist: 3}
	later := distPair{unit: Unit{Type: Army, Province: "zzz"}, dist: 3}

	if !worseForOwner(earlier, later, later.dist) {
		t.Error("on a full tie, the alphabetically earlier province should be disbanded first")
	}
	if worseForOwner(later, earlier, earlier.dist) {
		t.Error("the alphabetically later province should not be preferred")
	}
}

func TestCivilDisorder_DeterministicAcrossRuns(t *testing.T) {
	m := StandardMap()
	gs := &GameState{
		Year:   1901,
		Season: Fall,
		Phase:  PhaseBuild,
		Units: []Unit{
			{Army, France, "spa", NoCoast},
			{Army, France, "por", NoCoast},
			{Army, France, "bur", NoCoast},
			{Army, France, "gas", NoCoast},
		},
		SupplyCenters: map[string]Power{"par": France, "mar": France},
	}

	first := ResolveBuildOrders(nil, gs, m)
	second := ResolveBuildOrders(nil, gs, m)

	if len(first) != len(second) {
		t.Fatalf("expected identical result length across runs, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Order.Location != second[i].Order.Location {
			t.Errorf("civil disorder selection is not deterministic: run1[%d]=%s run2[%d]=%s",
				i, first[i].Order.Location, i, second[i].Order.Location)
		}
	}
}
