package agent

import (
	"testing"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

func TestNewMemory_NeutralTrustTowardEveryOtherPower(t *testing.T) {
	mem := NewMemory(diplomacy.France)

	if _, ok := mem.Trust[diplomacy.France]; ok {
		t.Error("memory should not carry a trust entry toward itself")
	}
	for _, p := range diplomacy.AllPowers() {
		if p == diplomacy.France {
			continue
		}
		if v := mem.Trust[p]; v != 0.0 {
			t.Errorf("expected neutral trust toward %s, got %v", p, v)
		}
	}
}

func TestAdjustTrust_ClampsToUnitRange(t *testing.T) {
	mem := NewMemory(diplomacy.France)

	mem.AdjustTrust(diplomacy.England, 5.0)
	if mem.Trust[diplomacy.England] != 1.0 {
		t.Errorf("expected trust clamped to 1.0, got %v", mem.Trust[diplomacy.England])
	}

	mem.AdjustTrust(diplomacy.Germany, -5.0)
	if mem.Trust[diplomacy.Germany] != -1.0 {
		t.Errorf("expected trust clamped to -1.0, got %v", mem.Trust[diplomacy.Germany])
	}
}

func TestAdjustTrust_AccumulatesAcrossCalls(t *testing.T) {
	mem := NewMemory(diplomacy.France)
	mem.AdjustTrust(diplomacy.England, 0.2)
	mem.AdjustTrust(diplomacy.England, 0.3)

	if got := mem.Trust[diplomacy.England]; got < 0.499 || got > 0.501 {
		t.Errorf("expected accumulated trust ~0.5, got %v", got)
	}
}

func TestRollYear_ConsolidatesAndClearsCurrentEntries(t *testing.T) {
	mem := NewMemory(diplomacy.France)
	mem.AddDiaryEntry(DiaryEntry{Year: 1901, Season: diplomacy.Spring, Phase: diplomacy.PhaseMovement, Content: "moved to Burgundy"})
	mem.AddDiaryEntry(DiaryEntry{Year: 1901, Season: diplomacy.Fall, Phase: diplomacy.PhaseMovement, Content: "took Munich"})

	mem.RollYear(1901, "a strong opening year")

	if len(mem.CurrentYearEntries) != 0 {
		t.Errorf("expected current-year entries cleared after roll, got %d", len(mem.CurrentYearEntries))
	}
	if len(mem.YearSummaries) != 1 || mem.YearSummaries[0].Year != 1901 {
		t.Fatalf("expected one consolidated summary for 1901, got %+v", mem.YearSummaries)
	}
}

func TestRecordEvent_Appends(t *testing.T) {
	mem := NewMemory(diplomacy.France)
	mem.RecordEvent(Event{Year: 1902, Power: diplomacy.Germany, Description: "broke the Burgundy agreement"})

	if len(mem.Events) != 1 || mem.Events[0].Power != diplomacy.Germany {
		t.Errorf("expected one recorded event against germany, got %+v", mem.Events)
	}
}
