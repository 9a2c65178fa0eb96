// Package agent implements the per-power Agent Session: conversation
// history, memory, and the deterministic Prompt Compressor that bounds
// token budget as a game's history grows.
package agent

import (
	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

// DiaryEntry is one current-year memory entry, retained verbatim until
// it is rolled up into a YearSummary at the year boundary.
type DiaryEntry struct {
	Year    int
	Season  diplomacy.Season
	Phase   diplomacy.PhaseType
	Content string
}

// YearSummary is a consolidated rollup of a prior year's diary entries.
type YearSummary struct {
	Year    int
	Summary string
}

// Event is one notable occurrence recorded against a relationship —
// a broken promise, an unsolicited attack, a kept agreement.
type Event struct {
	Year        int
	Season      diplomacy.Season
	Power       diplomacy.Power
	Description string
}

// Memory is the per-(game, power) AgentMemory: trust levels,
// relationship tags, an events log, goals/priorities, and a diary
// partitioned into current-year entries and consolidated year
// summaries. One Memory exists per (game, power) and persists across
// the whole game.
type Memory struct {
	Power Power

	// Trust maps each other power to a scalar in [-1, 1].
	Trust map[diplomacy.Power]float64

	// Relationships holds free-text tags, e.g. "ally", "rival".
	Relationships map[diplomacy.Power]string

	Events []Event

	Goals      []string
	Priorities []string

	CurrentYearEntries []DiaryEntry
	YearSummaries      []YearSummary
}

// Power is a type alias kept local so memory.go reads independently of
// the diplomacy import if ever split — currently just diplomacy.Power.
type Power = diplomacy.Power

// NewMemory creates a Memory with neutral trust toward every other
// power.
func NewMemory(self diplomacy.Power) *Memory {
	trust := make(map[diplomacy.Power]float64)
	for _, p := range diplomacy.AllPowers() {
		if p == self {
			continue
		}
		trust[p] = 0.0
	}
	return &Memory{
		Power:         self,
		Trust:         trust,
		Relationships: make(map[diplomacy.Power]string),
	}
}

// AdjustTrust nudges trust toward another power by delta, clamped to
// [-1, 1].
func (m *Memory) AdjustTrust(other diplomacy.Power, delta float64) {
	v := m.Trust[other] + delta
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	m.Trust[other] = v
}

// RecordEvent appends an event to the log.
func (m *Memory) RecordEvent(e Event) {
	m.Events = append(m.Events, e)
}

// AddDiaryEntry appends a current-year diary entry.
func (m *Memory) AddDiaryEntry(e DiaryEntry) {
	m.CurrentYearEntries = append(m.CurrentYearEntries, e)
}

// RollYear consolidates all current-year entries into a single
// YearSummary and clears the current-year buffer. The caller supplies
// the summary text and decides when a year is rolled.
func (m *Memory) RollYear(year int, summary string) {
	m.YearSummaries = append(m.YearSummaries, YearSummary{Year: year, Summary: summary})
	m.CurrentYearEntries = nil
}
