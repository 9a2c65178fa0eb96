package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

// Level is a prompt-compression tier, selected deterministically by
// turn number so identical game histories always compress identically.
type Level int

const (
	LevelNone Level = iota
	LevelModerate
	LevelAggressive
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelModerate:
		return "moderate"
	case LevelAggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// LevelForTurn selects the compression level for a turn number: none
// for turns 0-3, moderate for 4-8, aggressive for 9+.
func LevelForTurn(turnNumber int) Level {
	switch {
	case turnNumber <= 3:
		return LevelNone
	case turnNumber <= 8:
		return LevelModerate
	default:
		return LevelAggressive
	}
}

// StaticBlocks holds the verbatim text of every block the compressor
// may shorten or drop.
type StaticBlocks struct {
	RulesReference       string
	StrategyGuide        string
	PowerStrategy        string
	OrderFormatReference string
	ResponseGuidelines   string
}

// Compressor renders a full turn prompt at a given compression level.
type Compressor struct {
	Map *diplomacy.DiplomacyMap
}

// NewCompressor creates a Compressor bound to the standard map.
func NewCompressor() *Compressor {
	return &Compressor{Map: diplomacy.StandardMap()}
}

// Compress assembles the full set of prompt blocks for one turn: the
// static reference blocks (compacted or dropped per level), the
// game-state dump, and the diary context. Each block's length is
// monotonically non-increasing as the level increases.
func (c *Compressor) Compress(level Level, blocks StaticBlocks, gs *diplomacy.GameState, self diplomacy.Power, mem *Memory) map[string]string {
	out := make(map[string]string)

	out["rules_reference"] = compressStatic(level, "rules", blocks.RulesReference)
	out["strategy_guide"] = compressStatic(level, "strategy", blocks.StrategyGuide)
	out["order_format_reference"] = compressStatic(level, "order_format", blocks.OrderFormatReference)

	if level == LevelAggressive {
		out["power_specific_strategy"] = ""
		out["response_guidelines"] = ""
	} else {
		out["power_specific_strategy"] = compressStatic(level, "power_strategy", blocks.PowerStrategy)
		out["response_guidelines"] = compressStatic(level, "response_guidelines", blocks.ResponseGuidelines)
	}

	out["game_state"] = c.compressGameState(level, gs, self, mem)
	out["diary"] = compressDiary(level, mem)

	return out
}

// compressStatic shortens a static reference block. At none it's
// verbatim; at moderate and aggressive it's a fixed compact summary —
// the first line plus a marker, which is all an LLM needs to recall a
// reference block it has already seen earlier in the conversation.
// A block whose summary would be no shorter than itself is kept verbatim.
func compressStatic(level Level, name, full string) string {
	if level == LevelNone {
		return full
	}
	first := full
	if idx := strings.IndexByte(full, '\n'); idx >= 0 {
		first = full[:idx]
	}
	compact := fmt.Sprintf("[%s — compact] %s", name, strings.TrimSpace(first))
	if len(compact) >= len(full) {
		return full
	}
	return compact
}

// compressGameState renders the board. none/moderate show every power;
// aggressive shows only powers relevant to self in detail and
// summarizes the rest in one line each.
func (c *Compressor) compressGameState(level Level, gs *diplomacy.GameState, self diplomacy.Power, mem *Memory) string {
	if gs == nil {
		return ""
	}

	switch level {
	case LevelNone:
		return c.verboseGameState(gs)
	case LevelModerate:
		return c.compactGameState(gs, diplomacy.AllPowers())
	default: // aggressive
		relevant := c.relevantPowers(gs, self, mem)
		var sb strings.Builder
		var rel, rest []diplomacy.Power
		for _, p := range diplomacy.AllPowers() {
			if relevant[p] || p == self {
				rel = append(rel, p)
			} else {
				rest = append(rest, p)
			}
		}
		sb.WriteString(c.compactGameState(gs, rel))
		for _, p := range rest {
			line := fmt.Sprintf("%s: %d SC, %d units\n", p, gs.SupplyCenterCount(p), gs.UnitCount(p))
			if compact := c.compactGameState(gs, []diplomacy.Power{p}); len(compact) < len(line) {
				line = compact
			}
			sb.WriteString(line)
		}
		return sb.String()
	}
}

func (c *Compressor) verboseGameState(gs *diplomacy.GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Year %d %s %s\n", gs.Year, gs.Season, gs.Phase)
	for _, p := range diplomacy.AllPowers() {
		fmt.Fprintf(&sb, "%s (%d SC):\n", p, gs.SupplyCenterCount(p))
		for _, u := range gs.UnitsOf(p) {
			fmt.Fprintf(&sb, "  %s %s\n", u.Type, u.Province)
		}
	}
	return sb.String()
}

// compactGameState renders each listed power's units in
// "{kind}{prov}[,...]" notation, e.g. "Afra,Fmar".
func (c *Compressor) compactGameState(gs *diplomacy.GameState, powers []diplomacy.Power) string {
	var sb strings.Builder
	for _, p := range powers {
		units := gs.UnitsOf(p)
		sort.Slice(units, func(i, j int) bool { return units[i].Province < units[j].Province })
		parts := make([]string, 0, len(units))
		for _, u := range units {
			prefix := "A"
			if u.Type == diplomacy.Fleet {
				prefix = "F"
			}
			parts = append(parts, prefix+u.Province)
		}
		fmt.Fprintf(&sb, "%s:%s\n", p, strings.Join(parts, ","))
	}
	return sb.String()
}

// relevantPowers returns the set of powers worth detailing at the
// aggressive level: allies, enemies (by trust/relationship tag),
// powers with a unit adjacent to one of self's units, and any power
// with 12 or more supply centers.
func (c *Compressor) relevantPowers(gs *diplomacy.GameState, self diplomacy.Power, mem *Memory) map[diplomacy.Power]bool {
	relevant := make(map[diplomacy.Power]bool)

	if mem != nil {
		for p, trust := range mem.Trust {
			if trust >= 0.3 || trust <= -0.3 {
				relevant[p] = true
			}
		}
		for p, tag := range mem.Relationships {
			tag = strings.ToLower(tag)
			if tag == "ally" || tag == "rival" || tag == "enemy" {
				relevant[p] = true
			}
		}
	}

	for _, p := range diplomacy.AllPowers() {
		if gs.SupplyCenterCount(p) >= 12 {
			relevant[p] = true
		}
	}

	selfUnits := gs.UnitsOf(self)
	for _, su := range selfUnits {
		isFleet := su.Type == diplomacy.Fleet
		for _, adj := range c.Map.Adjacencies[su.Province] {
			other := gs.UnitAt(adj.To)
			if other == nil || other.Power == self {
				continue
			}
			if (isFleet && adj.FleetOK) || (!isFleet && adj.ArmyOK) {
				relevant[other.Power] = true
			}
		}
	}

	return relevant
}

// compressDiary renders diary context: none keeps everything, moderate
// keeps the last 6 current-year entries and last 5 year summaries,
// aggressive keeps the last 4 current-year entries (truncated to ~160
// chars) and the last 3 year summaries with an omitted-years marker.
func compressDiary(level Level, mem *Memory) string {
	if mem == nil {
		return ""
	}

	var sb strings.Builder

	switch level {
	case LevelNone:
		for _, s := range mem.YearSummaries {
			fmt.Fprintf(&sb, "%d: %s\n", s.Year, s.Summary)
		}
		for _, e := range mem.CurrentYearEntries {
			fmt.Fprintf(&sb, "%d %s %s: %s\n", e.Year, e.Season, e.Phase, e.Content)
		}

	case LevelModerate:
		summaries := lastN(mem.YearSummaries, 5)
		entries := lastNEntries(mem.CurrentYearEntries, 6)
		for _, s := range summaries {
			fmt.Fprintf(&sb, "%d: %s\n", s.Year, s.Summary)
		}
		for _, e := range entries {
			fmt.Fprintf(&sb, "%d %s %s: %s\n", e.Year, e.Season, e.Phase, e.Content)
		}

	default: // aggressive
		total := len(mem.YearSummaries)
		summaries := lastN(mem.YearSummaries, 3)
		omitted := total - len(summaries)
		if omitted > 0 {
			fmt.Fprintf(&sb, "(%d earlier years omitted)\n", omitted)
		}
		for _, s := range summaries {
			fmt.Fprintf(&sb, "%d: %s\n", s.Year, s.Summary)
		}
		entries := lastNEntries(mem.CurrentYearEntries, 4)
		for _, e := range entries {
			content := e.Content
			if len(content) > 160 {
				content = content[:160]
			}
			fmt.Fprintf(&sb, "%d %s %s: %s\n", e.Year, e.Season, e.Phase, content)
		}
	}

	return sb.String()
}

func lastN(in []YearSummary, n int) []YearSummary {
	if len(in) <= n {
		return in
	}
	return in[len(in)-n:]
}

func lastNEntries(in []DiaryEntry, n int) []DiaryEntry {
	if len(in) <= n {
		return in
	}
	return in[len(in)-n:]
}

// EstimateTokens gives a rough, deterministic token estimate (1 token
// ≈ 4 characters), used only for telemetry.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}
