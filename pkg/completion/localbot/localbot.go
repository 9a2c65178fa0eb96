// Package localbot is a deterministic, non-LLM completion.Service stand-in
// used for tests and offline benchmarks. It reads a session's compact
// "{kind}{prov}[,...]" game-state notation out of the prompt text and
// greedily moves each unit to the alphabetically first adjacent supply
// center (who owns it is not considered), falling back to a hold — the same greedy-score idiom the heuristic bot
// strategies use, simplified to a pure function of prompt text so it can
// stand in for any power without extra wiring.
package localbot

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ninthcircle/conclave/pkg/completion"
	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

// Service is a deterministic completion.Service for one power.
type Service struct {
	Self diplomacy.Power
	Map  *diplomacy.DiplomacyMap
}

// New creates a local heuristic bot for the given power.
func New(self diplomacy.Power) *Service {
	return &Service{Self: self, Map: diplomacy.StandardMap()}
}

var unitTokenRe = regexp.MustCompile(`^([AF])([a-z]{3})$`)

// Complete never calls out to a network; it parses the prompt's embedded
// game state and returns a deterministic ORDERS/RETREATS/BUILDS section
// depending on what PHASE: line it finds.
func (s *Service) Complete(ctx context.Context, req completion.Request) (completion.Response, error) {
	if err := ctx.Err(); err != nil {
		return completion.Response{}, err
	}
	text := lastUserContent(req)
	phase := extractPhase(text)
	units := extractSelfUnits(text, s.Self)

	var body string
	switch phase {
	case string(diplomacy.PhaseRetreat):
		body = s.retreatLines(units)
	case string(diplomacy.PhaseBuild):
		body = "BUILDS:\nWAIVE\n"
	default:
		body = s.movementLines(units)
	}

	return completion.Response{
		Content:    body,
		Usage:      completion.Usage{InputTokens: len(text) / 4, OutputTokens: len(body) / 4},
		StopReason: completion.StopEndTurn,
	}, nil
}

func lastUserContent(req completion.Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}

func extractPhase(text string) string {
	idx := strings.Index(text, "PHASE:")
	if idx < 0 {
		return string(diplomacy.PhaseMovement)
	}
	rest := text[idx+len("PHASE:"):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

// unitToken is a parsed compact-notation unit, e.g. "Apar" -> (Army, "par").
type unitToken struct {
	Type     diplomacy.UnitType
	Province string
}

func extractSelfUnits(text string, self diplomacy.Power) []unitToken {
	re := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(string(self)) + `:(.*)$`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var out []unitToken
	for _, tok := range strings.Split(strings.TrimSpace(m[1]), ",") {
		tok = strings.TrimSpace(tok)
		tm := unitTokenRe.FindStringSubmatch(tok)
		if tm == nil {
			continue
		}
		ut := diplomacy.Army
		if tm[1] == "F" {
			ut = diplomacy.Fleet
		}
		out = append(out, unitToken{Type: ut, Province: tm[2]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Province < out[j].Province })
	return out
}

func (s *Service) movementLines(units []unitToken) string {
	var sb strings.Builder
	sb.WriteString("ORDERS:\n")
	for _, u := range units {
		isFleet := u.Type == diplomacy.Fleet
		targets := s.Map.ProvincesAdjacentTo(u.Province, diplomacy.NoCoast, isFleet)
		sort.Strings(targets)

		best := ""
		for _, t := range targets {
			prov := s.Map.Provinces[t]
			if prov != nil && prov.IsSupplyCenter {
				best = t
				break
			}
		}

		letter := "A"
		if isFleet {
			letter = "F"
		}
		if best != "" {
			fmt.Fprintf(&sb, "%s %s -> %s\n", letter, u.Province, best)
		} else {
			fmt.Fprintf(&sb, "%s %s HOLD\n", letter, u.Province)
		}
	}
	return sb.String()
}

func (s *Service) retreatLines(units []unitToken) string {
	var sb strings.Builder
	sb.WriteString("RETREATS:\n")
	for _, u := range units {
		fmt.Fprintf(&sb, "%s %s DISBAND\n", unitLetter(u.Type), u.Province)
	}
	return sb.String()
}

func unitLetter(t diplomacy.UnitType) string {
	if t == diplomacy.Fleet {
		return "F"
	}
	return "A"
}
