package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ninthcircle/conclave/pkg/completion"
	"github.com/ninthcircle/conclave/pkg/diplomacy"
	"github.com/ninthcircle/conclave/pkg/press"
)

// HistoryEntry is one turn in a session's conversation, mirroring
// completion.Message plus a timestamp for diary/telemetry purposes.
type HistoryEntry struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Session is the per-power, per-game conversation: history, a
// reference to the power's Memory, and the Completion service it
// calls. A Session is single-threaded with respect to its own
// history — callers must not interleave BuildTurnPrompt/CallModel
// invocations for the same session.
type Session struct {
	mu sync.Mutex

	Power      diplomacy.Power
	Model      string
	Memory     *Memory
	Service    completion.Service
	Compressor *Compressor

	history  []HistoryEntry
	maxTurns int // bounds conversation history; 0 means use defaultMaxHistory
}

const defaultMaxHistory = 40

// NewSession creates a Session for one power in one game.
func NewSession(power diplomacy.Power, model string, mem *Memory, svc completion.Service, maxTurns int) *Session {
	return &Session{
		Power:      power,
		Model:      model,
		Memory:     mem,
		Service:    svc,
		Compressor: NewCompressor(),
		maxTurns:   maxTurns,
	}
}

// Initialize prepends the system prompt. Safe to call only once, before
// any turn is built.
func (s *Session) Initialize(systemPrompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append([]HistoryEntry{{Role: "system", Content: systemPrompt, Timestamp: time.Now()}}, s.history...)
}

// TurnView is the defensive-copy game view and received-press context
// handed to BuildTurnPrompt.
type TurnView struct {
	State         *diplomacy.GameState
	Turn          int
	ReceivedPress []press.Message
	PhaseKind     diplomacy.PhaseType
	Blocks        StaticBlocks
}

// BuildTurnPrompt assembles the turn message at the compression level
// implied by view.Turn and appends it to history as a user turn.
func (s *Session) BuildTurnPrompt(view TurnView) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	level := LevelForTurn(view.Turn)
	sections := s.Compressor.Compress(level, view.Blocks, view.State, s.Power, s.Memory)

	var sb strings.Builder
	fmt.Fprintf(&sb, "PHASE: %s\n\n", view.PhaseKind)
	for _, key := range []string{"rules_reference", "strategy_guide", "power_specific_strategy", "order_format_reference", "response_guidelines"} {
		if v := sections[key]; v != "" {
			fmt.Fprintf(&sb, "%s\n\n", v)
		}
	}
	sb.WriteString("GAME STATE:\n")
	sb.WriteString(sections["game_state"])
	sb.WriteString("\n")
	if d := sections["diary"]; d != "" {
		sb.WriteString("YOUR MEMORY:\n")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	if len(view.ReceivedPress) > 0 {
		sb.WriteString("MESSAGES RECEIVED:\n")
		for _, m := range view.ReceivedPress {
			fmt.Fprintf(&sb, "%s: %s\n", m.From, m.Content)
		}
	}

	prompt := sb.String()
	s.history = append(s.history, HistoryEntry{Role: "user", Content: prompt, Timestamp: time.Now()})
	s.trimHistory()
	return prompt
}

// CallModel sends the current history to the Completion service,
// records the reply as an assistant turn, and returns the raw text.
func (s *Session) CallModel(ctx context.Context, temperature float64, maxTokens int) (string, error) {
	s.mu.Lock()
	messages := make([]completion.Message, 0, len(s.history))
	for _, h := range s.history {
		messages = append(messages, completion.Message{Role: h.Role, Content: h.Content})
	}
	model := s.Model
	s.mu.Unlock()

	resp, err := s.Service.Complete(ctx, completion.Request{
		Messages:    messages,
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("session: complete for %s: %w", s.Power, err)
	}

	s.mu.Lock()
	s.history = append(s.history, HistoryEntry{Role: "assistant", Content: resp.Content, Timestamp: time.Now()})
	s.trimHistory()
	s.mu.Unlock()

	return resp.Content, nil
}

// RecordOutcome appends a structured diary entry summarizing how a
// phase went for this power.
func (s *Session) RecordOutcome(year int, season diplomacy.Season, phase diplomacy.PhaseType, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Memory.AddDiaryEntry(DiaryEntry{Year: year, Season: season, Phase: phase, Content: summary})
}

// History returns a copy of the conversation history.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// trimHistory drops the oldest non-system message pairs once history
// exceeds the configured turn cap. Must be called with mu held.
func (s *Session) trimHistory() {
	limit := s.maxTurns
	if limit <= 0 {
		limit = defaultMaxHistory
	}
	if len(s.history) <= limit {
		return
	}

	var systemMsgs []HistoryEntry
	var rest []HistoryEntry
	for _, h := range s.history {
		if h.Role == "system" {
			systemMsgs = append(systemMsgs, h)
		} else {
			rest = append(rest, h)
		}
	}
	overflow := len(systemMsgs) + len(rest) - limit
	if overflow > 0 {
		if overflow%2 == 1 {
			overflow++
		}
		if overflow > len(rest) {
			overflow = len(rest)
		}
		rest = rest[overflow:]
	}
	s.history = append(systemMsgs, rest...)
}
