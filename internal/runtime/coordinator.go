// Package runtime implements the Runtime Coordinator: it instantiates
// one Session per power, drives the Phase Machine, executes per-agent
// turns with failure isolation, and manages the press period within
// each movement phase's negotiation window.
//
// The data model's DIPLOMACY phase is realized here as a press round
// that runs before order collection for a MOVEMENT phase, rather than
// as a fourth diplomacy.PhaseType value — GameState.Phase still only
// ever holds movement/retreat/build, matching the existing phase
// machine's state transitions exactly; see DESIGN.md.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ninthcircle/conclave/internal/runtimeconfig"
	"github.com/ninthcircle/conclave/pkg/agent"
	"github.com/ninthcircle/conclave/pkg/diplomacy"
	"github.com/ninthcircle/conclave/pkg/orderparser"
	"github.com/ninthcircle/conclave/pkg/press"
)

// Coordinator drives one game end-to-end.
type Coordinator struct {
	cfg    *runtimeconfig.Config
	m      *diplomacy.DiplomacyMap
	events *eventStream

	mu    sync.Mutex
	state *diplomacy.GameState

	sessions map[diplomacy.Power]*agent.Session
	blocks   map[diplomacy.Power]agent.StaticBlocks
	bus      *press.Bus

	turn    int
	stopped bool
}

// NewCoordinator creates a Coordinator for one game. sessions must
// contain one Session per seated agent, keyed by power.
func NewCoordinator(cfg *runtimeconfig.Config, initial *diplomacy.GameState, sessions map[diplomacy.Power]*agent.Session, bus *press.Bus) *Coordinator {
	if initial == nil {
		initial = diplomacy.NewInitialState()
	}
	if initial.DrawVotes == nil {
		initial.DrawVotes = make(map[diplomacy.Power]bool)
	}
	return &Coordinator{
		cfg:      cfg,
		m:        diplomacy.StandardMap(),
		events:   newEventStream(),
		state:    initial,
		sessions: sessions,
		blocks:   make(map[diplomacy.Power]agent.StaticBlocks),
		bus:      bus,
	}
}

// SetBlocks configures the static prompt-reference blocks for a power.
func (c *Coordinator) SetBlocks(power diplomacy.Power, blocks agent.StaticBlocks) {
	c.blocks[power] = blocks
}

// Subscribe registers a listener on the coordinator's event stream.
func (c *Coordinator) Subscribe(l Listener) int { return c.events.Subscribe(l) }

// Unsubscribe removes a previously registered listener.
func (c *Coordinator) Unsubscribe(id int) { c.events.Unsubscribe(id) }

// State returns a defensive copy of the current game state.
func (c *Coordinator) State() *diplomacy.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Stop cooperatively cancels the in-progress phase loop after the
// current agent's turn completes.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

func (c *Coordinator) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func (c *Coordinator) publish(evType EventType, power diplomacy.Power, data map[string]any) {
	c.events.publish(Event{Type: evType, Power: power, Time: time.Now(), Data: data})
}

// VoteDraw records a power's draw vote and ends the game as a draw if
// every living power has now voted for one.
func (c *Coordinator) VoteDraw(power diplomacy.Power) {
	c.mu.Lock()
	if c.state.DrawVotes == nil {
		c.state.DrawVotes = make(map[diplomacy.Power]bool)
	}
	c.state.DrawVotes[power] = true
	alive := c.aliveSeatedPowersLocked()
	isDraw := c.state.CheckDrawVote(alive)
	c.mu.Unlock()

	c.publish(EventDrawVoteRecorded, power, nil)
	if isDraw {
		c.publish(EventGameEnded, "", map[string]any{"draw": true})
		c.Stop()
	}
}

func (c *Coordinator) aliveSeatedPowersLocked() []diplomacy.Power {
	var out []diplomacy.Power
	for p := range c.sessions {
		if c.state.PowerIsAlive(p) {
			out = append(out, p)
		}
	}
	return out
}

// Run drives the game to completion: repeated press/order/adjudication
// cycles until a power wins, the game draws, the year limit is
// reached, or Stop is called.
func (c *Coordinator) Run(ctx context.Context) error {
	c.publish(EventGameStarted, "", nil)

	for {
		if c.isStopped() || ctx.Err() != nil {
			return ctx.Err()
		}

		c.mu.Lock()
		phase := c.state.Phase
		year, season := c.state.Year, c.state.Season
		c.mu.Unlock()

		c.publish(EventPhaseStarted, "", map[string]any{"year": year, "season": season, "phase": phase})

		if phase == diplomacy.PhaseMovement {
			c.runPressPeriod(ctx)
			if c.isStopped() || ctx.Err() != nil {
				return ctx.Err()
			}
		}

		switch phase {
		case diplomacy.PhaseMovement:
			c.resolveMovement(ctx)
		case diplomacy.PhaseRetreat:
			c.resolveRetreats(ctx)
		case diplomacy.PhaseBuild:
			c.resolveBuilds(ctx)
		}

		c.mu.Lock()
		over, winner := diplomacy.IsGameOver(c.state)
		yearLimit := diplomacy.IsYearLimitReached(c.state)
		snapshot := c.state.Clone()
		c.mu.Unlock()

		c.publish(EventPhaseResolved, "", map[string]any{"state": snapshot})

		if over {
			c.publish(EventGameEnded, winner, map[string]any{"winner": winner})
			return nil
		}
		if yearLimit {
			c.publish(EventGameEnded, "", map[string]any{"draw": true, "reason": "year_limit"})
			return nil
		}

		c.turn++
	}
}

// runPressPeriod runs sequential negotiation rounds for the
// configured press period. Agents are invoked strictly in power order
// within a round so a message sent by P is visible to Q in the same
// round, regardless of the parallel-execution setting. The period
// ends when the clock expires or a whole round sends no message.
func (c *Coordinator) runPressPeriod(ctx context.Context) {
	if c.cfg.PressPeriod() <= 0 {
		return
	}
	deadline := time.Now().Add(c.cfg.PressPeriod())

	for time.Now().Before(deadline) {
		if c.isStopped() || ctx.Err() != nil {
			return
		}
		sentAny := false
		for _, power := range diplomacy.AllPowers() {
			sess, ok := c.sessions[power]
			if !ok || !c.statePowerAlive(power) {
				continue
			}
			if c.runPressTurn(ctx, power, sess) {
				sentAny = true
			}
			if c.isStopped() || ctx.Err() != nil {
				return
			}
		}
		c.publish(EventPressRoundDone, "", nil)
		if !sentAny {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.PressPollInterval()):
		}
	}
}

func (c *Coordinator) statePowerAlive(power diplomacy.Power) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.PowerIsAlive(power)
}

func (c *Coordinator) runPressTurn(ctx context.Context, power diplomacy.Power, sess *agent.Session) bool {
	c.publish(EventAgentTurnStarted, power, nil)

	text, err := c.callAgent(ctx, power, sess, diplomacy.PhaseMovement)
	if err != nil {
		log.Error().Err(err).Str("power", string(power)).Msg("runtime: press turn failed")
		c.publish(EventAgentTurnFailed, power, map[string]any{"error": err.Error()})
		return false
	}

	parsed := orderparser.ParseReply(text)
	sentAny := false
	for _, m := range parsed.Messages {
		if err := c.bus.SendPrivate(power, m.To, m.Content, m.Stage, m.Condition, time.Now()); err == nil {
			sentAny = true
		}
	}
	c.publish(EventAgentTurnCompleted, power, map[string]any{"messages": len(parsed.Messages)})
	return sentAny
}

func (c *Coordinator) callAgent(ctx context.Context, power diplomacy.Power, sess *agent.Session, phaseKind diplomacy.PhaseType) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.TurnTimeout())
	defer cancel()

	view := agent.TurnView{
		State:         c.State(),
		Turn:          c.turn,
		ReceivedPress: c.bus.VisibleTo(power, diplomacy.AllPowers()),
		PhaseKind:     phaseKind,
		Blocks:        c.blocks[power],
	}
	sess.BuildTurnPrompt(view)
	return sess.CallModel(callCtx, 0.7, 2048)
}

// resolveMovement polls every seated, living power for movement orders
// (in parallel if configured), validates and defaults missing orders
// to HOLD, and adjudicates the phase.
func (c *Coordinator) resolveMovement(ctx context.Context) {
	orders := c.collect(ctx, diplomacy.PhaseMovement, func(text string) int {
		return len(orderparser.ParseReply(text).Orders)
	}, func(power diplomacy.Power, text string) any {
		parsed := orderparser.ParseReply(text).Orders
		for i := range parsed {
			parsed[i].Power = power
		}
		return parsed
	})

	var all []diplomacy.Order
	for _, v := range orders {
		all = append(all, v.([]diplomacy.Order)...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	validated, _ := diplomacy.ValidateAndDefaultOrders(all, c.state, c.m)
	resolved, dislodged := diplomacy.ResolveOrders(validated, c.state, c.m)
	diplomacy.ApplyResolution(c.state, c.m, resolved, dislodged)
	diplomacy.AdvanceState(c.state, len(dislodged) > 0)
}

func (c *Coordinator) resolveRetreats(ctx context.Context) {
	orders := c.collect(ctx, diplomacy.PhaseRetreat, nil, func(power diplomacy.Power, text string) any {
		parsed := orderparser.ParseReply(text).RetreatOrders
		for i := range parsed {
			parsed[i].Power = power
		}
		return parsed
	})

	var all []diplomacy.RetreatOrder
	for _, v := range orders {
		all = append(all, v.([]diplomacy.RetreatOrder)...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	results := diplomacy.ResolveRetreats(all, c.state, c.m)
	diplomacy.ApplyRetreats(c.state, results, c.m)
	diplomacy.AdvanceState(c.state, false)
}

func (c *Coordinator) resolveBuilds(ctx context.Context) {
	orders := c.collect(ctx, diplomacy.PhaseBuild, nil, func(power diplomacy.Power, text string) any {
		parsed := orderparser.ParseReply(text).BuildOrders
		for i := range parsed {
			parsed[i].Power = power
		}
		return parsed
	})

	var all []diplomacy.BuildOrder
	for _, v := range orders {
		all = append(all, v.([]diplomacy.BuildOrder)...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	results := diplomacy.ResolveBuildOrders(all, c.state, c.m)
	diplomacy.ApplyBuildOrders(c.state, results)
	diplomacy.AdvanceState(c.state, false)
}

// collect polls every seated, living power once for the given phase,
// in parallel when configured, with per-agent failure isolation.
// extract converts the raw reply text into the phase-appropriate
// order slice (as `any`, since movement/retreat/build each use a
// different concrete order type).
func (c *Coordinator) collect(ctx context.Context, phaseKind diplomacy.PhaseType, _ func(string) int, extract func(diplomacy.Power, string) any) map[diplomacy.Power]any {
	results := make(map[diplomacy.Power]any)
	var mu sync.Mutex

	run := func(power diplomacy.Power, sess *agent.Session) {
		if !c.statePowerAlive(power) {
			return
		}
		c.publish(EventAgentTurnStarted, power, nil)
		text, err := c.callAgent(ctx, power, sess, phaseKind)
		if err != nil {
			log.Error().Err(err).Str("power", string(power)).Str("phase", string(phaseKind)).
				Msg("runtime: agent turn failed, defaulting to no orders")
			c.publish(EventAgentTurnFailed, power, map[string]any{"error": err.Error()})
			return
		}
		v := extract(power, text)
		mu.Lock()
		results[power] = v
		mu.Unlock()
		c.publish(EventAgentTurnCompleted, power, nil)
	}

	if c.cfg != nil && c.cfg.ParallelExecution {
		var wg sync.WaitGroup
		for power, sess := range c.sessions {
			wg.Add(1)
			go func(p diplomacy.Power, s *agent.Session) {
				defer wg.Done()
				run(p, s)
			}(power, sess)
		}
		wg.Wait()
	} else {
		for power, sess := range c.sessions {
			run(power, sess)
		}
	}

	return results
}
