// Package runtimeconfig loads and validates the runtime configuration shape
// that drives a single game's Runtime Coordinator: which agents are seated,
// how aggressively phases are parallelized, and the timing/memory budgets
// that bound a turn.
package runtimeconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ninthcircle/conclave/pkg/diplomacy"
)

// AgentConfig describes one seated agent. Model and Personality are
// both optional: an omitted model falls back to defaultModel, and an
// omitted personality leaves the agent's prompt un-flavored.
type AgentConfig struct {
	Power       diplomacy.Power `json:"power"`
	Model       string          `json:"model,omitempty"`
	Personality string          `json:"personality,omitempty"`
}

// defaultModel is used for any agent whose config omits "model".
const defaultModel = "default"

// Config is the full runtime-config shape for one game.
type Config struct {
	GameID                   string        `json:"game-id"`
	Agents                   []AgentConfig `json:"agents"`
	ParallelExecution        bool          `json:"parallel-execution"`
	TurnTimeoutMS            int           `json:"turn-timeout-ms"`
	PersistMemory            bool          `json:"persist-memory"`
	PressPeriodMinutes       int           `json:"press-period-minutes"`
	PressPollIntervalS       int           `json:"press-poll-interval-s"`
	MaxConversationHistory   int           `json:"max-conversation-history"`
	MaxPressMessagesPerChan  int           `json:"max-press-messages-per-channel"`
}

// defaults applied to zero-valued fields before validation.
func (c *Config) applyDefaults() {
	for i := range c.Agents {
		if c.Agents[i].Model == "" {
			c.Agents[i].Model = defaultModel
		}
	}
	if c.TurnTimeoutMS == 0 {
		c.TurnTimeoutMS = 30_000
	}
	if c.PressPeriodMinutes == 0 {
		c.PressPeriodMinutes = 5
	}
	if c.PressPollIntervalS == 0 {
		c.PressPollIntervalS = 10
	}
	if c.MaxConversationHistory == 0 {
		c.MaxConversationHistory = 40
	}
	if c.MaxPressMessagesPerChan == 0 {
		c.MaxPressMessagesPerChan = 20
	}
}

// Validate checks the config for internal consistency. Configuration
// errors are fatal at startup, per the runtime's error-handling design.
func (c *Config) Validate() error {
	if c.GameID == "" {
		return fmt.Errorf("runtimeconfig: game-id is required")
	}
	if len(c.Agents) == 0 {
		return fmt.Errorf("runtimeconfig: at least one agent is required")
	}
	seen := make(map[diplomacy.Power]bool, len(c.Agents))
	for _, a := range c.Agents {
		known := false
		for _, p := range diplomacy.AllPowers() {
			if a.Power == p {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("runtimeconfig: agent missing a valid power")
		}
		if seen[a.Power] {
			return fmt.Errorf("runtimeconfig: duplicate agent for power %s", a.Power)
		}
		seen[a.Power] = true
	}
	if c.TurnTimeoutMS <= 0 {
		return fmt.Errorf("runtimeconfig: turn-timeout-ms must be positive")
	}
	if c.PressPeriodMinutes < 0 {
		return fmt.Errorf("runtimeconfig: press-period-minutes must not be negative")
	}
	if c.PressPollIntervalS <= 0 {
		return fmt.Errorf("runtimeconfig: press-poll-interval-s must be positive")
	}
	if c.MaxConversationHistory <= 0 {
		return fmt.Errorf("runtimeconfig: max-conversation-history must be positive")
	}
	if c.MaxPressMessagesPerChan <= 0 {
		return fmt.Errorf("runtimeconfig: max-press-messages-per-channel must be positive")
	}
	return nil
}

// TurnTimeout returns the configured per-call timeout as a duration.
func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutMS) * time.Millisecond
}

// PressPeriod returns the configured press-round window as a duration.
func (c *Config) PressPeriod() time.Duration {
	return time.Duration(c.PressPeriodMinutes) * time.Minute
}

// PressPollInterval returns the configured press-deadline poll interval.
func (c *Config) PressPollInterval() time.Duration {
	return time.Duration(c.PressPollIntervalS) * time.Second
}

// Load reads and validates a runtime config from a JSON file. Unknown
// top-level fields are rejected so a typo in the config never silently
// falls back to a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runtimeconfig: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a runtime config from raw JSON bytes.
func Parse(data []byte) (*Config, error) {
	var c Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("runtimeconfig: decode: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
