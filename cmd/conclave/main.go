// Command conclave runs one game end-to-end: it loads a runtime
// configuration, seats one agent Session per power, and drives the
// coordinator loop until the game ends.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ninthcircle/conclave/internal/logging"
	"github.com/ninthcircle/conclave/internal/runtime"
	"github.com/ninthcircle/conclave/internal/runtimeconfig"
	"github.com/ninthcircle/conclave/pkg/agent"
	"github.com/ninthcircle/conclave/pkg/completion/localbot"
	"github.com/ninthcircle/conclave/pkg/diplomacy"
	"github.com/ninthcircle/conclave/pkg/persist/filestore"
	"github.com/ninthcircle/conclave/pkg/press"
)

func main() {
	logging.Init()
	log := logging.Get()

	configPath := flag.String("config", "", "path to runtime config JSON")
	dataDir := flag.String("data-dir", "./data", "directory for phase logs and snapshots")
	flag.Parse()

	if *configPath == "" {
		log.Fatal().Msg("conclave: -config is required")
	}

	cfg, err := runtimeconfig.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("conclave: failed to load runtime config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logging.WithGameID(ctx, cfg.GameID)

	store := filestore.New(*dataDir)
	bus := press.NewBus(cfg.MaxPressMessagesPerChan, true)

	sessions := make(map[diplomacy.Power]*agent.Session)
	for _, a := range cfg.Agents {
		svc := localbot.New(a.Power)
		mem := agent.NewMemory(a.Power)
		sess := agent.NewSession(a.Power, a.Model, mem, svc, cfg.MaxConversationHistory)
		sess.Initialize("You are playing Diplomacy as " + string(a.Power) + ".")
		sessions[a.Power] = sess
	}

	initial := diplomacy.NewInitialState()
	if snap, ok, err := store.LoadSnapshot(ctx, cfg.GameID); err != nil {
		log.Error().Err(err).Msg("conclave: failed to load snapshot, starting fresh")
	} else if ok {
		var resumed diplomacy.GameState
		if err := json.Unmarshal(snap, &resumed); err != nil {
			log.Error().Err(err).Msg("conclave: failed to decode snapshot, starting fresh")
		} else {
			initial = &resumed
		}
	}

	coord := runtime.NewCoordinator(cfg, initial, sessions, bus)
	coord.Subscribe(func(ev runtime.Event) {
		logging.ForGame(ctx).Info().
			Str("event", string(ev.Type)).
			Str("power", string(ev.Power)).
			Msg("game event")

		if ev.Type == runtime.EventPhaseResolved {
			state, err := json.Marshal(coord.State())
			if err != nil {
				log.Error().Err(err).Msg("conclave: failed to encode snapshot")
				return
			}
			if err := store.SaveSnapshot(ctx, cfg.GameID, state); err != nil {
				log.Error().Err(err).Msg("conclave: failed to save snapshot")
			}
		}
	})

	if err := coord.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("conclave: game run failed")
	}
}
