// Package persist defines the storage-facing interfaces the runtime
// depends on for durability. Concrete adapters — an embedded file store,
// Postgres, and Redis — live in subpackages; the core never imports a
// driver directly.
package persist

import (
	"context"
	"time"
)

// PhaseRecord is one resolved phase of a game, stored for replay and
// auditing.
type PhaseRecord struct {
	GameID      string
	Year        int
	Season      string
	PhaseType   string
	StateBefore []byte // JSON-encoded diplomacy.GameState
	StateAfter  []byte
	Deadline    time.Time
	ResolvedAt  time.Time
}

// EventLogWriter appends resolved phases to a durable, append-only log.
// Implementations must make Append safe to call from the coordinator's
// single game goroutine; no concurrent-write guarantee is required.
type EventLogWriter interface {
	Append(ctx context.Context, rec PhaseRecord) error
	Phases(ctx context.Context, gameID string) ([]PhaseRecord, error)
}

// SnapshotStore persists the latest full game-state snapshot, used to
// resume a game after a restart without replaying the whole log.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, gameID string, state []byte) error
	LoadSnapshot(ctx context.Context, gameID string) ([]byte, bool, error)
}

// LiveStateCache holds fast-path, ephemeral per-phase data: submitted
// orders awaiting resolution, ready flags, phase timers, and draw
// votes. Unlike EventLogWriter/SnapshotStore this data is disposable —
// losing it only costs re-collecting orders for the in-flight phase.
type LiveStateCache interface {
	SetOrders(ctx context.Context, gameID string, power string, orders []byte) error
	GetOrders(ctx context.Context, gameID string, power string) ([]byte, bool, error)
	AllOrders(ctx context.Context, gameID string) (map[string][]byte, error)
	MarkReady(ctx context.Context, gameID string, power string) error
	ReadyPowers(ctx context.Context, gameID string) ([]string, error)
	ClearPhaseData(ctx context.Context, gameID string) error
}
