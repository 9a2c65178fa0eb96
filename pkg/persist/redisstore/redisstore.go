// Package redisstore adapts a Redis instance, via go-redis, to
// persist.LiveStateCache and persist.SnapshotStore. It holds the fast,
// disposable per-phase data (submitted orders, ready flags, draw votes)
// that the coordinator needs visible across process restarts within a
// single phase, without the durability guarantees of the event log.
package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ninthcircle/conclave/pkg/persist"
)

// Store wraps a go-redis client.
type Store struct {
	rdb *redis.Client
}

// New wraps an already-configured go-redis client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Open connects to Redis using a redis:// URL.
func Open(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redisstore: parse url: %w", err)
	}
	return &Store{rdb: redis.NewClient(opts)}, nil
}

func stateKey(gameID string) string         { return "conclave:" + gameID + ":state" }
func ordersKey(gameID, power string) string { return "conclave:" + gameID + ":orders:" + power }
func readyKey(gameID string) string         { return "conclave:" + gameID + ":ready" }
func timerKey(gameID string) string         { return "conclave:" + gameID + ":timer" }
func drawVoteKey(gameID string) string      { return "conclave:" + gameID + ":draw_votes" }

// SetOrders stores a power's submitted orders for the current phase.
func (s *Store) SetOrders(ctx context.Context, gameID, power string, orders []byte) error {
	if err := s.rdb.Set(ctx, ordersKey(gameID, power), orders, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: set orders: %w", err)
	}
	return nil
}

// GetOrders retrieves a power's submitted orders, if any.
func (s *Store) GetOrders(ctx context.Context, gameID, power string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, ordersKey(gameID, power)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redisstore: get orders: %w", err)
	}
	return data, true, nil
}

// AllOrders retrieves every submitted order blob for a game, keyed by
// the ready-set members (only powers that have marked ready appear;
// orders stored without MarkReady are not returned).
func (s *Store) AllOrders(ctx context.Context, gameID string) (map[string][]byte, error) {
	powers, err := s.ReadyPowers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(powers))
	for _, power := range powers {
		data, ok, err := s.GetOrders(ctx, gameID, power)
		if err != nil {
			return nil, err
		}
		if ok {
			out[power] = data
		}
	}
	return out, nil
}

// MarkReady adds a power to the ready set for the game's current phase.
func (s *Store) MarkReady(ctx context.Context, gameID, power string) error {
	if err := s.rdb.SAdd(ctx, readyKey(gameID), power).Err(); err != nil {
		return fmt.Errorf("redisstore: mark ready: %w", err)
	}
	return nil
}

// ReadyPowers returns the set of powers that have marked ready.
func (s *Store) ReadyPowers(ctx context.Context, gameID string) ([]string, error) {
	powers, err := s.rdb.SMembers(ctx, readyKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: ready powers: %w", err)
	}
	return powers, nil
}

// SetTimer creates a timer key with a TTL past the deadline, so Redis
// keyspace notifications can trigger phase resolution on expiry.
func (s *Store) SetTimer(ctx context.Context, gameID string, deadline time.Time) error {
	const gracePeriod = 5 * time.Second
	ttl := time.Until(deadline) + gracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set timer: %w", err)
	}
	return nil
}

// AddDrawVote adds a power to the draw-vote set.
func (s *Store) AddDrawVote(ctx context.Context, gameID, power string) error {
	if err := s.rdb.SAdd(ctx, drawVoteKey(gameID), power).Err(); err != nil {
		return fmt.Errorf("redisstore: add draw vote: %w", err)
	}
	return nil
}

// DrawVotePowers returns every power that has voted for a draw.
func (s *Store) DrawVotePowers(ctx context.Context, gameID string) ([]string, error) {
	powers, err := s.rdb.SMembers(ctx, drawVoteKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redisstore: draw vote powers: %w", err)
	}
	return powers, nil
}

// ClearPhaseData removes orders, ready flags, the timer, and draw votes
// for a game, in preparation for the next phase.
func (s *Store) ClearPhaseData(ctx context.Context, gameID string) error {
	powers, err := s.ReadyPowers(ctx, gameID)
	if err != nil {
		return err
	}
	keys := []string{readyKey(gameID), timerKey(gameID), drawVoteKey(gameID)}
	for _, power := range powers {
		keys = append(keys, ordersKey(gameID, power))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redisstore: clear phase data: %w", err)
	}
	return nil
}

// SaveSnapshot stores the game's live state for fast reattachment.
func (s *Store) SaveSnapshot(ctx context.Context, gameID string, state []byte) error {
	if err := s.rdb.Set(ctx, stateKey(gameID), state, 0).Err(); err != nil {
		return fmt.Errorf("redisstore: save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the game's live state, if cached.
func (s *Store) LoadSnapshot(ctx context.Context, gameID string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redisstore: load snapshot: %w", err)
	}
	return data, true, nil
}

var _ persist.LiveStateCache = (*Store)(nil)
var _ persist.SnapshotStore = (*Store)(nil)
