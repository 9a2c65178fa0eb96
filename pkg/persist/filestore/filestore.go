// Package filestore is the default persistence adapter: a JSON Lines
// phase log plus a single-file snapshot per game, both under a root
// directory on local disk. It needs no external service, which makes it
// the right default for a single-process game.
package filestore

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ninthcircle/conclave/pkg/persist"
)

// Store implements persist.EventLogWriter and persist.SnapshotStore
// against a directory tree: <root>/<gameID>/phases.jsonl and
// <root>/<gameID>/snapshot.json.
type Store struct {
	root string
	mu   sync.Mutex
}

// New creates a Store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{root: dir}
}

func (s *Store) gameDir(gameID string) string {
	return filepath.Join(s.root, gameID)
}

func (s *Store) ensureDir(gameID string) error {
	return os.MkdirAll(s.gameDir(gameID), 0o755)
}

// Append writes one phase record as a JSON line to the game's phase
// log, creating the directory and file as needed.
func (s *Store) Append(_ context.Context, rec persist.PhaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(rec.GameID); err != nil {
		return fmt.Errorf("filestore: mkdir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(s.gameDir(rec.GameID), "phases.jsonl"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("filestore: open phase log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("filestore: encode phase record: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("filestore: write phase record: %w", err)
	}
	return nil
}

// Phases replays the full phase log for a game in append order.
func (s *Store) Phases(_ context.Context, gameID string) ([]persist.PhaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.gameDir(gameID), "phases.jsonl")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: open phase log: %w", err)
	}
	defer f.Close()

	var out []persist.PhaseRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		var rec persist.PhaseRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("filestore: decode phase record: %w", err)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("filestore: scan phase log: %w", err)
	}
	return out, nil
}

// SaveSnapshot atomically replaces the game's snapshot file.
func (s *Store) SaveSnapshot(_ context.Context, gameID string, state []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDir(gameID); err != nil {
		return fmt.Errorf("filestore: mkdir: %w", err)
	}

	final := filepath.Join(s.gameDir(gameID), "snapshot.json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, state, 0o644); err != nil {
		return fmt.Errorf("filestore: write snapshot: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("filestore: rename snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the game's last saved snapshot, if any.
func (s *Store) LoadSnapshot(_ context.Context, gameID string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.gameDir(gameID), "snapshot.json"))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("filestore: read snapshot: %w", err)
	}
	return data, true, nil
}

var _ persist.EventLogWriter = (*Store)(nil)
var _ persist.SnapshotStore = (*Store)(nil)
