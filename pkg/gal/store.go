package gal

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// stateFile is the persisted document: one JSON snapshot of every player.
type stateFile struct {
	Version int                     `json:"version"`
	Players map[string]*PlayerState `json:"players"`
}

// Store owns the user id -> PlayerState map and its single-file JSON
// backing. One mutex serializes every read-for-mutation and write, and is
// held across the disk write so the in-memory map and the file are never
// observably out of sync.
type Store struct {
	mu      sync.Mutex
	path    string
	players map[string]*PlayerState
}

func NewStore(path string) *Store {
	return &Store{
		path:    path,
		players: make(map[string]*PlayerState),
	}
}

// Load reads the snapshot file. A missing file is a normal first run; a
// corrupt or unreadable file is logged and the store starts empty rather
// than failing startup.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("gal: failed to read state file %s: %v", s.path, err)
		}
		return
	}

	var doc stateFile
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Printf("gal: failed to parse state file %s, starting fresh: %v", s.path, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, state := range doc.Players {
		if state == nil {
			continue
		}
		if state.History == nil {
			state.History = []HistoryEntry{}
		}
		s.players[userID] = state
	}
}

// Snapshot returns a deep copy of the user's record, creating and
// immediately persisting a default record on first access.
func (s *Store) Snapshot(userID string) (*PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.players[userID]
	if !ok {
		state = NewPlayerState()
		s.players[userID] = state
		if err := s.persistLocked(); err != nil {
			delete(s.players, userID)
			return nil, err
		}
	}
	return state.Clone(), nil
}

// Mutate runs fn against the live record under the lock, persists the whole
// map, and returns a deep copy of the post-mutation state. A persistence
// failure propagates; silent data loss is not acceptable here.
func (s *Store) Mutate(userID string, fn func(*PlayerState)) (*PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.players[userID]
	if !ok {
		state = NewPlayerState()
		s.players[userID] = state
	}
	fn(state)
	snapshot := state.Clone()
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Reset replaces the user's record with a fresh default state.
func (s *Store) Reset(userID string) (*PlayerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := NewPlayerState()
	s.players[userID] = state
	if err := s.persistLocked(); err != nil {
		return nil, err
	}
	return state.Clone(), nil
}

// persistLocked writes the full snapshot via temp-file + atomic rename.
// Callers must hold the mutex.
func (s *Store) persistLocked() error {
	doc := stateFile{Version: StateVersion, Players: s.players}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
