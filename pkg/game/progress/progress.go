// Package progress is the durable riddle-progress repository.
//
// Every mutation reads the whole state document, merges the change and writes
// the document back. Storage failures never reach callers: they are logged
// and the default state is used instead, so a broken or unavailable backend
// degrades to "progress does not persist".
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"riddlebox/pkg/engine/logging"
	"riddlebox/pkg/engine/storage"
	"riddlebox/pkg/game/state"
)

// Repository is the riddle progress store used by sessions and the admin
// dashboard.
type Repository interface {
	State(ctx context.Context) state.GameState
	Progress(ctx context.Context, riddleID string) int
	SetProgress(ctx context.Context, riddleID string, stage int)
	AdvanceProgress(ctx context.Context, riddleID string) int
	ResetProgress(ctx context.Context, riddleID string)
	ResetAll(ctx context.Context)
	UpdateAdminSettings(ctx context.Context, patch state.AdminSettingsPatch) state.GameState
	AddItem(ctx context.Context, itemID string) state.GameState
	HasItem(ctx context.Context, itemID string) bool
}

// Store implements Repository over a storage.Backend.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *zap.Logger
}

var _ Repository = (*Store)(nil)

// New returns a store persisting to backend.
func New(backend storage.Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logging.OrNop(logger).Named("progress"),
	}
}

// State returns a copy of the full persisted state.
func (s *Store) State(ctx context.Context) state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Progress returns the stored stage for riddleID, or 0 if it was never set.
func (s *Store) Progress(ctx context.Context, riddleID string) int {
	return s.State(ctx).Stage(riddleID)
}

// SetProgress overwrites the stage for riddleID. Negative stages are stored as 0.
func (s *Store) SetProgress(ctx context.Context, riddleID string, stage int) {
	s.update(ctx, func(g *state.GameState) {
		g.RiddleProgress[riddleID] = max(stage, 0)
	})
}

// AdvanceProgress moves riddleID one stage forward and returns the new stage.
func (s *Store) AdvanceProgress(ctx context.Context, riddleID string) int {
	next := 0
	s.update(ctx, func(g *state.GameState) {
		next = g.RiddleProgress[riddleID] + 1
		g.RiddleProgress[riddleID] = next
	})
	return next
}

// ResetProgress removes riddleID so it reads as stage 0 again.
func (s *Store) ResetProgress(ctx context.Context, riddleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.load(ctx)
	if _, ok := g.RiddleProgress[riddleID]; !ok {
		return
	}
	delete(g.RiddleProgress, riddleID)
	s.save(ctx, g)
}

// ResetAll deletes the persisted document; the next read yields defaults.
func (s *Store) ResetAll(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Delete(ctx, state.StorageKey); err != nil {
		s.logger.Warn("failed to reset game state", zap.Error(err))
	}
}

// UpdateAdminSettings merges patch into the stored settings and returns the
// resulting state.
func (s *Store) UpdateAdminSettings(ctx context.Context, patch state.AdminSettingsPatch) state.GameState {
	return s.update(ctx, func(g *state.GameState) {
		g.AdminSettings = patch.Apply(g.AdminSettings)
	})
}

// AddItem appends itemID to the inventory unless it is already held.
func (s *Store) AddItem(ctx context.Context, itemID string) state.GameState {
	return s.update(ctx, func(g *state.GameState) {
		held := mapset.New[string]()
		for _, id := range g.Inventory {
			held.Put(id)
		}
		if !held.Has(itemID) {
			g.Inventory = append(g.Inventory, itemID)
		}
	})
}

// HasItem reports whether itemID is in the inventory.
func (s *Store) HasItem(ctx context.Context, itemID string) bool {
	return slices.Contains(s.State(ctx).Inventory, itemID)
}

func (s *Store) update(ctx context.Context, mutate func(*state.GameState)) state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.load(ctx)
	mutate(&g)
	s.save(ctx, g)
	return g.Clone()
}

func (s *Store) load(ctx context.Context) state.GameState {
	raw, err := s.backend.Get(ctx, state.StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return state.Default()
	}
	if err != nil {
		s.logger.Warn("failed to load game state", zap.Error(err))
		return state.Default()
	}

	g := state.Default()
	if err := json.Unmarshal(raw, &g); err != nil {
		s.logger.Warn("failed to load game state", zap.Error(err))
		return state.Default()
	}
	g.Normalize()
	return g
}

func (s *Store) save(ctx context.Context, g state.GameState) {
	raw, err := json.Marshal(g)
	if err != nil {
		s.logger.Warn("failed to save game state", zap.Error(err))
		return
	}
	if err := s.backend.Set(ctx, state.StorageKey, raw); err != nil {
		s.logger.Warn("failed to save game state", zap.Error(err))
	}
}
