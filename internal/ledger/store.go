// Package ledger holds the single authoritative AppState and the pure
// reducer that moves it forward. Every change goes through Dispatch, which
// persists the whole document and notifies subscribers.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/claude/reptracker/internal/datekey"
	"github.com/claude/reptracker/internal/models"
	"github.com/claude/reptracker/internal/storage"
	"github.com/claude/reptracker/internal/validation"
)

// Store owns the ledger state. It is safe for concurrent use; dispatches are
// serialised so there is exactly one writer at a time.
type Store struct {
	backend storage.Backend
	log     *slog.Logger
	today   func() string

	mu      sync.Mutex
	state   models.AppState
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(models.AppState)
}

// Option configures a Store.
type Option func(*Store)

// WithToday overrides the source of today's date key.
func WithToday(fn func() string) Option {
	return func(s *Store) { s.today = fn }
}

// New creates a store holding the default state. Call Load to read the
// persisted document.
func New(backend storage.Backend, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     log,
		today:   datekey.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = models.DefaultState(s.today())
	return s
}

// Load reads the persisted document and makes it the current state. A
// missing, unreadable or invalid document is replaced by the default state;
// Load never fails for data reasons.
func (s *Store) Load(ctx context.Context) models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, persist := s.read(ctx)
	s.state = state
	if persist {
		s.save(ctx, state)
	}
	return state
}

// read returns the state to start from and whether it should be written back.
func (s *Store) read(ctx context.Context) (models.AppState, bool) {
	fallback := models.DefaultState(s.today())

	doc, err := s.backend.Load(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Info("no stored ledger, starting fresh", "start_date", fallback.Settings.StartDate)
		return fallback, true
	}
	if err != nil {
		s.log.Error("failed to load state", "error", err)
		return fallback, false
	}

	state, result, err := validation.DecodeAppState(doc)
	if err != nil {
		s.log.Error("failed to parse stored state", "error", err)
		return fallback, true
	}
	if !result.Valid {
		s.log.Warn("invalid stored state, using default", "error", result.Err())
		return fallback, true
	}
	s.log.Info("loaded ledger", "types", len(state.Types), "logs", len(state.Logs))
	return state, false
}

// State returns a snapshot of the current state.
func (s *Store) State() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies action, persists the result when it changed and notifies
// subscribers. Save failures are logged; the in-memory state still advances.
func (s *Store) Dispatch(ctx context.Context, action Action) models.AppState {
	next, _ := s.Update(ctx, func(models.AppState) (Action, error) { return action, nil })
	return next
}

// Update runs decide against the current state and dispatches the action it
// returns, all under the store's lock, so the check and the change cannot be
// interleaved with another writer. An error from decide is returned as is and
// nothing changes.
func (s *Store) Update(ctx context.Context, decide func(models.AppState) (Action, error)) (models.AppState, error) {
	s.mu.Lock()
	action, err := decide(s.state)
	if err != nil {
		state := s.state
		s.mu.Unlock()
		return state, err
	}
	next, changed := Reduce(s.state, action, s.today())
	if !changed {
		s.mu.Unlock()
		s.log.Debug("action changed nothing", "action", action.ActionName())
		return next, nil
	}
	s.state = next
	s.save(ctx, next)
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.log.Debug("dispatched", "action", action.ActionName())
	for _, sub := range subs {
		sub.fn(next)
	}
	return next, nil
}

// Subscribe registers fn to be called with the new state after every change.
// Subscribers run in registration order, outside the store's lock. The
// returned function removes the subscription.
func (s *Store) Subscribe(fn func(models.AppState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Reset clears the persisted document and restores the default state with
// tracking starting today.
func (s *Store) Reset(ctx context.Context) models.AppState {
	if err := s.backend.Clear(ctx); err != nil {
		s.log.Error("failed to clear state", "error", err)
	}
	return s.Dispatch(ctx, ResetState{})
}

// save must be called with mu held.
func (s *Store) save(ctx context.Context, state models.AppState) {
	doc, err := json.Marshal(state.Normalized())
	if err != nil {
		s.log.Error("failed to encode state", "error", err)
		return
	}
	if err := s.backend.Save(ctx, doc); err != nil {
		s.log.Error("failed to save state", "error", err)
	}
}
