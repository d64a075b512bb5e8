// Package engine hosts game sessions: a single-writer wrapper around a
// GameState that accepts record groups, keeps the applied log, and can
// replay a game from scratch. The state itself stays immutable; every
// accepted group produces a successor snapshot and the previous one is
// retained so undo is a pointer move.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cubatrice/engine/internal/data"
	"github.com/cubatrice/engine/internal/entity"
	"github.com/cubatrice/engine/internal/state"
)

// Sink receives record groups after they have been applied. A session
// with a sink notifies it on every accepted Submit; persistence
// failures fail the Submit but the in-memory state keeps the group.
type Sink interface {
	Append(ctx context.Context, gameID uuid.UUID, group state.RecordGroup) error
}

// Session is the single writer for one game. All mutation goes through
// Submit; readers take Snapshot and work on the immutable state they
// get back.
type Session struct {
	id     uuid.UUID
	logger *zap.Logger
	sink   Sink

	mu sync.Mutex
	// history[i] is the state after applying log[:i]; history[0] is the
	// initial state. Rollback pops both.
	history []*state.GameState
	log     []state.RecordGroup
}

// Option configures a session.
type Option func(*Session)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSink attaches a persistence sink notified on every accepted
// group.
func WithSink(sink Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// NewSession starts a session for a fresh game backed by the loaded
// reference data.
func NewSession(store *data.Store, totalConfluences int, opts ...Option) *Session {
	return Resume(state.New(store, totalConfluences), nil, opts...)
}

// Resume starts a session at an existing state, for example one
// rebuilt by Replay. The log holds the groups already reflected in the
// state; rollback cannot reach past it without the matching earlier
// snapshots, so resumed sessions only roll back groups submitted after
// the resume point.
func Resume(initial *state.GameState, applied []state.RecordGroup, opts ...Option) *Session {
	s := &Session{
		id:      uuid.New(),
		logger:  zap.NewNop(),
		history: []*state.GameState{initial},
		log:     append([]state.RecordGroup(nil), applied...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session's game identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Snapshot returns the current state. The returned value is never
// mutated afterwards and is safe to read concurrently.
func (s *Session) Snapshot() *state.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[len(s.history)-1]
}

// Log returns a copy of the applied record groups in order.
func (s *Session) Log() []state.RecordGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]state.RecordGroup(nil), s.log...)
}

// Submit validates and applies a record group. On success the new
// state becomes current, the group is appended to the log and handed
// to the sink if one is configured. On failure the current state is
// unchanged.
func (s *Session) Submit(ctx context.Context, group state.RecordGroup) (*state.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.history[len(s.history)-1]
	next, err := cur.Apply(group)
	if err != nil {
		s.logger.Debug("record group rejected",
			zap.Stringer("game_id", s.id),
			zap.Int("group", int(group.ID)),
			zap.Error(err),
		)
		return nil, err
	}

	if s.sink != nil {
		if err := s.sink.Append(ctx, s.id, group); err != nil {
			return nil, fmt.Errorf("persist group %d: %w", group.ID, err)
		}
	}

	s.history = append(s.history, next)
	s.log = append(s.log, group)

	s.logger.Info("record group applied",
		zap.Stringer("game_id", s.id),
		zap.Int("group", int(group.ID)),
		zap.Int("records", len(group.Records)),
		zap.Stringer("phase", next.Phase),
	)
	return next, nil
}

// Rollback undoes the most recently applied record group. The caller
// names the group it believes is on top; asking to undo anything else
// is a contract violation and fails with ErrNotApplied.
func (s *Session) Rollback(id entity.RecordID) (*state.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.history[len(s.history)-1]
	last, ok := cur.LastApplied()
	if !ok || last != id {
		return nil, fmt.Errorf("rollback group %d: %w", id, state.ErrNotApplied)
	}
	if len(s.history) < 2 {
		// The group predates this session (resumed log); its prior
		// snapshot was never held here.
		return nil, fmt.Errorf("rollback group %d: %w", id, state.ErrNotApplied)
	}

	s.history = s.history[:len(s.history)-1]
	s.log = s.log[:len(s.log)-1]

	prev := s.history[len(s.history)-1]
	s.logger.Info("record group rolled back",
		zap.Stringer("game_id", s.id),
		zap.Int("group", int(id)),
		zap.Stringer("phase", prev.Phase),
	)
	return prev, nil
}

// Replay rebuilds a game state from the reference data and an ordered
// record-group log. Apply is deterministic, so replaying the same log
// always yields a state with the same checksum.
func Replay(store *data.Store, totalConfluences int, log []state.RecordGroup) (*state.GameState, error) {
	s := state.New(store, totalConfluences)
	for i, group := range log {
		next, err := s.Apply(group)
		if err != nil {
			return nil, fmt.Errorf("replay group %d (index %d): %w", group.ID, i, err)
		}
		s = next
	}
	return s, nil
}
