package forms

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Patcher is the slice of the session store the scheduler needs.
type Patcher interface {
	Patch(ctx context.Context, section string, values map[string]any) error
}

// syncState tracks where a section's write pump is in its lifecycle.
type syncState int

const (
	stateIdle syncState = iota
	stateDebouncing
	stateInFlight
)

// SyncScheduler debounces outgoing writes from a [ValueCache] to the remote session store.
//
// One scheduler exists per open section. Edits reset the debounce timer
// (latest-value-wins: intermediate snapshots are dropped); at most one patch
// is in flight at a time; an edit arriving mid-flight re-arms the timer with
// the newest snapshot once the request resolves. Hydration-origin changes
// never arm the timer, which is what keeps the load→patch→load loop from
// forming. A failed patch is logged and dropped: the next edit resends the
// full latest snapshot, so a single lost write self-heals.
type SyncScheduler struct {
	store    Patcher
	section  string
	interval time.Duration
	logger   *log.Logger

	mu      sync.Mutex
	state   syncState
	timer   *time.Timer
	pending map[string]any
	dirty   bool
	closed  bool
}

// NewSyncScheduler creates a scheduler for one section.
func NewSyncScheduler(store Patcher, section string, interval time.Duration, logger *log.Logger) *SyncScheduler {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &SyncScheduler{
		store:    store,
		section:  section,
		interval: interval,
		logger:   logger.With("section", section),
	}
}

// Bind subscribes the scheduler to a cache's change stream.
func (s *SyncScheduler) Bind(cache *ValueCache) {
	cache.Subscribe(s.Observe)
}

// Observe consumes one cache change notification.
func (s *SyncScheduler) Observe(change Change) {
	if change.Origin == OriginHydrate {
		// Hydrated state already matches the server.
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	s.pending = change.Snapshot

	switch s.state {
	case stateIdle:
		s.state = stateDebouncing
		s.armLocked()
	case stateDebouncing:
		s.armLocked()
	case stateInFlight:
		s.dirty = true
	}
}

// Close clears a pending debounce timer. An in-flight patch is left to resolve on its own.
func (s *SyncScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// armLocked (re)starts the debounce timer. Caller holds s.mu.
func (s *SyncScheduler) armLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, s.fire)
}

// fire runs when the quiet interval elapses with no further edits.
func (s *SyncScheduler) fire() {
	s.mu.Lock()
	if s.closed || s.state != stateDebouncing {
		s.mu.Unlock()
		return
	}
	s.state = stateInFlight
	s.timer = nil
	snapshot := s.pending
	s.mu.Unlock()

	go s.flush(snapshot)
}

// flush sends one patch and settles the state machine afterwards.
func (s *SyncScheduler) flush(snapshot map[string]any) {
	err := s.store.Patch(context.Background(), s.section, snapshot)
	if err != nil {
		// At-most-once delivery: the next edit re-arms with the full
		// latest snapshot.
		s.logger.Warn("dropped section patch", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty && !s.closed {
		s.dirty = false
		s.state = stateDebouncing
		s.armLocked()
		return
	}

	s.dirty = false
	s.state = stateIdle
}
