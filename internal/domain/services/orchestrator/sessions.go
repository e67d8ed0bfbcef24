package orchestrator

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/basket-service/basket_service/pkg/logger"
)

type session struct {
	orchestrator *Orchestrator
	lastSeen     time.Time
}

// Sessions keeps one Orchestrator per viewing session so concurrent
// visitors do not supersede each other's fetches.
type Sessions struct {
	registry *Registry
	logger   *logger.Logger
	opts     []Option
	now      func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

// NewSessions creates an empty session table
func NewSessions(registry *Registry, log *logger.Logger, opts ...Option) *Sessions {
	return &Sessions{
		registry: registry,
		logger:   log,
		opts:     opts,
		now:      time.Now,
		items:    make(map[string]*session),
	}
}

// Create starts a new session and returns its ID
func (s *Sessions) Create() string {
	id := uuid.New().String()
	s.Get(id)
	return id
}

// Get returns the session's orchestrator, creating it on first use
func (s *Sessions) Get(id string) *Orchestrator {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		item = &session{orchestrator: New(s.registry, s.logger, s.opts...)}
		s.items[id] = item
	}
	item.lastSeen = s.now()
	return item.orchestrator
}

// Lookup returns an existing session's orchestrator without creating one
func (s *Sessions) Lookup(id string) (*Orchestrator, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	item.lastSeen = s.now()
	return item.orchestrator, true
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed. In-flight fetches of a dropped session finish unobserved.
func (s *Sessions) Sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, item := range s.items {
		if item.lastSeen.Before(cutoff) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
