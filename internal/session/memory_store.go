package session

import (
	"strings"
	"sync"
	"time"

	"github.com/UMDhodi/Obsidian/internal/cart"
	"go.uber.org/zap"
)

const (
	// DefaultTTL is how long an untouched session survives
	DefaultTTL = 30 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = 30 * time.Second

	maxIDLength = 128
)

// EngineFactory builds the engine for a new session
type EngineFactory func() *cart.Engine

// MemoryStore implements Store with in-memory sessions that expire when idle
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	newEngine EngineFactory
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
	closed    bool

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

// NewMemoryStore creates a store and starts its expiry loop
func NewMemoryStore(newEngine EngineFactory, ttl time.Duration, logger *zap.Logger) *MemoryStore {
	return newMemoryStore(newEngine, ttl, CleanupInterval, time.Now, logger)
}

func newMemoryStore(newEngine EngineFactory, ttl, interval time.Duration, now func() time.Time, logger *zap.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MemoryStore{
		sessions:    make(map[string]*Session),
		newEngine:   newEngine,
		ttl:         ttl,
		now:         now,
		logger:      logger,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop(interval)

	return s
}

// cleanupLoop periodically drops idle sessions
func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

// expireSessions removes sessions idle past the TTL, sparing any with a consultation in flight
func (s *MemoryStore) expireSessions() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) >= s.ttl && !sess.busy() {
			delete(s.sessions, id)
			expired++
		}
	}
	if expired > 0 {
		s.logger.Debug("expired idle sessions", zap.Int("count", expired), zap.Int("remaining", len(s.sessions)))
	}
	return expired
}

func (s *MemoryStore) Get(id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxIDLength {
		return nil, ErrInvalidSessionID
	}
	now := s.now()

	// touch under the store lock so expiry cannot drop a session between lookup and refresh
	s.mu.RLock()
	sess, exists := s.sessions[id]
	closed := s.closed
	if exists && !closed {
		sess.touch(now)
	}
	s.mu.RUnlock()
	if closed {
		return nil, ErrStoreClosed
	}
	if exists {
		return sess, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}
	// another request may have created it between the locks
	if sess, exists := s.sessions[id]; exists {
		sess.touch(now)
		return sess, nil
	}
	sess = newSession(id, s.newEngine(), now)
	s.sessions[id] = sess
	s.logger.Debug("session created", zap.String("session_id", id))
	return sess, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup loop and drops every session
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
