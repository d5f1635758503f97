package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/UMDhodi/Obsidian/internal/cart"
	"github.com/UMDhodi/Obsidian/internal/domain"
)

// Session is one visitor's storefront state. The engine is only reachable
// through Do, which serializes mutations in call order.
type Session struct {
	ID string

	mu       sync.Mutex
	engine   *cart.Engine
	lastSeen atomic.Int64 // unix nanos

	consultMu sync.Mutex
	loading   bool
	result    *domain.ConsultationResponse
}

// ConsultationState is the read model of the advice panel
type ConsultationState struct {
	Loading bool                         `json:"loading"`
	Result  *domain.ConsultationResponse `json:"result,omitempty"`
}

func newSession(id string, engine *cart.Engine, now time.Time) *Session {
	s := &Session{ID: id, engine: engine}
	s.touch(now)
	return s
}

// Do runs fn with exclusive access to the session's engine
func (s *Session) Do(fn func(e *cart.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.engine)
}

// BeginConsultation flips the loading flag. Only one consultation may run per session.
func (s *Session) BeginConsultation() error {
	s.consultMu.Lock()
	defer s.consultMu.Unlock()
	if s.loading {
		return ErrConsultationInProgress
	}
	s.loading = true
	return nil
}

// FinishConsultation stores the result and clears the loading flag
func (s *Session) FinishConsultation(resp domain.ConsultationResponse) {
	s.consultMu.Lock()
	defer s.consultMu.Unlock()
	s.loading = false
	clone := resp.Clone()
	s.result = &clone
}

func (s *Session) Consultation() ConsultationState {
	s.consultMu.Lock()
	defer s.consultMu.Unlock()
	state := ConsultationState{Loading: s.loading}
	if s.result != nil {
		clone := s.result.Clone()
		state.Result = &clone
	}
	return state
}

// Reset empties cart and wishlist and forgets the last consultation
func (s *Session) Reset() {
	s.mu.Lock()
	s.engine.Reset()
	s.mu.Unlock()

	s.consultMu.Lock()
	if !s.loading {
		s.result = nil
	}
	s.consultMu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func (s *Session) busy() bool {
	s.consultMu.Lock()
	defer s.consultMu.Unlock()
	return s.loading
}
