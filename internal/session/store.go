package session

import (
	"errors"
)

var (
	ErrStoreClosed            = errors.New("session store is closed")
	ErrInvalidSessionID       = errors.New("invalid session id")
	ErrConsultationInProgress = errors.New("consultation already in progress")
)

// Store hands out per-visitor sessions
type Store interface {
	// Get returns the session for id, creating an empty one if none exists.
	// Every call refreshes the session's idle timer.
	Get(id string) (*Session, error)

	// Len reports how many sessions are live
	Len() int

	// Close stops background expiry
	Close() error
}
