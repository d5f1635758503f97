package consultation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UMDhodi/Obsidian/internal/domain"
)

const validReply = `{"routine":["Scrub","Hydrate"],"advice":"Stay sharp.","recommendedProducts":["Obsidian Skin Cream"]}`

var errTransport = errors.New("connection refused")

// mockProvider returns text/err after delay and counts calls
type mockProvider struct {
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32

	mu      sync.Mutex
	prompts []string
}

func (m *mockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.text, m.err
}

// stuckProvider ignores its context and never answers within a test's lifetime
type stuckProvider struct{}

func (stuckProvider) Generate(context.Context, string) (string, error) {
	time.Sleep(time.Hour)
	return "", nil
}

type mockCache struct {
	m      sync.Mutex
	items  map[string]domain.ConsultationResponse
	getErr error
	sets   int
}

func newMockCache() *mockCache {
	return &mockCache{items: make(map[string]domain.ConsultationResponse)}
}

func (m *mockCache) Get(_ context.Context, key string) (*domain.ConsultationResponse, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	r, ok := m.items[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &r, nil
}

func (m *mockCache) Set(_ context.Context, key string, resp *domain.ConsultationResponse) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.items[key] = *resp
	m.sets++
	return nil
}
