package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/UMDhodi/Obsidian/internal/cart"
	"github.com/UMDhodi/Obsidian/internal/catalog"
	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/UMDhodi/Obsidian/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testProducts = []domain.Product{
	{ID: "s1", Name: "Obsidian Face Wash", Category: domain.CategorySkin, Type: domain.TypeTube, Price: decimal.NewFromInt(24), InStock: true},
	{ID: "s2", Name: "Obsidian Skin Cream", Category: domain.CategorySkin, Type: domain.TypeTube, Price: decimal.NewFromInt(32), InStock: true},
	{ID: "h1", Name: "Steel Pomade Kit", Category: domain.CategoryHair, Type: domain.TypeKit, Price: decimal.NewFromInt(28), InStock: false},
	{ID: "f1", Name: "Midnight Lead", Category: domain.CategoryFragrance, Type: domain.TypeBottle, Price: decimal.NewFromInt(110), InStock: true},
}

var testQuotes = []domain.Quote{
	{Text: "Your face is your first impression. Forge it well.", Author: "Obsidian Philosophy"},
}

type ConsulterMock struct {
	mu    sync.Mutex
	resp  domain.ConsultationResponse
	delay time.Duration
	reqs  []domain.ConsultationRequest
}

func (m *ConsulterMock) Consult(ctx context.Context, req domain.ConsultationRequest) domain.ConsultationResponse {
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	m.mu.Unlock()
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	return m.resp.Clone()
}

func (m *ConsulterMock) requests() []domain.ConsultationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.ConsultationRequest(nil), m.reqs...)
}

func sampleAdvice() domain.ConsultationResponse {
	return domain.ConsultationResponse{
		Routine:             []string{"Cleanse", "Hydrate"},
		Advice:              "Stay sharp.",
		RecommendedProducts: []string{"Obsidian Face Wash"},
	}
}

type testServer struct {
	handler   http.Handler
	sessions  *session.MemoryStore
	consulter *ConsulterMock
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	c, err := catalog.New(testProducts)
	require.NoError(t, err)

	sessions := session.NewMemoryStore(func() *cart.Engine { return cart.NewEngine(c, nil) }, time.Hour, nil)
	t.Cleanup(func() { sessions.Close() })

	consulter := &ConsulterMock{resp: sampleAdvice()}
	handler := NewHandler(RouterConfig{
		Products:       NewProductHandler(c, testQuotes),
		Cart:           NewCartHandler(c, cart.DefaultDeliveryFee, nil),
		Consultation:   NewConsultationHandler(consulter, nil),
		Sessions:       sessions,
		RequestTimeout: 5 * time.Second,
	})
	return &testServer{handler: handler, sessions: sessions, consulter: consulter}
}

func (s *testServer) do(t *testing.T, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	request := httptest.NewRequest(method, path, &buf)
	if sessionID != "" {
		request.Header.Set(SessionIDHeader, sessionID)
	}
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&v), recorder.Body.String())
	return v
}
