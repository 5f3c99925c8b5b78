package service

import (
	"context"
	"sync"

	"github.com/s-a-yu/auraPerfumeRec/internal/domain/research"
	"github.com/s-a-yu/auraPerfumeRec/internal/port/completion"
)

// mockCompleter returns canned responses keyed by schema name. Requests
// without a schema (summaries) fall back to summaryResponse.
type mockCompleter struct {
	mu              sync.Mutex
	responses       map[string]string
	errs            map[string]error
	summaryResponse string
	summaryErr      error
	requests        []completion.Request
}

func (m *mockCompleter) Complete(_ context.Context, req completion.Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if req.SchemaName == "" {
		return m.summaryResponse, m.summaryErr
	}
	if err, ok := m.errs[req.SchemaName]; ok {
		return "", err
	}
	return m.responses[req.SchemaName], nil
}

func (m *mockCompleter) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func (m *mockCompleter) lastRequest() completion.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[len(m.requests)-1]
}

// mockProvider returns fixed results or an error, optionally per query.
type mockProvider struct {
	mu      sync.Mutex
	results []research.SearchResult
	err     error
	errFor  map[string]error
	queries []string
	maxSeen int
}

func (m *mockProvider) Search(_ context.Context, query string, limit int) ([]research.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	if limit > m.maxSeen {
		m.maxSeen = limit
	}
	if err, ok := m.errFor[query]; ok {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockBroadcaster records every event it receives.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []broadcastCall
}

type broadcastCall struct {
	eventType string
	payload   any
}

func (m *mockBroadcaster) BroadcastEvent(_ context.Context, eventType string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, broadcastCall{eventType: eventType, payload: payload})
}

func (m *mockBroadcaster) eventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
