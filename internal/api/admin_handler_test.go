package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain"
	"newsagent/internal/feed"
	"newsagent/internal/ingest"
)

// memoryItemStore implements insert-if-absent over a map for engine tests.
type memoryItemStore struct {
	mu    sync.Mutex
	items map[string]*domain.Item
}

func newMemoryItemStore() *memoryItemStore {
	return &memoryItemStore{items: make(map[string]*domain.Item)}
}

func (s *memoryItemStore) CreateIfAbsent(ctx context.Context, item *domain.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ContentHash]; ok {
		return false, nil
	}
	s.items[item.ContentHash] = item
	return true, nil
}

func (s *memoryItemStore) ListRecent(ctx context.Context, limit int) ([]*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Item
	for _, item := range s.items {
		out = append(out, item)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memoryItemStore) CountAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

// cannedFetcher returns the same entries for every source.
type cannedFetcher struct {
	entries []feed.RawItem
}

func (f *cannedFetcher) Fetch(ctx context.Context, sourceURL string) ([]feed.RawItem, error) {
	return f.entries, nil
}

func newAdminFixture(rateLimit int) (*AdminHandler, *memoryItemStore) {
	items := newMemoryItemStore()
	limiter := ingest.NewRateLimiter(context.Background(), rateLimit, time.Hour, nil, nil)
	engine := ingest.NewEngine(
		ingest.EngineConfig{
			Sources:  []string{"https://a.example/rss", "https://b.example/rss"},
			Interval: time.Hour,
		},
		&cannedFetcher{entries: []feed.RawItem{
			{Title: "Story One", Link: "https://a.example/1"},
			{Title: "Story Two", Link: "https://a.example/2"},
		}},
		items,
		limiter,
		nil,
	)
	return NewAdminHandler(engine, items, nil), items
}

func TestTriggerIngest(t *testing.T) {
	handler, items := newAdminFixture(10)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/ingest", nil)
	rec := httptest.NewRecorder()
	handler.TriggerIngest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string              `json:"message"`
		Result  ingest.CycleSummary `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ingestion cycle completed", resp.Message)
	assert.False(t, resp.Result.Skipped)
	// Both sources serve the same two stories; dedup keeps two items.
	assert.Equal(t, 4, resp.Result.ItemsFetched)
	assert.Equal(t, 2, resp.Result.ItemsInserted)

	count, err := items.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestTriggerIngestRateLimited(t *testing.T) {
	handler, _ := newAdminFixture(1)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/ingest", nil)
	rec := httptest.NewRecorder()
	handler.TriggerIngest(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.TriggerIngest(rec, httptest.NewRequest(http.MethodPost, "/api/admin/ingest", nil))
	require.Equal(t, http.StatusOK, rec.Code, "a skip is a normal response, not an error")

	var resp struct {
		Message string              `json:"message"`
		Result  ingest.CycleSummary `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ingestion cycle skipped", resp.Message)
	assert.True(t, resp.Result.Skipped)
	assert.Equal(t, "rate limit exhausted", resp.Result.SkipReason)
}

func TestStatus(t *testing.T) {
	handler, _ := newAdminFixture(10)

	// Before any cycle.
	rec := httptest.NewRecorder()
	handler.Status(rec, httptest.NewRequest(http.MethodGet, "/api/admin/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var before struct {
		Status      string     `json:"status"`
		TotalItems  int64      `json:"total_items"`
		LastCycleAt *time.Time `json:"last_cycle_at"`
		RateWindow  struct {
			Count int `json:"count"`
			Limit int `json:"limit"`
		} `json:"rate_window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &before))
	assert.Equal(t, "operational", before.Status)
	assert.Equal(t, int64(0), before.TotalItems)
	assert.Nil(t, before.LastCycleAt)
	assert.Equal(t, 10, before.RateWindow.Limit)

	// After a cycle.
	handler.TriggerIngest(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/admin/ingest", nil))

	rec = httptest.NewRecorder()
	handler.Status(rec, httptest.NewRequest(http.MethodGet, "/api/admin/status", nil))

	var after struct {
		TotalItems  int64      `json:"total_items"`
		LastCycleAt *time.Time `json:"last_cycle_at"`
		RateWindow  struct {
			Count int `json:"count"`
		} `json:"rate_window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &after))
	assert.Equal(t, int64(2), after.TotalItems)
	assert.NotNil(t, after.LastCycleAt)
	assert.Equal(t, 1, after.RateWindow.Count)
}

func TestSources(t *testing.T) {
	handler, _ := newAdminFixture(10)

	rec := httptest.NewRecorder()
	handler.Sources(rec, httptest.NewRequest(http.MethodGet, "/api/admin/sources", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		TotalSources int      `json:"total_sources"`
		Sources      []string `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalSources)
	assert.Equal(t, []string{"https://a.example/rss", "https://b.example/rss"}, resp.Sources)
}
