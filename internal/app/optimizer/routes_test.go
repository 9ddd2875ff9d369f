package optimizer

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-optimizer/internal/cache"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-optimizer/internal/lib/jwt"
	optimizerservice "github.com/magabrotheeeer/subscription-optimizer/internal/services/optimizer"
	subservice "github.com/magabrotheeeer/subscription-optimizer/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-optimizer/internal/storage/memory"
)

type apiResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	maker  jwt.Maker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	now := clock.Fixed(time.Now().UTC())
	maker := jwt.NewJWTMaker("integration-secret", time.Hour)

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		subservice.NewSubscriptionService(store, cache.Noop{}, now, logger),
		optimizerservice.NewService(store, cache.Noop{}, time.Minute, now, logger),
		maker,
		Limits{RPS: 1000, Burst: 1000},
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{t: t, server: srv, maker: maker}
}

func (s *testServer) do(owner, method, path, body string) (int, apiResponse) {
	s.t.Helper()
	req, err := http.NewRequest(method, s.server.URL+path, strings.NewReader(body))
	require.NoError(s.t, err)
	if owner != "" {
		token, err := s.maker.GenerateToken(owner)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

const netflix = `{"id":"netflix","name":"Netflix","amount":300,"category":"entertainment",
	"billing_cycle_days":30,"start_date":"2024-01-01T00:00:00Z","usage_frequency":2}`

func TestRoutes_SubscriptionLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do("alice", http.MethodPost, "/api/v1/subscriptions", netflix)
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do("alice", http.MethodGet, "/api/v1/spending", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"total":300}`, string(resp.Data))

	code, resp = s.do("alice", http.MethodGet, "/api/v1/spending/entertainment", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"category":"entertainment","total":300}`, string(resp.Data))

	code, _ = s.do("alice", http.MethodGet, "/api/v1/spending/gaming", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = s.do("alice", http.MethodGet, "/api/v1/spending/yearly?current_year=2024&previous_year=2023", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"current_year_total":0,"previous_year_total":0,"change_percent":0}`, string(resp.Data))

	code, resp = s.do("alice", http.MethodGet, "/api/v1/subscriptions/rarely-used", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"estimated_days_unused":0`)

	code, resp = s.do("alice", http.MethodPost, "/api/v1/suggestions/generate", "")
	require.Equal(t, http.StatusCreated, code)
	assert.Contains(t, string(resp.Data), `"type":"cancel"`)

	code, _ = s.do("alice", http.MethodPut, "/api/v1/subscriptions/netflix/usage", `{"usage_frequency":11}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do("alice", http.MethodPost, "/api/v1/subscriptions/netflix/payments", `{"amount":450}`)
	require.Equal(t, http.StatusCreated, code)

	code, resp = s.do("alice", http.MethodGet, "/api/v1/subscriptions/netflix/payments", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"amount":450`)

	code, _ = s.do("alice", http.MethodDelete, "/api/v1/subscriptions/netflix", "")
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do("alice", http.MethodPut, "/api/v1/subscriptions/netflix/usage", `{"usage_frequency":5}`)
	assert.Equal(t, http.StatusNotFound, code)

	code, resp = s.do("alice", http.MethodGet, "/api/v1/suggestions", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"subscription_id":"netflix"`)
}

func TestRoutes_OwnersAreIsolated(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do("alice", http.MethodPost, "/api/v1/subscriptions", netflix)
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.do("bob", http.MethodGet, "/api/v1/subscriptions", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(resp.Data))

	code, _ = s.do("bob", http.MethodDelete, "/api/v1/subscriptions/netflix", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoutes_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do("", http.MethodGet, "/api/v1/subscriptions", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Error", resp.Status)

	code, _ = s.do("", http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
}
