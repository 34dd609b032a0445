package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"flagexpiry/internal/app/client/config"
	"flagexpiry/internal/domain/flags"
)

// stubAPI - тестовый сервер флагов с пагинацией и PATCH
type stubAPI struct {
	t      *testing.T
	server *httptest.Server

	mu        sync.Mutex
	flags     []flags.FlagRecord
	patches   map[string][]flags.PatchRequest
	failKeys  map[string]int // ключ -> статус ошибки на PATCH
	listCalls int
}

func newStubAPI(t *testing.T, records []flags.FlagRecord) *stubAPI {
	t.Helper()

	stub := &stubAPI{
		t:        t,
		flags:    records,
		patches:  make(map[string][]flags.PatchRequest),
		failKeys: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get("/api/v2/flags/{project}", stub.handleList)
	r.Get("/api/v2/flags/{project}/{key}", stub.handleGet)
	r.Patch("/api/v2/flags/{project}/{key}", stub.handlePatch)

	stub.server = httptest.NewServer(r)
	t.Cleanup(stub.server.Close)

	return stub
}

func (s *stubAPI) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit < 1 {
		limit = 50
	}

	end := offset + limit
	if offset > len(s.flags) {
		offset = len(s.flags)
	}
	if end > len(s.flags) {
		end = len(s.flags)
	}

	page := flags.Page{
		Items:      s.flags[offset:end],
		TotalCount: len(s.flags),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		s.t.Errorf("ошибка кодирования страницы: %v", err)
	}
}

func (s *stubAPI) handleGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := chi.URLParam(r, "key")
	for _, f := range s.flags {
		if f.Key == key {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(f)
			return
		}
	}
	http.Error(w, `{"message":"flag not found"}`, http.StatusNotFound)
}

func (s *stubAPI) handlePatch(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := chi.URLParam(r, "key")
	if status, ok := s.failKeys[key]; ok {
		http.Error(w, `{"message":"patch rejected"}`, status)
		return
	}

	var patch flags.PatchRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"message":"bad patch"}`, http.StatusBadRequest)
		return
	}

	s.patches[key] = append(s.patches[key], patch)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{}`))
}

func (s *stubAPI) failOnPatch(key string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failKeys[key] = status
}

func (s *stubAPI) patchesFor(key string) []flags.PatchRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patches[key]
}

// testConfig собирает конфигурацию с минимальными задержками
func testConfig(baseURL string) *config.Config {
	return &config.Config{
		Env:          config.EnvLocal,
		APIBaseURL:   baseURL,
		APIToken:     "test-token",
		ProjectKey:   "test-project",
		PropertyName: testProperty,
		DaysOffset:   30,
		DateFormat:   "MM/DD/YYYY",
		SkipExisting: true,
		PageSize:     50,
		BatchSize:    5,
		MaxAttempts:  2,
		BaseDelayMs:  1,
		PageDelayMs:  0,
		BatchDelayMs: 0,
	}
}

func newTestClient(t *testing.T, cfg *config.Config) *httpClient {
	t.Helper()
	exec := NewExecutor(ExecutorConfig{MaxAttempts: cfg.MaxAttempts, BaseDelay: 1}, testLogger())
	return newHTTPClient(cfg, exec, testLogger())
}
