package search_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *search.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &search.Config{BaseURL: server.URL, APIKey: "test-key"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config failed: %v", err)
	}

	return search.NewClient(cfg)
}

func TestDiscoverSendsQueryAndAuth(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/search" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"url": "https://example.com/a", "title": "A", "content": "alpha", "score": 0.9},
				{"url": "https://example.com/b", "title": "B", "content": "beta", "score": 0.5},
			},
		})
	})

	results, err := client.Discover(context.Background(), "soil moisture sensor", 3)
	if err != nil {
		t.Fatalf("discover failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if gotBody["query"] != "soil moisture sensor" {
		t.Errorf("query = %v", gotBody["query"])
	}
	if gotBody["max_results"] != float64(3) {
		t.Errorf("max_results = %v, want 3", gotBody["max_results"])
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].URL != "https://example.com/a" || results[0].Score != 0.9 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
}

func TestDiscoverSurfacesProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.Discover(context.Background(), "anything", 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not surface the status code", err)
	}
}
