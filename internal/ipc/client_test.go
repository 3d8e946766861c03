package ipc_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ipc.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &ipc.Config{BaseURL: server.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config failed: %v", err)
	}

	return ipc.NewClient(cfg)
}

func TestClassifySendsSummary(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/classify" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]any{
				{"symbol": "A01G25/16", "score": 0.95},
				{"symbol": "G05B15/02", "score": 0.87},
			},
		})
	})

	predictions, err := client.Classify(context.Background(), "sensor driven irrigation summary")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if gotBody["text"] != "sensor driven irrigation summary" {
		t.Errorf("text = %v", gotBody["text"])
	}
	if len(predictions) != 2 {
		t.Fatalf("got %d predictions, want 2", len(predictions))
	}
	if predictions[0].Symbol != "A01G25/16" || predictions[0].Score != 0.95 {
		t.Errorf("unexpected first prediction: %+v", predictions[0])
	}
}

func TestClassifySurfacesServiceError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	})

	if _, err := client.Classify(context.Background(), "anything"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
