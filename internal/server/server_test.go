package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nramsai/sizely/internal/detector"
)

func TestHealthEndpoint(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("got status %v, want ok", resp["status"])
	}
}

func TestHealthEndpoint_MethodNotAllowed(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want 405", w.Code)
	}
}

func TestOptionalRoutes(t *testing.T) {
	// Without collaborators the optional routes must not be registered.
	bare := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	w := httptest.NewRecorder()
	bare.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("analyze without app: got %d, want 404", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/charts", nil)
	w = httptest.NewRecorder()
	bare.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("charts without store: got %d, want 404", w.Code)
	}

	// The preview route rejects plain HTTP once registered.
	withDetector := New(Config{Detector: detector.NewMockDetector()})

	req = httptest.NewRequest(http.MethodGet, "/api/preview", nil)
	w = httptest.NewRecorder()
	withDetector.ServeHTTP(w, req)
	if w.Code == http.StatusNotFound {
		t.Error("preview with detector should be registered")
	}
}
