package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestWebhookRoutesAllowAnyOrigin(t *testing.T) {
	r := chi.NewRouter()
	mountWebhookRoutes(r, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Preflight from an arbitrary provider origin.
	req := httptest.NewRequest(http.MethodOptions, "/webhooks/abc", nil)
	req.Header.Set("Origin", "https://pms.example.net")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
	allowed := rec.Header().Get("Access-Control-Allow-Methods")
	if !strings.Contains(allowed, http.MethodPost) {
		t.Errorf("Expected POST in allowed methods, got %q", allowed)
	}

	// The actual delivery also carries the open origin header.
	req = httptest.NewRequest(http.MethodPost, "/webhooks/abc", nil)
	req.Header.Set("Origin", "https://pms.example.net")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from handler, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin * on POST, got %q", got)
	}
}
