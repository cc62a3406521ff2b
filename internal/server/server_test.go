package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/parakeep/parakeep/internal/classifier"
	"github.com/parakeep/parakeep/internal/config"
	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/state"
	"github.com/parakeep/parakeep/internal/vault"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Content: f.reply}, nil
}

func (f *fakeProvider) Health(ctx context.Context) llm.HealthStatus {
	return llm.HealthStatus{ServerRunning: true, ModelAvailable: true, Ready: true, Model: "test-model"}
}

func (f *fakeProvider) Name() string { return "fake" }

func newTestServer(t *testing.T, provider llm.Provider) (*Server, string, state.Store) {
	t.Helper()

	vaultRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(vaultRoot, "Work", "1_Projects", "launch"), 0o755); err != nil {
		t.Fatal(err)
	}

	scanner := vault.NewScanner(vaultRoot, time.Hour, vault.NewMemoryCache(), nil)
	cls := classifier.New(provider, "test-model", config.DefaultsConfig{
		Domain: "Personal", Section: "3_Resources", Subject: "general", Category: "reference",
	})
	store := state.NewFileStore(t.TempDir())

	return New(Config{Port: 0}, scanner, cls, provider, store), vaultRoot, store
}

func TestHealthCheck(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProvider{})
	srv.cfg.AllowAll = true
	srv.router = srv.buildRouter()

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestHierarchyEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest("GET", "/api/hierarchy", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var body struct {
		Hierarchy  vault.Hierarchy  `json:"hierarchy"`
		Vocabulary vault.Vocabulary `json:"vocabulary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body.Hierarchy["Work"]; !ok {
		t.Errorf("hierarchy missing Work domain: %v", body.Hierarchy)
	}
	if len(body.Vocabulary.Subjects) != 1 || body.Vocabulary.Subjects[0] != "launch" {
		t.Errorf("vocabulary = %v", body.Vocabulary)
	}
}

func TestRescanEndpointPicksUpNewFolders(t *testing.T) {
	srv, vaultRoot, _ := newTestServer(t, &fakeProvider{})

	// Warm the cache.
	req := httptest.NewRequest("GET", "/api/hierarchy", nil)
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	if err := os.MkdirAll(filepath.Join(vaultRoot, "Personal", "2_Areas", "health"), 0o755); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("POST", "/api/rescan", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Hierarchy vault.Hierarchy `json:"hierarchy"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, ok := body.Hierarchy["Personal"]; !ok {
		t.Error("rescan did not pick up the new domain")
	}
}

func TestClassifyEndpoint(t *testing.T) {
	reply := `{"domain": "Work", "section": "1_Projects", "subject": "launch", "category": "task", "confidence": 0.9, "reasoning": "r"}`
	srv, _, _ := newTestServer(t, &fakeProvider{reply: reply})

	req := httptest.NewRequest("POST", "/api/classify", strings.NewReader(`{"text": "ship the launch checklist"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}

	var result classifier.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Domain != "Work" || result.Subject != "launch" {
		t.Errorf("result = %+v", result)
	}
}

func TestClassifyEndpointMapsTransportErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{llm.ErrUnavailable, http.StatusServiceUnavailable},
		{llm.ErrTimeout, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		srv, _, _ := newTestServer(t, &fakeProvider{err: tt.err})

		req := httptest.NewRequest("POST", "/api/classify", strings.NewReader(`{"text": "anything"}`))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)

		if w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

func TestClassifyEndpointRejectsBadBody(t *testing.T) {
	srv, _, _ := newTestServer(t, &fakeProvider{})

	req := httptest.NewRequest("POST", "/api/classify", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _, store := newTestServer(t, &fakeProvider{})
	if err := store.RecordRun(state.RunSuccess, "processed 2"); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Healthy bool              `json:"healthy"`
		Runs    []state.RunRecord `json:"runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Healthy {
		t.Error("expected healthy after a fresh successful run")
	}
	if len(body.Runs) != 1 || body.Runs[0].Detail != "processed 2" {
		t.Errorf("runs = %v", body.Runs)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	srv, vaultRoot, store := newTestServer(t, &fakeProvider{})

	notePath := filepath.Join(vaultRoot, "note.md")
	if err := os.WriteFile(notePath, []byte("# Heading\n\nsome **bold** text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.SetArtifact("m1", notePath); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/preview/m1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body)
	}
	html := w.Body.String()
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered: %s", html)
	}

	// Unknown capture id.
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest("GET", "/api/preview/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Broadcast(Event{Type: "rescan", Detail: "2 domains"})

	select {
	case ev := <-ch:
		if ev.Type != "rescan" || ev.Time.IsZero() {
			t.Errorf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	// After cancel, broadcasting must not panic or block.
	hub.Broadcast(Event{Type: "cycle"})
}
