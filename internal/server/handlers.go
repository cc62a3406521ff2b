package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/parakeep/parakeep/internal/llm"
	"github.com/parakeep/parakeep/internal/state"
	"github.com/parakeep/parakeep/internal/vault"
)

// staleAfter is how old the last successful run may be before the store is
// reported unhealthy.
const staleAfter = 24 * time.Hour

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// healthResponse aggregates inference and state store health.
type healthResponse struct {
	Inference llm.HealthStatus `json:"inference"`
	Store     struct {
		Healthy bool   `json:"healthy"`
		Detail  string `json:"detail,omitempty"`
	} `json:"store"`
	Vault struct {
		Root string `json:"root"`
		OK   bool   `json:"ok"`
	} `json:"vault"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var resp healthResponse
	resp.Inference = s.provider.Health(r.Context())
	resp.Store.Healthy, resp.Store.Detail = state.Healthy(s.store, staleAfter)
	resp.Vault.Root = s.scanner.Root()
	if info, err := os.Stat(s.scanner.Root()); err == nil && info.IsDir() {
		resp.Vault.OK = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	h, err := s.scanner.GetHierarchy(false)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hierarchy":  h,
		"vocabulary": h.Vocabulary(),
	})
}

func (s *Server) handleRescan(w http.ResponseWriter, r *http.Request) {
	h, err := s.scanner.Rescan()
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.events.Broadcast(Event{Type: "rescan", Detail: fmt.Sprintf("%d domains", len(h))})
	writeJSON(w, http.StatusOK, map[string]any{"hierarchy": h})
}

type classifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h, err := s.scanner.GetHierarchy(false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := s.classifier.Classify(r.Context(), req.Text, h)
	switch {
	case errors.Is(err, llm.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "inference timed out")
		return
	case errors.Is(err, llm.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "inference service unavailable")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.Runs(20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	healthy, detail := state.Healthy(s.store, staleAfter)
	writeJSON(w, http.StatusOK, map[string]any{
		"healthy": healthy,
		"detail":  detail,
		"runs":    runs,
	})
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
)

// handlePreview renders the artifact recorded for a capture as HTML.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	path, ok, err := s.store.Artifact(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no artifact recorded for "+id)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "artifact file missing: "+path)
		return
	}

	var buf bytes.Buffer
	if err := markdown.Convert(content, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, "rendering markdown: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
