package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/config"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, config.Default().Engine, scoring.EstimateTokens, "test")
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func seedSession(t *testing.T, srv *Server, texts ...string) {
	t.Helper()
	w := doJSON(t, srv, "POST", "/api/sessions/init", map[string]string{"session_id": "sess-1"})
	if w.Code != http.StatusOK {
		t.Fatalf("init session: status %d: %s", w.Code, w.Body.String())
	}
	for i, text := range texts {
		w := doJSON(t, srv, "POST", "/api/sessions/sess-1/segments", map[string]any{
			"role":       "user",
			"text":       text,
			"importance": 0.5 + 0.1*float64(i%5),
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("append segment %d: status %d: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
}

func TestContextSelection(t *testing.T) {
	srv := testServer(t)
	seedSession(t, srv,
		"configured sqlite wal mode for the store",
		"lunch plans for tomorrow",
		"sqlite busy timeout raised to five seconds",
	)

	w := doJSON(t, srv, "GET", "/api/sessions/sess-1/context?query=sqlite+wal", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var sel scoring.Selection
	if err := json.Unmarshal(w.Body.Bytes(), &sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	if len(sel.Selected) == 0 {
		t.Fatal("expected selected segments")
	}
	if sel.Selected[0].Relevance <= 0 {
		t.Errorf("top segment relevance = %f, want > 0", sel.Selected[0].Relevance)
	}
	if got := sel.Selected[0].Segment.Text; got == "lunch plans for tomorrow" {
		t.Errorf("irrelevant segment ranked first: %q", got)
	}
}

func TestContextBudgetOverride(t *testing.T) {
	srv := testServer(t)
	seedSession(t, srv,
		"first segment with a reasonable amount of text in it",
		"second segment with a reasonable amount of text in it",
		"third segment with a reasonable amount of text in it",
	)

	w := doJSON(t, srv, "GET", "/api/sessions/sess-1/context?max_tokens=15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var sel scoring.Selection
	if err := json.Unmarshal(w.Body.Bytes(), &sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	if sel.TokensUsed > 15 {
		t.Errorf("tokens used = %d, budget was 15", sel.TokensUsed)
	}
	if len(sel.Selected)+sel.Excluded != 3 {
		t.Errorf("selected %d + excluded %d != 3", len(sel.Selected), sel.Excluded)
	}
}

func TestContextTopK(t *testing.T) {
	srv := testServer(t)
	var texts []string
	for i := 0; i < 5; i++ {
		texts = append(texts, fmt.Sprintf("note number %d about the migration", i))
	}
	seedSession(t, srv, texts...)

	w := doJSON(t, srv, "GET", "/api/sessions/sess-1/context?top_k=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var sel scoring.Selection
	if err := json.Unmarshal(w.Body.Bytes(), &sel); err != nil {
		t.Fatalf("decode selection: %v", err)
	}
	if len(sel.Selected) != 2 {
		t.Errorf("selected %d, want 2", len(sel.Selected))
	}
	if sel.Excluded != 3 {
		t.Errorf("excluded = %d, want 3", sel.Excluded)
	}
}

func TestContextBadConfigIs400(t *testing.T) {
	srv := testServer(t)
	seedSession(t, srv, "one segment")

	w := doJSON(t, srv, "GET", "/api/sessions/sess-1/context?max_tokens=0", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestContextUnknownSessionIs404(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "GET", "/api/sessions/nope/context", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestSummary(t *testing.T) {
	srv := testServer(t)
	seedSession(t, srv,
		"The deploy failed twice today. We rolled back to the previous release.",
		"Root cause was a missing database migration.",
	)

	w := doJSON(t, srv, "GET", "/api/sessions/sess-1/summary?max_words=12&query=deploy+migration", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Summary  string `json:"summary"`
		MaxWords int    `json:"max_words"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if resp.Summary == "" {
		t.Error("expected a non-empty summary")
	}
	if resp.MaxWords != 12 {
		t.Errorf("max_words = %d, want 12", resp.MaxWords)
	}
}

func TestAppendToUnknownSessionIs404(t *testing.T) {
	srv := testServer(t)

	w := doJSON(t, srv, "POST", "/api/sessions/nope/segments", map[string]any{"text": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
