package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/invincible-jha/agent-session-linker-sub001/internal/scoring"
	"github.com/invincible-jha/agent-session-linker-sub001/internal/store"
)

func (s *Server) handleSessionInit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Project   string `json:"project"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	sess, err := s.db.InitSession(req.SessionID, req.Project)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := s.db.ListSessions(limit)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"sessions": sessions})
}

func (s *Server) handleAppendSegment(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req struct {
		Role       string  `json:"role"`
		Text       string  `json:"text"`
		Importance float64 `json:"importance"`
		Type       string  `json:"type"`
		RecordedAt int64   `json:"recorded_at"` // unix millis, 0 = now
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}

	rec, err := s.db.AppendSegment(sessionID, store.SegmentRecord{
		Role:       req.Role,
		Text:       req.Text,
		Importance: req.Importance,
		Type:       req.Type,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.db.EndSession(sessionID); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ended"})
}

// handleGetContext runs the scoring engine over a session's recorded
// segments and returns the budgeted selection. max_tokens and top_k query
// params override the configured defaults per request.
func (s *Server) handleGetContext(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	segments, ok := s.loadSegments(w, sessionID)
	if !ok {
		return
	}

	cfg, err := s.engine.ScoringConfig()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	cfg.Estimator = s.estimator

	q := r.URL.Query()
	if v := q.Get("max_tokens"); v != "" {
		cfg.MaxTokens, err = strconv.Atoi(v)
		if err != nil {
			http.Error(w, `{"error":"max_tokens must be an integer"}`, http.StatusBadRequest)
			return
		}
	}
	if v := q.Get("top_k"); v != "" {
		cfg.TopK, err = strconv.Atoi(v)
		if err != nil {
			http.Error(w, `{"error":"top_k must be an integer"}`, http.StatusBadRequest)
			return
		}
	}

	sel, err := scoring.Select(segments, q.Get("query"), cfg)
	if err != nil {
		status := http.StatusInternalServerError
		var cerr *scoring.ConfigError
		if errors.As(err, &cerr) {
			status = http.StatusBadRequest
		}
		http.Error(w, `{"error":"`+err.Error()+`"}`, status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sel)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	segments, ok := s.loadSegments(w, sessionID)
	if !ok {
		return
	}

	maxWords := s.engine.SummaryWords
	q := r.URL.Query()
	if v := q.Get("max_words"); v != "" {
		var err error
		maxWords, err = strconv.Atoi(v)
		if err != nil || maxWords < 0 {
			http.Error(w, `{"error":"max_words must be a non-negative integer"}`, http.StatusBadRequest)
			return
		}
	}

	curve, err := s.engine.Curve()
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	summary := scoring.Summarize(segments, maxWords, scoring.SummaryOptions{
		Query: q.Get("query"),
		Curve: curve,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sessionID,
		"max_words":  maxWords,
		"summary":    summary,
	})
}

// loadSegments fetches a session's segments as engine input, writing the
// error response itself when the session is missing.
func (s *Server) loadSegments(w http.ResponseWriter, sessionID string) ([]scoring.Segment, bool) {
	sess, err := s.db.GetSession(sessionID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return nil, false
	}
	if sess == nil {
		http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
		return nil, false
	}

	records, err := s.db.ListSegments(sessionID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return nil, false
	}

	segments := make([]scoring.Segment, len(records))
	for i, rec := range records {
		segments[i] = scoring.Segment{
			ID:         strconv.FormatInt(rec.ID, 10),
			Text:       rec.Text,
			Role:       rec.Role,
			Timestamp:  time.UnixMilli(rec.RecordedAt),
			Importance: rec.Importance,
			Type:       scoring.SegmentType(rec.Type),
		}
	}
	return segments, true
}
