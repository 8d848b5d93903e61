package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session represents one recorded agent session.
type Session struct {
	ID           int64  `json:"-"`
	SessionID    string `json:"session_id"`
	Project      string `json:"project,omitempty"`
	StartedAt    int64  `json:"started_at"`
	EndedAt      *int64 `json:"ended_at,omitempty"`
	Status       string `json:"status"`
	SegmentCount int    `json:"segment_count"`
}

// InitSession creates or reattaches a session. An empty sessionID gets a
// generated UUID. If the session already exists it is returned as-is (and
// reactivated if it had ended — resuming is the whole point).
func (db *DB) InitSession(sessionID, project string) (*Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	now := time.Now().UnixMilli()

	var s Session
	err := db.QueryRow(`
		SELECT id, session_id, project, started_at, ended_at, status, segment_count
		FROM sessions WHERE session_id = ?
	`, sessionID).Scan(&s.ID, &s.SessionID, &s.Project, &s.StartedAt, &s.EndedAt, &s.Status, &s.SegmentCount)
	if err == nil {
		if s.Status != "active" {
			if _, err := db.Exec(`UPDATE sessions SET status = 'active', ended_at = NULL WHERE session_id = ?`, sessionID); err != nil {
				return nil, fmt.Errorf("reactivate session: %w", err)
			}
			s.Status = "active"
			s.EndedAt = nil
		}
		return &s, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("check existing session: %w", err)
	}

	result, err := db.Exec(`
		INSERT INTO sessions (session_id, project, started_at, status)
		VALUES (?, ?, ?, 'active')
	`, sessionID, project, now)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Session{
		ID:        id,
		SessionID: sessionID,
		Project:   project,
		StartedAt: now,
		Status:    "active",
	}, nil
}

// GetSession returns a session by its session_id, or nil if not found.
func (db *DB) GetSession(sessionID string) (*Session, error) {
	var s Session
	err := db.QueryRow(`
		SELECT id, session_id, project, started_at, ended_at, status, segment_count
		FROM sessions WHERE session_id = ?
	`, sessionID).Scan(&s.ID, &s.SessionID, &s.Project, &s.StartedAt, &s.EndedAt, &s.Status, &s.SegmentCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// EndSession marks a session as completed. Ending an already-completed
// session is a no-op.
func (db *DB) EndSession(sessionID string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		UPDATE sessions SET status = 'completed', ended_at = COALESCE(ended_at, ?)
		WHERE session_id = ? AND status = 'active'
	`, now, sessionID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions, ordered by started_at DESC.
func (db *DB) ListSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(`
		SELECT id, session_id, project, started_at, ended_at, status, segment_count
		FROM sessions ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.SessionID, &s.Project, &s.StartedAt, &s.EndedAt, &s.Status, &s.SegmentCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
