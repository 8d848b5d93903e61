package store

import (
	"fmt"
	"time"
)

// SegmentRecord is one stored context segment. RecordedAt is the segment's
// own timestamp (what age is computed from); CreatedAt is when the row was
// written.
type SegmentRecord struct {
	ID         int64   `json:"-"`
	SessionID  string  `json:"session_id"`
	Seq        int     `json:"seq"`
	Role       string  `json:"role,omitempty"`
	Text       string  `json:"text"`
	Importance float64 `json:"importance"`
	Type       string  `json:"type,omitempty"`
	RecordedAt int64   `json:"recorded_at"` // unix millis
	CreatedAt  int64   `json:"-"`
}

// AppendSegment stores a segment at the next sequence position for the
// session and bumps the session's segment count. A zero RecordedAt defaults
// to now. Importance is clamped into [0,1] at the boundary so the engine
// never sees out-of-range values.
func (db *DB) AppendSegment(sessionID string, rec SegmentRecord) (*SegmentRecord, error) {
	sess, err := db.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}

	now := time.Now().UnixMilli()
	if rec.RecordedAt == 0 {
		rec.RecordedAt = now
	}
	if rec.Importance < 0 {
		rec.Importance = 0
	}
	if rec.Importance > 1 {
		rec.Importance = 1
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRow(`
		SELECT COALESCE(MAX(seq), -1) + 1 FROM segments WHERE session_id = ?
	`, sessionID).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next seq: %w", err)
	}

	result, err := tx.Exec(`
		INSERT INTO segments (session_id, seq, role, text, importance, segment_type, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sessionID, seq, rec.Role, rec.Text, rec.Importance, rec.Type, rec.RecordedAt, now)
	if err != nil {
		return nil, fmt.Errorf("insert segment: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE sessions SET segment_count = segment_count + 1 WHERE session_id = ?
	`, sessionID); err != nil {
		return nil, fmt.Errorf("bump segment count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}

	id, _ := result.LastInsertId()
	rec.ID = id
	rec.SessionID = sessionID
	rec.Seq = seq
	rec.CreatedAt = now
	return &rec, nil
}

// ListSegments returns all segments for a session in insertion order — the
// immutable snapshot the scoring engine consumes.
func (db *DB) ListSegments(sessionID string) ([]SegmentRecord, error) {
	rows, err := db.Query(`
		SELECT id, session_id, seq, role, text, importance, segment_type, recorded_at, created_at
		FROM segments WHERE session_id = ? ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer rows.Close()

	var segments []SegmentRecord
	for rows.Next() {
		var rec SegmentRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Seq, &rec.Role, &rec.Text,
			&rec.Importance, &rec.Type, &rec.RecordedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, rec)
	}
	return segments, rows.Err()
}
