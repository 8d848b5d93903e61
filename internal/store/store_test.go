package store

import (
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitSession(t *testing.T) {
	db := testDB(t)

	s, err := db.InitSession("sess-001", "myproject")
	if err != nil {
		t.Fatalf("InitSession: %v", err)
	}
	if s.SessionID != "sess-001" {
		t.Errorf("SessionID = %q, want sess-001", s.SessionID)
	}
	if s.Project != "myproject" {
		t.Errorf("Project = %q, want myproject", s.Project)
	}
	if s.Status != "active" {
		t.Errorf("Status = %q, want active", s.Status)
	}
}

func TestInitSessionGeneratesID(t *testing.T) {
	db := testDB(t)

	s, err := db.InitSession("", "myproject")
	if err != nil {
		t.Fatalf("InitSession: %v", err)
	}
	if s.SessionID == "" {
		t.Error("expected a generated session id")
	}
}

func TestInitSessionReattach(t *testing.T) {
	db := testDB(t)

	s1, err := db.InitSession("sess-001", "myproject")
	if err != nil {
		t.Fatalf("InitSession: %v", err)
	}
	if err := db.EndSession("sess-001"); err != nil {
		t.Fatalf("EndSession: %v", err)
	}

	s2, err := db.InitSession("sess-001", "myproject")
	if err != nil {
		t.Fatalf("InitSession reattach: %v", err)
	}
	if s2.ID != s1.ID {
		t.Errorf("reattached session ID = %d, want %d", s2.ID, s1.ID)
	}
	if s2.Status != "active" {
		t.Errorf("reattached status = %q, want active", s2.Status)
	}
}

func TestEndSessionIdempotent(t *testing.T) {
	db := testDB(t)

	if _, err := db.InitSession("sess-001", ""); err != nil {
		t.Fatalf("InitSession: %v", err)
	}
	if err := db.EndSession("sess-001"); err != nil {
		t.Fatalf("EndSession: %v", err)
	}
	if err := db.EndSession("sess-001"); err != nil {
		t.Errorf("second EndSession: %v", err)
	}

	s, err := db.GetSession("sess-001")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if s.Status != "completed" {
		t.Errorf("Status = %q, want completed", s.Status)
	}
}

func TestAppendAndListSegments(t *testing.T) {
	db := testDB(t)

	if _, err := db.InitSession("sess-001", ""); err != nil {
		t.Fatalf("InitSession: %v", err)
	}

	texts := []string{"first note", "second note", "third note"}
	for _, text := range texts {
		if _, err := db.AppendSegment("sess-001", SegmentRecord{
			Role: "user", Text: text, Importance: 0.7,
		}); err != nil {
			t.Fatalf("AppendSegment %q: %v", text, err)
		}
	}

	segments, err := db.ListSegments("sess-001")
	if err != nil {
		t.Fatalf("ListSegments: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	for i, seg := range segments {
		if seg.Seq != i {
			t.Errorf("segment %d seq = %d", i, seg.Seq)
		}
		if seg.Text != texts[i] {
			t.Errorf("segment %d text = %q, want %q", i, seg.Text, texts[i])
		}
		if seg.RecordedAt == 0 {
			t.Errorf("segment %d recorded_at not defaulted", i)
		}
	}

	s, err := db.GetSession("sess-001")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if s.SegmentCount != 3 {
		t.Errorf("SegmentCount = %d, want 3", s.SegmentCount)
	}
}

func TestAppendSegmentClampsImportance(t *testing.T) {
	db := testDB(t)

	if _, err := db.InitSession("sess-001", ""); err != nil {
		t.Fatalf("InitSession: %v", err)
	}

	rec, err := db.AppendSegment("sess-001", SegmentRecord{Text: "x", Importance: 3.5})
	if err != nil {
		t.Fatalf("AppendSegment: %v", err)
	}
	if rec.Importance != 1.0 {
		t.Errorf("Importance = %f, want clamped to 1.0", rec.Importance)
	}
}

func TestAppendSegmentUnknownSession(t *testing.T) {
	db := testDB(t)

	if _, err := db.AppendSegment("doesnotexist", SegmentRecord{Text: "x"}); err == nil {
		t.Error("AppendSegment to unknown session succeeded, want error")
	}
}

func TestListSessions(t *testing.T) {
	db := testDB(t)

	for _, id := range []string{"a", "b", "c"} {
		if _, err := db.InitSession(id, "proj"); err != nil {
			t.Fatalf("InitSession %s: %v", id, err)
		}
	}

	sessions, err := db.ListSessions(2)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("got %d sessions, want 2", len(sessions))
	}
}
