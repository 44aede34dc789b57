package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dukerupert/parlor/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupSessionTestDB(t *testing.T) (*SessionStore, *AttemptStore, *CheckpointStore) {
	t.Helper()
	db := setupTestDB(t)
	return NewSessionStore(db), NewAttemptStore(db), NewCheckpointStore(db)
}

func TestSessionCreate(t *testing.T) {
	ss, _, _ := setupSessionTestDB(t)
	ctx := context.Background()

	sess, err := ss.Create(ctx, "abc", 1000)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.ID != "abc" {
		t.Errorf("id = %q, want %q", sess.ID, "abc")
	}
	if sess.IsAdmin {
		t.Error("new session should not be admin")
	}

	got, err := ss.GetByID(ctx, "abc")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.LastActivity != 1000 {
		t.Errorf("last_activity = %d, want 1000", got.LastActivity)
	}
}

func TestSessionCreateDuplicate(t *testing.T) {
	ss, _, _ := setupSessionTestDB(t)
	ctx := context.Background()

	if _, err := ss.Create(ctx, "abc", 1000); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := ss.Create(ctx, "abc", 2000); err == nil {
		t.Error("expected primary key error for duplicate id")
	}
}

func TestSessionGetByIDNotFound(t *testing.T) {
	ss, _, _ := setupSessionTestDB(t)

	sess, err := ss.GetByID(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for nonexistent id")
	}
}

func TestSessionTouch(t *testing.T) {
	ss, _, _ := setupSessionTestDB(t)
	ctx := context.Background()

	ss.Create(ctx, "abc", 1000)
	if err := ss.Touch(ctx, "abc", 5000); err != nil {
		t.Fatalf("touch: %v", err)
	}
	// Touching twice is harmless.
	if err := ss.Touch(ctx, "abc", 5000); err != nil {
		t.Fatalf("second touch: %v", err)
	}

	got, _ := ss.GetByID(ctx, "abc")
	if got.LastActivity != 5000 {
		t.Errorf("last_activity = %d, want 5000", got.LastActivity)
	}
}

func TestSessionSetAdmin(t *testing.T) {
	ss, _, _ := setupSessionTestDB(t)
	ctx := context.Background()

	ss.Create(ctx, "abc", 1000)

	n, err := ss.SetAdmin(ctx, "abc")
	if err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	got, _ := ss.GetByID(ctx, "abc")
	if !got.IsAdmin {
		t.Error("expected is_admin = true")
	}

	n, err = ss.SetAdmin(ctx, "missing")
	if err != nil {
		t.Fatalf("set admin on missing session: %v", err)
	}
	if n != 0 {
		t.Errorf("rows for missing session = %d, want 0", n)
	}
}

func TestSessionDeleteCascades(t *testing.T) {
	ss, as, cs := setupSessionTestDB(t)
	ctx := context.Background()

	ss.Create(ctx, "abc", 1000)
	as.Save(ctx, "abc", "lobby", "hash")
	cs.Save(ctx, "abc", "lobby", 1500)

	if err := ss.Delete(ctx, "abc"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	attempt, err := as.Get(ctx, "abc", "lobby")
	if err != nil {
		t.Fatalf("get attempt: %v", err)
	}
	if attempt != nil {
		t.Error("expected attempt to be removed with its session")
	}

	cp, err := cs.Get(ctx, "abc", "lobby")
	if err != nil {
		t.Fatalf("get checkpoint: %v", err)
	}
	if cp != nil {
		t.Error("expected checkpoint to be removed with its session")
	}
}

func TestSessionDeleteInactive(t *testing.T) {
	ss, as, cs := setupSessionTestDB(t)
	ctx := context.Background()

	const cutoff = 10_000
	ss.Create(ctx, "stale", cutoff-1)
	ss.Create(ctx, "edge", cutoff)
	ss.Create(ctx, "fresh", cutoff+1)
	as.Save(ctx, "stale", "lobby", "hash")
	cs.Save(ctx, "stale", "lobby", 500)

	n, err := ss.DeleteInactive(ctx, cutoff)
	if err != nil {
		t.Fatalf("delete inactive: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted = %d, want 1", n)
	}

	for _, id := range []string{"edge", "fresh"} {
		got, _ := ss.GetByID(ctx, id)
		if got == nil {
			t.Errorf("session %q should survive the sweep", id)
		}
	}
	if got, _ := ss.GetByID(ctx, "stale"); got != nil {
		t.Error("stale session should be deleted")
	}

	var attempts, checkpoints int
	ss.db.QueryRow(`SELECT COUNT(*) FROM room_attempts WHERE session_id = 'stale'`).Scan(&attempts)
	ss.db.QueryRow(`SELECT COUNT(*) FROM room_updates WHERE session_id = 'stale'`).Scan(&checkpoints)
	if attempts != 0 || checkpoints != 0 {
		t.Errorf("orphans left: attempts=%d checkpoints=%d", attempts, checkpoints)
	}
}

func TestSessionCount(t *testing.T) {
	ss, _, _ := setupSessionTestDB(t)
	ctx := context.Background()

	ss.Create(ctx, "a", 1)
	ss.Create(ctx, "b", 2)

	n, err := ss.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
