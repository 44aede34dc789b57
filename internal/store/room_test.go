package store

import (
	"context"
	"errors"
	"testing"
)

func setupRoomTestDB(t *testing.T) (*RoomStore, *MessageStore) {
	t.Helper()
	db := setupTestDB(t)
	return NewRoomStore(db), NewMessageStore(db)
}

func TestRoomCreate(t *testing.T) {
	rs, _ := setupRoomTestDB(t)
	ctx := context.Background()

	r, err := rs.Create(ctx, "lobby", "hash", 100)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if r.ID == 0 {
		t.Error("expected non-zero id")
	}
	if r.Name != "lobby" || r.PasswordHash != "hash" || r.CreatedAt != 100 {
		t.Errorf("room = %+v", r)
	}
}

func TestRoomCreateDuplicate(t *testing.T) {
	rs, _ := setupRoomTestDB(t)
	ctx := context.Background()

	rs.Create(ctx, "lobby", "hash", 100)
	_, err := rs.Create(ctx, "lobby", "other", 200)
	if !errors.Is(err, ErrDuplicateRoom) {
		t.Errorf("err = %v, want ErrDuplicateRoom", err)
	}
}

func TestRoomGetByNameNotFound(t *testing.T) {
	rs, _ := setupRoomTestDB(t)

	r, err := rs.GetByName(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if r != nil {
		t.Error("expected nil for unknown room")
	}
}

func TestRoomUpdatePassword(t *testing.T) {
	rs, _ := setupRoomTestDB(t)
	ctx := context.Background()
	rs.Create(ctx, "lobby", "old", 100)

	ok, err := rs.UpdatePassword(ctx, "lobby", "new")
	if err != nil {
		t.Fatalf("update password: %v", err)
	}
	if !ok {
		t.Error("expected update to report an existing room")
	}
	r, _ := rs.GetByName(ctx, "lobby")
	if r.PasswordHash != "new" {
		t.Errorf("password_hash = %q, want %q", r.PasswordHash, "new")
	}

	ok, _ = rs.UpdatePassword(ctx, "nope", "x")
	if ok {
		t.Error("expected false for unknown room")
	}
}

func TestRoomDeleteCascadesMessages(t *testing.T) {
	rs, ms := setupRoomTestDB(t)
	ctx := context.Background()
	r, _ := rs.Create(ctx, "lobby", "hash", 100)
	m, _ := ms.Create(ctx, r.ID, "hello", 150, nil, nil)

	ok, err := rs.Delete(ctx, "lobby")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !ok {
		t.Error("expected delete to report an existing room")
	}

	got, _ := ms.GetByID(ctx, m.ID)
	if got != nil {
		t.Error("expected messages to be removed with their room")
	}

	// A recreated room is a new row.
	r2, err := rs.Create(ctx, "lobby", "hash", 300)
	if err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if r2.ID == r.ID {
		t.Error("recreated room reused the old id")
	}
}

func TestRoomListAndCount(t *testing.T) {
	rs, _ := setupRoomTestDB(t)
	ctx := context.Background()
	rs.Create(ctx, "zeta", "h", 1)
	rs.Create(ctx, "alpha", "h", 2)

	rooms, err := rs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rooms) != 2 || rooms[0].Name != "alpha" || rooms[1].Name != "zeta" {
		t.Errorf("rooms = %+v, want alpha, zeta", rooms)
	}

	n, err := rs.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
