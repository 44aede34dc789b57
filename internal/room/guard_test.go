package room

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/database"
	"github.com/dukerupert/parlor/internal/store"
)

type fixture struct {
	db          *sql.DB
	sessions    *store.SessionStore
	rooms       *store.RoomStore
	attempts    *store.AttemptStore
	checkpoints *store.CheckpointStore
	messages    *store.MessageStore
	clock       *clock.Manual
	guard       *Guard
	sync        *Synchronizer
}

type plainSanitizer struct{}

func (plainSanitizer) Render(s string) (string, error) { return s, nil }

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:          db,
		sessions:    store.NewSessionStore(db),
		rooms:       store.NewRoomStore(db),
		attempts:    store.NewAttemptStore(db),
		checkpoints: store.NewCheckpointStore(db),
		messages:    store.NewMessageStore(db),
		clock:       clock.NewManual(1000),
	}
	f.guard = NewGuard(f.rooms, f.attempts)
	f.sync = NewSynchronizer(f.messages, f.checkpoints, plainSanitizer{}, f.clock)

	if _, err := f.sessions.Create(context.Background(), "s1", 1); err != nil {
		t.Fatalf("create session: %v", err)
	}
	return f
}

func TestHashPassword(t *testing.T) {
	// sha256("secret")
	const want = "2bb80d537b1da3e38bd30361aa855686bde0eacd7162fef6a25fe97bf527a25b"
	if got := HashPassword("secret"); got != want {
		t.Errorf("HashPassword = %q, want %q", got, want)
	}
}

func TestAuthorizeRoomNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.guard.SubmitAttempt(ctx, "s1", "ghost", "secret")

	_, err := f.guard.Authorize(ctx, "s1", "ghost")
	if !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestAuthorize(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.rooms.Create(ctx, "lobby", HashPassword("secret"), 100)

	// No attempt yet.
	if _, err := f.guard.Authorize(ctx, "s1", "lobby"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("no attempt: err = %v, want ErrUnauthorized", err)
	}

	// Wrong password.
	f.guard.SubmitAttempt(ctx, "s1", "lobby", "guess")
	if _, err := f.guard.Authorize(ctx, "s1", "lobby"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("wrong password: err = %v, want ErrUnauthorized", err)
	}

	// Right password overwrites the wrong one.
	f.guard.SubmitAttempt(ctx, "s1", "lobby", "secret")
	r, err := f.guard.Authorize(ctx, "s1", "lobby")
	if err != nil {
		t.Fatalf("right password: %v", err)
	}
	if r.Name != "lobby" {
		t.Errorf("room = %q, want lobby", r.Name)
	}

	// Changing the room password revokes access on the next check.
	f.rooms.UpdatePassword(ctx, "lobby", HashPassword("changed"))
	if _, err := f.guard.Authorize(ctx, "s1", "lobby"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("after password change: err = %v, want ErrUnauthorized", err)
	}

	f.guard.SubmitAttempt(ctx, "s1", "lobby", "changed")
	if _, err := f.guard.Authorize(ctx, "s1", "lobby"); err != nil {
		t.Fatalf("after resubmitting: %v", err)
	}
}

func TestAuthorizeIsPerSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.sessions.Create(ctx, "s2", 1)
	f.rooms.Create(ctx, "lobby", HashPassword("secret"), 100)
	f.guard.SubmitAttempt(ctx, "s1", "lobby", "secret")

	if _, err := f.guard.Authorize(ctx, "s2", "lobby"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized for a session that never submitted", err)
	}
}
