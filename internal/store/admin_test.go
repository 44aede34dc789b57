package store

import (
	"context"
	"testing"
)

func TestAdminUpsertAndGet(t *testing.T) {
	as := NewAdminStore(setupTestDB(t))
	ctx := context.Background()

	got, err := as.GetByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil for unknown admin")
	}

	as.Upsert(ctx, "root", "h1")
	as.Upsert(ctx, "root", "h2")

	got, err = as.GetByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "h2" {
		t.Errorf("password_hash = %q, want %q", got.PasswordHash, "h2")
	}
}
