package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukerupert/parlor/internal/database"
	"github.com/dukerupert/parlor/internal/store"
)

func TestAddAdmin(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "parlor.db")
	t.Setenv("PARLOR_DB_PATH", dbPath)
	ctx := context.Background()

	var out bytes.Buffer
	if err := run(ctx, []string{"add-admin", "-username", "root", "-password", "hunter2"}, &out); err != nil {
		t.Fatalf("add-admin: %v", err)
	}
	if !strings.Contains(out.String(), `admin "root" saved`) {
		t.Errorf("output = %q", out.String())
	}

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	admin, err := store.NewAdminStore(db).GetByUsername(ctx, "root")
	if err != nil {
		t.Fatalf("get admin: %v", err)
	}
	if admin == nil || admin.PasswordHash == "hunter2" {
		t.Errorf("admin = %+v, want a hashed password", admin)
	}
}

func TestAddAdminMissingFlags(t *testing.T) {
	t.Setenv("PARLOR_DB_PATH", filepath.Join(t.TempDir(), "parlor.db"))
	if err := run(context.Background(), []string{"add-admin", "-username", "root"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error without -password")
	}
}

func TestReclaim(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "parlor.db")
	t.Setenv("PARLOR_DB_PATH", dbPath)
	ctx := context.Background()

	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sessions := store.NewSessionStore(db)
	if _, err := sessions.Create(ctx, "stale", 1); err != nil {
		t.Fatalf("create: %v", err)
	}
	db.Close()

	var out bytes.Buffer
	if err := run(ctx, []string{"reclaim"}, &out); err != nil {
		t.Fatalf("reclaim: %v", err)
	}
	if !strings.Contains(out.String(), "reclaimed 1 sessions") {
		t.Errorf("output = %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"frobnicate"}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown command")
	}
}
