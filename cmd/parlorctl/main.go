// Command parlorctl runs maintenance tasks against a parlor database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dukerupert/parlor/internal/clock"
	"github.com/dukerupert/parlor/internal/config"
	"github.com/dukerupert/parlor/internal/database"
	"github.com/dukerupert/parlor/internal/logging"
	"github.com/dukerupert/parlor/internal/session"
	"github.com/dukerupert/parlor/internal/store"
	"github.com/joho/godotenv"
)

const usage = `usage: parlorctl <command> [flags]

commands:
  add-admin -username NAME -password PASS   create or reset an admin account
  reclaim                                   delete inactive sessions once
`

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "parlorctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	switch args[0] {
	case "add-admin":
		return addAdmin(ctx, cfg, args[1:], out)
	case "reclaim":
		return reclaim(ctx, cfg, logger, out)
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

func addAdmin(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add-admin", flag.ContinueOnError)
	username := fs.String("username", "", "admin username")
	password := fs.String("password", "", "admin password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("add-admin needs -username and -password")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	hash, err := session.HashAdminPassword(*password)
	if err != nil {
		return err
	}
	if err := store.NewAdminStore(db).Upsert(ctx, *username, hash); err != nil {
		return err
	}
	fmt.Fprintf(out, "admin %q saved\n", *username)
	return nil
}

func reclaim(ctx context.Context, cfg config.Config, logger *slog.Logger, out io.Writer) error {
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	r := session.NewReclaimer(store.NewSessionStore(db), clock.System{}, cfg.SessionTimeout, cfg.ReclaimPeriod, logger.With("component", "reclaimer"))
	n, err := r.Sweep(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "reclaimed %d sessions\n", n)
	return nil
}
