package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/parlor/internal/model"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get returns the setting, or nil if it was never set.
func (s *SettingsStore) Get(ctx context.Context, key string) (*model.Setting, error) {
	setting := model.Setting{Key: key}
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&setting.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	return &setting, nil
}

func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// WelcomeMessage returns the stored welcome message, or "" if none is set.
func (s *SettingsStore) WelcomeMessage(ctx context.Context) (string, error) {
	setting, err := s.Get(ctx, model.SettingWelcomeMessage)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

func (s *SettingsStore) SetWelcomeMessage(ctx context.Context, html string) error {
	return s.Set(ctx, model.SettingWelcomeMessage, html)
}
