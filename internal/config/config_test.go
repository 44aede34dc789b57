package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PARLOR_PORT", "PARLOR_DB_PATH", "PARLOR_LOG_LEVEL", "PARLOR_SESSION_TIMEOUT",
		"PARLOR_RECLAIM_PERIOD", "PARLOR_COOKIE_SECURE", "PARLOR_METRICS",
	} {
		t.Setenv(key, "")
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "8080" {
		t.Errorf("port = %q, want 8080", c.Port)
	}
	if c.DBPath != "parlor.db" {
		t.Errorf("db path = %q, want parlor.db", c.DBPath)
	}
	if c.SessionTimeout != 20*time.Minute {
		t.Errorf("session timeout = %s, want 20m", c.SessionTimeout)
	}
	if c.ReclaimPeriod != 5*time.Minute {
		t.Errorf("reclaim period = %s, want 5m", c.ReclaimPeriod)
	}
	if c.CookieSecure {
		t.Error("cookie secure should default to false")
	}
	if !c.Metrics {
		t.Error("metrics should default to true")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PARLOR_PORT", "9090")
	t.Setenv("PARLOR_SESSION_TIMEOUT", "1h")
	t.Setenv("PARLOR_RECLAIM_PERIOD", "30s")
	t.Setenv("PARLOR_COOKIE_SECURE", "true")
	t.Setenv("PARLOR_METRICS", "false")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Port != "9090" {
		t.Errorf("port = %q, want 9090", c.Port)
	}
	if c.SessionTimeout != time.Hour {
		t.Errorf("session timeout = %s, want 1h", c.SessionTimeout)
	}
	if c.ReclaimPeriod != 30*time.Second {
		t.Errorf("reclaim period = %s, want 30s", c.ReclaimPeriod)
	}
	if !c.CookieSecure {
		t.Error("cookie secure should be true")
	}
	if c.Metrics {
		t.Error("metrics should be false")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{Port: "8080", DBPath: "x.db", SessionTimeout: time.Minute, ReclaimPeriod: time.Second}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero timeout", func(c *Config) { c.SessionTimeout = 0 }, "PARLOR_SESSION_TIMEOUT"},
		{"negative period", func(c *Config) { c.ReclaimPeriod = -time.Second }, "PARLOR_RECLAIM_PERIOD"},
		{"period exceeds timeout", func(c *Config) { c.ReclaimPeriod = 2 * time.Minute }, "must not exceed"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "PARLOR_DB_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}
