// Package config reads PARLOR_* settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	// SessionTimeout is how long a session may sit idle before the
	// reclaimer deletes it. ReclaimPeriod is how often it looks.
	SessionTimeout time.Duration
	ReclaimPeriod  time.Duration

	CookieSecure bool
	Metrics      bool
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("parlor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db_path", "parlor.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("session_timeout", "20m")
	v.SetDefault("reclaim_period", "5m")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("metrics", true)

	c := Config{
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db_path"),
		LogLevel:       v.GetString("log_level"),
		SessionTimeout: v.GetDuration("session_timeout"),
		ReclaimPeriod:  v.GetDuration("reclaim_period"),
		CookieSecure:   v.GetBool("cookie_secure"),
		Metrics:        v.GetBool("metrics"),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PARLOR_PORT must not be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("PARLOR_DB_PATH must not be empty"))
	}
	if c.SessionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PARLOR_SESSION_TIMEOUT must be positive, got %s", c.SessionTimeout))
	}
	if c.ReclaimPeriod <= 0 {
		errs = append(errs, fmt.Errorf("PARLOR_RECLAIM_PERIOD must be positive, got %s", c.ReclaimPeriod))
	}
	if c.SessionTimeout > 0 && c.ReclaimPeriod > c.SessionTimeout {
		errs = append(errs, fmt.Errorf("PARLOR_RECLAIM_PERIOD (%s) must not exceed PARLOR_SESSION_TIMEOUT (%s)", c.ReclaimPeriod, c.SessionTimeout))
	}
	return errors.Join(errs...)
}
