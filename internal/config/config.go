// Package config reads application settings from the environment, after
// loading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/session"
)

// Config holds application settings. LLM settings live in llm.Config.
type Config struct {
	// DBPath overrides the default database location when set.
	DBPath string

	Session session.Config

	// RedisURL enables the distributed learner lock when set.
	RedisURL string

	// Addr is the HTTP listen address.
	Addr string

	CORSOrigins []string

	// GinMode is passed to gin.SetMode: debug, release or test.
	GinMode string

	// IdleTimeout closes served sessions nobody has touched for this long.
	IdleTimeout time.Duration
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Session:     session.DefaultConfig(),
		Addr:        ":8080",
		CORSOrigins: []string{"http://localhost:3000"},
		GinMode:     "release",
		IdleTimeout: 30 * time.Minute,
	}
}

// LoadDotEnv loads variables from the given files, or .env when none are
// given. Variables already set in the environment win. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv builds a Config from CODETRAIN_* variables on top of Default.
// Every malformed value is reported.
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: not an integer", key, v))
			return
		}
		*dst = n
	}
	float := func(key string, dst *float64) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: not a number", key, v))
			return
		}
		*dst = f
	}

	duration := func(key string, dst *time.Duration) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s=%q: not a duration", key, v))
			return
		}
		*dst = d
	}

	str("CODETRAIN_DB", &cfg.DBPath)
	str("CODETRAIN_REDIS_URL", &cfg.RedisURL)
	str("CODETRAIN_ADDR", &cfg.Addr)
	str("CODETRAIN_GIN_MODE", &cfg.GinMode)
	duration("CODETRAIN_SESSION_IDLE_TIMEOUT", &cfg.IdleTimeout)
	if v := os.Getenv("CODETRAIN_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	s := &cfg.Session
	integer("CODETRAIN_CYCLES", &s.Cycles)
	integer("CODETRAIN_MAX_HINTS", &s.MaxHints)
	integer("CODETRAIN_MAX_REGENERATIONS", &s.MaxRegenerations)
	float("CODETRAIN_BKT_PL0", &s.Params.PL0)
	float("CODETRAIN_BKT_PT", &s.Params.PT)
	float("CODETRAIN_BKT_PS", &s.Params.PS)
	float("CODETRAIN_BKT_PG", &s.Params.PG)
	float("CODETRAIN_CRITICAL_THRESHOLD", &s.Critical)
	float("CODETRAIN_HIGH_THRESHOLD", &s.High)
	if v := os.Getenv("CODETRAIN_SKILLS"); v != "" {
		s.Universe = splitList(v)
	}

	if len(errs) > 0 {
		return cfg, errors.Join(errs...)
	}
	if err := s.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Params is a shorthand for the session's BKT parameters.
func (c Config) Params() mastery.Params {
	return c.Session.Params
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
