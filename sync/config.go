// Package sync implements the client side of still: a local-first note cache,
// an identity session, the engine that reconciles the cache against the
// server, share-link issuance, and the polling loop behind collaborative
// share links.
package sync

import (
	"os"
	"time"

	"github.com/rohanthewiz/serr"
)

// Default timing constants. The debounce windows are trailing-edge: only the
// final state after a quiet period is pushed, never intermediate keystrokes.
const (
	defaultDebounce       = 450 * time.Millisecond
	defaultCollabDebounce = 500 * time.Millisecond
	defaultPollInterval   = 1200 * time.Millisecond
	defaultRequestTimeout = 30 * time.Second
)

// Config holds the client configuration. All values can be loaded from
// environment variables to keep deployment configuration external to the
// binary.
type Config struct {
	ServerURL      string        // Base URL of the still server (STILL_SYNC_SERVER_URL)
	CacheDir       string        // Directory for the persisted local cache (STILL_SYNC_CACHE_DIR)
	Debounce       time.Duration // Quiet period before pushing an edit (STILL_SYNC_DEBOUNCE)
	CollabDebounce time.Duration // Quiet period for shared-note pushes (STILL_SYNC_COLLAB_DEBOUNCE)
	PollInterval   time.Duration // Inbound poll interval for collab mode (STILL_SYNC_POLL_INTERVAL)
}

// LoadConfig reads client configuration from environment variables,
// falling back to defaults for anything unset.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerURL:      os.Getenv("STILL_SYNC_SERVER_URL"),
		CacheDir:       os.Getenv("STILL_SYNC_CACHE_DIR"),
		Debounce:       defaultDebounce,
		CollabDebounce: defaultCollabDebounce,
		PollInterval:   defaultPollInterval,
	}

	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://localhost:8000"
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "./.still"
	}

	for _, v := range []struct {
		env string
		dst *time.Duration
	}{
		{"STILL_SYNC_DEBOUNCE", &cfg.Debounce},
		{"STILL_SYNC_COLLAB_DEBOUNCE", &cfg.CollabDebounce},
		{"STILL_SYNC_POLL_INTERVAL", &cfg.PollInterval},
	} {
		if raw := os.Getenv(v.env); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return nil, serr.Wrap(err, "invalid "+v.env+" value")
			}
			*v.dst = d
		}
	}

	return cfg, nil
}
