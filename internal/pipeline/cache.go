package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/futurebank/fbsim/internal/config"
	"github.com/futurebank/fbsim/internal/store"
)

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fbsim")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "fbsim")
}

// CachePath returns the full path to the SQLite cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "runs.db")
}

// OpenCache opens the backend named in cfg. It returns nil, nil when
// caching is disabled.
func OpenCache(cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "sqlite":
		c, err := store.Open(CachePath())
		if err != nil {
			return nil, fmt.Errorf("opening sqlite cache: %w", err)
		}
		return c, nil
	case "redis":
		ttl := time.Duration(cfg.TTLHours) * time.Hour
		c := store.NewRedisCache(cfg.RedisAddr, ttl)
		if err := c.Ping(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		return c, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
