package config

import (
	"os"
	"path/filepath"
	"time"
)

// Built-in fallback values, applied only to fields left empty by every
// other configuration layer.
const (
	DefaultRequestTimeout    = 15 * time.Second
	DefaultSyncInterval      = 30 * time.Second
	DefaultBatchSize         = 50
	DefaultHeartbeatInterval = 2 * time.Second
	DefaultLeaderTimeout     = 6 * time.Second
	DefaultServerAddress     = "localhost:8080"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: DefaultRequestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: filepath.Join(defaultDataDir(), "localsync.db")},
		},
		Coordinator: Coordinator{
			Dir:               filepath.Join(defaultDataDir(), "coordination"),
			HeartbeatInterval: DefaultHeartbeatInterval,
			LeaderTimeout:     DefaultLeaderTimeout,
		},
		Workers: Workers{
			SyncInterval: DefaultSyncInterval,
			BatchSize:    DefaultBatchSize,
		},
		Server: Server{HTTPAddress: DefaultServerAddress},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "localsync")
	}
	return filepath.Join(os.TempDir(), "localsync")
}
