package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// agent and the reference sync server. It aggregates all sub-configurations
// and is populated by merging values from environment variables,
// command-line flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the remote sync endpoint settings used by the agent's
	// transport layer.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds configuration for the local durable store and the
	// legacy state file consumed by the migration runner.
	Storage Storage `envPrefix:"STORAGE_"`

	// Coordinator holds leader-election settings shared by all agent
	// processes for the same store.
	Coordinator Coordinator `envPrefix:"COORDINATOR_"`

	// Workers holds background sync loop settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Server holds the listen address for the reference sync server binary.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds network settings for the outbound sync transport.
type Adapter struct {
	// BaseURL is the remote sync endpoint base URL
	// (e.g. "https://sync.example.com").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the timeout applied to confirmed push requests.
	// The beacon path deliberately uses a much shorter internal deadline.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// HashKey is the shared HMAC key used to sign push batches for
	// transport integrity checking. Optional; empty disables signing.
	// Env: ADAPTER_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// Token is the bearer token presented to the remote endpoint. Its
	// subject claim carries the user identity the agent syncs under.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`
}

// Storage groups the configuration for the on-device persistence layer.
type Storage struct {
	// DB holds the local SQLite settings.
	DB DB `envPrefix:"DB_"`

	// Legacy holds the location of the pre-migration flat state file.
	Legacy Legacy `envPrefix:"LEGACY_"`
}

// DB holds connection settings for the local durable store.
type DB struct {
	// DSN is the SQLite file path backing the durable store
	// (e.g. "/var/lib/localsync/agent.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Legacy holds settings for the legacy flat key/value state file that the
// migration runner consumes exactly once.
type Legacy struct {
	// StatePath is the path of the legacy JSON state file. Empty means no
	// legacy data exists on this device.
	// Env: STORAGE_LEGACY_STATE_PATH
	StatePath string `env:"STATE_PATH"`
}

// Coordinator holds leader-election settings. All agent processes sharing a
// store must use the same directory.
type Coordinator struct {
	// Dir is the shared directory holding heartbeat and broadcast files.
	// Env: COORDINATOR_DIR
	Dir string `env:"DIR"`

	// HeartbeatInterval is how often the current leader refreshes its claim.
	// Env: COORDINATOR_HEARTBEAT_INTERVAL
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL"`

	// LeaderTimeout is how long a claim may go unrefreshed before another
	// process is allowed to take over. Must exceed HeartbeatInterval.
	// Env: COORDINATOR_LEADER_TIMEOUT
	LeaderTimeout time.Duration `env:"LEADER_TIMEOUT"`
}

// Workers holds configuration for the periodic sync loop.
type Workers struct {
	// SyncInterval defines how often the engine drains the queue while an
	// identity is set (e.g. "30s").
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// BatchSize caps how many pending operations are pushed per cycle.
	// Env: WORKERS_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`
}

// Server holds network settings for the reference sync server.
type Server struct {
	// HTTPAddress is the TCP address the reference server listens on,
	// in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
}
