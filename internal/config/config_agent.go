package config

import (
	"fmt"
	"time"
)

// AgentAdapter holds network settings used by the agent transport layer.
type AgentAdapter struct {
	// BaseURL is the remote sync endpoint base URL.
	BaseURL string
	// RequestTimeout is the default timeout for outbound push requests.
	RequestTimeout time.Duration
	// HashKey is the shared HMAC key for transport integrity signing.
	HashKey string
	// Token is the bearer token presented to the remote endpoint.
	Token string
}

// AgentDB contains local database settings for the agent.
type AgentDB struct {
	// DSN is the SQLite file path backing the durable store.
	DSN string
}

// AgentStorage groups agent storage backend settings.
type AgentStorage struct {
	// DB holds local database settings.
	DB AgentDB
	// LegacyStatePath is the pre-migration flat state file, if any.
	LegacyStatePath string
}

// AgentCoordinator contains leader-election settings for the agent.
type AgentCoordinator struct {
	// Dir is the shared coordination directory.
	Dir string
	// HeartbeatInterval is the leader claim refresh period.
	HeartbeatInterval time.Duration
	// LeaderTimeout is the stale-claim takeover window.
	LeaderTimeout time.Duration
}

// AgentWorkers contains background sync loop settings.
type AgentWorkers struct {
	// SyncInterval defines how often the sync loop runs.
	SyncInterval time.Duration
	// BatchSize caps operations pushed per cycle.
	BatchSize int
}

// AgentConfig is the top-level agent configuration assembled from
// [StructuredConfig].
type AgentConfig struct {
	// Adapter contains remote endpoint settings.
	Adapter AgentAdapter
	// Storage contains local persistence settings.
	Storage AgentStorage
	// Coordinator contains leader-election settings.
	Coordinator AgentCoordinator
	// Workers contains background job settings.
	Workers AgentWorkers
}

// GetAgentConfig builds and validates an agent-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the agent runtime, and validates the resulting [AgentConfig].
func GetAgentConfig() (*AgentConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	agentCfg := &AgentConfig{
		Adapter: AgentAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			HashKey:        cfg.Adapter.HashKey,
			Token:          cfg.Adapter.Token,
		},
		Storage: AgentStorage{
			DB: AgentDB{
				DSN: cfg.Storage.DB.DSN,
			},
			LegacyStatePath: cfg.Storage.Legacy.StatePath,
		},
		Coordinator: AgentCoordinator{
			Dir:               cfg.Coordinator.Dir,
			HeartbeatInterval: cfg.Coordinator.HeartbeatInterval,
			LeaderTimeout:     cfg.Coordinator.LeaderTimeout,
		},
		Workers: AgentWorkers{
			SyncInterval: cfg.Workers.SyncInterval,
			BatchSize:    cfg.Workers.BatchSize,
		},
	}

	return agentCfg, agentCfg.validate()
}

// ServerConfig is the reference sync server configuration view.
type ServerConfig struct {
	// HTTPAddress is the listen address in "host:port" format.
	HTTPAddress string
	// HashKey is the shared HMAC key used to verify inbound push batches.
	// Must match the agents' adapter hash key; empty disables verification.
	HashKey string
}

// GetServerConfig builds and validates the reference server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		HTTPAddress: cfg.Server.HTTPAddress,
		HashKey:     cfg.Adapter.HashKey,
	}

	return serverCfg, serverCfg.validate()
}
