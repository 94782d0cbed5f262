package config

func (cfg *AgentConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.BatchSize <= 0 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.Coordinator.HeartbeatInterval <= 0 ||
		cfg.Coordinator.LeaderTimeout <= cfg.Coordinator.HeartbeatInterval {
		return ErrInvalidCoordinatorConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}
