package config

import "errors"

// Validation errors returned by the config view validators when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid remote endpoint settings
	// (for example, missing base URL or non-positive request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid local storage settings
	// (for example, an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, zero sync interval or batch size).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidCoordinatorConfigs indicates invalid leader-election
	// settings (for example, leader timeout not exceeding the heartbeat
	// interval).
	ErrInvalidCoordinatorConfigs = errors.New("invalid coordinator configuration")
	// ErrInvalidServerConfigs indicates invalid reference server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
