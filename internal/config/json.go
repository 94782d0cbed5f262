package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		HashKey        string   `json:"hash_key"`
		Token          string   `json:"token"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Legacy struct {
			StatePath string `json:"state_path"`
		} `json:"legacy,omitempty"`
	} `json:"storage,omitempty"`

	Coordinator struct {
		Dir               string   `json:"dir"`
		HeartbeatInterval Duration `json:"heartbeat_interval"`
		LeaderTimeout     Duration `json:"leader_timeout"`
	} `json:"coordinator,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
		BatchSize    int      `json:"batch_size"`
	} `json:"workers,omitempty"`

	Server struct {
		HTTPAddress string `json:"http_address"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			HashKey:        jsonCfg.Adapter.HashKey,
			Token:          jsonCfg.Adapter.Token,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Legacy: Legacy{
				StatePath: jsonCfg.Storage.Legacy.StatePath,
			},
		},
		Coordinator: Coordinator{
			Dir:               jsonCfg.Coordinator.Dir,
			HeartbeatInterval: time.Duration(jsonCfg.Coordinator.HeartbeatInterval),
			LeaderTimeout:     time.Duration(jsonCfg.Coordinator.LeaderTimeout),
		},
		Workers: Workers{
			SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval),
			BatchSize:    jsonCfg.Workers.BatchSize,
		},
		Server: Server{
			HTTPAddress: jsonCfg.Server.HTTPAddress,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
