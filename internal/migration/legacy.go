package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// legacyState mirrors the flat JSON file the previous client generation kept
// on disk: one group per user id, each carrying the cached quantity
// projection and the mutations that never reached the remote.
type legacyState struct {
	Users map[string]legacyUserGroup `json:"users"`
}

type legacyUserGroup struct {
	Quantities map[string]json.RawMessage `json:"quantities"`
	Pending    []legacyPendingOp          `json:"pending"`
}

type legacyPendingOp struct {
	Table     string          `json:"table"`
	Operation string          `json:"operation"`
	Payload   json.RawMessage `json:"payload"`
}

func loadLegacyState(path string) (legacyState, error) {
	var state legacyState

	data, err := os.ReadFile(path)
	if err != nil {
		return state, err
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return state, fmt.Errorf("%w: %w", ErrLegacyStateMalformed, err)
	}

	return state, nil
}

// writeLegacyState rewrites the file atomically so a crash mid-write never
// leaves a half-consumed group unreadable.
func writeLegacyState(path string, state legacyState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal legacy state: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write legacy state: %w", err)
	}

	return os.Rename(tmp, path)
}
