// Package settings remembers the reader's selected translation and theme
// between runs.
package settings

import (
	"encoding/json"
	"fmt"

	"verse-tui/internal/storage"
)

// StorageKey is the persistent store key holding the settings document.
const StorageKey = "settings"

type Settings struct {
	SelectedVersion string `json:"selected_version"`
	Theme           string `json:"theme"` // theme display name
}

// Load returns the saved settings. Nothing saved yet yields the zero value.
func Load(kv storage.Store) (Settings, error) {
	var s Settings

	raw, ok, err := kv.Read(StorageKey)
	if err != nil {
		return s, err
	}
	if !ok || raw == "" {
		return s, nil
	}

	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func Save(kv storage.Store, s Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return kv.Write(StorageKey, string(data))
}
