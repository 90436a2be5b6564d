package snapshot

import (
	"encoding/json"
	"os"
)

// ManifestEntry describes one saved frame.
type ManifestEntry struct {
	Frame  uint64 `json:"frame"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WriteManifest writes entries as indented JSON.
func WriteManifest(path string, entries []ManifestEntry) error {
	if entries == nil {
		entries = []ManifestEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
