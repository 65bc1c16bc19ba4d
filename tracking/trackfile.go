package tracking

import (
	"encoding/json"
	"fmt"
	"os"
)

// SaveTrackData writes a tracking snapshot as JSON.
func SaveTrackData(path string, data TrackData) error {
	if data.Events == nil {
		data.Events = []MouseEvent{}
	}

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding track data: %w", err)
	}

	return os.WriteFile(path, payload, 0o600)
}

// LoadTrackData reads a tracking snapshot written by SaveTrackData.
func LoadTrackData(path string) (TrackData, error) {
	var data TrackData

	payload, err := os.ReadFile(path)
	if err != nil {
		return data, err
	}

	if err := json.Unmarshal(payload, &data); err != nil {
		return data, fmt.Errorf("error decoding track data: %w", err)
	}

	if data.Events == nil {
		data.Events = []MouseEvent{}
	}

	return data, nil
}
