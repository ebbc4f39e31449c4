package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Checkpoints are the only persisted state in the process: two flat JSON
// files, each holding a single scalar used to detect "what's new since last
// poll". A missing file is created with its default value.

// RevisionCheckpoint tracks the last mod-repo revision a changelog post was
// sent for.
type RevisionCheckpoint struct {
	Revision int `json:"revision"`
}

// TimeCheckpoint tracks the last time the workshop subscriptions were
// checked, as a unix timestamp.
type TimeCheckpoint struct {
	LastChecked float64 `json:"last_checked"`
}

// LoadRevision reads the revision checkpoint, writing a zero checkpoint
// first if the file does not exist yet.
func LoadRevision(path string) (RevisionCheckpoint, error) {
	return loadCheckpoint(path, RevisionCheckpoint{Revision: 0})
}

// SaveRevision rewrites the revision checkpoint.
func SaveRevision(path string, checkpoint RevisionCheckpoint) error {
	return saveCheckpoint(path, checkpoint)
}

// LoadLastChecked reads the timestamp checkpoint, initialising it to now if
// the file does not exist yet.
func LoadLastChecked(path string, now time.Time) (TimeCheckpoint, error) {
	return loadCheckpoint(path, TimeCheckpoint{LastChecked: float64(now.Unix())})
}

// SaveLastChecked rewrites the timestamp checkpoint.
func SaveLastChecked(path string, checkpoint TimeCheckpoint) error {
	return saveCheckpoint(path, checkpoint)
}

func loadCheckpoint[T any](path string, defaultValue T) (T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := saveCheckpoint(path, defaultValue); err != nil {
			return defaultValue, err
		}
		return defaultValue, nil
	}
	if err != nil {
		return defaultValue, fmt.Errorf("failed to read checkpoint %s: %w", path, err)
	}

	var checkpoint T
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return defaultValue, fmt.Errorf("failed to parse checkpoint %s: %w", path, err)
	}
	return checkpoint, nil
}

// saveCheckpoint writes via a temp file and rename so a crash mid-write
// cannot leave a truncated checkpoint behind.
func saveCheckpoint[T any](path string, checkpoint T) error {
	data, err := json.Marshal(checkpoint)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("failed to create checkpoint temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write checkpoint %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close checkpoint temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace checkpoint %s: %w", path, err)
	}
	return nil
}
