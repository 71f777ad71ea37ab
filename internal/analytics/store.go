package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Store persists the bounded event log between runs. Implementations are not
// expected to be safe against concurrent writers from other processes; the
// Recorder serializes access within one process.
type Store interface {
	Load() ([]Event, error)
	Save(events []Event) error
}

// FileStore keeps the log as a JSON file on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]Event, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read event log: %w", err)
	}
	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		// A corrupt log is discarded rather than failing every TrackEvent.
		return nil, nil
	}
	return events, nil
}

func (s *FileStore) Save(events []Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode event log: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create event log dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}
	return nil
}

// MemoryStore is an in-process Store for tests and ephemeral environments.
type MemoryStore struct {
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]Event, error) {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *MemoryStore) Save(events []Event) error {
	s.events = make([]Event, len(events))
	copy(s.events, events)
	return nil
}
