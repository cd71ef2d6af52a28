package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileState is the on-disk layout: raw JSON blobs keyed by storage key
type fileState struct {
	Blobs map[string]json.RawMessage `json:"blobs"`
}

// JSONStore keeps every blob in a single JSON file, rewritten atomically
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		state:    fileState{Blobs: make(map[string]json.RawMessage)},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.state.Blobs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *JSONStore) Save(_ context.Context, key string, data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("save %s: blob is not valid JSON", key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Blobs[key] = append(json.RawMessage(nil), data...)
	return s.persistLocked()
}

func (s *JSONStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Blobs[key]; !ok {
		return nil
	}
	delete(s.state.Blobs, key)
	return s.persistLocked()
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("read %s: %w", s.filePath, err)
	}
	if state.Blobs == nil {
		state.Blobs = make(map[string]json.RawMessage)
	}
	s.state = state
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
