package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bitwharf/bucketeer/internal/models"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

// ConnectionStore persists the named connection list as a YAML file on
// local disk. Names are not validated for uniqueness; entries reconcile by
// exact id match only.
type ConnectionStore struct {
	mu   sync.Mutex
	path string
}

type connectionFile struct {
	Connections []models.SavedConnection `yaml:"connections"`
}

func NewConnectionStore(path string) *ConnectionStore {
	return &ConnectionStore{path: path}
}

// Load returns the saved connections. A missing file is an empty list.
func (s *ConnectionStore) Load() ([]models.SavedConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *ConnectionStore) load() ([]models.SavedConnection, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.SavedConnection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read connections %s: %w", s.path, err)
	}

	var file connectionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse connections %s: %w", s.path, err)
	}
	if file.Connections == nil {
		file.Connections = []models.SavedConnection{}
	}
	return file.Connections, nil
}

// Save replaces the whole stored list.
func (s *ConnectionStore) Save(list []models.SavedConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(list)
}

func (s *ConnectionStore) save(list []models.SavedConnection) error {
	data, err := yaml.Marshal(connectionFile{Connections: list})
	if err != nil {
		return fmt.Errorf("encode connections: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create connections dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write connections %s: %w", s.path, err)
	}
	return nil
}

// Upsert replaces the stored entry whose id matches conn exactly, or
// appends conn with a fresh id when no entry matches.
func (s *ConnectionStore) Upsert(conn models.SavedConnection) (models.SavedConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return models.SavedConnection{}, err
	}

	replaced := false
	for i := range list {
		if conn.ID != "" && list[i].ID == conn.ID {
			list[i] = conn
			replaced = true
			break
		}
	}
	if !replaced {
		conn.ID = uuid.NewString()
		list = append(list, conn)
	}

	if err := s.save(list); err != nil {
		return models.SavedConnection{}, err
	}
	return conn, nil
}

// Delete removes the entry with the given id. Deleting an unknown id is a
// no-op.
func (s *ConnectionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load()
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, c := range list {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return s.save(kept)
}
