package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	apperr "github.com/lectura/mindmap/pkg/errors"
)

// FileStore is a file-based store for CLI use. Each mind map is one
// indented JSON file named after its id.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, it defaults to $XDG_DATA_HOME/mindmap/mindmaps
// (~/.local/share/mindmap/mindmaps).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the default FileStore directory.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "mindmap", "mindmaps"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "mindmap", "mindmaps"), nil
}

// Path returns the base directory for mind map files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) docPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(_ context.Context, m *MindMap) error {
	if err := prepare(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, err := s.read(m.ID); err == nil {
		m.CreatedAt = prev.CreatedAt
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mind map: %w", err)
	}

	path := s.docPath(m.ID)
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write mind map: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write mind map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write mind map: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write mind map: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*MindMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

// read loads one document. Ids that are not UUIDs never name a file, which
// keeps callers from reaching outside baseDir.
func (s *FileStore) read(id string) (*MindMap, error) {
	if ValidateID(id) != nil {
		return nil, notFound(id)
	}
	data, err := os.ReadFile(s.docPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read mind map: %w", err)
	}
	var m MindMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidTree, err, "parse mind map %s", id)
	}
	return &m, nil
}

func (s *FileStore) List(_ context.Context, limit int) ([]*MindMap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var out []*MindMap
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		m, err := s.read(strings.TrimSuffix(name, ".json"))
		if err != nil {
			// Skip stray or corrupt files
			continue
		}
		out = append(out, m)
	}

	slices.SortFunc(out, newestFirst)
	return out[:min(len(out), listLimit(limit))], nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ValidateID(id) != nil {
		return notFound(id)
	}
	err := os.Remove(s.docPath(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("remove mind map: %w", err)
	}
	return nil
}

func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
