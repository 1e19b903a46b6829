package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/tiltmaze/pkg/level"
)

// FileStore keeps one JSON level document per file.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// DefaultDir returns $XDG_DATA_HOME/tiltmaze/levels, falling back to
// ~/.local/share/tiltmaze/levels.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tiltmaze", "levels"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "tiltmaze", "levels"), nil
}

// NewFileStore creates a store in dir. An empty dir means DefaultDir.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create level dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.dir }

func (s *FileStore) levelPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *FileStore) Save(_ context.Context, l *level.Level) error {
	if err := prepare(l); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := level.Marshal(l)
	if err != nil {
		return err
	}
	// Write then rename so readers never see a partial document.
	path := s.levelPath(l.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write level file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write level file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, id string) (*level.Level, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.levelPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read level file: %w", err)
	}
	l, err := level.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return l, nil
}

// List reads every document in the directory. Unreadable files are skipped.
func (s *FileStore) List(context.Context) ([]level.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read level dir: %w", err)
	}

	out := make([]level.Summary, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		l, err := level.Unmarshal(data)
		if err != nil {
			continue
		}
		l.ID = e.Name()[:len(e.Name())-len(".json")]
		out = append(out, l.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.levelPath(id))
	if os.IsNotExist(err) {
		return notFound(id)
	}
	if err != nil {
		return fmt.Errorf("remove level file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
