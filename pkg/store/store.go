// Package store persists generated level documents.
//
// Three backends implement [Store]:
//   - memory: a map guarded by a mutex, for tests and throwaway servers
//   - file: one JSON document per level under a data directory (CLI)
//   - mongo: a MongoDB collection (API server)
//
// Levels are keyed by a UUID assigned on first save. A level carries its
// seed and options, so storing it is the same as storing the randomness
// source that produced it.
package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
)

// Store persists levels.
type Store interface {
	// Save inserts or replaces l. An empty l.ID is filled with a new UUID
	// and a zero l.CreatedAt with the current time.
	Save(ctx context.Context, l *level.Level) error

	// Get returns the level with the given id. A missing level yields an
	// error with code LEVEL_NOT_FOUND.
	Get(ctx context.Context, id string) (*level.Level, error)

	// List returns summaries of all levels, newest first.
	List(ctx context.Context) ([]level.Summary, error)

	// Delete removes the level. A missing level yields LEVEL_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend string

	// Dir is the file backend's directory. Empty means DefaultDir.
	Dir string

	// MongoURI and Database configure the mongo backend.
	MongoURI string
	Database string
}

// Open creates the configured backend wrapped with observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		cfg.Backend = BackendMemory
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	default:
		return nil, mazeerrors.New(mazeerrors.ErrCodeInvalidConfiguration,
			"unknown store backend %q (must be one of: memory, file, mongo)", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Backend), nil
}

// prepare assigns an id and creation time to a level about to be saved.
func prepare(l *level.Level) error {
	if l == nil {
		return mazeerrors.New(mazeerrors.ErrCodeInvalidInput, "nil level")
	}
	if l.ID == "" {
		l.ID = uuid.NewString()
	} else if err := validateID(l.ID); err != nil {
		return err
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

// validateID rejects ids that are unsafe as file names.
func validateID(id string) error {
	if id == "" {
		return mazeerrors.New(mazeerrors.ErrCodeInvalidInput, "level id is required")
	}
	if err := mazeerrors.ValidateLevelName(id); err != nil {
		return mazeerrors.Wrap(mazeerrors.ErrCodeInvalidInput, err, "invalid level id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return mazeerrors.New(mazeerrors.ErrCodeLevelNotFound, "level %s not found", id)
}

// sortSummaries orders newest first, then by id for stability.
func sortSummaries(s []level.Summary) {
	slices.SortFunc(s, func(a, b level.Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Resolve finds a level by id or, failing that, by name. Names are not
// unique; the newest level with the name wins.
func Resolve(ctx context.Context, s Store, ref string) (*level.Level, error) {
	l, err := s.Get(ctx, ref)
	if err == nil {
		return l, nil
	}
	if !mazeerrors.Is(err, mazeerrors.ErrCodeLevelNotFound) && !mazeerrors.Is(err, mazeerrors.ErrCodeInvalidInput) {
		return nil, err
	}

	summaries, lerr := s.List(ctx)
	if lerr != nil {
		return nil, fmt.Errorf("list levels: %w", lerr)
	}
	for _, sum := range summaries {
		if sum.Name == ref {
			return s.Get(ctx, sum.ID)
		}
	}
	return nil, notFound(ref)
}
