package store

import (
	"context"
	"time"

	mazeerrors "github.com/matzehuels/tiltmaze/pkg/errors"
	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/observability"
)

type instrumented struct {
	Store
	backend string
}

// Instrument reports store operations to the registered observability
// store hooks under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Save(ctx context.Context, l *level.Level) error {
	start := time.Now()
	err := s.Store.Save(ctx, l)
	id := ""
	if l != nil {
		id = l.ID
	}
	observability.Store().OnSave(ctx, s.backend, id, time.Since(start), err)
	return err
}

func (s *instrumented) Get(ctx context.Context, id string) (*level.Level, error) {
	start := time.Now()
	l, err := s.Store.Get(ctx, id)
	if err == nil || mazeerrors.Is(err, mazeerrors.ErrCodeLevelNotFound) {
		observability.Store().OnLoad(ctx, s.backend, id, err == nil, time.Since(start))
	}
	return l, err
}

func (s *instrumented) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	observability.Store().OnDelete(ctx, s.backend, id, err)
	return err
}
