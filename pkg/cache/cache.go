// Package cache stores generated levels and rendered artifacts.
//
// A level is a pure function of its generation options, so the first stage
// is keyed by the options themselves. Artifacts are keyed by the content hash
// of the level document plus the render options, which lets a level loaded
// from disk or the store hit the same entries as a freshly generated one.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (API server)
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend connection.
	Close() error
}

// TTLs per entry type.
const (
	// TTLLevel applies to generated level documents. Generation is
	// deterministic for a seed, so entries only expire to bound disk use.
	TTLLevel = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 7 * 24 * time.Hour
)

// LevelKeyOpts are the generation inputs that identify a level.
type LevelKeyOpts struct {
	Size                 int     `json:"size"`
	Seed                 uint64  `json:"seed"`
	FloorHoleProbability float64 `json:"floor_hole"`
	DeathWallProbability float64 `json:"death_wall"`
	NextLevel            string  `json:"next,omitempty"`
}

// ArtifactKeyOpts are the render inputs that identify an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	VizType  string  `json:"viz_type"`
	Solution bool    `json:"solution,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	CellSize float64 `json:"cell_size,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LevelKey(opts LevelKeyOpts) string
	ArtifactKey(levelHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LevelKey returns "level:<sha256>".
func (DefaultKeyer) LevelKey(opts LevelKeyOpts) string {
	return hashKey("level", opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(levelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", levelHash, opts)
}
