package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tiltmaze/pkg/cache"
	"github.com/matzehuels/tiltmaze/pkg/level"
	"github.com/matzehuels/tiltmaze/pkg/maze"
	"github.com/matzehuels/tiltmaze/pkg/observability"
)

// Cache key types reported to the observability hooks.
const (
	keyTypeLevel    = "level"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means DefaultKeyer, a nil cache
// disables caching and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs generate → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	genStart := time.Now()
	l, m, genHit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Level = l
	result.Maze = m
	result.LevelHash = LevelHash(l)
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Maze = m.Stats()
	result.CacheInfo.GenerateHit = genHit

	r.Logger.Info("generated level",
		"size", m.Size,
		"seed", m.Seed,
		"dead_ends", result.Stats.Maze.DeadEnds,
		"hazards", result.Stats.Maze.Pitfalls+result.Stats.Maze.LethalWalls,
		"cached", genHit,
		"duration", result.Stats.GenerateTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, m, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"viz_type", opts.VizType,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateWithCacheInfo builds the level and reports whether it came from
// the cache. A zero seed is replaced with a random one before the lookup,
// so random levels are cached under the seed they were built with.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*level.Level, *maze.Maze, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, nil, false, err
	}
	if opts.Seed == 0 {
		opts.Seed = maze.RandomSeed()
	}

	key := r.Keyer.LevelKey(opts.LevelKeyOpts())
	if !opts.Refresh {
		if m, ok := r.cachedMaze(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, keyTypeLevel)
			return level.FromMaze(m, opts.Name, opts.Palette), m, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeLevel)
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnGenerateStart(ctx, opts.Size, opts.Seed)
	m, err := maze.Generate(opts.MazeOptions())
	hooks.OnGenerateComplete(ctx, opts.Size, opts.Seed, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	l := level.FromMaze(m, opts.Name, opts.Palette)
	if data, err := level.Marshal(l); err == nil {
		r.cacheSet(ctx, opts.Logger, keyTypeLevel, key, data, cache.TTLLevel)
	}
	return l, m, false, nil
}

// cachedMaze loads and revalidates a cached level. Entries that fail
// validation are treated as misses.
func (r *Runner) cachedMaze(ctx context.Context, key string) (*maze.Maze, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	cached, err := level.Unmarshal(data)
	if err != nil {
		return nil, false
	}
	m, err := cached.ToMaze()
	if err != nil {
		r.Logger.Warn("discarding invalid cached level", "key", key, "err", err)
		return nil, false
	}
	return m, true
}

// Generate calls GenerateWithCacheInfo and drops the cache hit info.
func (r *Runner) Generate(ctx context.Context, opts Options) (*level.Level, *maze.Maze, error) {
	l, m, _, err := r.GenerateWithCacheInfo(ctx, opts)
	return l, m, err
}

// RenderWithCacheInfo renders l and reports whether every artifact came
// from the cache. m may be nil, in which case it is rebuilt from l.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *level.Level, m *maze.Maze, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if opts.Name == "" {
		opts.Name = l.Name
	}

	hash := LevelHash(l)
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	if m == nil {
		var err error
		if m, err = l.ToMaze(); err != nil {
			return nil, false, err
		}
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.VizType, opts.Formats)
	rendered, err := Render(ctx, m, l, opts)
	hooks.OnRenderComplete(ctx, opts.VizType, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, opts.Logger, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// RenderLevel calls RenderWithCacheInfo and drops the cache hit info.
func (r *Runner) RenderLevel(ctx context.Context, l *level.Level, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, nil, opts)
	return artifacts, err
}

// cacheSet writes a cache entry. Failures are logged, never returned: a
// broken cache degrades to regeneration.
func (r *Runner) cacheSet(ctx context.Context, logger *log.Logger, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// LevelHash is the content hash of l, ignoring its store id and timestamp.
func LevelHash(l *level.Level) string {
	c := *l
	c.ID = ""
	c.CreatedAt = time.Time{}
	data, err := level.Marshal(&c)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
