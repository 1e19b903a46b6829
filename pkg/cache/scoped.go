package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments or
// campaigns can share one Redis without colliding.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tiltmaze:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LevelKey returns the prefixed level key.
func (k *ScopedKeyer) LevelKey(opts LevelKeyOpts) string {
	return k.prefix + k.inner.LevelKey(opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(levelHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(levelHash, opts)
}
