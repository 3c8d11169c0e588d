package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects or API tenants
// can share one backend without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:"+cache.Hash([]byte(root))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// OutputKey generates a prefixed output key.
func (k *ScopedKeyer) OutputKey(root string, opts OutputKeyOpts) string {
	return k.prefix + k.inner.OutputKey(root, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
