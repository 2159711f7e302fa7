package cache

// ScopedKeyer wraps a Keyer with a prefix. The HTTP service scopes keys
// per request origin so that unrelated clients never share entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

// SummaryKey generates a prefixed key for summary caching.
func (k *ScopedKeyer) SummaryKey(inputHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.SummaryKey(inputHash, opts)
}
