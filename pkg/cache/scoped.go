package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep its entries apart from CLI entries in a shared Redis or Mongo.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SolutionKey(mazeHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(mazeHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(solutionKey string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(solutionKey, opts)
}
