package cache

// ScopedKeyer prefixes every key of an inner [Keyer], giving independent
// namespaces in a shared backend. The server scopes its Redis keys this way
// so several deployments can share one Redis database:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mindmap:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

func (k *ScopedKeyer) GenerateKey(model, contentHash string) string {
	return k.prefix + k.inner.GenerateKey(model, contentHash)
}
