package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation, for
// example API clients sharing one Redis instance.
//
// Example usage:
//
//	// Per-client keys
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
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

// PartitionKey generates a prefixed key for partition results.
func (k *ScopedKeyer) PartitionKey(graphHash string, opts PartitionKeyOpts) string {
	return k.prefix + k.inner.PartitionKey(graphHash, opts)
}

// RenderKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) RenderKey(partitionKey string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(partitionKey, opts)
}
