package engine

import (
	"slices"
	"sync"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
)

// DefaultName is the engine used when none is requested.
const DefaultName = "builtin"

var (
	registryMu sync.RWMutex
	registry   = map[string]Engine{}
)

// Register makes e available under e.Name(). It panics if the name is empty
// or already taken, as duplicate registration is a programming error.
func Register(e Engine) {
	name := e.Name()
	if name == "" {
		panic("engine: Register with empty name")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("engine: Register called twice for " + name)
	}
	registry[name] = e
}

// Lookup returns the engine registered under name. An empty name selects
// [DefaultName]. Unknown names fail with an UNSUPPORTED error listing the
// available engines.
func Lookup(name string) (Engine, error) {
	if name == "" {
		name = DefaultName
	}
	registryMu.RLock()
	e, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown engine %q (available: %v)", name, Names())
	}
	return e, nil
}

// Default returns the default engine.
func Default() (Engine, error) {
	return Lookup(DefaultName)
}

// Names returns the sorted names of all registered engines.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
