package harness

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Benchmark)
)

// Register makes a benchmark available for lookup by name. It panics on
// a nil benchmark, an empty name, or a duplicate registration, all of
// which are programmer errors at init time.
func Register(b *Benchmark) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if b == nil {
		panic("harness: Register called with nil benchmark")
	}
	if b.name == "" {
		panic("harness: Register called with empty benchmark name")
	}
	if _, dup := registry[b.name]; dup {
		panic("harness: Register called twice for benchmark " + b.name)
	}
	registry[b.name] = b
}

// Lookup returns the registered benchmark with the given name.
func Lookup(name string) (*Benchmark, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	return b, ok
}

// List returns the names of all registered benchmarks, sorted.
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
