package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a Type from its Spec. Sub types are built through b.
type Factory func(s Spec, b *Builder) (Type, error)

var (
	mu        sync.RWMutex
	factories = make(map[string]factoryEntry)
)

type factoryEntry struct {
	id string
	f  Factory
}

// RegisterFactory registers f under id. Ids are matched ignoring case.
func RegisterFactory(id string, f Factory) error {
	if f == nil {
		return fmt.Errorf("cannot register nil factory for %q", id)
	}
	if id == "" {
		return fmt.Errorf("factory must have an id")
	}

	mu.Lock()
	defer mu.Unlock()

	k := strings.ToLower(id)
	if _, exists := factories[k]; exists {
		return fmt.Errorf("%q: %w", id, ErrFactoryExists)
	}
	factories[k] = factoryEntry{id: id, f: f}
	return nil
}

// MustRegisterFactory is RegisterFactory panicking on error, for use in
// init functions.
func MustRegisterFactory(id string, f Factory) {
	if err := RegisterFactory(id, f); err != nil {
		panic(err)
	}
}

// LookupFactory looks up a factory by id.
func LookupFactory(id string) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return factories[strings.ToLower(id)].f
}

// Factories returns the registered ids, sorted.
func Factories() []string {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]string, 0, len(factories))
	for _, e := range factories {
		result = append(result, e.id)
	}
	sort.Strings(result)
	return result
}
