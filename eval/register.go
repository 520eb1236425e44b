package eval

import (
	"fmt"
	"sort"
	"sync"
)

// Symbol is a function callable from expressions.
type Symbol interface {
	String() string
	Func() func(params ...any) (any, error)
	// Types are the signatures handed to expr.Function.
	Types() []any
}

var (
	mu sync.RWMutex
	d  = map[string]Symbol{}
)

func Register(s Symbol) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[s.String()]
	if present {
		return fmt.Errorf("%s: %w", s, ErrSymbolExists)
	}
	d[s.String()] = s
	return nil
}

func init() {
	Register(Clamp())
	Register(Lerp())
	Register(Coalesce())
}

func Lookup(s string) Symbol {
	mu.RLock()
	defer mu.RUnlock()
	return d[s]
}

// Symbols returns the registered symbols ordered by name.
func Symbols() []Symbol {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Symbol, 0, len(d))
	for _, s := range d {
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].String() < res[j].String() })
	return res
}
