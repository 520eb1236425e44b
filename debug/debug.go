// Package debug holds developer tracing switches read from the environment.
package debug

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-json"
)

type debug struct {
	Tokens  bool
	Parse   bool
	Lazy    bool
	Resolve bool
	Types   bool
	Cache   bool
	Eval    bool
	Schema  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Tokens = boolEnv("DAT_DEBUG_TOKENS")
	d.Parse = boolEnv("DAT_DEBUG_PARSE")
	d.Lazy = boolEnv("DAT_DEBUG_LAZY")
	d.Resolve = boolEnv("DAT_DEBUG_RESOLVE")
	d.Types = boolEnv("DAT_DEBUG_TYPES")
	d.Cache = boolEnv("DAT_DEBUG_CACHE")
	d.Eval = boolEnv("DAT_DEBUG_EVAL")
	d.Schema = boolEnv("DAT_DEBUG_SCHEMA")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Tokens() bool {
	return d.Tokens
}
func Parse() bool {
	return d.Parse
}
func Lazy() bool {
	return d.Lazy
}
func Resolve() bool {
	return d.Resolve
}
func Types() bool {
	return d.Types
}
func Cache() bool {
	return d.Cache
}
func Eval() bool {
	return d.Eval
}
func Schema() bool {
	return d.Schema
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(append(d, '\n'))
}

// Logf writes to stderr. Arguments implementing fmt.Stringer are rendered
// with String, maps and slices as JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(x, "   |", "  ")
			if err != nil {
				continue
			}
			args[i] = string(d)
		case fmt.Stringer:
			args[i] = x.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
