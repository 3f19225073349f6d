package store

import (
	"context"
	"fmt"
)

// Constructor is a function that opens a Store from its configuration.
type Constructor func(ctx context.Context, cfg Config) (Store, error)

var registry = map[string]Constructor{}

// Register adds a store constructor under the given backend name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Open builds the Store for cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	ctor, ok := registry[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
	return ctor(ctx, cfg)
}

// Backends returns the names of all registered store backends.
func Backends() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
