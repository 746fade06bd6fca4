// Package sources implements the built-in document sources. Specific
// sources register themselves in their init functions under one or more
// type aliases and are resolved through the Mux.
package sources

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/treetab/treetab/core"
)

var (
	errNoValidTypeAliases = errors.New("no valid type aliases provided")
	ErrUnsupportedType    = errors.New("no source registered for provided type alias")
)

// registeredSources holds implemented sources - specific sources register
// themselves in their init functions.
var registeredSources = make(map[string]core.Source)

// register registers a new source for a specific kind of document store
func register(source core.Source, aliases ...string) error {
	if len(aliases) < 1 {
		return errNoValidTypeAliases
	}

	invalidCount := 0
	for _, alias := range aliases {
		if alias == "" {
			invalidCount++
			continue
		}
		registeredSources[alias] = source
	}

	if invalidCount == len(aliases) {
		return errNoValidTypeAliases
	}

	return nil
}

// Mux is an interface to all internal sources.
type Mux struct{}

func (*Mux) GetSource(typ string) (core.Source, error) {
	source, ok := registeredSources[typ]
	if !ok {
		return nil, ErrUnsupportedType
	}

	return source, nil
}

func (*Mux) AddSource(typ string, source core.Source) error {
	return register(source, typ)
}

// Types returns the registered type aliases in sorted order.
func Types() []string {
	return slices.Sorted(maps.Keys(registeredSources))
}

// NewConnection is a wrapper around core.NewConnection that uses the
// internal mux for source registration.
func NewConnection(params *core.ConnectionParams) (*core.Connection, error) {
	source, err := new(Mux).GetSource(params.Expand().Type)
	if err != nil {
		return nil, fmt.Errorf("Mux.GetSource: %w", err)
	}

	c, err := core.NewConnection(params, source)
	if err != nil {
		return nil, fmt.Errorf("core.NewConnection: %w", err)
	}

	return c, nil
}
