package mock

import (
	"context"
	"fmt"

	"github.com/treetab/treetab/core"
)

var _ core.Driver = (*driver)(nil)

type driver struct {
	data   []core.Row
	config *sourceConfig
}

func (d *driver) Query(ctx context.Context, query string) (core.DocumentStream, error) {
	eff, ok := d.config.querySideEffects[query]
	if ok {
		err := eff(ctx)
		if err != nil {
			return nil, fmt.Errorf("side effect error: %w", err)
		}
	}

	return NewStream(d.data, d.config.streamOptions...), nil
}

func (d *driver) Structure() ([]*core.Structure, error) {
	var structure []*core.Structure

	for _, name := range d.config.collections {
		structure = append(structure, &core.Structure{
			Name: name,
			Type: core.StructureTypeCollection,
		})
	}

	return structure, nil
}

func (d *driver) Close() {}

var _ core.Source = (*Source)(nil)

type Source struct {
	data   []core.Row
	config *sourceConfig
}

func NewSource(data []core.Row, opts ...SourceOption) *Source {
	config := &sourceConfig{
		querySideEffects: make(map[string]func(context.Context) error),

		streamOptions: []StreamOption{},
	}
	for _, opt := range opts {
		opt(config)
	}

	return &Source{
		data:   data,
		config: config,
	}
}

func (s *Source) Connect(_ string) (core.Driver, error) {
	return &driver{
		data:   s.data,
		config: s.config,
	}, nil
}
