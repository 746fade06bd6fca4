package mock

import "context"

type sourceConfig struct {
	querySideEffects map[string]func(context.Context) error
	collections      []string

	streamOptions []StreamOption
}

type SourceOption func(*sourceConfig)

func SourceWithQuerySideEffect(query string, sideEffect func(context.Context) error) SourceOption {
	return func(c *sourceConfig) {
		_, ok := c.querySideEffects[query]
		if ok {
			panic("side effect already registered for query: " + query)
		}

		c.querySideEffects[query] = sideEffect
	}
}

func SourceWithCollection(name string) SourceOption {
	return func(c *sourceConfig) {
		c.collections = append(c.collections, name)
	}
}

func SourceWithStreamOpts(opts ...StreamOption) SourceOption {
	return func(c *sourceConfig) {
		c.streamOptions = append(c.streamOptions, opts...)
	}
}
