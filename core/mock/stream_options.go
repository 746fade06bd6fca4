package mock

import (
	"time"

	"github.com/treetab/treetab/core"
)

type streamConfig struct {
	nextSleep time.Duration
	meta      *core.Meta
	header    core.Header
}

type StreamOption func(*streamConfig)

func StreamWithNextSleep(s time.Duration) StreamOption {
	return func(c *streamConfig) {
		c.nextSleep = s
	}
}

func StreamWithMeta(meta *core.Meta) StreamOption {
	return func(c *streamConfig) {
		c.meta = meta
	}
}

func StreamWithHeader(header core.Header) StreamOption {
	return func(c *streamConfig) {
		c.header = header
	}
}
