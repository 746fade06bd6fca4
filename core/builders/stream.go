package builders

import (
	"errors"
	"sync"

	"github.com/treetab/treetab/core"
)

// Stream fills the core.DocumentStream interface for all sources
type Stream struct {
	next     func() (core.Row, error)
	hasNext  func() bool
	close    func()
	callback func()
	meta     *core.Meta
	header   core.Header
	once     sync.Once
}

func (s *Stream) SetCustomHeader(header core.Header) {
	s.header = header
}

func (s *Stream) SetCallback(callback func()) {
	s.callback = callback
}

func (s *Stream) Meta() *core.Meta {
	return s.meta
}

func (s *Stream) Header() core.Header {
	return s.header
}

func (s *Stream) HasNext() bool {
	return s.hasNext()
}

func (s *Stream) Next() (core.Row, error) {
	row, err := s.next()
	if err != nil || row == nil {
		s.Close()
		return nil, err
	}
	return row, nil
}

func (s *Stream) Close() {
	s.close()
	if s.callback != nil {
		s.once.Do(s.callback)
	}
	s.hasNext = func() bool {
		return false
	}
}

// StreamBuilder builds the document stream
type StreamBuilder struct {
	next    func() (core.Row, error)
	hasNext func() bool
	header  core.Header
	close   func()
	meta    *core.Meta
}

func NewStreamBuilder() *StreamBuilder {
	return &StreamBuilder{
		next:    func() (core.Row, error) { return nil, errors.New("no next row") },
		hasNext: func() bool { return false },
		header:  core.Header{},
		close:   func() {},
		meta:    &core.Meta{},
	}
}

func (b *StreamBuilder) WithNextFunc(fn func() (core.Row, error), has func() bool) *StreamBuilder {
	b.next = fn
	b.hasNext = has
	return b
}

func (b *StreamBuilder) WithHeader(header core.Header) *StreamBuilder {
	b.header = header
	return b
}

func (b *StreamBuilder) WithCloseFunc(fn func()) *StreamBuilder {
	b.close = fn
	return b
}

func (b *StreamBuilder) WithMeta(meta *core.Meta) *StreamBuilder {
	b.meta = meta
	return b
}

func (b *StreamBuilder) Build() *Stream {
	return &Stream{
		next:    b.next,
		hasNext: b.hasNext,
		header:  b.header,
		close:   b.close,
		meta:    b.meta,
		once:    sync.Once{},
	}
}
