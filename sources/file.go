package sources

import (
	"github.com/treetab/treetab/core"
)

// Register source
func init() {
	_ = register(&File{}, "file", "json", "yaml")
}

var _ core.Source = (*File)(nil)

// File reads documents from local json, ndjson and yaml files.
type File struct{}

func (f *File) Connect(url string) (core.Driver, error) {
	return &fileDriver{path: url}, nil
}
