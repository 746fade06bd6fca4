package builders

import (
	"strings"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/tree"
)

type clientConfig struct {
	typeProcessors map[string]func(any) core.Cell
}

type ClientOption func(*clientConfig)

func WithCustomTypeProcessor(typ string, fn func(any) core.Cell) ClientOption {
	return func(cc *clientConfig) {
		t := strings.ToLower(typ)
		if _, ok := cc.typeProcessors[t]; ok {
			// processor already registered for this type
			return
		}

		cc.typeProcessors[t] = fn
	}
}

// WithJSONProcessor registers a processor that decodes values of the
// given column type into nested documents. Values that fail to decode
// stay flat strings.
func WithJSONProcessor(typ string) ClientOption {
	return WithCustomTypeProcessor(typ, JSONCell)
}

// JSONCell decodes raw json bytes or strings into a nested cell.
func JSONCell(val any) core.Cell {
	var raw []byte
	switch v := val.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		return core.AbsentCell()
	default:
		return core.FlatCell(val)
	}

	node, err := tree.DecodeJSON(raw)
	if err != nil {
		return core.FlatCell(string(raw))
	}
	return core.CellOf(node)
}
