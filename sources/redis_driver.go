package sources

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/treetab/treetab/core"
	"github.com/treetab/treetab/core/builders"
	"github.com/treetab/treetab/tree"
)

var _ core.Driver = (*redisDriver)(nil)

type redisDriver struct {
	redis *redis.Client
}

func (c *redisDriver) Query(ctx context.Context, query string) (core.DocumentStream, error) {
	cmd, err := parseRedisCmd(query)
	if err != nil {
		return nil, err
	}

	response, err := c.redis.Do(ctx, cmd...).Result()
	if err != nil {
		return nil, err
	}

	next, hasNext := redisResponseToNext(response)

	stream := builders.NewStreamBuilder().
		WithNextFunc(next, hasNext).
		WithHeader(core.Header{"reply"}).
		WithMeta(&core.Meta{
			SchemaType: core.SchemaLess,
		}).
		Build()

	return stream, nil
}

func (c *redisDriver) Structure() ([]*core.Structure, error) {
	return []*core.Structure{
		{
			Name:   "Storage",
			Schema: "",
			Type:   core.StructureTypeCollection,
		},
	}, nil
}

func (c *redisDriver) Close() {
	c.redis.Close()
}

// redisResponseToNext streams a parsed reply. An array reply becomes one
// document per element, everything else is a single document.
func redisResponseToNext(response any) (func() (core.Row, error), func() bool) {
	switch resp := response.(type) {
	case []any:
		return builders.NextSlice(resp, redisCell)
	case nil:
		return builders.NextNil()
	default:
		return builders.NextSingle(redisCell(resp))
	}
}

// redisCell is a preprocessor for a single reply value.
func redisCell(val any) core.Cell {
	return core.CellOf(redisNode(val))
}

// redisNode converts a reply value into a document. Map replies get
// sorted keys, the client does not preserve their order anyway.
func redisNode(value any) *tree.Node {
	switch v := value.(type) {
	case nil:
		return tree.Null()
	case string:
		return tree.FromString(v)
	case int64:
		return tree.FromInt(v)
	case float64:
		return tree.FromFloat(v)
	case bool:
		return tree.FromBool(v)
	case []any:
		values := make([]*tree.Node, len(v))
		for i, el := range v {
			values[i] = redisNode(el)
		}
		return tree.FromSlice(values)
	case map[any]any:
		keys := make([]string, 0, len(v))
		byKey := make(map[string]any, len(v))
		for k, el := range v {
			key := fmt.Sprint(k)
			keys = append(keys, key)
			byKey[key] = el
		}
		sort.Strings(keys)

		res := &tree.Node{Kind: tree.KindRecord}
		for _, key := range keys {
			res.Set(key, redisNode(byKey[key]))
		}
		return res
	default:
		return tree.FromString(fmt.Sprint(v))
	}
}

// ErrUnmatchedDoubleQuote and ErrUnmatchedSingleQuote are errors returned from parseRedisCmd
var (
	ErrUnmatchedDoubleQuote = func(position int) error { return fmt.Errorf("syntax error: unmatched double quote at: %d", position) }
	ErrUnmatchedSingleQuote = func(position int) error { return fmt.Errorf("syntax error: unmatched single quote at: %d", position) }
)

// parseRedisCmd parses string command into args for redis.Do
func parseRedisCmd(unparsed string) ([]any, error) {
	// error helper
	quoteErr := func(quote rune, position int) error {
		if quote == '"' {
			return ErrUnmatchedDoubleQuote(position)
		} else {
			return ErrUnmatchedSingleQuote(position)
		}
	}

	// return array
	var fields []any
	// what char is the current quote
	var blank rune
	var currentQuote struct {
		char     rune
		position int
	}
	// is the current char escaped or not?
	var escaped bool

	sb := &strings.Builder{}
	for i, r := range unparsed {
		// handle unescaped quotes
		if !escaped && (r == '"' || r == '\'') {
			// next char
			next := byte(' ')
			if i < len(unparsed)-1 {
				next = unparsed[i+1]
			}

			if r == currentQuote.char {
				if next != ' ' {
					return nil, quoteErr(r, i+1)
				}
				// end quote
				currentQuote.char = blank
				continue
			} else if currentQuote.char == blank {
				// start quote
				currentQuote.char = r
				currentQuote.position = i + 1
				continue
			}
		}

		// handle escapes
		if r == '\\' {
			escaped = true
			continue
		}

		// handle word end
		if currentQuote.char == blank && r == ' ' {
			fields = append(fields, sb.String())
			sb.Reset()
			continue
		}

		escaped = false
		sb.WriteRune(r)
	}

	// check if quote is not closed
	if currentQuote.char != blank {
		return nil, quoteErr(currentQuote.char, currentQuote.position)
	}

	// write last word
	if sb.Len() > 0 {
		fields = append(fields, sb.String())
	}

	return fields, nil
}
