// Package tree holds the recursive value type that document sources decode
// into and that the flatten transforms consume. A node is either a scalar
// (null, bool, number, string), a record (named children, insertion order
// preserved) or a sequence (unnamed children).
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

type Node struct {
	Kind Kind

	Bool bool
	Num  json.Number
	Str  string

	// Keys and Values are parallel for records, keys unique.
	// Sequences use Values only.
	Keys   []string
	Values []*Node
}

// Pair is a single record entry, used by FromPairs to build
// records with an explicit key order.
type Pair struct {
	Key   string
	Value *Node
}

func Null() *Node {
	return &Node{Kind: KindNull}
}

func FromBool(v bool) *Node {
	return &Node{Kind: KindBool, Bool: v}
}

func FromInt(v int64) *Node {
	return &Node{Kind: KindNumber, Num: json.Number(strconv.FormatInt(v, 10))}
}

func FromFloat(v float64) *Node {
	return &Node{Kind: KindNumber, Num: json.Number(strconv.FormatFloat(v, 'g', -1, 64))}
}

func FromNumber(v json.Number) *Node {
	return &Node{Kind: KindNumber, Num: v}
}

func FromString(v string) *Node {
	return &Node{Kind: KindString, Str: v}
}

func FromSlice(values []*Node) *Node {
	return &Node{Kind: KindSequence, Values: values}
}

// FromPairs builds a record preserving the order of the provided pairs.
// A duplicate key overwrites the previous value in place.
func FromPairs(pairs []Pair) *Node {
	res := &Node{Kind: KindRecord}
	for _, p := range pairs {
		res.Set(p.Key, p.Value)
	}
	return res
}

// FromMap builds a record with keys in sorted order, since go maps
// carry no usable insertion order.
func FromMap(m map[string]*Node) *Node {
	res := &Node{
		Kind:   KindRecord,
		Keys:   make([]string, 0, len(m)),
		Values: make([]*Node, 0, len(m)),
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		res.Keys = append(res.Keys, key)
		res.Values = append(res.Values, m[key])
	}
	return res
}

// FromAny converts a value decoded by encoding/json (or any source producing
// the same shapes) into a node.
func FromAny(value any) (*Node, error) {
	switch v := value.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return v, nil
	case bool:
		return FromBool(v), nil
	case string:
		return FromString(v), nil
	case json.Number:
		return FromNumber(v), nil
	case int:
		return FromInt(int64(v)), nil
	case int32:
		return FromInt(int64(v)), nil
	case int64:
		return FromInt(v), nil
	case float32:
		return FromFloat(float64(v)), nil
	case float64:
		return FromFloat(v), nil
	case []any:
		values := make([]*Node, len(v))
		for i, el := range v {
			node, err := FromAny(el)
			if err != nil {
				return nil, err
			}
			values[i] = node
		}
		return FromSlice(values), nil
	case map[string]any:
		res := &Node{Kind: KindRecord}
		for _, key := range slices.Sorted(maps.Keys(v)) {
			node, err := FromAny(v[key])
			if err != nil {
				return nil, err
			}
			res.Set(key, node)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", value)
	}
}

// Get returns the value for a record key or nil when the key
// is not present or the node is not a record.
func (n *Node) Get(key string) *Node {
	for i, k := range n.Keys {
		if k == key {
			return n.Values[i]
		}
	}
	return nil
}

// Set adds or replaces a record entry. New keys append at the end.
func (n *Node) Set(key string, value *Node) {
	for i, k := range n.Keys {
		if k == key {
			n.Values[i] = value
			return
		}
	}
	n.Keys = append(n.Keys, key)
	n.Values = append(n.Values, value)
}

// Len returns the child count for containers and 0 for leaves.
func (n *Node) Len() int {
	return len(n.Values)
}

func (n *Node) IsLeaf() bool {
	return n.Kind.IsLeaf()
}

// Scalar returns the go value of a leaf node and nil for containers.
func (n *Node) Scalar() any {
	switch n.Kind {
	case KindBool:
		return n.Bool
	case KindNumber:
		return n.Num
	case KindString:
		return n.Str
	default:
		return nil
	}
}

func (n *Node) Clone() *Node {
	res := &Node{
		Kind: n.Kind,
		Bool: n.Bool,
		Num:  n.Num,
		Str:  n.Str,
	}
	if n.Keys != nil {
		res.Keys = slices.Clone(n.Keys)
	}
	if n.Values != nil {
		res.Values = make([]*Node, len(n.Values))
		for i, v := range n.Values {
			res.Values[i] = v.Clone()
		}
	}
	return res
}

// Depth is 0 for leaves and 1 + the deepest child for containers.
// Empty containers have depth 1.
func (n *Node) Depth() int {
	if n.Kind.IsLeaf() {
		return 0
	}
	depth := 1
	for _, v := range n.Values {
		if d := 1 + v.Depth(); d > depth {
			depth = d
		}
	}
	return depth
}

// Visit walks the node and its children depth-first. Returning false
// from the callback skips the children of the current node.
func (n *Node) Visit(f func(n *Node) bool) {
	if !f(n) {
		return
	}
	for _, v := range n.Values {
		v.Visit(f)
	}
}

func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind || len(n.Values) != len(other.Values) {
		return false
	}
	switch n.Kind {
	case KindBool:
		return n.Bool == other.Bool
	case KindNumber:
		return n.Num == other.Num
	case KindString:
		return n.Str == other.Str
	}
	if !slices.Equal(n.Keys, other.Keys) {
		return false
	}
	for i := range n.Values {
		if !n.Values[i].Equal(other.Values[i]) {
			return false
		}
	}
	return true
}

// MarshalJSON renders the node as compact json, record keys in
// insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(n.Bool)
	case KindNumber:
		if n.Num == "" {
			return []byte("0"), nil
		}
		return []byte(n.Num), nil
	case KindString:
		return json.Marshal(n.Str)
	case KindSequence:
		buf := new(bytes.Buffer)
		buf.WriteByte('[')
		for i, v := range n.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			el, err := v.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(el)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindRecord:
		buf := new(bytes.Buffer)
		buf.WriteByte('{')
		for i, key := range n.Keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(key)
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			v, err := n.Values[i].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown node kind: %d", n.Kind)
	}
}

// String renders the node as compact json for display purposes.
func (n *Node) String() string {
	out, err := n.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid node: %s>", err)
	}
	return string(out)
}
