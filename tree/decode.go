package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeJSON parses a single json value into a node, preserving the key
// order of objects.
func DecodeJSON(data []byte) (*Node, error) {
	dec := NewJSONDecoder(bytes.NewReader(data))

	node, err := dec.Next()
	if err != nil {
		return nil, err
	}

	if _, err := dec.Next(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after json value")
	}

	return node, nil
}

// JSONDecoder reads a stream of json values (concatenated or
// newline-delimited) one node at a time.
type JSONDecoder struct {
	dec *json.Decoder
}

func NewJSONDecoder(r io.Reader) *JSONDecoder {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &JSONDecoder{dec: dec}
}

// Next returns the next document in the stream, or io.EOF.
func (d *JSONDecoder) Next() (*Node, error) {
	if !d.dec.More() {
		return nil, io.EOF
	}
	return d.value()
}

func (d *JSONDecoder) value() (*Node, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.record()
		case '[':
			return d.sequence()
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return FromString(t), nil
	case json.Number:
		return FromNumber(t), nil
	case bool:
		return FromBool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func (d *JSONDecoder) record() (*Node, error) {
	res := &Node{Kind: KindRecord}

	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		value, err := d.value()
		if err != nil {
			return nil, err
		}
		res.Set(key, value)
	}

	// consume the closing brace
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}

	return res, nil
}

func (d *JSONDecoder) sequence() (*Node, error) {
	res := &Node{Kind: KindSequence}

	for d.dec.More() {
		value, err := d.value()
		if err != nil {
			return nil, err
		}
		res.Values = append(res.Values, value)
	}

	// consume the closing bracket
	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}

	return res, nil
}
