// Package document implements the immutable JSON tree that gets localized.
//
// A Node is never modified after construction. Translating a document builds
// a new tree, so a parsed source can be shared by any number of jobs and
// attempts without one observing another's work. Object key order is kept
// exactly as read from the input.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Kind identifies the JSON variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is one key/value member of an object.
type Field struct {
	Key   string
	Value *Node
}

// Node is a JSON value.
type Node struct {
	kind   Kind
	b      bool
	text   string // string value, or number literal
	items  []*Node
	fields []Field
}

// Null returns a JSON null.
func Null() *Node { return &Node{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Node { return &Node{kind: KindBool, b: b} }

// Number returns a JSON number holding the literal n.
func Number(n json.Number) *Node { return &Node{kind: KindNumber, text: string(n)} }

// String returns a JSON string.
func String(s string) *Node { return &Node{kind: KindString, text: s} }

// Array returns a JSON array of items.
func Array(items ...*Node) *Node {
	return &Node{kind: KindArray, items: append([]*Node(nil), items...)}
}

// Object returns a JSON object. A repeated key replaces the earlier value
// but keeps the earlier position.
func Object(fields ...Field) *Node {
	n := &Node{kind: KindObject}
	index := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := index[f.Key]; ok {
			n.fields[i].Value = f.Value
			continue
		}
		index[f.Key] = len(n.fields)
		n.fields = append(n.fields, f)
	}
	return n
}

// Kind returns the variant of n.
func (n *Node) Kind() Kind { return n.kind }

// Text returns the string value, or the literal of a number.
func (n *Node) Text() string { return n.text }

// BoolValue returns the value of a boolean node.
func (n *Node) BoolValue() bool { return n.b }

// Len returns the number of array items or object fields.
func (n *Node) Len() int {
	switch n.kind {
	case KindArray:
		return len(n.items)
	case KindObject:
		return len(n.fields)
	}
	return 0
}

// Items returns a copy of the array items.
func (n *Node) Items() []*Node {
	return append([]*Node(nil), n.items...)
}

// Fields returns a copy of the object fields in document order.
func (n *Node) Fields() []Field {
	return append([]Field(nil), n.fields...)
}

// Get returns the value stored under key in an object.
func (n *Node) Get(key string) (*Node, bool) {
	for _, f := range n.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := &Node{kind: n.kind, b: n.b, text: n.text}
	if n.items != nil {
		c.items = make([]*Node, len(n.items))
		for i, item := range n.items {
			c.items[i] = item.Clone()
		}
	}
	if n.fields != nil {
		c.fields = make([]Field, len(n.fields))
		for i, f := range n.fields {
			c.fields[i] = Field{Key: f.Key, Value: f.Value.Clone()}
		}
	}
	return c
}

// Equal reports whether a and b hold the same value with the same key order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber, KindString:
		return a.text == b.text
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Parse decodes exactly one JSON value from data.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	n, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	// Only whitespace may follow the top-level value.
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return nil, errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return n, nil
}

func decodeValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q", rune(v))
	case string:
		return String(v), nil
	case json.Number:
		return Number(v), nil
	case bool:
		return Bool(v), nil
	case nil:
		return Null(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (*Node, error) {
	var fields []Field
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if err := closing(dec); err != nil {
		return nil, err
	}
	return Object(fields...), nil
}

func decodeArray(dec *json.Decoder) (*Node, error) {
	var items []*Node
	for dec.More() {
		item, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(items), err)
		}
		items = append(items, item)
	}
	if err := closing(dec); err != nil {
		return nil, err
	}
	return &Node{kind: KindArray, items: items}, nil
}

// closing consumes the '}' or ']' that ends a container.
func closing(dec *json.Decoder) error {
	_, err := dec.Token()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
