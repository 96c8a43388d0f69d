package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Shape describes the on-disk layout of a collection file.
type Shape int

const (
	// ShapeArray is a flat JSON array of entity objects.
	ShapeArray Shape = iota
	// ShapeKeyed is a JSON object mapping entity id to entity object.
	ShapeKeyed
	// ShapeWrapped is a keyed object nested under a wrapper key,
	// e.g. {"products": {id: {...}}}.
	ShapeWrapped
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeKeyed:
		return "keyed"
	case ShapeWrapped:
		return "wrapped"
	}
	return "unknown"
}

type ider interface {
	EntityID() string
	SetEntityID(string)
}

// extraEntry preserves a non-collection sibling key of a wrapped file.
// Raw is nil for the slot occupied by the collection itself.
type extraEntry struct {
	key string
	raw json.RawMessage
}

// Collection holds the records of one entity collection in load order,
// remembering enough about the original file to write it back in the same
// shape and ordering.
type Collection[T any] struct {
	Name  string
	Shape Shape

	items []*T
	byID  map[string]*T
	idOf  func(*T) string
	setID func(*T, string)

	wrapperKey string
	entries    []extraEntry
}

// ParseCollection decodes a collection file body, accepting both the flat
// array form and the keyed object form transparently. If wrapperKey is
// non-empty and the document is an object containing that key, the keyed
// collection under it is used and all sibling keys are preserved verbatim.
func ParseCollection[T any, PT interface {
	*T
	ider
}](name string, data []byte, wrapperKey string) (*Collection[T], error) {
	c := &Collection[T]{
		Name:       name,
		byID:       make(map[string]*T),
		idOf:       func(t *T) string { return PT(t).EntityID() },
		setID:      func(t *T, id string) { PT(t).SetEntityID(id) },
		wrapperKey: wrapperKey,
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s: empty document", name)
	}

	switch trimmed[0] {
	case '[':
		c.Shape = ShapeArray
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for i, raw := range raws {
			item := new(T)
			if err := unmarshalNumber(raw, item); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
			}
			c.append(item)
		}
		return c, nil

	case '{':
		keys, values, err := decodeOrderedObject(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		// Wrapped form: the collection lives under the wrapper key and any
		// sibling keys ride along untouched.
		if wrapperKey != "" && hasObjectKey(keys, values, wrapperKey) {
			c.Shape = ShapeWrapped
			for i, key := range keys {
				if key != wrapperKey {
					c.entries = append(c.entries, extraEntry{key: key, raw: values[i]})
					continue
				}
				c.entries = append(c.entries, extraEntry{key: key})
				innerKeys, innerValues, err := decodeOrderedObject(values[i])
				if err != nil {
					return nil, fmt.Errorf("%s.%s: %w", name, wrapperKey, err)
				}
				if err := c.appendKeyed(innerKeys, innerValues); err != nil {
					return nil, err
				}
			}
			return c, nil
		}

		c.Shape = ShapeKeyed
		if err := c.appendKeyed(keys, values); err != nil {
			return nil, err
		}
		return c, nil
	}

	return nil, fmt.Errorf("%s: document is neither an array nor an object", name)
}

// NewCollection builds an in-memory collection, used when a dataset is
// assembled programmatically rather than loaded from disk.
func NewCollection[T any, PT interface {
	*T
	ider
}](name string, shape Shape, items ...*T) *Collection[T] {
	c := &Collection[T]{
		Name:  name,
		Shape: shape,
		byID:  make(map[string]*T),
		idOf:  func(t *T) string { return PT(t).EntityID() },
		setID: func(t *T, id string) { PT(t).SetEntityID(id) },
	}
	for _, item := range items {
		c.append(item)
	}
	return c
}

// appendKeyed ingests the records of a keyed object. The outer key is the
// authoritative identifier: a record without an embedded id inherits it, and
// a record whose embedded id disagrees with it is malformed.
func (c *Collection[T]) appendKeyed(keys []string, values []json.RawMessage) error {
	for i, key := range keys {
		item := new(T)
		if err := unmarshalNumber(values[i], item); err != nil {
			return fmt.Errorf("%s[%q]: %w", c.Name, key, err)
		}
		switch id := c.idOf(item); id {
		case "":
			c.setID(item, key)
		case key:
		default:
			return fmt.Errorf("%s[%q]: embedded id %q does not match key", c.Name, key, id)
		}
		c.append(item)
	}
	return nil
}

func (c *Collection[T]) append(item *T) {
	c.items = append(c.items, item)
	if id := c.idOf(item); id != "" {
		c.byID[id] = item
	}
}

// All returns the records in load order. The slice is shared; callers mutate
// records in place during fix passes.
func (c *Collection[T]) All() []*T {
	return c.items
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (*T, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// IDs returns the current identifier set of the collection.
func (c *Collection[T]) IDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.items))
	for _, item := range c.items {
		if id := c.idOf(item); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// Reindex rebuilds the id lookup after records were mutated.
func (c *Collection[T]) Reindex() {
	c.byID = make(map[string]*T, len(c.items))
	for _, item := range c.items {
		if id := c.idOf(item); id != "" {
			c.byID[id] = item
		}
	}
}

// Encode renders the collection in its original on-disk shape with two-space
// indentation, record order preserved.
func (c *Collection[T]) Encode() ([]byte, error) {
	switch c.Shape {
	case ShapeArray:
		return json.MarshalIndent(c.items, "", "  ")
	case ShapeKeyed:
		return c.encodeKeyed("")
	case ShapeWrapped:
		return c.encodeWrapped()
	}
	return nil, fmt.Errorf("%s: unknown shape %d", c.Name, c.Shape)
}

func (c *Collection[T]) encodeKeyed(prefix string) ([]byte, error) {
	if len(c.items) == 0 {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, item := range c.items {
		body, err := json.MarshalIndent(item, prefix+"  ", "  ")
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%s  %s: %s", prefix, strconv.Quote(c.idOf(item)), body)
		if i < len(c.items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(prefix + "}")
	return buf.Bytes(), nil
}

func (c *Collection[T]) encodeWrapped() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, entry := range c.entries {
		var body []byte
		if entry.raw != nil {
			indented, err := reindent(entry.raw, "  ")
			if err != nil {
				return nil, err
			}
			body = indented
		} else {
			keyed, err := c.encodeKeyed("  ")
			if err != nil {
				return nil, err
			}
			body = keyed
		}
		fmt.Fprintf(&buf, "  %s: %s", strconv.Quote(entry.key), body)
		if i < len(c.entries)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// decodeOrderedObject decodes a JSON object preserving key order, which
// encoding/json's map decoding would lose.
func decodeOrderedObject(data []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}

func hasObjectKey(keys []string, values []json.RawMessage, key string) bool {
	for i, k := range keys {
		if k == key {
			v := bytes.TrimSpace(values[i])
			return len(v) > 0 && v[0] == '{'
		}
	}
	return false
}

// unmarshalNumber decodes with json.Number semantics so amounts keep their
// exact literal text.
func unmarshalNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// reindent re-renders a raw JSON fragment with the given prefix so preserved
// sibling entries line up with the rest of the document.
func reindent(raw json.RawMessage, prefix string) ([]byte, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, prefix, "  ")
}
