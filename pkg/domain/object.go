package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is an insertion-ordered JSON object. Values are string, *Object or []*Object.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty Object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set appends key or replaces its value in place.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Map converts the object into plain nested maps and slices.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		switch v := o.values[k].(type) {
		case *Object:
			out[k] = v.Map()
		case []*Object:
			items := make([]any, len(v))
			for i, item := range v {
				items[i] = item.Map()
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}

// MarshalJSON writes the entries in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping the key order. Arrays of objects become
// []*Object, strings stay strings and other scalars are kept as json.RawMessage.
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("expected object, got %v", tok)
	}
	*o = Object{values: make(map[string]any)}
	return o.decode(dec)
}

func (o *Object) decode(dec *json.Decoder) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		v, err := decodeValue(dec)
		if err != nil {
			return err
		}
		o.Set(key, v)
	}
	_, err := dec.Token()
	return err
}

func decodeValue(dec *json.Decoder) (any, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	switch {
	case len(raw) > 0 && raw[0] == '{':
		child := NewObject()
		if err := child.UnmarshalJSON(raw); err != nil {
			return nil, err
		}
		return child, nil
	case len(raw) > 0 && raw[0] == '[':
		return decodeArray(raw)
	case len(raw) > 0 && raw[0] == '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	default:
		return raw, nil
	}
}

func decodeArray(raw json.RawMessage) (any, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	objects := make([]*Object, 0, len(elems))
	values := make([]any, 0, len(elems))
	allObjects := true
	for _, elem := range elems {
		v, err := decodeValue(json.NewDecoder(bytes.NewReader(elem)))
		if err != nil {
			return nil, err
		}
		if obj, ok := v.(*Object); ok {
			objects = append(objects, obj)
		} else {
			allObjects = false
		}
		values = append(values, v)
	}
	if allObjects {
		return objects, nil
	}
	return values, nil
}
