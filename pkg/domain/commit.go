package domain

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// PayloadFormat selects the shape produced by the serialization bridge.
type PayloadFormat string

const (
	FormatJSON      PayloadFormat = "json"      // Nested object in schema order
	FormatFlattened PayloadFormat = "flattened" // Single level path -> value
	FormatParams    PayloadFormat = "params"    // Ordered "path=value" tokens
)

// Valid reports whether f is a known format.
func (f PayloadFormat) Valid() bool {
	switch f {
	case FormatJSON, FormatFlattened, FormatParams:
		return true
	}
	return false
}

// Payload is a rendered commit. Exactly one of Object, Flat or Params is set,
// according to Format.
type Payload struct {
	Format PayloadFormat
	Object *Object  // FormatJSON
	Flat   *FlatMap // FormatFlattened
	Params []string // FormatParams
}

// Body encodes the payload for transport. Params are joined as an
// application/x-www-form-urlencoded body.
func (p Payload) Body() ([]byte, error) {
	switch p.Format {
	case FormatParams:
		parts := make([]string, len(p.Params))
		for i, token := range p.Params {
			key, value, _ := strings.Cut(token, "=")
			parts[i] = key + "=" + url.QueryEscape(value)
		}
		return []byte(strings.Join(parts, "&")), nil
	case FormatFlattened:
		return json.Marshal(p.Flat)
	case FormatJSON:
		return json.Marshal(p.Object)
	default:
		return nil, fmt.Errorf("unknown payload format %q", p.Format)
	}
}

// JSON returns the payload as a JSON document: the object, the flat map, or the
// token list.
func (p Payload) JSON() (json.RawMessage, error) {
	switch p.Format {
	case FormatParams:
		return json.Marshal(p.Params)
	case FormatFlattened:
		return json.Marshal(p.Flat)
	case FormatJSON:
		return json.Marshal(p.Object)
	default:
		return nil, fmt.Errorf("unknown payload format %q", p.Format)
	}
}

// ContentType returns the MIME type matching Body.
func (p Payload) ContentType() string {
	if p.Format == FormatParams {
		return "application/x-www-form-urlencoded"
	}
	return "application/json"
}

// FlatMap is an insertion-ordered string map that marshals as a JSON object.
type FlatMap struct {
	keys   []string
	values map[string]string
}

// NewFlatMap creates an empty FlatMap.
func NewFlatMap() *FlatMap {
	return &FlatMap{values: make(map[string]string)}
}

// Set appends key or replaces its value in place.
func (m *FlatMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *FlatMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *FlatMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *FlatMap) Len() int {
	return len(m.keys)
}

// MarshalJSON writes the entries in insertion order.
func (m *FlatMap) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON reads a flat object of strings keeping the key order.
func (m *FlatMap) UnmarshalJSON(data []byte) error {
	var obj Object
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = FlatMap{values: make(map[string]string)}
	for _, k := range obj.keys {
		s, ok := obj.values[k].(string)
		if !ok {
			return fmt.Errorf("value of %q is not a string", k)
		}
		m.Set(k, s)
	}
	return nil
}

// CommitResult is what a transport reports back for a commit.
type CommitResult struct {
	Success   bool
	ErrorCode int
}

// CommitRecord is the persisted form of a commit.
type CommitRecord struct {
	SessionID   string          `json:"session_id"`
	Variant     string          `json:"variant"`
	Format      PayloadFormat   `json:"format"`
	Terminated  bool            `json:"terminated"`
	CommittedAt time.Time       `json:"committed_at"`
	Body        json.RawMessage `json:"body"`
}

// CommitRequest is what the serialization bridge hands to a transport.
type CommitRequest struct {
	SessionID   string
	Variant     string
	Destination string
	Terminated  bool
	Payload     Payload
}

// Record converts the request into its persisted form.
func (r CommitRequest) Record(at time.Time) (*CommitRecord, error) {
	body, err := r.Payload.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return &CommitRecord{
		SessionID:   r.SessionID,
		Variant:     r.Variant,
		Format:      r.Payload.Format,
		Terminated:  r.Terminated,
		CommittedAt: at,
		Body:        body,
	}, nil
}
