package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.CommitStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the values of data model elements
// whose dotted path matches one of the patterns, for example `learner_name$`.
// It understands the json, flattened and params payload shapes.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.CommitStore) ports.CommitStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, rec *domain.CommitRecord) error {
	body, err := m.redact(rec.Format, rec.Body)
	if err != nil {
		return fmt.Errorf("failed to redact record: %w", err)
	}
	masked := *rec
	masked.Body = body
	return m.next.Save(ctx, &masked)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.CommitRecord, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) match(path string) bool {
	for _, p := range m.patterns {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) redact(format domain.PayloadFormat, body json.RawMessage) (json.RawMessage, error) {
	switch format {
	case domain.FormatParams:
		var tokens []string
		if err := json.Unmarshal(body, &tokens); err != nil {
			return nil, err
		}
		for i, token := range tokens {
			if path, _, ok := strings.Cut(token, "="); ok && m.match(path) {
				tokens[i] = path + "=" + Mask
			}
		}
		return json.Marshal(tokens)
	case domain.FormatFlattened:
		var flat domain.FlatMap
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, err
		}
		for _, key := range flat.Keys() {
			if m.match(key) {
				flat.Set(key, Mask)
			}
		}
		return json.Marshal(&flat)
	default:
		var obj domain.Object
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, err
		}
		m.maskObject(&obj, "")
		return json.Marshal(&obj)
	}
}

func (m *piiMiddleware) maskObject(obj *domain.Object, prefix string) {
	for _, key := range obj.Keys() {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		v, _ := obj.Get(key)
		obj.Set(key, m.maskValue(v, path))
	}
}

func (m *piiMiddleware) maskValue(v any, path string) any {
	switch t := v.(type) {
	case *domain.Object:
		m.maskObject(t, path)
		return t
	case []*domain.Object:
		for i, item := range t {
			m.maskObject(item, path+"."+strconv.Itoa(i))
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = m.maskValue(item, path+"."+strconv.Itoa(i))
		}
		return t
	default:
		if m.match(path) {
			return Mask
		}
		return v
	}
}
