package runtime

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/domain"
)

// Hydrate writes data below root in LMS mode: read-only elements are writable and
// collection items are created as needed. Nested objects, arrays, objects keyed by
// index and flattened "a.b.c" keys are accepted. Nil and empty values are skipped.
// An empty root selects "cmi" unless every top-level key already starts with a root
// field, as absolute flattened keys like "cmi.core.lesson_location" do.
// Rejected values are returned and do not stop the load.
func (r *Resolver) Hydrate(data map[string]any, root string) []*domain.Error {
	if root == "" && !r.rootFields(data) {
		root = domain.DefaultRoot
	}
	var failed []*domain.Error
	r.hydrate(data, root, &failed)
	return failed
}

func (r *Resolver) rootFields(data map[string]any) bool {
	if len(data) == 0 {
		return false
	}
	for key := range data {
		first, _, _ := strings.Cut(key, ".")
		if _, ok := r.tree.Child(first); !ok {
			return false
		}
	}
	return true
}

func (r *Resolver) hydrate(value any, path string, failed *[]*domain.Error) {
	switch v := value.(type) {
	case nil:
	case map[string]any:
		for _, key := range sortedKeys(v) {
			r.hydrate(v[key], join(path, key), failed)
		}
	case []any:
		for i, item := range v {
			r.hydrate(item, join(path, strconv.Itoa(i)), failed)
		}
	default:
		s, ok := scalar(v)
		if !ok || s == "" {
			return
		}
		if err := r.Set(path, s, false); err != nil {
			*failed = append(*failed, err)
		}
	}
}

func scalar(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return domain.Bool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// sortedKeys orders keys segment by segment, index segments numerically and before
// field names, so collection items are created in sequence even from flattened keys.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessPath(keys[i], keys[j])
	})
	return keys
}

func lessPath(a, b string) bool {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		x, xIdx := index(as[i])
		y, yIdx := index(bs[i])
		switch {
		case xIdx && yIdx:
			return x < y
		case xIdx != yIdx:
			return xIdx
		default:
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}
