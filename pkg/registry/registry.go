package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
	"github.com/aretw0/scorm/pkg/variant/aicc"
	"github.com/aretw0/scorm/pkg/variant/scorm12"
	"github.com/aretw0/scorm/pkg/variant/scorm2004"
)

// VariantFactory builds a variant. Variants are cheap and stateless, so a factory
// may return a fresh value or a shared one.
type VariantFactory func() ports.Variant

// Registry manages the available data model variants.
type Registry struct {
	mu       sync.RWMutex
	variants map[string]VariantFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		variants: make(map[string]VariantFactory),
	}
}

// Default returns a registry with SCORM 1.2, AICC and SCORM 2004.
func Default() *Registry {
	r := NewRegistry()
	r.Register(scorm12.Name, func() ports.Variant { return scorm12.New() })
	r.Register(aicc.Name, func() ports.Variant { return aicc.New() })
	r.Register(scorm2004.Name, func() ports.Variant { return scorm2004.New() })
	return r
}

// Register adds a variant to the registry.
// If a variant with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn VariantFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants[name] = fn
}

// Lookup builds the variant registered under name.
// Returns domain.ErrUnknownVariant if it is not registered.
func (r *Registry) Lookup(name string) (ports.Variant, error) {
	r.mu.RLock()
	fn, ok := r.variants[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVariant, name)
	}

	return fn(), nil
}

// Names lists the registered variants in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
