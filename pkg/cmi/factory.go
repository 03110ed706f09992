package cmi

import "regexp"

type factoryEntry struct {
	pattern *regexp.Regexp
	build   func() *Composite
}

// ChildFactory builds new collection items. Builders are selected by matching the
// path of the item being created, for example "cmi.interactions.0.objectives.3".
type ChildFactory struct {
	entries []factoryEntry
}

// NewChildFactory creates an empty factory.
func NewChildFactory() *ChildFactory {
	return &ChildFactory{}
}

// Register adds a builder for item paths matching pattern. The pattern is anchored.
func (f *ChildFactory) Register(pattern string, build func() *Composite) *ChildFactory {
	f.entries = append(f.entries, factoryEntry{
		pattern: regexp.MustCompile("^" + pattern + "$"),
		build:   build,
	})
	return f
}

// Build returns a new item for itemPath using the first matching builder.
func (f *ChildFactory) Build(itemPath string) (*Composite, bool) {
	for _, e := range f.entries {
		if e.pattern.MatchString(itemPath) {
			return e.build(), true
		}
	}
	return nil, false
}
