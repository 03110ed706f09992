package cmi

import (
	"strings"

	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/validate"
)

// NodeKind discriminates tree nodes.
type NodeKind int

const (
	KindScalar NodeKind = iota
	KindComposite
	KindCollection
)

func (k NodeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindComposite:
		return "composite"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Node is any element of the data model tree.
type Node interface {
	Kind() NodeKind
}

// Access is the content-facing access mode of a leaf.
type Access int

const (
	ReadWrite Access = iota
	ReadOnly         // Supplied by the LMS, writable only before initialization
	WriteOnly        // Content may set it but never read it back
)

// Leaf is a scalar value.
type Leaf struct {
	value       string
	initialized bool
	access      Access
	rule        validate.Rule
	hydrateRule validate.Rule
	noDefault   bool
}

// LeafOption configures a Leaf.
type LeafOption func(*Leaf)

// WithDefault sets the value reported before any assignment.
func WithDefault(value string) LeafOption {
	return func(l *Leaf) {
		l.value = value
	}
}

// WithAccess sets the access mode.
func WithAccess(a Access) LeafOption {
	return func(l *Leaf) {
		l.access = a
	}
}

// NoDefault makes reads fail as not initialized until the leaf is assigned.
func NoDefault() LeafOption {
	return func(l *Leaf) {
		l.noDefault = true
	}
}

// WithHydrateRule sets the rule used for writes made before initialization.
func WithHydrateRule(r validate.Rule) LeafOption {
	return func(l *Leaf) {
		l.hydrateRule = r
	}
}

// NewLeaf creates a leaf validated by rule. A nil rule accepts any value.
func NewLeaf(rule validate.Rule, opts ...LeafOption) *Leaf {
	if rule == nil {
		rule = validate.Any
	}
	l := &Leaf{rule: rule}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Kind implements Node.
func (l *Leaf) Kind() NodeKind { return KindScalar }

// Value returns the current value, or the default if never assigned.
func (l *Leaf) Value() string { return l.value }

// Initialized reports whether the leaf was ever assigned.
func (l *Leaf) Initialized() bool { return l.initialized }

// Access returns the access mode.
func (l *Leaf) Access() Access { return l.access }

// Defaultable reports whether an unassigned leaf can be read.
func (l *Leaf) Defaultable() bool { return !l.noDefault }

// Validate checks value without mutating the leaf.
func (l *Leaf) Validate(value string, hydrating bool) *domain.Error {
	if hydrating && l.hydrateRule != nil {
		return l.hydrateRule.Check(value)
	}
	return l.rule.Check(value)
}

// Set validates value and stores it only if accepted.
func (l *Leaf) Set(value string, hydrating bool) *domain.Error {
	if err := l.Validate(value, hydrating); err != nil {
		return err
	}
	l.value = value
	l.initialized = true
	return nil
}

// Member is a named child of a Composite.
type Member struct {
	Name string
	Node Node
}

// Field builds a Member.
func Field(name string, node Node) Member {
	return Member{Name: name, Node: node}
}

// Composite is a fixed-shape group of named children.
type Composite struct {
	names       []string
	nodes       map[string]Node
	children    string
	hasChildren bool
	computed    map[string]func() string
}

// NewComposite creates a composite with fields in declaration order.
func NewComposite(fields ...Member) *Composite {
	c := &Composite{
		nodes:    make(map[string]Node, len(fields)),
		computed: make(map[string]func() string),
	}
	for _, f := range fields {
		if _, dup := c.nodes[f.Name]; dup {
			panic("cmi: duplicate field " + f.Name)
		}
		c.names = append(c.names, f.Name)
		c.nodes[f.Name] = f.Node
	}
	return c
}

// Kind implements Node.
func (c *Composite) Kind() NodeKind { return KindComposite }

// WithChildren exposes the "_children" keyword with an explicit list.
func (c *Composite) WithChildren(list string) *Composite {
	c.children = list
	c.hasChildren = true
	return c
}

// ExposeChildren exposes "_children" as the declared field names.
func (c *Composite) ExposeChildren() *Composite {
	return c.WithChildren(strings.Join(c.names, ","))
}

// WithComputed registers a read-only accessor, for example "_version".
func (c *Composite) WithComputed(name string, fn func() string) *Composite {
	c.computed[name] = fn
	return c
}

// Children returns the "_children" list if the composite exposes it.
func (c *Composite) Children() (string, bool) {
	return c.children, c.hasChildren
}

// Computed returns the accessor registered under name.
func (c *Composite) Computed(name string) (func() string, bool) {
	fn, ok := c.computed[name]
	return fn, ok
}

// Child returns the field named name.
func (c *Composite) Child(name string) (Node, bool) {
	n, ok := c.nodes[name]
	return n, ok
}

// Names returns the field names in declaration order.
func (c *Composite) Names() []string {
	return append([]string(nil), c.names...)
}

// Collection is an append-only, contiguous sequence of composites.
type Collection struct {
	items    []*Composite
	children string
}

// NewCollection creates an empty collection whose items expose the given "_children" list.
func NewCollection(children string) *Collection {
	return &Collection{children: children}
}

// Kind implements Node.
func (c *Collection) Kind() NodeKind { return KindCollection }

// Len returns the number of items.
func (c *Collection) Len() int { return len(c.items) }

// Children returns the "_children" list of the items.
func (c *Collection) Children() (string, bool) {
	return c.children, c.children != ""
}

// At returns the item at index i.
func (c *Collection) At(i int) (*Composite, bool) {
	if i < 0 || i >= len(c.items) {
		return nil, false
	}
	return c.items[i], true
}

// Append adds item at index Len().
func (c *Collection) Append(item *Composite) {
	c.items = append(c.items, item)
}

// Truncate drops items at index n and above. It only ever shrinks.
func (c *Collection) Truncate(n int) {
	if n >= 0 && n < len(c.items) {
		c.items = c.items[:n]
	}
}

// Items returns the items in index order.
func (c *Collection) Items() []*Composite {
	return append([]*Composite(nil), c.items...)
}
