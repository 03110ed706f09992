package cmi

import (
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/domain"
)

// Walk follows a dotted path from root without creating anything.
// Numeric segments index into collections.
func Walk(root *Composite, path string) (Node, bool) {
	if path == "" {
		return root, true
	}
	var node Node = root
	for _, seg := range strings.Split(path, ".") {
		switch n := node.(type) {
		case *Composite:
			child, ok := n.Child(seg)
			if !ok {
				return nil, false
			}
			node = child
		case *Collection:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil, false
			}
			item, ok := n.At(idx)
			if !ok {
				return nil, false
			}
			node = item
		default:
			return nil, false
		}
	}
	return node, true
}

// LeafAt returns the leaf at path.
func LeafAt(root *Composite, path string) (*Leaf, bool) {
	n, ok := Walk(root, path)
	if !ok {
		return nil, false
	}
	l, ok := n.(*Leaf)
	return l, ok
}

// ValueAt returns the value of the leaf at path, or "" if there is none.
func ValueAt(root *Composite, path string) string {
	if l, ok := LeafAt(root, path); ok {
		return l.Value()
	}
	return ""
}

// Assign stores a derived value on an existing leaf, bypassing access modes but not
// validation. Termination finalizers use it.
func Assign(root *Composite, path, value string) *domain.Error {
	l, ok := LeafAt(root, path)
	if !ok {
		return domain.NewError(domain.KeyUndefinedDataModel, path)
	}
	return l.Set(value, true)
}
