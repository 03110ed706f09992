package runtime

import (
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/ports"
)

const targetPrefix = "{target="

// Resolver walks dotted element paths over a data model tree.
type Resolver struct {
	tree       *cmi.Composite
	factory    func(itemPath string) (*cmi.Composite, bool)
	validators []ports.CrossFieldValidator
}

// NewResolver creates a resolver. factory builds collection items on demand;
// validators run on content writes before the leaf validator.
func NewResolver(tree *cmi.Composite, factory func(string) (*cmi.Composite, bool), validators ...ports.CrossFieldValidator) *Resolver {
	return &Resolver{tree: tree, factory: factory, validators: validators}
}

// Tree returns the root of the data model.
func (r *Resolver) Tree() *cmi.Composite {
	return r.tree
}

type growth struct {
	coll *cmi.Collection
	len  int
}

// Get reads the element at path. initialized is false only for LMS-side reads.
func (r *Resolver) Get(path string, initialized bool) (string, *domain.Error) {
	if path == "" {
		return "", nil
	}
	segs := strings.Split(path, ".")
	var node cmi.Node = r.tree
	for i, seg := range segs {
		last := i == len(segs)-1
		switch n := node.(type) {
		case *cmi.Composite:
			if last {
				return r.getField(n, seg, path, initialized)
			}
			child, ok := n.Child(seg)
			if !ok {
				return "", domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			node = child
		case *cmi.Collection:
			if last {
				return getKeyword(n, seg, path)
			}
			idx, ok := index(seg)
			if !ok {
				return "", domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			item, ok := n.At(idx)
			if !ok {
				return "", domain.NewError(domain.KeyValueNotInitialized, path)
			}
			node = item
		case *cmi.Leaf:
			return "", leafKeywordError(segs[i:], path)
		}
	}
	return "", domain.NewError(domain.KeyUndefinedDataModel, path)
}

func (r *Resolver) getField(c *cmi.Composite, name, path string, initialized bool) (string, *domain.Error) {
	switch name {
	case domain.KeywordChildren:
		if list, ok := c.Children(); ok {
			return list, nil
		}
		return "", domain.NewError(domain.KeyChildrenError, path)
	case domain.KeywordCount:
		return "", domain.NewError(domain.KeyCountError, path)
	}
	if fn, ok := c.Computed(name); ok {
		return fn(), nil
	}
	child, ok := c.Child(name)
	if !ok {
		return "", domain.NewError(domain.KeyUndefinedDataModel, path)
	}
	leaf, ok := child.(*cmi.Leaf)
	if !ok {
		return "", domain.NewError(domain.KeyUndefinedDataModel, path)
	}
	if initialized && leaf.Access() == cmi.WriteOnly {
		return "", domain.NewError(domain.KeyWriteOnlyElement, path)
	}
	if !leaf.Initialized() && !leaf.Defaultable() {
		return "", domain.NewError(domain.KeyValueNotInitialized, path)
	}
	return leaf.Value(), nil
}

func getKeyword(c *cmi.Collection, name, path string) (string, *domain.Error) {
	switch name {
	case domain.KeywordCount:
		return strconv.Itoa(c.Len()), nil
	case domain.KeywordChildren:
		if list, ok := c.Children(); ok {
			return list, nil
		}
		return "", domain.NewError(domain.KeyChildrenError, path)
	}
	return "", domain.NewError(domain.KeyUndefinedDataModel, path)
}

// leafKeywordError reports keywords addressed below a scalar, e.g.
// "cmi.core.lesson_status._children", with the keyword's own code.
func leafKeywordError(rest []string, path string) *domain.Error {
	if len(rest) == 1 {
		switch rest[0] {
		case domain.KeywordChildren:
			return domain.NewError(domain.KeyChildrenError, path)
		case domain.KeywordCount:
			return domain.NewError(domain.KeyCountError, path)
		}
	}
	return domain.NewError(domain.KeyUndefinedDataModel, path)
}

// Set validates and writes value at path. Collection items are created when the
// index equals the current length; a failed write removes the items it created.
// initialized is false during hydration, which may write read-only elements.
func (r *Resolver) Set(path, value string, initialized bool) *domain.Error {
	if path == "" {
		return nil
	}
	var grown []growth
	err := r.set(path, value, initialized, &grown)
	if err != nil {
		for i := len(grown) - 1; i >= 0; i-- {
			grown[i].coll.Truncate(grown[i].len)
		}
	}
	return err
}

func (r *Resolver) set(path, value string, initialized bool, grown *[]growth) *domain.Error {
	segs := strings.Split(path, ".")
	var node cmi.Node = r.tree
	for i, seg := range segs {
		if strings.HasPrefix(seg, targetPrefix) {
			if initialized {
				return domain.NewError(domain.KeyReadOnlyElement, path)
			}
			return domain.NewError(domain.KeyUndefinedDataModel, path)
		}
		last := i == len(segs)-1
		switch n := node.(type) {
		case *cmi.Composite:
			if last {
				return r.setField(n, seg, path, value, initialized)
			}
			child, ok := n.Child(seg)
			if !ok {
				return domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			node = child
		case *cmi.Collection:
			if last {
				if isKeyword(seg) {
					return domain.NewError(domain.KeyInvalidSetValue, path)
				}
				return domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			idx, ok := index(seg)
			if !ok {
				return domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			if item, ok := n.At(idx); ok {
				node = item
				continue
			}
			if idx != n.Len() {
				return domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			item, ok := r.factory(strings.Join(segs[:i+1], "."))
			if !ok {
				return domain.NewError(domain.KeyUndefinedDataModel, path)
			}
			*grown = append(*grown, growth{coll: n, len: n.Len()})
			n.Append(item)
			node = item
		case *cmi.Leaf:
			return leafKeywordError(segs[i:], path)
		}
	}
	return domain.NewError(domain.KeyUndefinedDataModel, path)
}

func (r *Resolver) setField(c *cmi.Composite, name, path, value string, initialized bool) *domain.Error {
	if isKeyword(name) {
		return domain.NewError(domain.KeyInvalidSetValue, path)
	}
	if _, ok := c.Computed(name); ok {
		return domain.NewError(domain.KeyReadOnlyElement, path)
	}
	child, ok := c.Child(name)
	if !ok {
		return domain.NewError(domain.KeyUndefinedDataModel, path)
	}
	leaf, ok := child.(*cmi.Leaf)
	if !ok {
		return domain.NewError(domain.KeyUndefinedDataModel, path)
	}
	if initialized {
		if leaf.Access() == cmi.ReadOnly {
			return domain.NewError(domain.KeyReadOnlyElement, path)
		}
		for _, v := range r.validators {
			if err := v.ValidateSet(r.tree, path, value); err != nil {
				return err
			}
		}
	}
	return leaf.Set(value, !initialized)
}

func isKeyword(seg string) bool {
	return seg == domain.KeywordChildren || seg == domain.KeywordCount || seg == domain.KeywordVersion
}

// index parses a collection index. Only canonical decimal digits are accepted, so
// "01" is not an alias of "1".
func index(seg string) (int, bool) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, false
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	return n, err == nil
}
