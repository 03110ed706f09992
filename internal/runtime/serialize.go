package runtime

import (
	"fmt"
	"strconv"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
)

// RenderObject renders the tree as a nested object in schema order.
// Collections become arrays.
func RenderObject(c *cmi.Composite) *domain.Object {
	obj := domain.NewObject()
	for _, name := range c.Names() {
		child, _ := c.Child(name)
		switch n := child.(type) {
		case *cmi.Leaf:
			obj.Set(name, n.Value())
		case *cmi.Composite:
			obj.Set(name, RenderObject(n))
		case *cmi.Collection:
			items := make([]*domain.Object, 0, n.Len())
			for _, item := range n.Items() {
				items = append(items, RenderObject(item))
			}
			obj.Set(name, items)
		}
	}
	return obj
}

// Walk visits every leaf in schema order with its full path.
func Walk(c *cmi.Composite, prefix string, visit func(path string, leaf *cmi.Leaf)) {
	for _, name := range c.Names() {
		child, _ := c.Child(name)
		path := join(prefix, name)
		switch n := child.(type) {
		case *cmi.Leaf:
			visit(path, n)
		case *cmi.Composite:
			Walk(n, path, visit)
		case *cmi.Collection:
			for i, item := range n.Items() {
				Walk(item, path+"."+strconv.Itoa(i), visit)
			}
		}
	}
}

// RenderFlat renders the tree as a single level path to value map.
func RenderFlat(c *cmi.Composite) *domain.FlatMap {
	flat := domain.NewFlatMap()
	Walk(c, "", func(path string, leaf *cmi.Leaf) {
		flat.Set(path, leaf.Value())
	})
	return flat
}

// RenderParams renders the tree as ordered "path=value" tokens.
func RenderParams(c *cmi.Composite) []string {
	var params []string
	Walk(c, "", func(path string, leaf *cmi.Leaf) {
		params = append(params, path+"="+leaf.Value())
	})
	return params
}

// Render produces the payload shape selected by format.
func Render(c *cmi.Composite, format domain.PayloadFormat) (domain.Payload, error) {
	p := domain.Payload{Format: format}
	switch format {
	case domain.FormatJSON:
		p.Object = RenderObject(c)
	case domain.FormatFlattened:
		p.Flat = RenderFlat(c)
	case domain.FormatParams:
		p.Params = RenderParams(c)
	default:
		return domain.Payload{}, fmt.Errorf("unknown payload format %q", format)
	}
	return p, nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
