package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/scorm/pkg/cmi"
)

// Overlay marks runtime state on the diagram.
type Overlay struct {
	// Initialized highlights leaves that hold a value.
	Initialized bool
	// Current is the element path to emphasize, e.g. the last element written.
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a data model tree.
// It applies semantic styling:
// - Composite: [Rectangle]
// - Collection: [[Subroutine]] labelled with its item count
// - Read-only leaf: [/Parallelogram/]
// - Write-only leaf: [\Parallelogram\]
// - Read-write leaf: (Rounded)
func GenerateMermaid(root *cmi.Composite, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	w := &writer{sb: &sb, overlay: overlay}
	w.composite("", root)

	if overlay != nil && (len(w.initialized) > 0 || overlay.Current != "") {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef initialized fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range w.initialized {
			sb.WriteString(fmt.Sprintf("    class %s initialized;\n", id))
		}
		if overlay.Current != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.Current)))
		}
	}

	return sb.String()
}

type writer struct {
	sb          *strings.Builder
	overlay     *Overlay
	initialized []string
}

func (w *writer) edge(from, to string) {
	w.sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(from), sanitizeMermaidID(to)))
}

func (w *writer) composite(path string, c *cmi.Composite) {
	for _, name := range c.Names() {
		child, _ := c.Child(name)
		if path == "" {
			w.node(name, name, child)
			continue
		}
		childPath := path + "." + name
		w.node(childPath, name, child)
		w.edge(path, childPath)
	}
}

func (w *writer) node(path, label string, n cmi.Node) {
	id := sanitizeMermaidID(path)
	switch node := n.(type) {
	case *cmi.Composite:
		w.sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", id, label))
		w.composite(path, node)
	case *cmi.Collection:
		w.sb.WriteString(fmt.Sprintf("    %s[[\"%s (%d)\"]]\n", id, label, node.Len()))
		for i, item := range node.Items() {
			itemPath := path + "." + strconv.Itoa(i)
			w.sb.WriteString(fmt.Sprintf("    %s[\"%d\"]\n", sanitizeMermaidID(itemPath), i))
			w.edge(path, itemPath)
			w.composite(itemPath, item)
		}
	case *cmi.Leaf:
		opener, closer := "(", ")"
		switch node.Access() {
		case cmi.ReadOnly:
			opener, closer = "[/", "/]"
		case cmi.WriteOnly:
			opener, closer = "[\\", "\\]"
		}
		w.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))
		if w.overlay != nil && w.overlay.Initialized && node.Initialized() {
			w.initialized = append(w.initialized, id)
		}
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
