package tool

import "github.com/inamate/inamate/editor-go/internal/scene"

// Registry maps node kinds to their shared tool.
type Registry struct {
	tools    map[scene.Kind]Tool
	fallback Tool
}

// NewRegistry returns a registry with the built-in tools installed.
func NewRegistry() *Registry {
	r := &Registry{
		tools:    make(map[scene.Kind]Tool),
		fallback: Base{},
	}
	r.Register(scene.KindDocument, DocumentTool{})
	r.Register(scene.KindPage, PageTool{})
	r.Register(scene.KindGroup, GroupTool{})
	r.Register(scene.KindText, TextTool{})
	return r
}

// Register installs t for kind, replacing any previous tool.
func (r *Registry) Register(kind scene.Kind, t Tool) {
	r.tools[kind] = t
}

// For returns the tool for n. Unknown kinds get the base tool.
func (r *Registry) For(n *scene.Node) Tool {
	if n == nil {
		return r.fallback
	}
	if t, ok := r.tools[n.Kind]; ok {
		return t
	}
	return r.fallback
}

// ForNodes returns the tool shared by every node in nodes, or nil if they are
// of different kinds or nodes is empty.
func (r *Registry) ForNodes(nodes []*scene.Node) Tool {
	if len(nodes) == 0 {
		return nil
	}
	kind := nodes[0].Kind
	for _, n := range nodes[1:] {
		if n.Kind != kind {
			return nil
		}
	}
	return r.For(nodes[0])
}

// SuperSelectImmediately reports whether n's parent wants a lone selected
// child entered right away.
func (r *Registry) SuperSelectImmediately(n *scene.Node) bool {
	p := n.Parent()
	return p != nil && r.For(p).ChildrenSuperSelectImmediately(p)
}
