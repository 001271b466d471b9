package editor

import "github.com/inamate/inamate/editor-go/internal/scene"

// firstPage returns the first child of the root when it is a page, or nil.
func (e *Editor) firstPage() *scene.Node {
	if p := e.root.ChildAt(0); p != nil && p.Kind == scene.KindPage {
		return p
	}
	return nil
}

// contentScope returns the scope, with the root replaced by its first page.
func (e *Editor) contentScope() *scene.Node {
	scope := e.SuperSelectedNode()
	if scope == e.root {
		if p := e.firstPage(); p != nil {
			return p
		}
	}
	return scope
}

// HitTest returns the node a click at p, in root coordinates, is aimed at.
// It never returns nil while the editor has content.
func (e *Editor) HitTest(p scene.Point) *scene.Node {
	if e.root == nil {
		return nil
	}

	var hit *scene.Node
	for c := e.contentScope(); c != nil && hit == nil; c = c.Parent() {
		hit = e.childAtPoint(c, p)
	}
	if hit != nil {
		hit = e.refineHit(hit, p)
	}

	if hit == nil || hit == e.root {
		if page := e.firstPage(); page != nil {
			return page
		}
		return e.root
	}
	return hit
}

// refineHit walks from the root down towards hit. When a level reports a
// different front-most child than the one on the path, that child wins.
func (e *Editor) refineHit(hit *scene.Node, p scene.Point) *scene.Node {
	parent := hit.Parent()
	if parent == nil {
		return hit
	}
	path := hit.PathFrom(e.root)
	if path == nil {
		return hit
	}
	for i := 0; i < len(path)-1; i++ {
		want := path[i+1]
		if got := e.childAtPoint(path[i], p); got != nil && got != want {
			return got
		}
	}
	return hit
}

// childAtPoint returns the front-most child of parent containing p. Children
// on the super-selected chain are tested against their super-selected bounds.
func (e *Editor) childAtPoint(parent *scene.Node, p scene.Point) *scene.Node {
	children := parent.Children()
	for i := len(children) - 1; i >= 0; i-- {
		c := children[i]
		local := c.AncestorToLocal(p, e.root)
		bounds := c.BoundsLocal()
		if e.IsSuperSelected(c) {
			bounds = e.tools.For(c).SuperSelectedBounds(c)
		}
		if bounds.Contains(local) {
			return c
		}
	}
	return nil
}

// HitTestContainerAcceptingChildren returns the nearest node at or above the
// hit for p whose tool accepts children. It falls back to the root.
func (e *Editor) HitTestContainerAcceptingChildren(p scene.Point) *scene.Node {
	for n := e.HitTest(p); n != nil; n = n.Parent() {
		if e.tools.For(n).AcceptsChildren(n) {
			return n
		}
	}
	return e.root
}

// scopeContainer returns the nearest node at or above the scope that accepts
// children, or the root.
func (e *Editor) scopeContainer() *scene.Node {
	for n := e.contentScope(); n != nil; n = n.Parent() {
		if e.tools.For(n).AcceptsChildren(n) {
			return n
		}
	}
	return e.root
}
