package editor

import (
	"slices"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// SelectedNodes returns the selected nodes in selection order.
func (e *Editor) SelectedNodes() []*scene.Node {
	return slices.Clone(e.selected)
}

// SuperSelectedChain returns the path from the root down to the scope.
func (e *Editor) SuperSelectedChain() []*scene.Node {
	return slices.Clone(e.chain)
}

// SuperSelectedNode returns the scope: the deepest super-selected node.
func (e *Editor) SuperSelectedNode() *scene.Node {
	if len(e.chain) == 0 {
		return nil
	}
	return e.chain[len(e.chain)-1]
}

// IsSelected reports whether n is in the selection.
func (e *Editor) IsSelected(n *scene.Node) bool {
	return slices.Contains(e.selected, n)
}

// IsSuperSelected reports whether n is on the super-selected chain.
func (e *Editor) IsSuperSelected(n *scene.Node) bool {
	return slices.Contains(e.chain, n)
}

// SelectedOrSuperSelectedNodes returns the selection, or the scope alone when
// nothing is selected.
func (e *Editor) SelectedOrSuperSelectedNodes() []*scene.Node {
	if len(e.selected) > 0 {
		return e.SelectedNodes()
	}
	if s := e.SuperSelectedNode(); s != nil {
		return []*scene.Node{s}
	}
	return nil
}

// SelectedOrSuperSelectedNode returns the first selected node, or the scope.
func (e *Editor) SelectedOrSuperSelectedNode() *scene.Node {
	if len(e.selected) > 0 {
		return e.selected[0]
	}
	return e.SuperSelectedNode()
}

// contains reports whether n is the root or one of its descendants.
func (e *Editor) contains(n *scene.Node) bool {
	return n != nil && e.root != nil && (n == e.root || e.root.IsAncestorOf(n))
}

// SetSelectedNodes selects nodes and super-selects the parent of the first
// one. An empty list clears the selection. A list whose first node is the root
// is a saved super-selected chain: its last node is super-selected instead.
func (e *Editor) SetSelectedNodes(nodes []*scene.Node) {
	nodes = uniqueNodes(nodes)
	if len(nodes) == 0 {
		e.SetSuperSelectedNode(e.SuperSelectedNode())
		return
	}
	if nodes[0] == e.root {
		e.SetSuperSelectedNode(nodes[len(nodes)-1])
		return
	}

	parent := nodes[0].Parent()
	if !e.contains(parent) {
		e.Beep()
		return
	}
	scopeChanged := e.setChain(parent.PathFrom(e.root))
	if slices.Equal(e.selected, nodes) && !scopeChanged {
		return
	}
	e.selected = nodes
	if scopeChanged {
		e.notify(Notification{Kind: SuperSelectedNodeChanged})
	}
	e.notify(Notification{Kind: SelectedNodesChanged})
}

// AddSelectedNode adds n to the selection.
func (e *Editor) AddSelectedNode(n *scene.Node) {
	if n == nil || e.IsSelected(n) {
		return
	}
	e.SetSelectedNodes(append(e.SelectedNodes(), n))
}

// RemoveSelectedNode removes n from the selection.
func (e *Editor) RemoveSelectedNode(n *scene.Node) {
	i := slices.Index(e.selected, n)
	if i < 0 {
		return
	}
	e.SetSelectedNodes(slices.Delete(e.SelectedNodes(), i, i+1))
}

// SetSuperSelectedNode makes n the scope. The chain becomes exactly the path
// from the root to n and the selection is cleared. Calling it again with the
// same node does nothing.
func (e *Editor) SetSuperSelectedNode(n *scene.Node) {
	if !e.contains(n) {
		e.Beep()
		return
	}
	chainChanged := e.setChain(n.PathFrom(e.root))
	hadSelection := len(e.selected) > 0
	e.selected = nil
	if chainChanged {
		e.notify(Notification{Kind: SuperSelectedNodeChanged})
	}
	if hadSelection {
		e.notify(Notification{Kind: SelectedNodesChanged})
	}
}

// setChain installs chain, calling WillLoseSuperSelected on popped nodes,
// deepest first, and DidBecomeSuperSelected on pushed nodes, shallowest first.
// It reports whether the chain changed.
func (e *Editor) setChain(chain []*scene.Node) bool {
	common := 0
	for common < len(e.chain) && common < len(chain) && e.chain[common] == chain[common] {
		common++
	}
	if common == len(e.chain) && common == len(chain) {
		return false
	}

	old := e.chain
	for i := len(old) - 1; i >= common; i-- {
		e.tools.For(old[i]).WillLoseSuperSelected(old[i])
	}
	e.chain = chain
	for _, n := range chain[common:] {
		e.tools.For(n).DidBecomeSuperSelected(n)
	}
	return true
}

// PopSelection moves the selection one level up. A selection collapses into
// its container; with nothing selected, the scope itself is selected, or its
// parent entered when the scope is a pass-through container.
func (e *Editor) PopSelection() {
	if len(e.selected) > 0 {
		e.SetSuperSelectedNode(e.selected[0].Parent())
		return
	}
	if len(e.chain) <= 1 {
		e.Beep()
		return
	}
	leaf := e.SuperSelectedNode()
	leafLike := !e.tools.For(leaf).AcceptsChildren(leaf)
	if !leafLike && e.tools.SuperSelectImmediately(leaf) {
		e.SetSuperSelectedNode(leaf.Parent())
		return
	}
	e.SetSelectedNodes([]*scene.Node{leaf})
}

// selectionSnapshot returns what undo and redo restore: the selection, or the
// whole super-selected chain when nothing is selected.
func (e *Editor) selectionSnapshot() []*scene.Node {
	if len(e.selected) > 0 {
		return e.SelectedNodes()
	}
	return e.SuperSelectedChain()
}

// restoreSelection re-applies a snapshot, skipping nodes that have left the
// tree since it was taken.
func (e *Editor) restoreSelection(nodes []*scene.Node) {
	live := make([]*scene.Node, 0, len(nodes))
	for _, n := range nodes {
		if e.contains(n) {
			live = append(live, n)
		}
	}
	if len(live) == 0 {
		scope := e.SuperSelectedNode()
		if !e.contains(scope) {
			scope = e.root
		}
		e.SetSuperSelectedNode(scope)
		return
	}
	e.SetSelectedNodes(live)
}

func uniqueNodes(nodes []*scene.Node) []*scene.Node {
	out := make([]*scene.Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}
