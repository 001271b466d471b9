package editor

import (
	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Undo batch titles set by editing commands.
const (
	TitleDelete = "Delete View(s)"
	TitleCut    = "Cut"
	TitlePaste  = "Paste"
)

// Delete removes the selected nodes. With nothing selected it beeps.
func (e *Editor) Delete() {
	e.deleteSelection(TitleDelete)
}

func (e *Editor) deleteSelection(title string) {
	nodes := e.SelectedNodes()
	if len(nodes) == 0 {
		e.Beep()
		return
	}
	scope := e.SuperSelectedNode()
	e.setTitle(title)
	for _, n := range nodes {
		if p := n.Parent(); p != nil {
			p.RemoveChild(n)
		}
	}
	e.SetSuperSelectedNode(scope)
}

// Copy writes the selection to the clipboard as a fragment.
func (e *Editor) Copy() {
	nodes := e.SelectedNodes()
	if len(nodes) == 0 {
		e.Beep()
		return
	}
	data, err := document.EncodeFragment(nodes)
	if err != nil {
		e.log.Warn("copy failed", "error", err)
		e.Beep()
		return
	}
	if err := e.clipboard.WriteAll(string(data)); err != nil {
		e.log.Warn("clipboard write failed", "error", err)
		e.Beep()
	}
}

// Cut copies the selection and deletes it.
func (e *Editor) Cut() {
	if len(e.selected) == 0 {
		e.Beep()
		return
	}
	beeps := e.beeps
	e.Copy()
	if e.beeps != beeps {
		return
	}
	e.deleteSelection(TitleCut)
}

// Paste inserts the clipboard fragment into the nearest container at or above
// the scope. The pasted nodes become the selection.
func (e *Editor) Paste() {
	e.pasteInto(e.scopeContainer(), nil)
}

// PasteAt inserts the clipboard fragment into the container under p, moving
// it so its top-left corner lands on p.
func (e *Editor) PasteAt(p scene.Point) {
	target := e.HitTestContainerAcceptingChildren(p)
	local := target.AncestorToLocal(p, e.root)
	e.pasteInto(target, &local)
}

func (e *Editor) pasteInto(target *scene.Node, at *scene.Point) {
	if target == nil {
		e.Beep()
		return
	}
	text, err := e.clipboard.ReadAll()
	if err != nil {
		e.log.Warn("clipboard read failed", "error", err)
		e.Beep()
		return
	}
	nodes, err := document.DecodeFragment([]byte(text))
	if err != nil || len(nodes) == 0 {
		e.log.Debug("paste rejected", "error", err)
		e.Beep()
		return
	}

	var dx, dy float64
	if at != nil {
		bounds := nodes[0].BoundsInParent()
		for _, n := range nodes[1:] {
			bounds = bounds.Union(n.BoundsInParent())
		}
		dx, dy = at.X-bounds.X, at.Y-bounds.Y
	}

	e.setTitle(TitlePaste)
	for _, n := range nodes {
		n.SetXY(n.X()+dx, n.Y()+dy)
		target.AddChild(n)
	}
	e.SetSelectedNodes(nodes)
}

// SelectAll selects every child of the scope.
func (e *Editor) SelectAll() {
	scope := e.contentScope()
	if scope == nil || scope.NumChildren() == 0 {
		e.Beep()
		return
	}
	e.SetSelectedNodes(scope.Children())
}
