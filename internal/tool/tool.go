// Package tool maps node kinds to the per-kind behavior the editor needs:
// capability queries, resize handles and type-specific event handling. Tool
// values keep no per-editor state and are shared by every editor.
package tool

import (
	"github.com/inamate/inamate/editor-go/internal/input"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

// Tool is the capability interface implemented per node kind.
type Tool interface {
	// AcceptsChildren reports whether nodes can be dropped or pasted into n.
	AcceptsChildren(n *scene.Node) bool

	// IsSuperSelectable reports whether a double click enters n.
	IsSuperSelectable(n *scene.Node) bool

	// ChildrenSuperSelectImmediately reports whether a child of n that becomes
	// the only selection is entered right away.
	ChildrenSuperSelectImmediately(n *scene.Node) bool

	// HandleCount returns how many resize handles n shows: 8 or 0.
	HandleCount(n *scene.Node) int

	// MoveHandle reshapes n so the handle follows to while the opposite
	// anchor stays fixed. Both points are in n's parent coordinates.
	MoveHandle(n *scene.Node, h Handle, anchor, to scene.Point)

	// SuperSelectedBounds returns the local rect used to hit-test and draw n
	// while it is super-selected.
	SuperSelectedBounds(n *scene.Node) scene.Rect

	DidBecomeSuperSelected(n *scene.Node)
	WillLoseSuperSelected(n *scene.Node)

	// MousePressedSelection lets the tool of the current selection claim a
	// press before the select tool handles it.
	MousePressedSelection(selection []*scene.Node, ev input.Event) bool

	// ProcessEvent offers a pointer event to the tool of n, the current scope.
	// It returns true if the tool consumed it.
	ProcessEvent(n *scene.Node, ev input.Event) bool
}

// Base is the default tool. Kind-specific tools embed it.
type Base struct{}

func (Base) AcceptsChildren(*scene.Node) bool                { return false }
func (Base) IsSuperSelectable(*scene.Node) bool              { return false }
func (Base) ChildrenSuperSelectImmediately(*scene.Node) bool { return false }
func (Base) HandleCount(*scene.Node) int                     { return 8 }
func (Base) DidBecomeSuperSelected(*scene.Node)              {}
func (Base) WillLoseSuperSelected(*scene.Node)               {}

func (Base) SuperSelectedBounds(n *scene.Node) scene.Rect { return n.BoundsLocal() }

func (Base) MousePressedSelection([]*scene.Node, input.Event) bool { return false }
func (Base) ProcessEvent(*scene.Node, input.Event) bool            { return false }

// MoveHandle builds the new local rect from the anchor and the dragged point.
// Min/max are swapped as needed, so dragging past the anchor flips the rect
// instead of producing a negative size. Side handles keep the perpendicular
// dimension unchanged.
func (Base) MoveHandle(n *scene.Node, h Handle, anchor, to scene.Point) {
	a := n.ParentToLocal(anchor)
	p := n.ParentToLocal(to)
	r := scene.RectFromPoints(a, p)

	switch h {
	case CenterLeft, CenterRight:
		r.Y, r.Height = 0, n.Height()
	case TopCenter, BottomCenter:
		r.X, r.Width = 0, n.Width()
	}
	n.SetBoundsLocal(r)
}

// GroupTool handles plain containers.
type GroupTool struct{ Base }

// SuperSelectedOutset is how far a super-selected group's bounds grow so its
// handles stay clickable.
const SuperSelectedOutset = HandleSize / 2

func (GroupTool) AcceptsChildren(*scene.Node) bool   { return true }
func (GroupTool) IsSuperSelectable(*scene.Node) bool { return true }

func (GroupTool) SuperSelectedBounds(n *scene.Node) scene.Rect {
	return n.BoundsLocal().Inset(-SuperSelectedOutset)
}

// PageTool handles pages. Pages are the effective outermost container and are
// never resized by handles.
type PageTool struct{ Base }

func (PageTool) AcceptsChildren(*scene.Node) bool   { return true }
func (PageTool) IsSuperSelectable(*scene.Node) bool { return true }
func (PageTool) HandleCount(*scene.Node) int        { return 0 }

// DocumentTool handles the document root, whose children are pages.
type DocumentTool struct{ Base }

func (DocumentTool) IsSuperSelectable(*scene.Node) bool              { return true }
func (DocumentTool) ChildrenSuperSelectImmediately(*scene.Node) bool { return true }
func (DocumentTool) HandleCount(*scene.Node) int                     { return 0 }
