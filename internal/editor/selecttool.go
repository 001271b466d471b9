package editor

import (
	"slices"

	"github.com/inamate/inamate/editor-go/internal/input"
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/tool"
)

// DragMode is the state of the select tool between a press and its release.
type DragMode uint8

const (
	DragNone DragMode = iota
	DragMove
	DragRotate
	DragResize
	DragMarqueeSelect
	DragEventDispatch
)

var dragModeNames = [...]string{
	DragNone:          "None",
	DragMove:          "Move",
	DragRotate:        "Rotate",
	DragResize:        "Resize",
	DragMarqueeSelect: "MarqueeSelect",
	DragEventDispatch: "EventDispatch",
}

func (m DragMode) String() string {
	if int(m) < len(dragModeNames) {
		return dragModeNames[m]
	}
	return "unknown"
}

// Undo batch titles set by the select tool.
const (
	TitleMove   = "Move"
	TitleRotate = "Rotate"
	TitleResize = "Resize"
)

// maxPressPasses bounds the press decision loop. Each repeated pass either
// consumes a click or enters a deeper scope, so real trees stop far earlier.
const maxPressPasses = 64

// DragSession is the state of one press-drag-release gesture. Points are in
// root coordinates unless noted.
type DragSession struct {
	Mode  DragMode
	Start scene.Point
	Last  scene.Point

	// Resize
	Handle     tool.Handle
	HandleNode *scene.Node
	Anchor     scene.Point // in HandleNode's parent coordinates

	// MarqueeSelect
	Scope        *scene.Node
	ScopeStart   scene.Point // Start in Scope coordinates
	Marquee      scene.Rect  // in Scope coordinates
	PreSelection []*scene.Node
	Provisional  []*scene.Node

	// EventDispatch
	EventNode *scene.Node

	recorded map[recordKey]bool
}

type recordKey struct {
	node *scene.Node
	prop string
}

// SelectTool turns pointer events into selection changes and geometry edits.
type SelectTool struct {
	e       *Editor
	session *DragSession
	hover   *scene.Node
}

// Session returns the active drag session, or nil between gestures.
func (t *SelectTool) Session() *DragSession { return t.session }

// Mode returns the active drag mode.
func (t *SelectTool) Mode() DragMode {
	if t.session == nil {
		return DragNone
	}
	return t.session.Mode
}

// Hover returns the node under the pointer at the last move event.
func (t *SelectTool) Hover() *scene.Node { return t.hover }

type pressResult uint8

const (
	pressDone pressResult = iota
	pressAgain
	pressClaimed
)

// MousePressed starts a gesture.
func (t *SelectTool) MousePressed(ev input.Event) {
	e := t.e
	e.mouseDown = true
	s := &DragSession{Start: ev.Point(), Last: ev.Point(), Handle: tool.HandleNone}
	t.session = s

	clicks := ev.ClickCount
	result := pressAgain
	for pass := 0; pass < maxPressPasses && result == pressAgain; pass++ {
		result = t.pressPass(s, ev, &clicks)
	}
	if result == pressClaimed {
		return
	}

	scope := e.SuperSelectedNode()
	if e.tools.For(scope).ProcessEvent(scope, ev) {
		s.Mode = DragEventDispatch
		s.EventNode = scope
	}
}

// pressPass runs the press decision tree once.
func (t *SelectTool) pressPass(s *DragSession, ev input.Event, clicks *int) pressResult {
	e := t.e
	p := ev.Point()

	current := e.SelectedOrSuperSelectedNodes()
	if st := e.tools.ForNodes(current); st != nil && st.MousePressedSelection(current, ev) {
		s.Mode = DragNone
		return pressClaimed
	}

	if n, h := t.handleAt(p); n != nil {
		superSelected := !e.IsSelected(n)
		if superSelected {
			e.SetSelectedNodes([]*scene.Node{n})
		}
		nt := e.tools.For(n)
		s.Mode = DragResize
		s.Handle = h
		s.HandleNode = n
		s.Anchor = n.LocalToParent(tool.HandlePoint(nt, n, h.Opposite(), false))
		return pressDone
	}

	hit := e.HitTest(p)
	shift := ev.IsShiftDown()
	switch {
	case e.IsSuperSelected(hit):
		if hit != e.SuperSelectedNode() {
			e.SetSuperSelectedNode(hit)
		}
		t.beginMarquee(s, hit, shift)
		return pressDone

	case *clicks > 1 && e.tools.For(hit).IsSuperSelectable(hit):
		e.SetSuperSelectedNode(hit)
		*clicks--
		return pressAgain

	case shift:
		if e.IsSelected(hit) {
			e.RemoveSelectedNode(hit)
			s.Mode = DragNone
		} else {
			e.AddSelectedNode(hit)
			s.Mode = DragMove
		}

	default:
		if !e.IsSelected(hit) {
			e.SetSelectedNodes([]*scene.Node{hit})
		}
		s.Mode = DragMove
		if ev.IsAltDown() {
			s.Mode = DragRotate
		}
	}

	if sel := e.selected; len(sel) == 1 && e.tools.SuperSelectImmediately(sel[0]) {
		e.SetSuperSelectedNode(sel[0])
		return pressAgain
	}
	return pressDone
}

// handleAt finds a resize handle under p, checking selected nodes first and
// then the super-selected chain from the scope up. The root has no handles.
func (t *SelectTool) handleAt(p scene.Point) (*scene.Node, tool.Handle) {
	e := t.e
	test := func(n *scene.Node, superSelected bool) tool.Handle {
		if n == e.root {
			return tool.HandleNone
		}
		local := n.AncestorToLocal(p, e.root)
		return tool.HandleAt(e.tools.For(n), n, local, superSelected)
	}
	for _, n := range e.selected {
		if h := test(n, false); h != tool.HandleNone {
			return n, h
		}
	}
	for i := len(e.chain) - 1; i >= 0; i-- {
		if h := test(e.chain[i], true); h != tool.HandleNone {
			return e.chain[i], h
		}
	}
	return nil, tool.HandleNone
}

func (t *SelectTool) beginMarquee(s *DragSession, scope *scene.Node, shift bool) {
	s.Mode = DragMarqueeSelect
	s.Scope = scope
	s.ScopeStart = scope.AncestorToLocal(s.Start, t.e.root)
	s.Marquee = scene.Rect{X: s.ScopeStart.X, Y: s.ScopeStart.Y}
	s.PreSelection = t.e.SelectedNodes()
	if shift {
		s.Provisional = slices.Clone(s.PreSelection)
	}
}

// MouseDragged updates the active gesture.
func (t *SelectTool) MouseDragged(ev input.Event) {
	s := t.session
	if s == nil {
		return
	}
	changed := false
	switch s.Mode {
	case DragMove:
		changed = t.dragMove(s, ev)
	case DragRotate:
		changed = t.dragRotate(s, ev)
	case DragResize:
		changed = t.dragResize(s, ev)
	case DragMarqueeSelect:
		t.dragMarquee(s, ev)
	case DragEventDispatch:
		changed = t.e.tools.For(s.EventNode).ProcessEvent(s.EventNode, ev)
	}
	s.Last = ev.Point()
	if changed {
		t.e.notify(Notification{Kind: Repaint})
	}
}

func (t *SelectTool) dragMove(s *DragSession, ev input.Event) bool {
	e := t.e
	nodes := e.SelectedNodes()
	if len(nodes) == 0 || ev.Point() == s.Last {
		return false
	}
	e.setTitle(TitleMove)
	for _, n := range nodes {
		parent := n.Parent()
		if parent == nil {
			continue
		}
		from := parent.AncestorToLocal(s.Last, e.root)
		to := parent.AncestorToLocal(ev.Point(), e.root)
		d := to.Sub(from)
		t.recordStart(s, n, scene.PropX, scene.PropY)
		n.SetXY(n.X()+d.X, n.Y()+d.Y)
	}
	return true
}

func (t *SelectTool) dragRotate(s *DragSession, ev input.Event) bool {
	e := t.e
	dy := ev.Y - s.Last.Y
	nodes := e.SelectedNodes()
	if len(nodes) == 0 || dy == 0 {
		return false
	}
	e.setTitle(TitleRotate)
	for _, n := range nodes {
		t.recordStart(s, n, scene.PropRotation)
		n.SetRotation(n.Rotation() + dy)
	}
	return true
}

func (t *SelectTool) dragResize(s *DragSession, ev input.Event) bool {
	e := t.e
	n := s.HandleNode
	parent := n.Parent()
	if parent == nil {
		return false
	}
	e.setTitle(TitleResize)
	t.recordStart(s, n, scene.PropX, scene.PropY, scene.PropWidth, scene.PropHeight)
	to := parent.AncestorToLocal(ev.Point(), e.root)
	e.tools.For(n).MoveHandle(n, s.Handle, s.Anchor, to)
	return true
}

func (t *SelectTool) dragMarquee(s *DragSession, ev input.Event) {
	e := t.e
	cur := s.Scope.AncestorToLocal(ev.Point(), e.root)
	s.Marquee = scene.RectFromPoints(s.ScopeStart, cur)

	var sel []*scene.Node
	for _, c := range s.Scope.Children() {
		inRect := c.BoundsInParent().Intersects(s.Marquee)
		if ev.IsShiftDown() {
			inRect = inRect != slices.Contains(s.PreSelection, c)
		}
		if inRect {
			sel = append(sel, c)
		}
	}
	s.Provisional = sel
	e.notify(Notification{Kind: Repaint})
}

// recordStart reports the current value of each property to the keyframe
// recorder, once per node and property for the gesture.
func (t *SelectTool) recordStart(s *DragSession, n *scene.Node, props ...string) {
	e := t.e
	if e.recorder == nil || e.timeCursor == 0 {
		return
	}
	if s.recorded == nil {
		s.recorded = make(map[recordKey]bool)
	}
	for _, prop := range props {
		k := recordKey{n, prop}
		if s.recorded[k] {
			continue
		}
		s.recorded[k] = true
		v, _ := n.FloatProp(prop)
		e.recorder.RecordStartValue(n, prop, v)
	}
}

// MouseReleased ends the gesture and runs work deferred to mouse-up, which
// commits the batch collected during the drag.
func (t *SelectTool) MouseReleased(ev input.Event) {
	e := t.e
	if s := t.session; s != nil {
		switch s.Mode {
		case DragMarqueeSelect:
			if len(s.Provisional) > 0 {
				e.SetSelectedNodes(s.Provisional)
			} else {
				e.SetSuperSelectedNode(s.Scope)
				e.notify(Notification{Kind: Repaint})
			}
		case DragEventDispatch:
			e.tools.For(s.EventNode).ProcessEvent(s.EventNode, ev)
		}
	}
	t.endGesture()
}

// Cancel abandons the gesture without a release event. Geometry already
// changed by the drag stays and is committed like on a release; a marquee
// is dropped without touching the selection.
func (t *SelectTool) Cancel() {
	if t.session == nil && !t.e.mouseDown {
		return
	}
	t.endGesture()
	t.e.notify(Notification{Kind: Repaint})
}

func (t *SelectTool) endGesture() {
	e := t.e
	t.session = nil
	e.mouseDown = false
	e.runMouseUpTasks()
	if b := e.undo.Active(); b != nil && b.Len() == 0 {
		e.undo.Commit()
	}
}

// MouseMoved tracks the node under the pointer.
func (t *SelectTool) MouseMoved(ev input.Event) {
	if t.session != nil {
		return
	}
	if hit := t.e.HitTest(ev.Point()); hit != t.hover {
		t.hover = hit
		t.e.notify(Notification{Kind: Repaint})
	}
}
