package scene

import "fmt"

// Change describes one property mutation of Node. For PropChild, Index is the
// child position and exactly one of Old/New holds the child: New for an
// insertion, Old for a removal.
type Change struct {
	Node     *Node
	Property string
	Old      any
	New      any
	Index    int
}

// Undo reverts the change on its node.
func (c Change) Undo() { c.apply(c.New, c.Old) }

// Redo re-applies the change on its node.
func (c Change) Redo() { c.apply(c.Old, c.New) }

func (c Change) apply(from, to any) {
	n := c.Node
	switch c.Property {
	case PropChild:
		if child, ok := from.(*Node); ok && child != nil {
			n.RemoveChild(child)
		}
		if child, ok := to.(*Node); ok && child != nil {
			n.InsertChild(child, c.Index)
		}
	case PropX, PropY, PropWidth, PropHeight, PropRotation, PropScaleX, PropScaleY:
		v, _ := to.(float64)
		n.setFloatProp(c.Property, v)
	case PropName:
		s, _ := to.(string)
		n.SetName(s)
	case PropText:
		s, _ := to.(string)
		n.SetText(s)
	case PropParent, PropShowing, PropNeedsLayout:
	default:
		n.SetProp(c.Property, to)
	}
}

func (n *Node) setFloatProp(prop string, v float64) {
	switch prop {
	case PropX:
		n.SetX(v)
	case PropY:
		n.SetY(v)
	case PropWidth:
		n.SetWidth(v)
	case PropHeight:
		n.SetHeight(v)
	case PropRotation:
		n.SetRotation(v)
	case PropScaleX:
		n.SetScaleX(v)
	case PropScaleY:
		n.SetScaleY(v)
	}
}

// FloatProp returns the numeric geometry property named prop.
func (n *Node) FloatProp(prop string) (float64, bool) {
	switch prop {
	case PropX:
		return n.x, true
	case PropY:
		return n.y, true
	case PropWidth:
		return n.width, true
	case PropHeight:
		return n.height, true
	case PropRotation:
		return n.rotation, true
	case PropScaleX:
		return n.scaleX, true
	case PropScaleY:
		return n.scaleY, true
	}
	return 0, false
}

func (c Change) String() string {
	if c.Property == PropChild {
		if c.New != nil {
			return fmt.Sprintf("%s: insert child at %d", c.Node.ID, c.Index)
		}
		return fmt.Sprintf("%s: remove child at %d", c.Node.ID, c.Index)
	}
	return fmt.Sprintf("%s.%s: %v -> %v", c.Node.ID, c.Property, c.Old, c.New)
}

// --- Deep change listeners ---

// ChangeListener receives changes of a node and all of its descendants.
type ChangeListener func(Change)

type changeListener struct {
	id uint32
	fn ChangeListener
}

// ListenerHandle allows removing a registered listener.
type ListenerHandle struct {
	node *Node
	id   uint32
}

// Remove unregisters the listener so it no longer fires.
func (h ListenerHandle) Remove() {
	if h.node == nil {
		return
	}
	for i := range h.node.listeners {
		if h.node.listeners[i].id == h.id {
			h.node.listeners = append(h.node.listeners[:i:i], h.node.listeners[i+1:]...)
			return
		}
	}
}

// AddDeepChangeListener registers fn for changes on n and every descendant.
func (n *Node) AddDeepChangeListener(fn ChangeListener) ListenerHandle {
	n.listenerID++
	id := n.listenerID
	n.listeners = append(n.listeners, changeListener{id: id, fn: fn})
	return ListenerHandle{node: n, id: id}
}

// fire delivers c to the listeners of n and of each ancestor, nearest first.
func (n *Node) fire(c Change) {
	for a := n; a != nil; a = a.parent {
		if len(a.listeners) == 0 {
			continue
		}
		ls := append([]changeListener(nil), a.listeners...)
		for _, l := range ls {
			l.fn(c)
		}
	}
}
