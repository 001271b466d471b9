package scene

import (
	"reflect"
	"slices"

	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// Kind tags the node variant. Tools are registered per kind.
type Kind string

const (
	KindDocument Kind = "Document"
	KindPage     Kind = "Page"
	KindGroup    Kind = "Group"
	KindRect     Kind = "Rect"
	KindEllipse  Kind = "Ellipse"
	KindText     Kind = "Text"
	KindImage    Kind = "Image"
)

// Property names carried by change notifications.
const (
	PropX        = "X"
	PropY        = "Y"
	PropWidth    = "Width"
	PropHeight   = "Height"
	PropRotation = "Rotation"
	PropScaleX   = "ScaleX"
	PropScaleY   = "ScaleY"
	PropName     = "Name"
	PropText     = "Text"
	PropChild    = "Child"

	// Bookkeeping properties. They are announced like any other property but
	// never describe document content.
	PropShowing       = "Showing"
	PropNeedsLayout   = "NeedsLayout"
	PropParent        = "Parent"
	PropTextSelection = "TextSelection"
)

// Node is one element of the scene tree. Geometry is expressed in the parent's
// coordinate space: (x, y) is the unrotated origin of the frame, rotation is in
// degrees and, like scale, is applied about the frame center.
type Node struct {
	ID   string
	Kind Kind

	name string
	text string

	x, y, width, height float64
	rotation            float64
	scaleX, scaleY      float64

	showing     bool
	needsLayout bool
	layingOut   int

	props map[string]any

	parent   *Node
	children []*Node

	listeners  []changeListener
	listenerID uint32
}

// New creates a node of the given kind with a fresh ID and unit scale.
func New(kind Kind) *Node {
	return NewWithID(typeid.NewNodeID(), kind)
}

// NewWithID creates a node with a caller-provided ID.
func NewWithID(id string, kind Kind) *Node {
	return &Node{
		ID:     id,
		Kind:   kind,
		scaleX: 1,
		scaleY: 1,
	}
}

// NewFrame creates a node of the given kind placed at (x, y) with size w×h.
func NewFrame(kind Kind, x, y, w, h float64) *Node {
	n := New(kind)
	n.x, n.y, n.width, n.height = x, y, w, h
	return n
}

// --- Geometry accessors ---

func (n *Node) X() float64        { return n.x }
func (n *Node) Y() float64        { return n.y }
func (n *Node) Width() float64    { return n.width }
func (n *Node) Height() float64   { return n.height }
func (n *Node) Rotation() float64 { return n.rotation }
func (n *Node) ScaleX() float64   { return n.scaleX }
func (n *Node) ScaleY() float64   { return n.scaleY }
func (n *Node) Name() string      { return n.name }

func (n *Node) SetX(v float64)        { n.setFloat(PropX, &n.x, v) }
func (n *Node) SetY(v float64)        { n.setFloat(PropY, &n.y, v) }
func (n *Node) SetWidth(v float64)    { n.setFloat(PropWidth, &n.width, v) }
func (n *Node) SetHeight(v float64)   { n.setFloat(PropHeight, &n.height, v) }
func (n *Node) SetRotation(v float64) { n.setFloat(PropRotation, &n.rotation, v) }
func (n *Node) SetScaleX(v float64)   { n.setFloat(PropScaleX, &n.scaleX, v) }
func (n *Node) SetScaleY(v float64)   { n.setFloat(PropScaleY, &n.scaleY, v) }

// SetXY moves the frame origin.
func (n *Node) SetXY(x, y float64) {
	n.SetX(x)
	n.SetY(y)
}

// SetSize sets width and height.
func (n *Node) SetSize(w, h float64) {
	n.SetWidth(w)
	n.SetHeight(h)
}

// SetFrame sets the frame in parent coordinates.
func (n *Node) SetFrame(r Rect) {
	n.SetXY(r.X, r.Y)
	n.SetSize(r.Width, r.Height)
}

// SetName renames the node.
func (n *Node) SetName(s string) {
	if n.name == s {
		return
	}
	old := n.name
	n.name = s
	n.fire(Change{Node: n, Property: PropName, Old: old, New: s})
}

func (n *Node) setFloat(prop string, field *float64, v float64) {
	if *field == v {
		return
	}
	old := *field
	*field = v
	n.fire(Change{Node: n, Property: prop, Old: old, New: v})
}

// Frame returns the unrotated frame in parent coordinates.
func (n *Node) Frame() Rect {
	return Rect{X: n.x, Y: n.y, Width: n.width, Height: n.height}
}

// BoundsLocal returns the node bounds in its own coordinate space.
func (n *Node) BoundsLocal() Rect {
	return Rect{Width: n.width, Height: n.height}
}

// BoundsInParent returns the axis-aligned box of the transformed bounds.
func (n *Node) BoundsInParent() Rect {
	return n.Transform().ApplyRect(n.BoundsLocal())
}

// Transform returns the local-to-parent matrix.
func (n *Node) Transform() Matrix2D {
	return FromTransform(n.x, n.y, n.scaleX, n.scaleY, n.rotation, n.width/2, n.height/2)
}

// LocalToParent converts a point from local to parent coordinates.
func (n *Node) LocalToParent(p Point) Point {
	return n.Transform().Apply(p)
}

// ParentToLocal converts a point from parent to local coordinates.
func (n *Node) ParentToLocal(p Point) Point {
	return n.Transform().Invert().Apply(p)
}

// TransformToAncestor returns the matrix converting local coordinates into the
// coordinate space of anc. If anc is nil or not an ancestor, the result maps
// into the space above the top of the tree.
func (n *Node) TransformToAncestor(anc *Node) Matrix2D {
	m := Identity()
	for c := n; c != nil && c != anc; c = c.parent {
		m = c.Transform().Multiply(m)
	}
	return m
}

// LocalToAncestor converts a local point into anc's coordinate space.
func (n *Node) LocalToAncestor(p Point, anc *Node) Point {
	return n.TransformToAncestor(anc).Apply(p)
}

// AncestorToLocal converts a point in anc's coordinate space into local space.
func (n *Node) AncestorToLocal(p Point, anc *Node) Point {
	return n.TransformToAncestor(anc).Invert().Apply(p)
}

// SetBoundsLocal reshapes the node so that its new local bounds cover what r
// covered in the old local space. Rotation and scale are kept.
func (n *Node) SetBoundsLocal(r Rect) {
	c := n.LocalToParent(r.Center())
	n.SetSize(r.Width, r.Height)
	n.SetXY(c.X-r.Width/2, c.Y-r.Height/2)
}

// --- Text ---

// Text returns the text content of text-like nodes.
func (n *Node) Text() string { return n.text }

// SetText replaces the text content.
func (n *Node) SetText(s string) {
	if n.text == s {
		return
	}
	old := n.text
	n.text = s
	n.fire(Change{Node: n, Property: PropText, Old: old, New: s})
}

// --- Generic properties ---

// Prop returns a generic property value or nil.
func (n *Node) Prop(name string) any {
	return n.props[name]
}

// Props returns the generic property names in sorted order.
func (n *Node) Props() []string {
	names := make([]string, 0, len(n.props))
	for k := range n.props {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// SetProp stores a generic property. A nil value deletes it.
func (n *Node) SetProp(name string, v any) {
	old, had := n.props[name]
	if had && reflect.DeepEqual(old, v) {
		return
	}
	if !had && v == nil {
		return
	}
	if v == nil {
		delete(n.props, name)
	} else {
		if n.props == nil {
			n.props = make(map[string]any)
		}
		n.props[name] = v
	}
	n.fire(Change{Node: n, Property: name, Old: old, New: v})
}

// --- Bookkeeping ---

// Showing reports whether the node is attached to a visible host.
func (n *Node) Showing() bool { return n.showing }

// SetShowing updates the showing flag.
func (n *Node) SetShowing(v bool) {
	if n.showing == v {
		return
	}
	n.showing = v
	n.fire(Change{Node: n, Property: PropShowing, Old: !v, New: v})
}

// NeedsLayout reports whether a layout pass is pending.
func (n *Node) NeedsLayout() bool { return n.needsLayout }

// SetNeedsLayout flags the node for layout.
func (n *Node) SetNeedsLayout(v bool) {
	if n.needsLayout == v {
		return
	}
	n.needsLayout = v
	n.fire(Change{Node: n, Property: PropNeedsLayout, Old: !v, New: v})
}

// BeginLayout marks the node as mid-layout. Calls nest.
func (n *Node) BeginLayout() { n.layingOut++ }

// EndLayout ends a BeginLayout.
func (n *Node) EndLayout() {
	if n.layingOut > 0 {
		n.layingOut--
	}
}

// IsLayingOut reports whether the node is inside a layout pass.
func (n *Node) IsLayingOut() bool { return n.layingOut > 0 }

// --- Hierarchy ---

// Parent returns the parent node or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child list in paint order. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of children.
func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the child at index, or nil if out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// IndexOf returns the child index or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

// AddChild appends child. If child already has a parent, it is removed first.
func (n *Node) AddChild(child *Node) {
	n.InsertChild(child, len(n.children))
}

// InsertChild inserts child at index (clamped to the valid range).
func (n *Node) InsertChild(child *Node, index int) {
	if child == nil || child == n || child.IsAncestorOf(n) {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	index = max(0, min(index, len(n.children)))
	n.children = slices.Insert(n.children, index, child)
	child.parent = n
	child.fire(Change{Node: child, Property: PropParent, Old: (*Node)(nil), New: n})
	n.fire(Change{Node: n, Property: PropChild, New: child, Index: index})
}

// RemoveChild detaches child and returns its former index, or -1.
func (n *Node) RemoveChild(child *Node) int {
	index := n.IndexOf(child)
	if index < 0 {
		return -1
	}
	n.RemoveChildAt(index)
	return index
}

// RemoveChildAt detaches and returns the child at index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	child := n.children[index]
	n.children = slices.Delete(n.children, index, index+1)
	child.fire(Change{Node: child, Property: PropParent, Old: n, New: (*Node)(nil)})
	child.parent = nil
	n.fire(Change{Node: n, Property: PropChild, Old: child, Index: index})
	return child
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Root returns the top of the tree containing n.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// PathFrom returns the nodes from anc down to n, both included. It returns nil
// if anc is neither n nor an ancestor of n.
func (n *Node) PathFrom(anc *Node) []*Node {
	var path []*Node
	for c := n; c != nil; c = c.parent {
		path = append(path, c)
		if c == anc {
			slices.Reverse(path)
			return path
		}
	}
	return nil
}

// Walk visits n and every descendant depth first, in paint order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}
