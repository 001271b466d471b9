package tool

import "github.com/inamate/inamate/editor-go/internal/scene"

// Handle identifies one of the eight resize handles.
type Handle int

const HandleNone Handle = -1

const (
	TopLeft Handle = iota
	TopRight
	BottomLeft
	BottomRight
	CenterLeft
	CenterRight
	TopCenter
	BottomCenter
)

const (
	// HandleSize is the side of the square hit region centered on a handle.
	HandleSize = 8.0

	// SmallNodeSize is the width/height below which handles are drawn smaller.
	SmallNodeSize = 16.0

	smallHandleSize = 4.0
)

var handleNames = [...]string{
	TopLeft:      "TopLeft",
	TopRight:     "TopRight",
	BottomLeft:   "BottomLeft",
	BottomRight:  "BottomRight",
	CenterLeft:   "CenterLeft",
	CenterRight:  "CenterRight",
	TopCenter:    "TopCenter",
	BottomCenter: "BottomCenter",
}

func (h Handle) String() string {
	if h >= 0 && int(h) < len(handleNames) {
		return handleNames[h]
	}
	return "None"
}

// Opposite returns the handle across the rect from h.
func (h Handle) Opposite() Handle {
	switch h {
	case TopLeft:
		return BottomRight
	case TopRight:
		return BottomLeft
	case BottomLeft:
		return TopRight
	case BottomRight:
		return TopLeft
	case CenterLeft:
		return CenterRight
	case CenterRight:
		return CenterLeft
	case TopCenter:
		return BottomCenter
	case BottomCenter:
		return TopCenter
	}
	return HandleNone
}

// pointOn returns the handle position on r.
func (h Handle) pointOn(r scene.Rect) scene.Point {
	var x, y float64
	switch h {
	case TopLeft, CenterLeft, BottomLeft:
		x = r.X
	case TopCenter, BottomCenter:
		x = r.X + r.Width/2
	default:
		x = r.MaxX()
	}
	switch h {
	case TopLeft, TopCenter, TopRight:
		y = r.Y
	case CenterLeft, CenterRight:
		y = r.Y + r.Height/2
	default:
		y = r.MaxY()
	}
	return scene.Pt(x, y)
}

// HandleRect returns the hit region of handle h in n's local coordinates.
func HandleRect(t Tool, n *scene.Node, h Handle, superSelected bool) scene.Rect {
	p := HandlePoint(t, n, h, superSelected)
	return scene.Rect{X: p.X - HandleSize/2, Y: p.Y - HandleSize/2, Width: HandleSize, Height: HandleSize}
}

// HandlePoint returns the local position of handle h.
func HandlePoint(t Tool, n *scene.Node, h Handle, superSelected bool) scene.Point {
	bounds := n.BoundsLocal()
	if superSelected {
		bounds = t.SuperSelectedBounds(n)
	}
	return h.pointOn(bounds)
}

// HandleDrawRect returns the rect a renderer should paint for handle h. Small
// nodes get smaller glyphs; hit-testing always uses HandleRect.
func HandleDrawRect(t Tool, n *scene.Node, h Handle, superSelected bool) scene.Rect {
	r := HandleRect(t, n, h, superSelected)
	if n.Width() < SmallNodeSize || n.Height() < SmallNodeSize {
		c := r.Center()
		return scene.Rect{X: c.X - smallHandleSize/2, Y: c.Y - smallHandleSize/2, Width: smallHandleSize, Height: smallHandleSize}
	}
	return r
}

// HandleAt returns the handle of n whose hit region contains the local point
// p, or HandleNone.
func HandleAt(t Tool, n *scene.Node, p scene.Point, superSelected bool) Handle {
	count := t.HandleCount(n)
	for i := 0; i < count; i++ {
		h := Handle(i)
		if HandleRect(t, n, h, superSelected).Contains(p) {
			return h
		}
	}
	return HandleNone
}
