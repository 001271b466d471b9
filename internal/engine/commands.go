package engine

import (
	"github.com/inamate/inamate/editor-go/internal/editor"
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/tool"
)

// Overlay operations.
const (
	OpOutline      = "outline"      // selected node bounds
	OpSuperOutline = "superOutline" // super-selected node bounds
	OpHandle       = "handle"       // resize handle glyph
	OpMarquee      = "marquee"      // rubber band rect
	OpHover        = "hover"        // node under the pointer
)

// DrawCommand is one overlay primitive. Rect is in the local space described
// by Transform, an [a, b, c, d, e, f] matrix into editor coordinates.
type DrawCommand struct {
	Op        string     `json:"op"`
	ObjectID  string     `json:"objectId,omitempty"`
	Handle    string     `json:"handle,omitempty"`
	Transform []float64  `json:"transform"`
	Rect      scene.Rect `json:"rect"`
}

// CompileOverlay lists the selection decorations of e in painter's order:
// super-selected chain outermost first, then the selection, then the marquee.
func CompileOverlay(e *editor.Editor) []DrawCommand {
	root := e.Root()
	tools := e.Tools()
	var commands []DrawCommand

	if hover := e.SelectTool().Hover(); hover != nil && hover != root && !e.IsSelected(hover) {
		commands = append(commands, DrawCommand{
			Op:        OpHover,
			ObjectID:  hover.ID,
			Transform: toSlice(hover.TransformToAncestor(root)),
			Rect:      hover.BoundsLocal(),
		})
	}

	for _, n := range e.SuperSelectedChain() {
		if n == root {
			continue
		}
		t := tools.For(n)
		m := toSlice(n.TransformToAncestor(root))
		commands = append(commands, DrawCommand{
			Op:        OpSuperOutline,
			ObjectID:  n.ID,
			Transform: m,
			Rect:      t.SuperSelectedBounds(n),
		})
		commands = appendHandles(commands, t, n, m, true)
	}

	for _, n := range e.SelectedNodes() {
		t := tools.For(n)
		m := toSlice(n.TransformToAncestor(root))
		commands = append(commands, DrawCommand{
			Op:        OpOutline,
			ObjectID:  n.ID,
			Transform: m,
			Rect:      n.BoundsLocal(),
		})
		commands = appendHandles(commands, t, n, m, false)
	}

	if s := e.SelectTool().Session(); s != nil && s.Mode == editor.DragMarqueeSelect && s.Scope != nil {
		commands = append(commands, DrawCommand{
			Op:        OpMarquee,
			ObjectID:  s.Scope.ID,
			Transform: toSlice(s.Scope.TransformToAncestor(root)),
			Rect:      s.Marquee,
		})
	}

	return commands
}

func appendHandles(commands []DrawCommand, t tool.Tool, n *scene.Node, m []float64, superSelected bool) []DrawCommand {
	for i := 0; i < t.HandleCount(n); i++ {
		h := tool.Handle(i)
		commands = append(commands, DrawCommand{
			Op:        OpHandle,
			ObjectID:  n.ID,
			Handle:    h.String(),
			Transform: m,
			Rect:      tool.HandleDrawRect(t, n, h, superSelected),
		})
	}
	return commands
}

func toSlice(m scene.Matrix2D) []float64 {
	return m[:]
}
