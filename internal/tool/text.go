package tool

import (
	"github.com/inamate/inamate/editor-go/internal/input"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

// CharAdvance is the fixed glyph advance used to map a click to a caret index.
const CharAdvance = 8.0

// TextSelection is the caret range stored on text nodes under
// scene.PropTextSelection.
type TextSelection struct {
	Anchor int `json:"anchor"`
	Caret  int `json:"caret"`
}

// TextTool handles text nodes. A double click enters the text; while it is the
// scope, presses and drags place the caret instead of moving the node.
type TextTool struct{ Base }

func (TextTool) IsSuperSelectable(*scene.Node) bool { return true }

func (TextTool) ProcessEvent(n *scene.Node, ev input.Event) bool {
	switch ev.Type {
	case input.MousePressed, input.MouseDragged, input.MouseReleased:
	default:
		return false
	}
	p := n.AncestorToLocal(ev.Point(), n.Root())
	if ev.Type == input.MousePressed && !n.BoundsLocal().Contains(p) {
		return false
	}

	caret := caretIndex(n, p.X)
	sel, _ := n.Prop(scene.PropTextSelection).(TextSelection)
	switch ev.Type {
	case input.MousePressed:
		sel = TextSelection{Anchor: caret, Caret: caret}
	default:
		sel.Caret = caret
	}
	n.SetProp(scene.PropTextSelection, sel)
	return true
}

func (TextTool) WillLoseSuperSelected(n *scene.Node) {
	n.SetProp(scene.PropTextSelection, nil)
}

func caretIndex(n *scene.Node, x float64) int {
	i := int(x/CharAdvance + 0.5)
	return max(0, min(i, len([]rune(n.Text()))))
}
