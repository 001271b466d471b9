// Package engine wraps one editor behind a string-in, string-out API for hosts
// that cannot hold Go values, such as the browser binding and the replay tool.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/editor"
	"github.com/inamate/inamate/editor-go/internal/input"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

var ErrUnknownCommand = editor.ErrUnknownCommand

// Engine owns the document tree and the editor operating on it.
type Engine struct {
	ed *editor.Editor

	// Dirty flag - the host should redraw
	dirty bool
}

// NewEngine creates an engine editing an empty document.
func NewEngine(opts ...editor.Option) *Engine {
	root, err := document.NewEmptyDocument().BuildTree()
	if err != nil {
		panic(fmt.Sprintf("empty document: %v", err))
	}
	e := &Engine{ed: editor.New(root, opts...), dirty: true}
	e.ed.OnChange(func(editor.Notification) { e.dirty = true })
	return e
}

// Editor returns the wrapped editor.
func (e *Engine) Editor() *editor.Editor { return e.ed }

// --- Commands (host → engine) ---

// LoadDocument replaces the content with a document in JSON form. Selection
// and undo history are reset.
func (e *Engine) LoadDocument(jsonData string) error {
	root, err := document.Decode([]byte(jsonData))
	if err != nil {
		return err
	}
	e.ed.SetContent(root)
	e.dirty = true
	return nil
}

// LoadSampleDocument loads the built-in sample document.
func (e *Engine) LoadSampleDocument() {
	root, err := document.NewSampleDocument().BuildTree()
	if err != nil {
		panic(fmt.Sprintf("sample document: %v", err))
	}
	e.ed.SetContent(root)
	e.dirty = true
}

func (e *Engine) HandleEvent(ev input.Event) { e.ed.HandleEvent(ev) }

func (e *Engine) MousePressed(x, y float64, mods input.KeyModifiers, clicks int) {
	if clicks < 1 {
		clicks = 1
	}
	e.ed.HandleEvent(input.Event{Type: input.MousePressed, X: x, Y: y, Modifiers: mods, ClickCount: clicks})
}

func (e *Engine) MouseDragged(x, y float64, mods input.KeyModifiers) {
	e.ed.HandleEvent(input.Drag(x, y, mods))
}

func (e *Engine) MouseReleased(x, y float64, mods input.KeyModifiers) {
	e.ed.HandleEvent(input.Release(x, y, mods))
}

func (e *Engine) MouseMoved(x, y float64) {
	e.ed.HandleEvent(input.Event{Type: input.MouseMoved, X: x, Y: y})
}

// Command runs a named editor command that takes no arguments.
func (e *Engine) Command(name string) error {
	return e.ed.Run(editor.Command{Name: name})
}

// Run executes an editor command with its arguments.
func (e *Engine) Run(cmd editor.Command) error {
	return e.ed.Run(cmd)
}

// RunJSON executes a command encoded as {"command": ..., "nodeIds": [...]}.
func (e *Engine) RunJSON(jsonData string) error {
	var cmd editor.Command
	if err := json.Unmarshal([]byte(jsonData), &cmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	return e.ed.Run(cmd)
}

// SetSelection selects the nodes with the given IDs. Unknown IDs are skipped.
func (e *Engine) SetSelection(ids []string) {
	e.ed.SetSelectedNodes(e.nodes(ids))
}

// SetTimeCursor moves the time cursor used by the keyframe hook.
func (e *Engine) SetTimeCursor(t float64) { e.ed.SetTimeCursor(t) }

// Tick runs deferred work and reports whether the host should redraw.
func (e *Engine) Tick() bool {
	e.ed.RunIdle()
	dirty := e.dirty
	e.dirty = false
	return dirty
}

// --- Queries (host ← engine) ---

// HitTest returns the ID of the node a click at (x, y) would target.
func (e *Engine) HitTest(x, y float64) string {
	if n := e.ed.HitTest(scene.Pt(x, y)); n != nil {
		return n.ID
	}
	return ""
}

func (e *Engine) GetDocument() string {
	data, err := document.Encode(e.ed.Root())
	if err != nil {
		return "{}"
	}
	return string(data)
}

type selectionState struct {
	Selected      []string `json:"selected"`
	SuperSelected []string `json:"superSelected"`
	DragMode      string   `json:"dragMode"`
	CanUndo       bool     `json:"canUndo"`
	CanRedo       bool     `json:"canRedo"`
}

// GetSelection returns the selection, the super-selected chain and the undo
// availability as JSON.
func (e *Engine) GetSelection() string {
	data, _ := json.Marshal(selectionState{
		Selected:      nodeIDs(e.ed.SelectedNodes()),
		SuperSelected: nodeIDs(e.ed.SuperSelectedChain()),
		DragMode:      e.GetDragMode(),
		CanUndo:       e.ed.CanUndo(),
		CanRedo:       e.ed.CanRedo(),
	})
	return string(data)
}

func (e *Engine) GetSuperSelection() string {
	if n := e.ed.SuperSelectedNode(); n != nil {
		return n.ID
	}
	return ""
}

func (e *Engine) GetDragMode() string {
	return e.ed.SelectTool().Mode().String()
}

// GetSelectionBounds returns the union of the selected nodes' bounds in
// editor coordinates as JSON, or "null" without a selection.
func (e *Engine) GetSelectionBounds() string {
	sel := e.ed.SelectedNodes()
	if len(sel) == 0 {
		return "null"
	}
	root := e.ed.Root()
	var bounds scene.Rect
	for i, n := range sel {
		r := n.TransformToAncestor(root).ApplyRect(n.BoundsLocal())
		if i == 0 {
			bounds = r
		} else {
			bounds = bounds.Union(r)
		}
	}
	data, _ := json.Marshal(bounds)
	return string(data)
}

// Overlay returns the selection overlay draw commands as JSON.
func (e *Engine) Overlay() string {
	data, _ := json.Marshal(CompileOverlay(e.ed))
	return string(data)
}

func (e *Engine) nodes(ids []string) []*scene.Node {
	byID := make(map[string]*scene.Node)
	e.ed.Root().Walk(func(n *scene.Node) { byID[n.ID] = n })
	var out []*scene.Node
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

func nodeIDs(nodes []*scene.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
