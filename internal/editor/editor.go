// Package editor implements the interactive core of the scene editor: the
// selection and super-selection model, hit-testing, the mouse-driven
// manipulation state machine and the bridge that turns node changes into undo
// batches.
//
// An Editor is single-threaded. Every method must be called from the goroutine
// that owns it; hosts that receive input concurrently (the websocket session,
// the wasm bridge) funnel it through one goroutine.
package editor

import (
	"log/slog"

	"github.com/inamate/inamate/editor-go/internal/input"
	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/tool"
	"github.com/inamate/inamate/editor-go/internal/undo"
)

// NotificationKind identifies what changed in the editor.
type NotificationKind uint8

const (
	SelectedNodesChanged NotificationKind = iota
	SuperSelectedNodeChanged
	UndoCommitted
	Repaint
	Beep
)

var notificationNames = [...]string{
	SelectedNodesChanged:     "SelectedNodes",
	SuperSelectedNodeChanged: "SuperSelectedNode",
	UndoCommitted:            "UndoCommitted",
	Repaint:                  "Repaint",
	Beep:                     "Beep",
}

func (k NotificationKind) String() string {
	if int(k) < len(notificationNames) {
		return notificationNames[k]
	}
	return "unknown"
}

// Notification is delivered to observers registered with OnChange. Batch is
// set for UndoCommitted.
type Notification struct {
	Kind  NotificationKind
	Batch *undo.Batch
}

// KeyframeRecorder receives the value a property had before the first drag
// sample touched it, once per node and property per drag, while the time
// cursor is away from zero.
type KeyframeRecorder interface {
	RecordStartValue(n *scene.Node, prop string, v float64)
}

// Option configures an Editor.
type Option func(*Editor)

// WithTools replaces the default tool registry.
func WithTools(r *tool.Registry) Option {
	return func(e *Editor) { e.tools = r }
}

// WithUndoManager replaces the default undo manager.
func WithUndoManager(m *undo.Manager) Option {
	return func(e *Editor) { e.undo = m }
}

// WithClipboard sets the clipboard used by Copy, Cut and Paste.
func WithClipboard(c Clipboard) Option {
	return func(e *Editor) { e.clipboard = c }
}

// WithKeyframeRecorder installs the drag start-value hook.
func WithKeyframeRecorder(r KeyframeRecorder) Option {
	return func(e *Editor) { e.recorder = r }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// Editor owns the selection state, the active drag session and the pending
// undo batch for one scene tree.
type Editor struct {
	root      *scene.Node
	tools     *tool.Registry
	undo      *undo.Manager
	clipboard Clipboard
	recorder  KeyframeRecorder
	log       *slog.Logger

	// Selection state
	selected []*scene.Node
	chain    []*scene.Node

	// Input state
	selectTool *SelectTool
	mouseDown  bool
	timeCursor float64

	// Deferred work
	idle         []func()
	onMouseUp    []func()
	flushPending bool
	undoing      bool

	listener  scene.ListenerHandle
	observers []observer
	nextObs   int
	beeps     int
}

type observer struct {
	id int
	fn func(Notification)
}

// New creates an editor for root. The root starts out super-selected.
func New(root *scene.Node, opts ...Option) *Editor {
	e := &Editor{
		tools:     tool.NewRegistry(),
		undo:      undo.NewManager(),
		clipboard: &MemoryClipboard{},
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.selectTool = &SelectTool{e: e}
	e.SetContent(root)
	return e
}

// SetContent replaces the edited tree. Selection, drag state and undo history
// are reset and the new root is super-selected.
func (e *Editor) SetContent(root *scene.Node) {
	e.listener.Remove()
	e.root = root
	e.selectTool.session = nil
	e.mouseDown = false
	e.idle = nil
	e.onMouseUp = nil
	e.flushPending = false
	e.undo.Clear()

	e.selected = nil
	e.chain = nil
	if root == nil {
		return
	}
	e.listener = root.AddDeepChangeListener(e.contentChanged)
	e.chain = []*scene.Node{root}
	e.tools.For(root).DidBecomeSuperSelected(root)
	e.notify(Notification{Kind: SuperSelectedNodeChanged})
}

// Root returns the edited tree.
func (e *Editor) Root() *scene.Node { return e.root }

// Tools returns the tool registry.
func (e *Editor) Tools() *tool.Registry { return e.tools }

// UndoManager returns the undo history.
func (e *Editor) UndoManager() *undo.Manager { return e.undo }

// SelectTool returns the manipulation state machine.
func (e *Editor) SelectTool() *SelectTool { return e.selectTool }

// HandleEvent routes a pointer event to the select tool.
func (e *Editor) HandleEvent(ev input.Event) {
	if e.root == nil {
		return
	}
	switch ev.Type {
	case input.MousePressed:
		e.selectTool.MousePressed(ev)
	case input.MouseDragged:
		e.selectTool.MouseDragged(ev)
	case input.MouseReleased:
		e.selectTool.MouseReleased(ev)
	case input.MouseMoved:
		e.selectTool.MouseMoved(ev)
	}
}

// CancelGesture ends an unfinished press-drag gesture as if the button had
// been released, without delivering the release to the gesture. Hosts call it
// when the source of the press goes away.
func (e *Editor) CancelGesture() { e.selectTool.Cancel() }

// IsMouseDown reports whether a press has not been released yet.
func (e *Editor) IsMouseDown() bool { return e.mouseDown }

// SetTimeCursor moves the animation time cursor. While it is non-zero, drags
// report start values to the KeyframeRecorder.
func (e *Editor) SetTimeCursor(t float64) { e.timeCursor = t }

// TimeCursor returns the animation time cursor.
func (e *Editor) TimeCursor() float64 { return e.timeCursor }

// --- Notifications ---

// OnChange registers fn for editor notifications. The returned function
// unregisters it.
func (e *Editor) OnChange(fn func(Notification)) (remove func()) {
	e.nextObs++
	id := e.nextObs
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

func (e *Editor) notify(n Notification) {
	obs := append([]observer(nil), e.observers...)
	for _, o := range obs {
		o.fn(n)
	}
}

// Beep signals a rejected operation. State is left unchanged.
func (e *Editor) Beep() {
	e.beeps++
	e.log.Debug("editor beep")
	e.notify(Notification{Kind: Beep})
}

// Beeps returns how many times the editor has beeped.
func (e *Editor) Beeps() int { return e.beeps }

// --- Deferred work ---

// invokeLater queues fn for the next RunIdle.
func (e *Editor) invokeLater(fn func()) {
	e.idle = append(e.idle, fn)
}

// invokeOnMouseUp queues fn for the next mouse release.
func (e *Editor) invokeOnMouseUp(fn func()) {
	e.onMouseUp = append(e.onMouseUp, fn)
}

// RunIdle runs the work queued for the next idle tick, including tasks queued
// while it runs. Hosts call it once their input queue is drained. It returns
// the number of tasks run.
func (e *Editor) RunIdle() int {
	n := 0
	for len(e.idle) > 0 {
		fn := e.idle[0]
		e.idle = e.idle[1:]
		fn()
		n++
	}
	return n
}

func (e *Editor) runMouseUpTasks() {
	tasks := e.onMouseUp
	e.onMouseUp = nil
	for _, fn := range tasks {
		fn()
	}
}
