package editor

import "github.com/inamate/inamate/editor-go/internal/scene"

// ignoredProps never enter the undo history.
var ignoredProps = map[string]bool{
	scene.PropShowing:       true,
	scene.PropNeedsLayout:   true,
	scene.PropParent:        true,
	scene.PropTextSelection: true,
}

// contentChanged is the deep change listener installed on the root. Changes
// are collected into the active undo batch, which is committed by a deferred
// flush: on mouse-up while a button is down, otherwise on the next idle tick.
func (e *Editor) contentChanged(c scene.Change) {
	if e.undoing || ignoredProps[c.Property] {
		return
	}
	if c.Node.IsLayingOut() || e.root.IsLayingOut() {
		return
	}

	b := e.undo.BeginOrGetActive()
	if b.Len() == 0 {
		b.UndoSelection = e.selectionSnapshot()
		b.RedoSelection = nil
	}
	e.undo.AddChange(c)
	e.scheduleFlush()
}

func (e *Editor) scheduleFlush() {
	if e.flushPending {
		return
	}
	e.flushPending = true
	if e.mouseDown {
		e.invokeOnMouseUp(e.flush)
	} else {
		e.invokeLater(e.flush)
	}
}

// flush commits the active batch. While the mouse is down it re-arms itself for
// the release.
func (e *Editor) flush() {
	if e.mouseDown {
		e.invokeOnMouseUp(e.flush)
		return
	}
	e.flushPending = false
	e.commitActive()
}

// commitActive hands a non-empty active batch to the undo manager.
func (e *Editor) commitActive() {
	b := e.undo.Active()
	if b == nil {
		return
	}
	if b.Len() == 0 {
		e.undo.Commit()
		return
	}
	if b.RedoSelection == nil {
		b.RedoSelection = e.selectionSnapshot()
	}
	e.undo.Commit()
	e.log.Debug("undo batch committed", "title", b.Title, "changes", b.Len(), "batch", b.ID)
	e.notify(Notification{Kind: UndoCommitted, Batch: b})
}

// setTitle names the batch the next changes land in.
func (e *Editor) setTitle(title string) {
	e.undo.SetTitle(title)
}

// FlushChanges commits any pending batch now instead of waiting for the
// deferred flush.
func (e *Editor) FlushChanges() {
	e.commitActive()
}

// Undo reverts the last batch and restores the selection it was made with.
func (e *Editor) Undo() {
	e.commitActive()
	if !e.undo.HasUndo() {
		e.Beep()
		return
	}
	e.undoing = true
	b := e.undo.Undo()
	e.undoing = false
	e.restoreSelection(b.UndoSelection)
	e.notify(Notification{Kind: Repaint})
}

// Redo re-applies the last undone batch and restores the selection that
// followed it.
func (e *Editor) Redo() {
	e.commitActive()
	if !e.undo.HasRedo() {
		e.Beep()
		return
	}
	e.undoing = true
	b := e.undo.Redo()
	e.undoing = false
	e.restoreSelection(b.RedoSelection)
	e.notify(Notification{Kind: Repaint})
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool {
	b := e.undo.Active()
	return e.undo.HasUndo() || (b != nil && b.Len() > 0)
}

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return e.undo.HasRedo() }
