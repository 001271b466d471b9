// Package undo keeps the history of committed edit batches.
package undo

import (
	"slices"

	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// DefaultMaxDepth is the number of batches kept on the undo stack.
var DefaultMaxDepth = 100

// Change is one reversible mutation.
type Change interface {
	Undo()
	Redo()
}

// Batch is one named group of changes, undone and redone as a unit, with the
// selection to restore on either side.
type Batch struct {
	ID            string
	Title         string
	Changes       []Change
	UndoSelection []*scene.Node
	RedoSelection []*scene.Node
}

// Len returns the number of changes in the batch.
func (b *Batch) Len() int { return len(b.Changes) }

// Manager collects changes into the active batch and manages the undo and
// redo stacks. It is not safe for concurrent use.
type Manager struct {
	MaxDepth int

	active *Batch
	undos  []*Batch
	redos  []*Batch
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{MaxDepth: DefaultMaxDepth}
}

// Active returns the open batch or nil.
func (m *Manager) Active() *Batch { return m.active }

// BeginOrGetActive returns the open batch, creating one if needed.
func (m *Manager) BeginOrGetActive() *Batch {
	if m.active == nil {
		m.active = &Batch{}
	}
	return m.active
}

// SetTitle names the open batch.
func (m *Manager) SetTitle(title string) {
	m.BeginOrGetActive().Title = title
}

// AddChange appends c to the open batch.
func (m *Manager) AddChange(c Change) {
	b := m.BeginOrGetActive()
	b.Changes = append(b.Changes, c)
}

// Commit closes the open batch and pushes it on the undo stack. Empty batches
// are dropped and nil is returned.
func (m *Manager) Commit() *Batch {
	b := m.active
	m.active = nil
	if b == nil || len(b.Changes) == 0 {
		return nil
	}
	b.ID = typeid.NewBatchID()
	m.undos = append(m.undos, b)
	m.redos = m.redos[:0]
	if m.MaxDepth > 0 && len(m.undos) > m.MaxDepth {
		m.undos = slices.Delete(m.undos, 0, len(m.undos)-m.MaxDepth)
	}
	return b
}

// HasUndo reports whether an undo is available.
func (m *Manager) HasUndo() bool { return len(m.undos) > 0 }

// HasRedo reports whether a redo is available.
func (m *Manager) HasRedo() bool { return len(m.redos) > 0 }

// UndoTitle returns the title of the batch Undo would revert.
func (m *Manager) UndoTitle() string {
	if len(m.undos) == 0 {
		return ""
	}
	return m.undos[len(m.undos)-1].Title
}

// RedoTitle returns the title of the batch Redo would re-apply.
func (m *Manager) RedoTitle() string {
	if len(m.redos) == 0 {
		return ""
	}
	return m.redos[len(m.redos)-1].Title
}

// Undo reverts the most recent batch and returns it, or nil if there is none.
func (m *Manager) Undo() *Batch {
	if len(m.undos) == 0 {
		return nil
	}
	b := m.undos[len(m.undos)-1]
	m.undos = m.undos[:len(m.undos)-1]
	for i := len(b.Changes) - 1; i >= 0; i-- {
		b.Changes[i].Undo()
	}
	m.redos = append(m.redos, b)
	return b
}

// Redo re-applies the most recently undone batch and returns it, or nil.
func (m *Manager) Redo() *Batch {
	if len(m.redos) == 0 {
		return nil
	}
	b := m.redos[len(m.redos)-1]
	m.redos = m.redos[:len(m.redos)-1]
	for _, c := range b.Changes {
		c.Redo()
	}
	m.undos = append(m.undos, b)
	return b
}

// Clear drops the open batch and all history.
func (m *Manager) Clear() {
	m.active = nil
	m.undos = nil
	m.redos = nil
}
