package session

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/inamate/editor-go/internal/editor"
	"github.com/inamate/inamate/editor-go/internal/input"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Document sync
	TypeDocSync = "doc.sync"

	// Editing
	TypeInputEvent     = "input.event"
	TypeEditCommand    = "edit.command"
	TypeSelectionState = "selection.state"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// DocSyncPayload carries the whole document after each committed edit.
type DocSyncPayload struct {
	Document  json.RawMessage `json:"document"`
	BatchID   string          `json:"batchId,omitempty"`
	BatchName string          `json:"batchTitle,omitempty"`
}

// InputEventPayload is one pointer event in editor coordinates.
type InputEventPayload struct {
	Event      string  `json:"event"` // pressed, dragged, released, moved
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Shift      bool    `json:"shift,omitempty"`
	Ctrl       bool    `json:"ctrl,omitempty"`
	Alt        bool    `json:"alt,omitempty"`
	Meta       bool    `json:"meta,omitempty"`
	ClickCount int     `json:"clickCount,omitempty"`
}

// ToEvent converts the payload into an editor event.
func (p InputEventPayload) ToEvent() (input.Event, error) {
	t, ok := input.ParseEventType(p.Event)
	if !ok {
		return input.Event{}, fmt.Errorf("unknown input event %q", p.Event)
	}
	var mods input.KeyModifiers
	if p.Shift {
		mods |= input.ModShift
	}
	if p.Ctrl {
		mods |= input.ModCtrl
	}
	if p.Alt {
		mods |= input.ModAlt
	}
	if p.Meta {
		mods |= input.ModMeta
	}
	clicks := p.ClickCount
	if t == input.MousePressed && clicks < 1 {
		clicks = 1
	}
	return input.Event{Type: t, X: p.X, Y: p.Y, Modifiers: mods, ClickCount: clicks}, nil
}

// Edit commands accepted in edit.command messages.
const (
	CommandUndo           = editor.CommandUndo
	CommandRedo           = editor.CommandRedo
	CommandDelete         = editor.CommandDelete
	CommandCopy           = editor.CommandCopy
	CommandCut            = editor.CommandCut
	CommandPaste          = editor.CommandPaste
	CommandPasteAt        = editor.CommandPasteAt
	CommandSelectAll      = editor.CommandSelectAll
	CommandPopSelection   = editor.CommandPopSelection
	CommandSelect         = editor.CommandSelect
	CommandSuperSelect    = editor.CommandSuperSelect
	CommandClearSelection = editor.CommandClearSelection
)

// EditCommandPayload is {"command": ..., "nodeIds": [...], "x": ..., "y": ...}.
type EditCommandPayload = editor.Command

// SelectionStatePayload mirrors the shared editor state after each message.
type SelectionStatePayload struct {
	Selected  []string `json:"selected"`
	Chain     []string `json:"superSelected"`
	DragMode  string   `json:"dragMode"`
	CanUndo   bool     `json:"canUndo"`
	CanRedo   bool     `json:"canRedo"`
	UndoTitle string   `json:"undoTitle,omitempty"`
	RedoTitle string   `json:"redoTitle,omitempty"`
	Beeps     int      `json:"beeps"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// newMessage builds a message with a JSON payload. Payload types in this file
// always marshal.
func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
