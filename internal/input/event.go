// Package input defines the pointer events consumed by the editor.
package input

import "github.com/inamate/inamate/editor-go/internal/scene"

// EventType identifies the kind of pointer event.
type EventType uint8

const (
	MousePressed EventType = iota
	MouseDragged
	MouseReleased
	MouseMoved
)

var eventTypeNames = [...]string{
	MousePressed:  "pressed",
	MouseDragged:  "dragged",
	MouseReleased: "released",
	MouseMoved:    "moved",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// ParseEventType maps a wire name back to its EventType.
func ParseEventType(s string) (EventType, bool) {
	for i, name := range eventTypeNames {
		if name == s {
			return EventType(i), true
		}
	}
	return 0, false
}

// KeyModifiers is a bitmask of modifier keys held during an event.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Event is a pointer event in editor coordinates.
type Event struct {
	Type       EventType
	X, Y       float64
	Modifiers  KeyModifiers
	ClickCount int
}

// Point returns the event location.
func (e Event) Point() scene.Point { return scene.Pt(e.X, e.Y) }

func (e Event) IsShiftDown() bool { return e.Modifiers&ModShift != 0 }
func (e Event) IsAltDown() bool   { return e.Modifiers&ModAlt != 0 }

// Press builds a single-click press event.
func Press(x, y float64, mods KeyModifiers) Event {
	return Event{Type: MousePressed, X: x, Y: y, Modifiers: mods, ClickCount: 1}
}

// Drag builds a drag event.
func Drag(x, y float64, mods KeyModifiers) Event {
	return Event{Type: MouseDragged, X: x, Y: y, Modifiers: mods}
}

// Release builds a release event.
func Release(x, y float64, mods KeyModifiers) Event {
	return Event{Type: MouseReleased, X: x, Y: y, Modifiers: mods}
}
