package document

import (
	"encoding/json"

	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// NewEmptyDocument creates a document with a single empty page.
func NewEmptyDocument() *Document {
	rootID := typeid.NewNodeID()
	pageID := typeid.NewNodeID()
	rootIDPtr := &rootID

	return &Document{
		Version: CurrentVersion,
		Roots:   []string{rootID},
		Objects: map[string]ObjectNode{
			rootID: {
				ID:        rootID,
				Type:      scene.KindDocument,
				Name:      "Document",
				Children:  []string{pageID},
				Transform: Transform{SX: 1, SY: 1},
			},
			pageID: {
				ID:        pageID,
				Type:      scene.KindPage,
				Name:      "Page 1",
				Parent:    rootIDPtr,
				Children:  []string{},
				Transform: Transform{SX: 1, SY: 1},
				Size:      Size{W: 1280, H: 720},
				Props:     map[string]json.RawMessage{"background": json.RawMessage(`"#1a1a2e"`)},
			},
		},
	}
}

// NewSampleDocument creates the document new projects start with: one page
// holding a group of two shapes and a caption.
func NewSampleDocument() *Document {
	rootID := typeid.NewNodeID()
	pageID := typeid.NewNodeID()
	groupID := typeid.NewNodeID()
	rectID := typeid.NewNodeID()
	ellipseID := typeid.NewNodeID()
	textID := typeid.NewNodeID()

	rootIDPtr := &rootID
	pageIDPtr := &pageID
	groupIDPtr := &groupID

	return &Document{
		Version: CurrentVersion,
		Roots:   []string{rootID},
		Objects: map[string]ObjectNode{
			rootID: {
				ID:        rootID,
				Type:      scene.KindDocument,
				Name:      "Document",
				Parent:    nil,
				Children:  []string{pageID},
				Transform: Transform{X: 0, Y: 0, SX: 1, SY: 1, R: 0},
			},
			pageID: {
				ID:        pageID,
				Type:      scene.KindPage,
				Name:      "Page 1",
				Parent:    rootIDPtr,
				Children:  []string{groupID, textID},
				Transform: Transform{X: 0, Y: 0, SX: 1, SY: 1, R: 0},
				Size:      Size{W: 1280, H: 720},
				Props: map[string]json.RawMessage{
					"background": json.RawMessage(`"#1a1a2e"`),
				},
			},
			groupID: {
				ID:        groupID,
				Type:      scene.KindGroup,
				Name:      "Shapes",
				Parent:    pageIDPtr,
				Children:  []string{rectID, ellipseID},
				Transform: Transform{X: 200, Y: 200, SX: 1, SY: 1, R: 0},
				Size:      Size{W: 560, H: 300},
			},
			rectID: {
				ID:        rectID,
				Type:      scene.KindRect,
				Name:      "Rectangle",
				Parent:    groupIDPtr,
				Children:  []string{},
				Transform: Transform{X: 0, Y: 0, SX: 1, SY: 1, R: 0},
				Size:      Size{W: 200, H: 150},
				Props: map[string]json.RawMessage{
					"fill":        json.RawMessage(`"#e94560"`),
					"stroke":      json.RawMessage(`"#000000"`),
					"strokeWidth": json.RawMessage(`2`),
				},
			},
			ellipseID: {
				ID:        ellipseID,
				Type:      scene.KindEllipse,
				Name:      "Ellipse",
				Parent:    groupIDPtr,
				Children:  []string{},
				Transform: Transform{X: 320, Y: 140, SX: 1, SY: 1, R: 0},
				Size:      Size{W: 240, H: 160},
				Props: map[string]json.RawMessage{
					"fill":        json.RawMessage(`"#0f3460"`),
					"stroke":      json.RawMessage(`"#16213e"`),
					"strokeWidth": json.RawMessage(`2`),
				},
			},
			textID: {
				ID:        textID,
				Type:      scene.KindText,
				Name:      "Caption",
				Parent:    pageIDPtr,
				Children:  []string{},
				Transform: Transform{X: 200, Y: 560, SX: 1, SY: 1, R: 0},
				Size:      Size{W: 320, H: 24},
				Text:      "Double-click to edit",
				Props: map[string]json.RawMessage{
					"fill": json.RawMessage(`"#ffffff"`),
				},
			},
		},
	}
}
