// Package document is the JSON form of a scene tree. It is used for
// snapshots stored per project, for doc.sync messages and for clipboard
// fragments.
package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

// CurrentVersion is the format version written by this package.
const CurrentVersion = 1

var ErrInvalidDocument = errors.New("invalid document")

type Document struct {
	Version int                   `json:"version"`
	Roots   []string              `json:"roots"`
	Objects map[string]ObjectNode `json:"objects"`
}

type Transform struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	SX float64 `json:"sx"`
	SY float64 `json:"sy"`
	R  float64 `json:"r"`
}

type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type ObjectNode struct {
	ID        string                     `json:"id"`
	Type      scene.Kind                 `json:"type"`
	Name      string                     `json:"name,omitempty"`
	Parent    *string                    `json:"parent"`
	Children  []string                   `json:"children"`
	Transform Transform                  `json:"transform"`
	Size      Size                       `json:"size"`
	Text      string                     `json:"text,omitempty"`
	Props     map[string]json.RawMessage `json:"props,omitempty"`
}

// transientProps are editor state and are never written.
var transientProps = map[string]bool{
	scene.PropTextSelection: true,
}

// FromTree encodes the subtrees rooted at roots.
func FromTree(roots ...*scene.Node) (*Document, error) {
	d := &Document{
		Version: CurrentVersion,
		Roots:   make([]string, 0, len(roots)),
		Objects: make(map[string]ObjectNode),
	}
	for _, r := range roots {
		d.Roots = append(d.Roots, r.ID)
		if err := d.add(r, nil); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Document) add(n *scene.Node, parent *string) error {
	if _, dup := d.Objects[n.ID]; dup {
		return fmt.Errorf("%w: node %s appears twice", ErrInvalidDocument, n.ID)
	}
	obj := ObjectNode{
		ID:       n.ID,
		Type:     n.Kind,
		Name:     n.Name(),
		Parent:   parent,
		Children: make([]string, 0, n.NumChildren()),
		Transform: Transform{
			X: n.X(), Y: n.Y(), SX: n.ScaleX(), SY: n.ScaleY(), R: n.Rotation(),
		},
		Size: Size{W: n.Width(), H: n.Height()},
		Text: n.Text(),
	}
	for _, name := range n.Props() {
		if transientProps[name] {
			continue
		}
		raw, err := json.Marshal(n.Prop(name))
		if err != nil {
			return fmt.Errorf("encode prop %s of %s: %w", name, n.ID, err)
		}
		if obj.Props == nil {
			obj.Props = make(map[string]json.RawMessage)
		}
		obj.Props[name] = raw
	}
	for _, c := range n.Children() {
		obj.Children = append(obj.Children, c.ID)
	}
	d.Objects[n.ID] = obj

	id := n.ID
	for _, c := range n.Children() {
		if err := d.add(c, &id); err != nil {
			return err
		}
	}
	return nil
}

// Build decodes the document into detached scene trees, one per root.
func (d *Document) Build() ([]*scene.Node, error) {
	seen := make(map[string]bool, len(d.Objects))
	roots := make([]*scene.Node, 0, len(d.Roots))
	for _, id := range d.Roots {
		n, err := d.build(id, seen)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return roots, nil
}

// BuildTree decodes a document that has exactly one root.
func (d *Document) BuildTree() (*scene.Node, error) {
	if len(d.Roots) != 1 {
		return nil, fmt.Errorf("%w: expected one root, got %d", ErrInvalidDocument, len(d.Roots))
	}
	roots, err := d.Build()
	if err != nil {
		return nil, err
	}
	return roots[0], nil
}

func (d *Document) build(id string, seen map[string]bool) (*scene.Node, error) {
	obj, ok := d.Objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: missing object %s", ErrInvalidDocument, id)
	}
	if seen[id] {
		return nil, fmt.Errorf("%w: object %s is reachable twice", ErrInvalidDocument, id)
	}
	seen[id] = true

	n := scene.NewWithID(obj.ID, obj.Type)
	n.SetName(obj.Name)
	n.SetFrame(scene.Rect{X: obj.Transform.X, Y: obj.Transform.Y, Width: obj.Size.W, Height: obj.Size.H})
	n.SetRotation(obj.Transform.R)
	n.SetScaleX(obj.Transform.SX)
	n.SetScaleY(obj.Transform.SY)
	n.SetText(obj.Text)
	for name, raw := range obj.Props {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: prop %s of %s: %v", ErrInvalidDocument, name, id, err)
		}
		n.SetProp(name, v)
	}
	for _, cid := range obj.Children {
		c, err := d.build(cid, seen)
		if err != nil {
			return nil, err
		}
		n.AddChild(c)
	}
	return n, nil
}

// Marshal encodes d as JSON.
func Marshal(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// Unmarshal decodes and sanity-checks a JSON document.
func Unmarshal(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if d.Version < 1 || d.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, d.Version)
	}
	if d.Objects == nil {
		d.Objects = map[string]ObjectNode{}
	}
	return &d, nil
}

// Encode is shorthand for FromTree followed by Marshal.
func Encode(roots ...*scene.Node) ([]byte, error) {
	d, err := FromTree(roots...)
	if err != nil {
		return nil, err
	}
	return Marshal(d)
}

// Decode is shorthand for Unmarshal followed by BuildTree.
func Decode(data []byte) (*scene.Node, error) {
	d, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return d.BuildTree()
}
