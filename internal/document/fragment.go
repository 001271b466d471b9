package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/typeid"
)

// FragmentFormat tags clipboard payloads written by EncodeFragment.
const FragmentFormat = "inamate/fragment"

var ErrIncompatibleFragment = errors.New("clipboard content is not a scene fragment")

// Fragment is a set of sibling subtrees on the clipboard.
type Fragment struct {
	Format string `json:"format"`
	Document
}

// EncodeFragment serializes nodes and their descendants for the clipboard.
func EncodeFragment(nodes []*scene.Node) ([]byte, error) {
	d, err := FromTree(nodes...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Fragment{Format: FragmentFormat, Document: *d})
}

// DecodeFragment parses clipboard text into detached subtrees. Every node gets
// a fresh ID so a fragment can be pasted any number of times.
func DecodeFragment(data []byte) ([]*scene.Node, error) {
	var f Fragment
	if err := json.Unmarshal(data, &f); err != nil || f.Format != FragmentFormat {
		return nil, ErrIncompatibleFragment
	}
	if len(f.Roots) == 0 {
		return nil, fmt.Errorf("%w: fragment has no roots", ErrIncompatibleFragment)
	}
	d := f.WithFreshIDs()
	if len(d.Roots) == 0 {
		return nil, fmt.Errorf("%w: fragment roots are not in its objects", ErrIncompatibleFragment)
	}
	nodes, err := d.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatibleFragment, err)
	}
	return nodes, nil
}

// WithFreshIDs returns a copy of d with every object renamed to a new node ID.
// References that point outside the document are dropped.
func (d *Document) WithFreshIDs() *Document {
	ids := make(map[string]string, len(d.Objects))
	for id := range d.Objects {
		ids[id] = typeid.NewNodeID()
	}

	out := &Document{
		Version: d.Version,
		Roots:   make([]string, 0, len(d.Roots)),
		Objects: make(map[string]ObjectNode, len(d.Objects)),
	}
	for _, id := range d.Roots {
		if nid, ok := ids[id]; ok {
			out.Roots = append(out.Roots, nid)
		}
	}
	for id, obj := range d.Objects {
		obj.ID = ids[id]
		if obj.Parent != nil {
			if pid, ok := ids[*obj.Parent]; ok {
				obj.Parent = &pid
			} else {
				obj.Parent = nil
			}
		}
		children := make([]string, 0, len(obj.Children))
		for _, c := range obj.Children {
			if nid, ok := ids[c]; ok {
				children = append(children, nid)
			}
		}
		obj.Children = children
		out.Objects[obj.ID] = obj
	}
	return out
}
