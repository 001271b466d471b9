package editor

import (
	"errors"
	"fmt"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNodeNotFound   = errors.New("not found")
)

// Command names accepted by Run.
const (
	CommandUndo           = "undo"
	CommandRedo           = "redo"
	CommandDelete         = "delete"
	CommandCopy           = "copy"
	CommandCut            = "cut"
	CommandPaste          = "paste"
	CommandPasteAt        = "pasteAt"
	CommandSelectAll      = "selectAll"
	CommandPopSelection   = "popSelection"
	CommandSelect         = "select"
	CommandSuperSelect    = "superSelect"
	CommandClearSelection = "clearSelection"
)

// Command is a named editing command with its arguments. NodeIDs is used by
// select and superSelect, X and Y (root coordinates) by pasteAt.
type Command struct {
	Name    string   `json:"command"`
	NodeIDs []string `json:"nodeIds,omitempty"`
	X       float64  `json:"x,omitempty"`
	Y       float64  `json:"y,omitempty"`
}

// Run executes cmd. Rejected user operations beep as usual; an error is
// returned only for malformed commands, in which case nothing changes.
func (e *Editor) Run(cmd Command) error {
	if e.root == nil {
		return errors.New("editor has no content")
	}
	switch cmd.Name {
	case CommandUndo:
		e.Undo()
	case CommandRedo:
		e.Redo()
	case CommandDelete:
		e.Delete()
	case CommandCopy:
		e.Copy()
	case CommandCut:
		e.Cut()
	case CommandPaste:
		e.Paste()
	case CommandPasteAt:
		e.PasteAt(scene.Pt(cmd.X, cmd.Y))
	case CommandSelectAll:
		e.SelectAll()
	case CommandPopSelection:
		e.PopSelection()
	case CommandClearSelection:
		e.SetSelectedNodes(nil)
	case CommandSelect:
		nodes, err := e.NodesByID(cmd.NodeIDs)
		if err != nil {
			return err
		}
		e.SetSelectedNodes(nodes)
	case CommandSuperSelect:
		nodes, err := e.NodesByID(cmd.NodeIDs)
		if err != nil {
			return err
		}
		if len(nodes) != 1 {
			return fmt.Errorf("superSelect takes exactly one node, got %d", len(nodes))
		}
		e.SetSuperSelectedNode(nodes[0])
	default:
		return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Name)
	}
	return nil
}

// NodesByID resolves IDs to nodes of the edited tree, in order. It fails on
// the first ID that is not in the tree.
func (e *Editor) NodesByID(ids []string) ([]*scene.Node, error) {
	byID := make(map[string]*scene.Node)
	e.root.Walk(func(n *scene.Node) { byID[n.ID] = n })

	nodes := make([]*scene.Node, 0, len(ids))
	for _, id := range ids {
		n, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("node %q %w", id, ErrNodeNotFound)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
