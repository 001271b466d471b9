package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/scene"
	"github.com/inamate/inamate/editor-go/internal/tool"
)

func TestSetSelectedNodesSuperSelectsParent(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a, f.b})

	assert.ElementsMatch(t, []*scene.Node{f.a, f.b}, f.e.SelectedNodes())
	assert.Equal(t, []*scene.Node{f.root, f.page}, f.e.SuperSelectedChain())
	assert.Equal(t, f.page, f.e.SuperSelectedNode())
	assert.Equal(t, f.a, f.e.SelectedOrSuperSelectedNode())
	assert.Equal(t, 1, f.seen.count(SelectedNodesChanged))
}

func TestSetSelectedNodesDropsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a, nil, f.a, f.b})
	assert.Equal(t, []*scene.Node{f.a, f.b}, f.e.SelectedNodes())
}

func TestSetSelectedNodesEmptyKeepsScope(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.l})
	f.seen.reset()

	f.e.SetSelectedNodes(nil)
	assert.Empty(t, f.e.SelectedNodes())
	assert.Equal(t, []*scene.Node{f.root, f.page, f.g}, f.e.SuperSelectedChain())
	assert.Equal(t, []NotificationKind{SelectedNodesChanged}, f.seen.kinds)
}

// A list starting at the root is a saved chain: its last node becomes the
// scope and nothing is selected.
func TestSetSelectedNodesRootListQuirk(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.root, f.page, f.g})
	assert.Equal(t, []*scene.Node{f.root, f.page, f.g}, f.e.SuperSelectedChain())
	assert.Empty(t, f.e.SelectedNodes())

	f.e.SetSelectedNodes([]*scene.Node{f.root})
	assert.Equal(t, []*scene.Node{f.root}, f.e.SuperSelectedChain())
}

// Mixed parents are not validated: the first node's parent becomes the scope.
func TestSetSelectedNodesMixedParents(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.l, f.a})
	assert.Equal(t, []*scene.Node{f.l, f.a}, f.e.SelectedNodes())
	assert.Equal(t, f.g, f.e.SuperSelectedNode())
}

func TestSetSelectedNodesDetachedBeeps(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{scene.New(scene.KindRect)})
	assert.Equal(t, 1, f.e.Beeps())
	assert.Equal(t, []*scene.Node{f.root}, f.e.SuperSelectedChain())
}

func TestAddRemoveSelectedNode(t *testing.T) {
	f := newFixture(t)
	f.e.AddSelectedNode(f.a)
	f.e.AddSelectedNode(f.b)
	f.e.AddSelectedNode(f.b)
	assert.Equal(t, []*scene.Node{f.a, f.b}, f.e.SelectedNodes())

	f.e.RemoveSelectedNode(f.a)
	assert.Equal(t, []*scene.Node{f.b}, f.e.SelectedNodes())
	f.e.RemoveSelectedNode(f.a)
	assert.Equal(t, []*scene.Node{f.b}, f.e.SelectedNodes())
	assert.True(t, f.e.IsSelected(f.b))
}

func TestSetSuperSelectedNodeBuildsPath(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a})

	f.e.SetSuperSelectedNode(f.l)
	assert.Equal(t, []*scene.Node{f.root, f.page, f.g, f.l}, f.e.SuperSelectedChain())
	assert.Empty(t, f.e.SelectedNodes())
	assert.True(t, f.e.IsSuperSelected(f.g))

	f.e.SetSuperSelectedNode(f.text)
	assert.Equal(t, []*scene.Node{f.root, f.page, f.text}, f.e.SuperSelectedChain())
}

func TestSetSuperSelectedNodeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.e.SetSuperSelectedNode(f.g)
	chain := f.e.SuperSelectedChain()
	f.seen.reset()

	f.e.SetSuperSelectedNode(f.g)
	assert.Equal(t, chain, f.e.SuperSelectedChain())
	assert.Empty(t, f.seen.kinds)
}

func TestSetSuperSelectedNodeRejectsForeignNodes(t *testing.T) {
	f := newFixture(t)
	f.e.SetSuperSelectedNode(nil)
	f.e.SetSuperSelectedNode(scene.New(scene.KindGroup))
	assert.Equal(t, 2, f.e.Beeps())
	assert.Equal(t, []*scene.Node{f.root}, f.e.SuperSelectedChain())
}

type trackingTool struct {
	tool.GroupTool
	log *[]string
}

func (t trackingTool) DidBecomeSuperSelected(n *scene.Node) {
	*t.log = append(*t.log, "did "+n.Name())
}

func (t trackingTool) WillLoseSuperSelected(n *scene.Node) {
	*t.log = append(*t.log, "will "+n.Name())
}

func TestSuperSelectionCallbacksOrder(t *testing.T) {
	var log []string
	tools := tool.NewRegistry()
	tools.Register(scene.KindGroup, trackingTool{log: &log})

	root := named(scene.New(scene.KindGroup), "r")
	g1 := named(scene.New(scene.KindGroup), "g1")
	g2 := named(scene.New(scene.KindGroup), "g2")
	other := named(scene.New(scene.KindGroup), "other")
	root.AddChild(g1)
	g1.AddChild(g2)
	root.AddChild(other)

	e := New(root, WithTools(tools))
	assert.Equal(t, []string{"did r"}, log)

	log = nil
	e.SetSuperSelectedNode(g2)
	assert.Equal(t, []string{"did g1", "did g2"}, log)

	log = nil
	e.SetSuperSelectedNode(other)
	assert.Equal(t, []string{"will g2", "will g1", "did other"}, log)
}

func TestPopSelection(t *testing.T) {
	f := newFixture(t)

	f.e.SetSelectedNodes([]*scene.Node{f.a})
	f.e.PopSelection()
	assert.Empty(t, f.e.SelectedNodes())
	assert.Equal(t, []*scene.Node{f.root, f.page}, f.e.SuperSelectedChain())

	// The page sits in the document, which enters its children right away,
	// so popping goes straight to the root.
	f.e.PopSelection()
	assert.Equal(t, []*scene.Node{f.root}, f.e.SuperSelectedChain())

	f.e.PopSelection()
	assert.Equal(t, 1, f.e.Beeps())
}

func TestPopSelectionSelectsScope(t *testing.T) {
	f := newFixture(t)
	f.e.SetSuperSelectedNode(f.g)
	f.e.PopSelection()
	assert.Equal(t, []*scene.Node{f.g}, f.e.SelectedNodes())
	assert.Equal(t, f.page, f.e.SuperSelectedNode())

	f.e.SetSuperSelectedNode(f.text)
	f.e.PopSelection()
	assert.Equal(t, []*scene.Node{f.text}, f.e.SelectedNodes())
	require.Equal(t, f.page, f.e.SuperSelectedNode())
}
