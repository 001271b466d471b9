package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

func TestDeleteAndUndo(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a, f.b})
	f.e.Delete()

	assert.Equal(t, []*scene.Node{f.g, f.text}, f.page.Children())
	assert.Empty(t, f.e.SelectedNodes())
	assert.Equal(t, f.page, f.e.SuperSelectedNode())

	f.e.RunIdle()
	assert.Equal(t, TitleDelete, f.e.UndoManager().UndoTitle())

	f.e.Undo()
	assert.Equal(t, []*scene.Node{f.a, f.b, f.g, f.text}, f.page.Children())
	assert.Equal(t, []*scene.Node{f.a, f.b}, f.e.SelectedNodes())

	f.e.Redo()
	assert.Equal(t, []*scene.Node{f.g, f.text}, f.page.Children())
	assert.Empty(t, f.e.SelectedNodes())
}

func TestDeleteWithoutSelectionBeeps(t *testing.T) {
	f := newFixture(t)
	f.e.Delete()
	assert.Equal(t, 1, f.e.Beeps())
	assert.Equal(t, 4, f.page.NumChildren())
}

func TestCopyPaste(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.g})
	f.e.Copy()
	require.NotEmpty(t, f.clip.text)

	f.e.Paste()
	require.Equal(t, 5, f.page.NumChildren())
	pasted := f.page.ChildAt(4)
	assert.NotEqual(t, f.g.ID, pasted.ID)
	assert.Equal(t, f.g.Frame(), pasted.Frame())
	assert.Equal(t, 1, pasted.NumChildren())
	assert.Equal(t, []*scene.Node{pasted}, f.e.SelectedNodes())

	f.e.RunIdle()
	assert.Equal(t, TitlePaste, f.e.UndoManager().UndoTitle())
	f.e.Undo()
	assert.Equal(t, 4, f.page.NumChildren())
	assert.Equal(t, []*scene.Node{f.g}, f.e.SelectedNodes())
}

func TestPasteIntoSuperSelectedGroup(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a})
	f.e.Copy()

	f.e.SetSuperSelectedNode(f.g)
	f.e.Paste()
	assert.Equal(t, 2, f.g.NumChildren())
	assert.Equal(t, f.g, f.e.SuperSelectedNode())
}

func TestPasteAt(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a, f.b})
	f.e.Copy()

	f.e.PasteAt(scene.Pt(700, 700))
	sel := f.e.SelectedNodes()
	require.Len(t, sel, 2)
	assert.Equal(t, f.page, sel[0].Parent())
	assert.Equal(t, scene.Pt(700, 700), scene.Pt(sel[0].X(), sel[0].Y()))
	assert.Equal(t, scene.Pt(750, 750), scene.Pt(sel[1].X(), sel[1].Y()))

	f.e.PasteAt(scene.Pt(500, 500))
	sel = f.e.SelectedNodes()
	require.Len(t, sel, 2)
	assert.Equal(t, f.g, sel[0].Parent())
	assert.Equal(t, scene.Pt(100, 100), scene.Pt(sel[0].X(), sel[0].Y()))
}

func TestPasteIncompatibleBeeps(t *testing.T) {
	f := newFixture(t)
	f.clip.text = "not a fragment"
	f.e.Paste()
	assert.Equal(t, 1, f.e.Beeps())
	assert.Equal(t, 4, f.page.NumChildren())
	assert.Nil(t, f.e.UndoManager().Active())
}

func TestCut(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.text})
	f.e.Cut()
	assert.Nil(t, f.text.Parent())
	f.e.RunIdle()
	assert.Equal(t, TitleCut, f.e.UndoManager().UndoTitle())

	f.e.Paste()
	sel := f.e.SelectedNodes()
	require.Len(t, sel, 1)
	assert.Equal(t, "hello world", sel[0].Text())
}

func TestCopyWithoutSelectionBeeps(t *testing.T) {
	f := newFixture(t)
	f.e.Copy()
	f.e.Cut()
	assert.Equal(t, 2, f.e.Beeps())
	assert.Empty(t, f.clip.text)
}

func TestSelectAll(t *testing.T) {
	f := newFixture(t)
	f.e.SelectAll()
	assert.Equal(t, []*scene.Node{f.a, f.b, f.g, f.text}, f.e.SelectedNodes())

	f.e.SetSuperSelectedNode(f.l)
	f.e.SelectAll()
	assert.Equal(t, 1, f.e.Beeps())
}

func TestPasteFragmentWithoutUsableRootsBeeps(t *testing.T) {
	f := newFixture(t)
	f.e.SetSelectedNodes([]*scene.Node{f.a})
	f.clip.text = `{"format":"inamate/fragment","version":1,"roots":["ghost"],"objects":{}}`

	f.e.Paste()
	assert.Equal(t, 1, f.e.Beeps())
	assert.Equal(t, []*scene.Node{f.a}, f.e.SelectedNodes())

	assert.NotPanics(t, func() { f.e.PasteAt(scene.Pt(500, 500)) })
	assert.Equal(t, 2, f.e.Beeps())
	assert.Equal(t, 4, f.page.NumChildren())
	assert.Nil(t, f.e.UndoManager().Active())
}
