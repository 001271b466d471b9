package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/inamate/editor-go/internal/scene"
)

func TestHitTestFrontMostWins(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, f.b, f.e.HitTest(scene.Pt(175, 175)))
	assert.Equal(t, f.a, f.e.HitTest(scene.Pt(120, 120)))
}

func TestHitTestOverlappingSiblingsSameBounds(t *testing.T) {
	root := scene.New(scene.KindGroup)
	a := scene.NewFrame(scene.KindRect, 0, 0, 50, 50)
	b := scene.NewFrame(scene.KindRect, 0, 0, 50, 50)
	root.AddChild(a)
	root.AddChild(b)

	e := New(root)
	assert.Equal(t, b, e.HitTest(scene.Pt(25, 25)))
}

func TestHitTestOnlyDirectChildrenOfScope(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, f.g, f.e.HitTest(scene.Pt(420, 420)))

	f.e.SetSuperSelectedNode(f.g)
	assert.Equal(t, f.l, f.e.HitTest(scene.Pt(420, 420)))
}

func TestHitTestWalksUpFromScope(t *testing.T) {
	f := newFixture(t)
	f.e.SetSuperSelectedNode(f.g)
	assert.Equal(t, f.a, f.e.HitTest(scene.Pt(120, 120)))
	assert.Equal(t, f.page, f.e.HitTest(scene.Pt(700, 700)))
}

func TestHitTestFallsBackToPage(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, f.page, f.e.HitTest(scene.Pt(700, 700)))
	assert.Equal(t, f.page, f.e.HitTest(scene.Pt(5000, -20)))
}

func TestHitTestFallsBackToRootWithoutPage(t *testing.T) {
	root := scene.New(scene.KindGroup)
	root.AddChild(scene.NewFrame(scene.KindRect, 0, 0, 10, 10))
	e := New(root)
	assert.Equal(t, root, e.HitTest(scene.Pt(500, 500)))
}

func TestHitTestSuperSelectedBounds(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, f.page, f.e.HitTest(scene.Pt(398, 398)))

	f.e.SetSuperSelectedNode(f.g)
	assert.Equal(t, f.g, f.e.HitTest(scene.Pt(398, 398)))
}

// A sibling painted over the scope's container wins over the scope's own
// child at the same point.
func TestHitTestPrefersSiblingInFront(t *testing.T) {
	f := newFixture(t)
	front := scene.NewFrame(scene.KindRect, 415, 415, 30, 30)
	f.page.AddChild(front)

	f.e.SetSuperSelectedNode(f.g)
	assert.Equal(t, front, f.e.HitTest(scene.Pt(420, 420)))
	assert.Equal(t, f.l, f.e.HitTest(scene.Pt(455, 455)))
}

func TestHitTestRespectsTransforms(t *testing.T) {
	root := scene.New(scene.KindGroup)
	g := scene.NewFrame(scene.KindGroup, 100, 0, 100, 100)
	g.SetRotation(90)
	l := scene.NewFrame(scene.KindRect, 0, 0, 20, 20)
	root.AddChild(g)
	g.AddChild(l)

	e := New(root)
	e.SetSuperSelectedNode(g)
	// Rotating g by 90° about its center maps its local origin to (200, 0).
	assert.Equal(t, l, e.HitTest(scene.Pt(190, 10)))
	assert.Equal(t, g, e.HitTest(scene.Pt(110, 10)))
}

func TestHitTestContainerAcceptingChildren(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, f.page, f.e.HitTestContainerAcceptingChildren(scene.Pt(120, 120)))
	assert.Equal(t, f.g, f.e.HitTestContainerAcceptingChildren(scene.Pt(500, 500)))

	f.e.SetSuperSelectedNode(f.g)
	assert.Equal(t, f.g, f.e.HitTestContainerAcceptingChildren(scene.Pt(420, 420)))
}
