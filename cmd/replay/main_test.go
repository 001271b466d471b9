package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/engine"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	root := scene.NewWithID("doc", scene.KindDocument)
	page := scene.NewWithID("page", scene.KindPage)
	page.SetFrame(scene.Rect{Width: 800, Height: 600})
	box := scene.NewWithID("box", scene.KindRect)
	box.SetFrame(scene.Rect{X: 50, Y: 50, Width: 100, Height: 100})
	root.AddChild(page)
	page.AddChild(box)

	data, err := document.Encode(root)
	require.NoError(t, err)
	eng := engine.NewEngine()
	require.NoError(t, eng.LoadDocument(string(data)))
	return eng
}

func boxX(t *testing.T, eng *engine.Engine) float64 {
	t.Helper()
	doc, err := document.Unmarshal([]byte(eng.GetDocument()))
	require.NoError(t, err)
	return doc.Objects["box"].Transform.X
}

func TestReplayDragAndUndo(t *testing.T) {
	eng := newEngine(t)
	events := `
# move box right by 40
{"event":"pressed","x":100,"y":100}
{"event":"dragged","x":140,"y":100}
{"event":"released","x":140,"y":100}
`
	n, err := replay(eng, strings.NewReader(events))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 90.0, boxX(t, eng))

	n, err = replay(eng, strings.NewReader(`{"command":"undo"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 50.0, boxX(t, eng))
}

func TestReplaySelectCommand(t *testing.T) {
	eng := newEngine(t)
	_, err := replay(eng, strings.NewReader(`{"command":"select","nodeIds":["box"]}`+"\n"+`{"command":"delete"}`))
	require.NoError(t, err)

	doc, err := document.Unmarshal([]byte(eng.GetDocument()))
	require.NoError(t, err)
	assert.NotContains(t, doc.Objects, "box")
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name, events string
		ran          int
		want         string
	}{
		{"bad json", `{"event":`, 0, "line 1"},
		{"unknown event", `{"event":"wiggled"}`, 0, "unknown input event"},
		{"unknown command", "{\"command\":\"selectAll\"}\n{\"command\":\"explode\"}", 1, "line 2"},
		{"empty step", `{}`, 0, "neither an event nor a command"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := replay(newEngine(t), strings.NewReader(tt.events))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, tt.ran, n)
		})
	}
}
