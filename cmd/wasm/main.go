//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/inamate/editor-go/internal/engine"
	"github.com/inamate/inamate/editor-go/internal/input"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	inamateEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	inamateEditor.Set("loadDocument", js.FuncOf(loadDocument))
	inamateEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	inamateEditor.Set("mousePressed", js.FuncOf(mousePressed))
	inamateEditor.Set("mouseDragged", js.FuncOf(mouseDragged))
	inamateEditor.Set("mouseReleased", js.FuncOf(mouseReleased))
	inamateEditor.Set("mouseMoved", js.FuncOf(mouseMoved))
	inamateEditor.Set("undo", js.FuncOf(command("undo")))
	inamateEditor.Set("redo", js.FuncOf(command("redo")))
	inamateEditor.Set("deleteSelection", js.FuncOf(command("delete")))
	inamateEditor.Set("copy", js.FuncOf(command("copy")))
	inamateEditor.Set("cut", js.FuncOf(command("cut")))
	inamateEditor.Set("paste", js.FuncOf(command("paste")))
	inamateEditor.Set("selectAll", js.FuncOf(command("selectAll")))
	inamateEditor.Set("popSelection", js.FuncOf(command("popSelection")))
	inamateEditor.Set("runCommand", js.FuncOf(runCommand))
	inamateEditor.Set("setSelection", js.FuncOf(setSelection))
	inamateEditor.Set("setTimeCursor", js.FuncOf(setTimeCursor))
	inamateEditor.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← editor) ---
	inamateEditor.Set("hitTest", js.FuncOf(hitTest))
	inamateEditor.Set("getDocument", js.FuncOf(getDocument))
	inamateEditor.Set("getSelection", js.FuncOf(getSelection))
	inamateEditor.Set("getSuperSelection", js.FuncOf(getSuperSelection))
	inamateEditor.Set("getDragMode", js.FuncOf(getDragMode))
	inamateEditor.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	inamateEditor.Set("getOverlay", js.FuncOf(getOverlay))

	js.Global().Set("inamateEditor", inamateEditor)

	// Signal that WASM is ready
	js.Global().Set("inamateWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON"})
	}
	if err := eng.LoadDocument(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	eng.LoadSampleDocument()
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// pointerArgs reads (x, y, modifiers) from a handler's arguments. Modifiers
// use the input.Mod* bit values.
func pointerArgs(args []js.Value) (x, y float64, mods input.KeyModifiers, ok bool) {
	if len(args) < 2 {
		return 0, 0, 0, false
	}
	x, y = args[0].Float(), args[1].Float()
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		mods = input.KeyModifiers(args[2].Int())
	}
	return x, y, mods, true
}

func mousePressed(this js.Value, args []js.Value) interface{} {
	x, y, mods, ok := pointerArgs(args)
	if !ok {
		return nil
	}
	clicks := 1
	if len(args) > 3 && args[3].Type() == js.TypeNumber {
		clicks = args[3].Int()
	}
	eng.MousePressed(x, y, mods, clicks)
	return nil
}

func mouseDragged(this js.Value, args []js.Value) interface{} {
	if x, y, mods, ok := pointerArgs(args); ok {
		eng.MouseDragged(x, y, mods)
	}
	return nil
}

func mouseReleased(this js.Value, args []js.Value) interface{} {
	if x, y, mods, ok := pointerArgs(args); ok {
		eng.MouseReleased(x, y, mods)
	}
	return nil
}

func mouseMoved(this js.Value, args []js.Value) interface{} {
	if x, y, _, ok := pointerArgs(args); ok {
		eng.MouseMoved(x, y)
	}
	return nil
}

func command(name string) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if err := eng.Command(name); err != nil {
			return js.ValueOf(map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
}

// runCommand takes a JSON command such as
// {"command":"pasteAt","x":120,"y":80} or {"command":"superSelect","nodeIds":["node_..."]}.
func runCommand(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing command JSON"})
	}
	if err := eng.RunJSON(args[0].String()); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func setTimeCursor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.SetTimeCursor(args[0].Float())
	return nil
}

func tick(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Tick())
}

// --- Query Handlers ---

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(args[0].Float(), args[1].Float()))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDocument())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelection())
}

func getSuperSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSuperSelection())
}

func getDragMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDragMode())
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetSelectionBounds())
}

func getOverlay(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Overlay())
}
