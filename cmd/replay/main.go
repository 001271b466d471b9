// Command replay runs a recorded stream of editor input against a document
// and prints the resulting document JSON.
//
//	replay -doc page.json -events session.jsonl -out result.json
//
// Each line of the events file is either a pointer event
// ({"event":"pressed","x":120,"y":80,"shift":true}) or a command
// ({"command":"undo"}, {"command":"select","nodeIds":["node_..."]},
// {"command":"pasteAt","x":300,"y":200}).
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/inamate/inamate/editor-go/internal/editor"
	"github.com/inamate/inamate/editor-go/internal/engine"
	"github.com/inamate/inamate/editor-go/internal/session"
)

type step struct {
	session.InputEventPayload
	Command string   `json:"command,omitempty"`
	NodeIDs []string `json:"nodeIds,omitempty"`
}

func main() {
	docPath := flag.String("doc", "", "document JSON to load (default: the sample document)")
	eventsPath := flag.String("events", "-", "JSON lines of events and commands, - for stdin")
	outPath := flag.String("out", "", "write the resulting document here instead of stdout")
	useClipboard := flag.Bool("copy", false, "use the system clipboard for copy, cut and paste")
	verbose := flag.Bool("v", false, "log editor debug output")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	opts := []editor.Option{editor.WithLogger(logger)}
	if *useClipboard {
		if !editor.SystemClipboardAvailable() {
			slog.Error("system clipboard is not available")
			os.Exit(1)
		}
		opts = append(opts, editor.WithClipboard(editor.SystemClipboard{}))
	}
	eng := engine.NewEngine(opts...)

	if *docPath == "" {
		eng.LoadSampleDocument()
	} else {
		data, err := os.ReadFile(*docPath)
		if err != nil {
			slog.Error("read document", "path", *docPath, "error", err)
			os.Exit(1)
		}
		if err := eng.LoadDocument(string(data)); err != nil {
			slog.Error("load document", "path", *docPath, "error", err)
			os.Exit(1)
		}
	}

	events := os.Stdin
	if *eventsPath != "-" {
		f, err := os.Open(*eventsPath)
		if err != nil {
			slog.Error("open events", "path", *eventsPath, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		events = f
	}

	n, err := replay(eng, events)
	if err != nil {
		slog.Error("replay", "steps", n, "error", err)
		os.Exit(1)
	}
	slog.Info("replay finished", "steps", n, "beeps", eng.Editor().Beeps(),
		"undo", eng.Editor().UndoManager().UndoTitle())

	out := eng.GetDocument()
	if *outPath == "" {
		fmt.Println(out)
		return
	}
	if err := os.WriteFile(*outPath, []byte(out+"\n"), 0o644); err != nil {
		slog.Error("write document", "path", *outPath, "error", err)
		os.Exit(1)
	}
}

// replay applies every step in r and returns how many ran. Blank lines and
// lines starting with # are skipped.
func replay(eng *engine.Engine, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n, line := 0, 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var s step
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := apply(eng, s); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		eng.Tick()
		n++
	}
	return n, scanner.Err()
}

func apply(eng *engine.Engine, s step) error {
	switch {
	case s.Command != "":
		return eng.Run(editor.Command{Name: s.Command, NodeIDs: s.NodeIDs, X: s.X, Y: s.Y})
	case s.Event != "":
		ev, err := s.ToEvent()
		if err != nil {
			return err
		}
		eng.HandleEvent(ev)
		return nil
	}
	return errors.New("step has neither an event nor a command")
}
