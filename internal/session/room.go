package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/inamate/inamate/editor-go/internal/document"
	"github.com/inamate/inamate/editor-go/internal/editor"
	"github.com/inamate/inamate/editor-go/internal/input"
	"github.com/inamate/inamate/editor-go/internal/scene"
)

const (
	inboundBuffer = 256
	saveTimeout   = 5 * time.Second
)

// Peer is one connected participant of a room.
type Peer interface {
	ID() string
	User() string
	Name() string
	Send(msg *Message)
	Close()
}

// Saver persists a snapshot of a room's document.
type Saver interface {
	SaveSnapshot(ctx context.Context, projectID string, doc json.RawMessage) error
}

type eventKind uint8

const (
	eventJoin eventKind = iota
	eventLeave
	eventMessage
)

type roomEvent struct {
	kind eventKind
	peer Peer
	msg  *Message
}

// Room owns the shared editor of one project. All editor access happens on
// the goroutine running Run.
type Room struct {
	projectID string
	editor    *editor.Editor
	saver     Saver
	presence  *PresenceManager
	peers     map[string]Peer
	inbound   chan roomEvent
	done      chan struct{}

	seq       int64
	committed []*editorBatch
	dirty     bool

	// presser is the client whose press started the current gesture.
	presser string
}

type editorBatch struct {
	id, title string
}

// NewRoom creates a room editing root. saver may be nil.
func NewRoom(projectID string, root *scene.Node, saver Saver) *Room {
	r := &Room{
		projectID: projectID,
		saver:     saver,
		presence:  NewPresenceManager(),
		peers:     make(map[string]Peer),
		inbound:   make(chan roomEvent, inboundBuffer),
		done:      make(chan struct{}),
	}
	r.editor = editor.New(root,
		editor.WithClipboard(&editor.MemoryClipboard{}),
		editor.WithLogger(slog.Default().With("project", projectID)),
	)
	r.editor.OnChange(func(n editor.Notification) {
		if n.Kind == editor.UndoCommitted && n.Batch != nil {
			r.committed = append(r.committed, &editorBatch{id: n.Batch.ID, title: n.Batch.Title})
		}
	})
	return r
}

func (r *Room) ProjectID() string { return r.projectID }

// Join, Leave and Submit queue work for the room goroutine. They drop the
// event once the room has stopped.
func (r *Room) Join(p Peer)               { r.enqueue(roomEvent{kind: eventJoin, peer: p}) }
func (r *Room) Leave(p Peer)              { r.enqueue(roomEvent{kind: eventLeave, peer: p}) }
func (r *Room) Submit(p Peer, m *Message) { r.enqueue(roomEvent{kind: eventMessage, peer: p, msg: m}) }

func (r *Room) enqueue(ev roomEvent) {
	select {
	case r.inbound <- ev:
	case <-r.done:
	}
}

// Done is closed once Run has returned.
func (r *Room) Done() <-chan struct{} { return r.done }

// Run processes room events until ctx is cancelled, then saves unsaved edits.
func (r *Room) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case ev := <-r.inbound:
			r.handle(ctx, ev)
		case <-ctx.Done():
			r.drain()
			r.abandonGesture(context.Background())
			if r.dirty {
				r.save(context.Background())
			}
			for _, p := range r.peers {
				p.Close()
			}
			slog.Info("room stopped", "project", r.projectID)
			return
		}
	}
}

// drain handles events queued before the room was cancelled.
func (r *Room) drain() {
	for {
		select {
		case ev := <-r.inbound:
			r.handle(context.Background(), ev)
		default:
			return
		}
	}
}

func (r *Room) handle(ctx context.Context, ev roomEvent) {
	switch ev.kind {
	case eventJoin:
		r.addPeer(ev.peer)
	case eventLeave:
		r.removePeer(ctx, ev.peer)
	case eventMessage:
		r.handleMessage(ctx, ev.peer, ev.msg)
	}
}

func (r *Room) addPeer(p Peer) {
	r.peers[p.ID()] = p
	r.presence.Update(p.ID(), &PresencePayload{DisplayName: p.Name()})

	p.Send(r.stamp(newMessage(TypeWelcome, WelcomePayload{
		ClientID:    p.ID(),
		UserID:      p.User(),
		DisplayName: p.Name(),
	})))
	if msg, err := r.docSync(nil); err == nil {
		p.Send(msg)
	} else {
		slog.Error("encode document", "project", r.projectID, "error", err)
	}
	p.Send(r.stamp(r.presence.StateMessage()))
	p.Send(r.selectionState())

	join := r.stamp(newMessage(TypePresenceJoin, PresenceJoinPayload{
		UserID:      p.User(),
		DisplayName: p.Name(),
	}))
	join.ClientID = p.ID()
	r.broadcast(join, p.ID())

	slog.Info("client joined room",
		"project", r.projectID,
		"client", p.ID(),
		"user", p.User(),
		"clients", len(r.peers),
	)
}

func (r *Room) removePeer(ctx context.Context, p Peer) {
	if _, ok := r.peers[p.ID()]; !ok {
		return
	}
	delete(r.peers, p.ID())
	r.presence.Remove(p.ID())
	p.Close()

	leave := r.stamp(newMessage(TypePresenceLeave, PresenceLeavePayload{UserID: p.User()}))
	leave.ClientID = p.ID()
	r.broadcast(leave, "")

	slog.Info("client left room",
		"project", r.projectID,
		"client", p.ID(),
		"clients", len(r.peers),
	)

	if r.presser == p.ID() {
		r.abandonGesture(ctx)
	}
}

// abandonGesture ends a press whose owner is gone, so changes waiting for the
// release are committed, broadcast and saved.
func (r *Room) abandonGesture(ctx context.Context) {
	r.presser = ""
	if !r.editor.IsMouseDown() {
		return
	}
	slog.Info("abandoned gesture", "project", r.projectID, "mode", r.editor.SelectTool().Mode())
	r.editor.CancelGesture()
	r.editor.RunIdle()
	r.publish(ctx)
}

func (r *Room) handleMessage(ctx context.Context, p Peer, msg *Message) {
	if _, ok := r.peers[p.ID()]; !ok {
		return
	}

	var err error
	switch msg.Type {
	case TypeInputEvent:
		err = r.handleInput(p, msg)
	case TypeEditCommand:
		err = r.handleCommand(msg)
	case TypePresenceUpdate:
		r.handlePresence(p, msg)
		return
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		slog.Warn("rejected message", "project", r.projectID, "client", p.ID(), "type", msg.Type, "error", err)
		p.Send(r.stamp(newMessage(TypeError, ErrorPayload{Message: err.Error()})))
		return
	}

	r.editor.RunIdle()
	r.publish(ctx)
}

func (r *Room) handleInput(p Peer, msg *Message) error {
	var payload InputEventPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("decode input event: %w", err)
	}
	ev, err := payload.ToEvent()
	if err != nil {
		return err
	}
	switch ev.Type {
	case input.MousePressed:
		r.presser = p.ID()
	case input.MouseReleased:
		r.presser = ""
	}
	r.editor.HandleEvent(ev)
	return nil
}

func (r *Room) handleCommand(msg *Message) error {
	var cmd EditCommandPayload
	if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
		return fmt.Errorf("decode edit command: %w", err)
	}

	e := r.editor
	beeps := e.Beeps()
	if err := e.Run(cmd); err != nil {
		return err
	}
	if e.Beeps() != beeps {
		return nil
	}
	switch cmd.Name {
	case CommandUndo:
		r.committed = append(r.committed, &editorBatch{title: "Undo " + e.UndoManager().RedoTitle()})
	case CommandRedo:
		r.committed = append(r.committed, &editorBatch{title: "Redo " + e.UndoManager().UndoTitle()})
	}
	return nil
}

func (r *Room) handlePresence(p Peer, msg *Message) {
	var payload PresencePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return
	}
	payload.DisplayName = p.Name()
	r.presence.Update(p.ID(), &payload)

	out := r.stamp(newMessage(TypePresenceUpdate, payload))
	out.ClientID = p.ID()
	out.UserID = p.User()
	r.broadcast(out, p.ID())
}

// publish sends the document once per batch committed while handling the
// last message, followed by the selection state.
func (r *Room) publish(ctx context.Context) {
	committed := r.committed
	r.committed = nil
	for _, b := range committed {
		msg, err := r.docSync(b)
		if err != nil {
			slog.Error("encode document", "project", r.projectID, "error", err)
			continue
		}
		r.broadcast(msg, "")
		r.dirty = true
	}
	if r.dirty && len(committed) > 0 {
		r.save(ctx)
	}
	r.broadcast(r.selectionState(), "")
}

func (r *Room) docSync(b *editorBatch) (*Message, error) {
	data, err := document.Encode(r.editor.Root())
	if err != nil {
		return nil, err
	}
	payload := DocSyncPayload{Document: data}
	if b != nil {
		payload.BatchID = b.id
		payload.BatchName = b.title
	}
	return r.stamp(newMessage(TypeDocSync, payload)), nil
}

func (r *Room) save(ctx context.Context) {
	if r.saver == nil {
		r.dirty = false
		return
	}
	data, err := document.Encode(r.editor.Root())
	if err != nil {
		slog.Error("encode document", "project", r.projectID, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	if err := r.saver.SaveSnapshot(ctx, r.projectID, data); err != nil {
		slog.Warn("save snapshot", "project", r.projectID, "error", err)
		return
	}
	r.dirty = false
}

func (r *Room) selectionState() *Message {
	e := r.editor
	payload := SelectionStatePayload{
		Selected:  nodeIDs(e.SelectedNodes()),
		Chain:     nodeIDs(e.SuperSelectedChain()),
		DragMode:  e.SelectTool().Mode().String(),
		CanUndo:   e.CanUndo(),
		CanRedo:   e.CanRedo(),
		UndoTitle: e.UndoManager().UndoTitle(),
		RedoTitle: e.UndoManager().RedoTitle(),
		Beeps:     e.Beeps(),
	}
	return r.stamp(newMessage(TypeSelectionState, payload))
}

func nodeIDs(nodes []*scene.Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func (r *Room) stamp(msg *Message) *Message {
	r.seq++
	msg.Seq = r.seq
	msg.ProjectID = r.projectID
	return msg
}

func (r *Room) broadcast(msg *Message, excludeClientID string) {
	for id, p := range r.peers {
		if id == excludeClientID {
			continue
		}
		p.Send(msg)
	}
}
