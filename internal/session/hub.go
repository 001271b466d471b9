// Package session hosts shared editing rooms over websockets. Every project
// with at least one connected client gets a Room owning one editor; clients
// stream pointer events and edit commands into it and receive document and
// selection updates back.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/inamate/editor-go/internal/document"
)

var ErrHubStopped = errors.New("hub stopped")

// Loader returns the latest document snapshot of a project.
type Loader interface {
	LoadSnapshot(ctx context.Context, projectID string) (json.RawMessage, error)
}

type liveRoom struct {
	room    *Room
	cancel  context.CancelFunc
	members int
}

type registration struct {
	peer      Peer
	projectID string
	result    chan registrationResult
}

type registrationResult struct {
	room *Room
	err  error
}

type departure struct {
	peer      Peer
	projectID string
}

type Hub struct {
	mu    sync.Mutex
	rooms map[string]*liveRoom // projectID -> room

	loader Loader
	saver  Saver

	register   chan registration
	unregister chan departure
	stopped    chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func NewHub(loader Loader, saver Saver) *Hub {
	return &Hub{
		rooms:      make(map[string]*liveRoom),
		loader:     loader,
		saver:      saver,
		register:   make(chan registration),
		unregister: make(chan departure),
		stopped:    make(chan struct{}),
	}
}

// Run serves registrations until ctx is cancelled or Stop is called.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.register:
			room, err := h.addPeer(ctx, reg.peer, reg.projectID)
			reg.result <- registrationResult{room: room, err: err}
		case dep := <-h.unregister:
			h.removePeer(dep.peer, dep.projectID)
		case <-ctx.Done():
			h.Stop()
			return
		case <-h.stopped:
			return
		}
	}
}

// Register adds peer to the room of projectID, loading the project on first
// use. It blocks until the peer has been queued for joining.
func (h *Hub) Register(peer Peer, projectID string) (*Room, error) {
	reg := registration{peer: peer, projectID: projectID, result: make(chan registrationResult, 1)}
	select {
	case h.register <- reg:
	case <-h.stopped:
		return nil, ErrHubStopped
	}
	res := <-reg.result
	return res.room, res.err
}

// Unregister removes peer from its room. The room stops when it empties.
func (h *Hub) Unregister(peer Peer, projectID string) {
	select {
	case h.unregister <- departure{peer: peer, projectID: projectID}:
	case <-h.stopped:
	}
}

func (h *Hub) addPeer(ctx context.Context, peer Peer, projectID string) (*Room, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	select {
	case <-h.stopped:
		return nil, ErrHubStopped
	default:
	}

	live, ok := h.rooms[projectID]
	if !ok {
		room, err := h.openRoom(ctx, projectID)
		if err != nil {
			return nil, err
		}
		roomCtx, cancel := context.WithCancel(context.Background())
		live = &liveRoom{room: room, cancel: cancel}
		h.rooms[projectID] = live

		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			room.Run(roomCtx)
		}()
	}
	live.members++
	live.room.Join(peer)
	return live.room, nil
}

func (h *Hub) openRoom(ctx context.Context, projectID string) (*Room, error) {
	data, err := h.loader.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}
	root, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode project %s: %w", projectID, err)
	}
	slog.Info("room opened", "project", projectID)
	return NewRoom(projectID, root, h.saver), nil
}

func (h *Hub) removePeer(peer Peer, projectID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	live, ok := h.rooms[projectID]
	if !ok {
		return
	}
	live.room.Leave(peer)
	live.members--
	if live.members <= 0 {
		delete(h.rooms, projectID)
		live.cancel()
	}
}

// Rooms returns the number of open rooms.
func (h *Hub) Rooms() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms)
}

// Stop closes every room, saving unsaved documents, and waits for them.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopped)
		h.mu.Lock()
		for id, live := range h.rooms {
			live.cancel()
			delete(h.rooms, id)
		}
		h.mu.Unlock()
	})
	h.wg.Wait()
}
