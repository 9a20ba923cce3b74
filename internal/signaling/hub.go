package signaling

import (
	"context"
	"log"
)

// frame is a payload relayed to every peer in a room except its sender.
type frame struct {
	roomID  int64
	sender  string
	payload []byte
}

// Hub relays signaling payloads between the peers of an accepted
// connection. Rooms are keyed by connection id and exist only while at
// least one client is present; nothing is persisted or replayed.
type Hub struct {
	rooms map[int64]map[string]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan frame

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		rooms:      make(map[int64]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, 256),
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	defer func() {
		h.cleanup()
		close(h.done)
	}()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case f := <-h.broadcast:
			h.relay(f)

		case <-h.ctx.Done():
			return
		}
	}
}

// Shutdown stops the run loop and disconnects every client.
func (h *Hub) Shutdown() {
	h.cancel()
	<-h.done
}

func (h *Hub) addClient(client *Client) {
	room, ok := h.rooms[client.roomID]
	if !ok {
		room = make(map[string]*Client)
		h.rooms[client.roomID] = room
	}
	room[client.id] = client

	log.Printf("Client %s joined meeting %d (%d peers)", client.id, client.roomID, len(room))
}

func (h *Hub) removeClient(client *Client) {
	room, ok := h.rooms[client.roomID]
	if !ok {
		return
	}

	if _, exists := room[client.id]; !exists {
		return
	}

	delete(room, client.id)
	close(client.send)

	if len(room) == 0 {
		delete(h.rooms, client.roomID)
	}

	log.Printf("Client %s left meeting %d", client.id, client.roomID)
}

// relay fans the payload out to every peer in the room except the sender.
// A peer whose send buffer is full is dropped rather than allowed to
// stall the room.
func (h *Hub) relay(f frame) {
	room, ok := h.rooms[f.roomID]
	if !ok {
		return
	}

	for id, peer := range room {
		if id == f.sender {
			continue
		}
		select {
		case peer.send <- f.payload:
		default:
			delete(room, id)
			close(peer.send)
		}
	}

	if len(room) == 0 {
		delete(h.rooms, f.roomID)
	}
}

func (h *Hub) cleanup() {
	for roomID, room := range h.rooms {
		for id, client := range room {
			close(client.send)
			delete(room, id)
		}
		delete(h.rooms, roomID)
	}
}
