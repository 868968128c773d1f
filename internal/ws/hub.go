package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is the frame written to subscribers.
type Event struct {
	Event string `json:"event"`
	Room  string `json:"room"`
	Data  any    `json:"data"`
}

type subscription struct {
	client *Client
	rooms  []string
}

type message struct {
	room    string
	payload []byte
}

// Hub fans events out to the clients subscribed to a room. Run owns the
// room maps; other methods talk to it over channels.
type Hub struct {
	rooms      map[string]map[*Client]struct{}
	clients    map[*Client][]string
	broadcast  chan message
	register   chan subscription
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		clients:    make(map[*Client][]string),
		broadcast:  make(chan message, 1024),
		register:   make(chan subscription, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case sub := <-h.register:
			if sub.client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[sub.client] = sub.rooms
			for _, room := range sub.rooms {
				members, ok := h.rooms[room]
				if !ok {
					members = make(map[*Client]struct{})
					h.rooms[room] = members
				}
				members[sub.client] = struct{}{}
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Printf("WS connected | rooms=%v total_clients=%d", sub.rooms, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.remove(client)
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Printf("WS disconnected | total_clients=%d", total)

		case msg := <-h.broadcast:
			h.mutex.RLock()
			members := make([]*Client, 0, len(h.rooms[msg.room]))
			for c := range h.rooms[msg.room] {
				members = append(members, c)
			}
			h.mutex.RUnlock()

			var slow []*Client
			for _, client := range members {
				select {
				case client.send <- msg.payload:
				default:
					slow = append(slow, client)
				}
			}
			if len(slow) > 0 {
				h.mutex.Lock()
				for _, client := range slow {
					h.remove(client)
				}
				h.mutex.Unlock()
				h.logger.Printf("WS dropped slow clients | room=%s count=%d", msg.room, len(slow))
			}
		}
	}
}

// remove detaches client from its rooms and closes its send channel. The
// caller holds the write lock.
func (h *Hub) remove(client *Client) {
	rooms, ok := h.clients[client]
	if !ok {
		return
	}
	delete(h.clients, client)
	for _, room := range rooms {
		members := h.rooms[room]
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(client.send)
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for client := range h.clients {
		h.remove(client)
	}
}

// Stop ends Run and closes every client. It is safe to call more than once.
func (h *Hub) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client, rooms ...string) {
	if h == nil {
		return
	}
	select {
	case h.register <- subscription{client: client, rooms: rooms}:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast queues an event for every subscriber of room. It never blocks;
// events are dropped when the queue is full.
func (h *Hub) Broadcast(room, event string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{Event: event, Room: room, Data: payload})
	if err != nil {
		h.logger.Printf("WS broadcast dropped | room=%s reason=encode err=%v", room, err)
		return
	}
	select {
	case h.broadcast <- message{room: room, payload: b}:
	default:
		h.logger.Printf("WS broadcast dropped | room=%s reason=buffer_full", room)
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomSize(room string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}
