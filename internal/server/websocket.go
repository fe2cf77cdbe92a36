package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsClient wraps a connection with a write lock: gorilla allows at most one
// concurrent writer per connection, and broadcasts can race each other.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// wsHub fans broadcast messages out to the websocket connections of one
// game. Connecting joins the game's group; disconnecting leaves it.
type wsHub struct {
	mu     sync.Mutex
	groups map[uint]map[*wsClient]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[uint]map[*wsClient]struct{}),
	}
}

// Join is idempotent: adding a client twice is a no-op.
func (h *wsHub) Join(gameID uint, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		group = make(map[*wsClient]struct{})
		h.groups[gameID] = group
	}
	group[client] = struct{}{}
}

// Leave is idempotent and closes the connection.
func (h *wsHub) Leave(gameID uint, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[gameID]
	if group == nil {
		return
	}
	delete(group, client)
	_ = client.conn.Close()
	if len(group) == 0 {
		delete(h.groups, gameID)
	}
}

func (h *wsHub) Send(client *wsClient, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = client.write(data)
}

// Broadcast marshals once and writes outside the hub lock. Clients that
// fail to take the write are evicted.
func (h *wsHub) Broadcast(gameID uint, payload any) {
	h.mu.Lock()
	group := h.groups[gameID]
	clients := make([]*wsClient, 0, len(group))
	for client := range group {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, client := range clients {
		if err := client.write(data); err != nil {
			h.Leave(gameID, client)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	gameID, ok := parseID(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.store.GetGame(gameID); err != nil {
		http.NotFound(w, r)
		return
	}
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.log.Info("ws connected", "game_id", gameID, "remote", r.RemoteAddr)
	client := &wsClient{conn: conn}
	s.hub.Join(gameID, client)
	// No replay of missed broadcasts; new clients get the current scores
	// once and re-fetch the rest over HTTP.
	if rows, err := s.store.ScoresForGame(gameID); err == nil {
		s.hub.Send(client, scoresUpdatedMessage{Type: msgScoresUpdated, GameID: gameID, Scores: rows})
	}
	go s.readWS(gameID, client)
}

func (s *Server) readWS(gameID uint, client *wsClient) {
	defer s.hub.Leave(gameID, client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			s.log.Info("ws disconnected", "game_id", gameID, "error", err)
			return
		}
	}
}
