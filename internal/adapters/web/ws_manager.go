package web

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/blescope/blescope/internal/core/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The live view binds to localhost; same-origin only.
		return r.Header.Get("Origin") == ""
	},
}

// WSMessage is the envelope for every websocket broadcast.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// snapshotPayload is the live snapshot plus the axis bounds recomputed
// from its min/max. YTop is the least negative RSSI: the display keeps a
// fixed orientation with stronger signal toward the top.
type snapshotPayload struct {
	domain.LiveSnapshot
	XMin    int `json:"x_min"`
	XMax    int `json:"x_max"`
	YTop    int `json:"y_top"`
	YBottom int `json:"y_bottom"`
}

// WSManager broadcasts live buffer snapshots to connected clients. It
// implements ports.SnapshotSink.
type WSManager struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	latest  *snapshotPayload
}

// NewWSManager creates an empty manager.
func NewWSManager() *WSManager {
	return &WSManager{
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWebSocket upgrades the connection and registers the client.
func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	m.mu.Lock()
	m.clients[conn] = struct{}{}
	m.mu.Unlock()

	// Drain reads until the peer goes away, then clean up.
	go func() {
		defer conn.Close()
		defer func() {
			m.mu.Lock()
			delete(m.clients, conn)
			m.mu.Unlock()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Publish implements ports.SnapshotSink: recompute axis bounds from the
// snapshot and fan it out to every client.
func (m *WSManager) Publish(snap domain.LiveSnapshot) {
	payload := &snapshotPayload{LiveSnapshot: snap}
	if len(snap.Counters) > 0 {
		payload.XMin, payload.XMax = minMax(snap.Counters)
		payload.XMax++
		yMin, yMax := minMax(snap.RSSIs)
		payload.YTop = yMax + 2
		payload.YBottom = yMin - 2
	}

	msg := WSMessage{Type: "live_snapshot", Payload: payload}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.latest = payload
	for conn := range m.clients {
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(m.clients, conn)
		}
	}
}

// currentSnapshot returns the most recently published snapshot, or nil
// before the first publish.
func (m *WSManager) currentSnapshot() *snapshotPayload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest
}

func minMax(vals []int) (min, max int) {
	min, max = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
