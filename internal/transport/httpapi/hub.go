package httpapi

import (
	"encoding/json"
	"github.com/callebjorkell/ws281x-node/internal/strip"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"net/http"
	"sync"
	"time"
)

const (
	writeWait = time.Second
	// sendBuffer is how many reports a listener may fall behind before reports get dropped for it.
	sendBuffer = 8
)

type listener struct {
	conn *websocket.Conn
	send chan []byte
}

// hub keeps track of the websocket clients listening for strip state. Broadcasting never waits on a
// client, every listener has its own writer goroutine.
type hub struct {
	mu      sync.Mutex
	clients map[*listener]bool
}

func newHub() *hub {
	return &hub{
		clients: map[*listener]bool{},
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug("Websocket upgrade failed: ", err)
		return
	}

	l := &listener{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[l] = true
	h.mu.Unlock()
	log.Debugf("State listener connected from %v", r.RemoteAddr)

	go h.write(l)
	// read until the client goes away, nothing it sends is of interest.
	go func() {
		defer h.drop(l)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *hub) write(l *listener) {
	for payload := range l.send {
		l.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := l.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Debug("Dropping state listener: ", err)
			h.drop(l)
			return
		}
	}
}

func (h *hub) broadcast(r strip.Report) {
	payload, err := json.Marshal(r)
	if err != nil {
		log.Warn("Unable to encode strip state: ", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for l := range h.clients {
		select {
		case l.send <- payload:
		default:
			log.Debug("State listener is behind, skipping report")
		}
	}
}

func (h *hub) drop(l *listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[l] {
		h.remove(l)
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for l := range h.clients {
		h.remove(l)
	}
}

// remove expects h.mu to be held.
func (h *hub) remove(l *listener) {
	close(l.send)
	if l.conn != nil {
		l.conn.Close()
	}
	delete(h.clients, l)
}
