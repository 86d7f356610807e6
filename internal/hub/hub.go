// Package hub is a development stand-in for the automation server: it keeps
// a set of connected viewers and fans parameter updates out to all of them.
package hub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/glasspool/internal/logger"
)

// Viewer is one connected viewer.
type Viewer struct {
	ID   string
	Send chan []byte
	Conn *websocket.Conn
}

// NewViewer wraps a connection with a fresh id and an outbound queue.
func NewViewer(conn *websocket.Conn) *Viewer {
	return &Viewer{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 64),
		Conn: conn,
	}
}

// Hub tracks viewers and broadcasts messages to them.
type Hub struct {
	register   chan *Viewer
	unregister chan *Viewer
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	viewers map[*Viewer]bool
	log     *zap.Logger
}

// New creates an empty hub. Call Run to start it.
func New() *Hub {
	return &Hub{
		register:   make(chan *Viewer),
		unregister: make(chan *Viewer),
		broadcast:  make(chan []byte),
		done:       make(chan struct{}),
		viewers:    make(map[*Viewer]bool),
		log:        logger.Named("hub"),
	}
}

// Count returns the number of registered viewers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// Join registers v. It reports false once the hub has stopped.
func (h *Hub) Join(v *Viewer) bool {
	select {
	case h.register <- v:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters v and closes its queue.
func (h *Hub) Leave(v *Viewer) {
	select {
	case h.unregister <- v:
	case <-h.done:
	}
}

// Broadcast queues msg for every viewer. It reports false once the hub has stopped.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	case <-h.done:
		return false
	}
}

// Run serves register, unregister and broadcast requests until ctx is done.
// On return every viewer queue is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for v := range h.viewers {
				delete(h.viewers, v)
				close(v.Send)
			}
			h.mu.Unlock()
			return

		case v := <-h.register:
			h.mu.Lock()
			h.viewers[v] = true
			h.mu.Unlock()
			h.log.Info("viewer joined", zap.String("viewer", v.ID), zap.Int("viewers", h.Count()))

		case v := <-h.unregister:
			h.mu.Lock()
			if h.viewers[v] {
				delete(h.viewers, v)
				close(v.Send)
			}
			h.mu.Unlock()
			h.log.Info("viewer left", zap.String("viewer", v.ID), zap.Int("viewers", h.Count()))

		case msg := <-h.broadcast:
			h.mu.Lock()
			for v := range h.viewers {
				select {
				case v.Send <- msg:
				default:
					// Queue full: drop the viewer.
					h.log.Warn("viewer queue full, dropping", zap.String("viewer", v.ID))
					delete(h.viewers, v)
					close(v.Send)
				}
			}
			h.mu.Unlock()
		}
	}
}
