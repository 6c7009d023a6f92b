// Package stream is a thin, optional collaborator at the engine's
// boundary: it broadcasts batch-solve progress over a websocket so a
// caller's UI can show live status. It never participates in the solve
// itself — recovery.BatchSolve only ever calls NotifyProgress on the
// recovery.Notifier interface, so the engine compiles and runs
// identically with or without this package wired in.
package stream

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Hehua-Fan/flight-adjustment-system/internal/recovery"
)

// BatchProgressEvent is the wire shape pushed to every connected client.
type BatchProgressEvent struct {
	Index   int                     `json:"index"`
	Total   int                     `json:"total"`
	Weights recovery.WeightVector   `json:"weights"`
	Status  string                  `json:"status"`
}

// Broadcaster fans BatchProgressEvents out to every currently-connected
// websocket client. It implements recovery.Notifier.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewBroadcaster returns an empty Broadcaster ready to register clients.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{clients: make(map[*websocket.Conn]struct{})}
}

var _ recovery.Notifier = (*Broadcaster)(nil)

// Register adds a connection to the broadcast set. Call Unregister when
// the connection closes.
func (b *Broadcaster) Register(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[conn] = struct{}{}
}

// Unregister removes a connection from the broadcast set.
func (b *Broadcaster) Unregister(conn *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, conn)
}

// NotifyProgress implements recovery.Notifier: it's called once per
// batch-solve run as that run finishes; BatchSolve runs them one after
// another, so events arrive in the batch's own index order.
func (b *Broadcaster) NotifyProgress(index, total int, weights recovery.WeightVector, status string) {
	event := BatchProgressEvent{Index: index, Total: total, Weights: weights, Status: status}
	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("stream: failed to marshal progress event: %v", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("stream: dropping client after write error: %v", err)
			delete(b.clients, conn)
			conn.Close()
		}
	}
}
