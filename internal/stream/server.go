package stream

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades incoming connections and registers them with a
// Broadcaster. It is only ever wired in by cmd/recoveryctl's optional
// --watch flag, which serves it on a plain net/http ServeMux.
func Handler(b *Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("stream: upgrade failed: %v", err)
			return
		}
		b.Register(conn)
		defer func() {
			b.Unregister(conn)
			conn.Close()
		}()

		// Drain reads until the client disconnects; this connection is
		// broadcast-only, so the content of any incoming message is
		// discarded.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
