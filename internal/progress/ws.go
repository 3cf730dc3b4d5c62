package progress

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

// Handler upgrades a connection and streams Events for one depot key
// (from the "depot" query parameter) until the client disconnects.
func Handler(broker EventBroker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depotKey := r.URL.Query().Get("depot")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("progress: upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		ch := broker.Subscribe(depotKey)
		defer broker.Unsubscribe(depotKey, ch)

		for evt := range ch {
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		}
	}
}
