// Package websocket - websocket/globals.go
package websocket

import (
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/websocket"
)

// broadcast is the channel room-wide messages flow through on their way to
// every connection in the target meeting.
var broadcast = make(chan []byte, 64)

// connMutex guards the connection maps.
var connMutex sync.Mutex

// connections tracks every live connection.
var connections = make(map[*Connection]bool)

// connBySocket indexes connections by their server-assigned socket id, for
// when a message targets a single participant.
var connBySocket = make(map[string]*Connection)

// upgrader upgrades HTTP requests to WebSocket connections.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all if Test-Mode
		if r.Header.Get("Test-Mode") == "true" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		applicationURL := os.Getenv("APPLICATION_URL")
		if applicationURL == "" {
			applicationURL = "http://localhost:8080"
		}
		return origin == applicationURL || origin == "http://localhost:8080"
	},
}
