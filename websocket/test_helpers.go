// Package websocket test_helpers.go
package websocket

// InitTest sets up the test environment for WebSocket-based meeting state
// handling.
func InitTest() {
	// Flush the broadcast channel if necessary.
	for len(broadcast) > 0 {
		<-broadcast
	}

	connMutex.Lock()
	connections = make(map[*Connection]bool)
	connBySocket = make(map[string]*Connection)
	connMutex.Unlock()
}
