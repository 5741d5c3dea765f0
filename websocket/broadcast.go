// Package websocket handles real-time signalling between meeting clients.
// file: websocket/broadcast.go
package websocket

import (
	"encoding/json"

	"go-meet-hub/logger"
)

// HandleMessages listens on the broadcast channel and fans each message out
// to every connection in the target meeting. Messages carry their meeting id
// in the envelope; a message with no meeting id goes to everyone.
func HandleMessages() {
	for {
		msg := <-broadcast

		var msgMap map[string]interface{}
		var meetingFilter string
		if err := json.Unmarshal(msg, &msgMap); err == nil {
			if id, ok := msgMap["meetingId"].(string); ok {
				meetingFilter = id
			}
		}

		connMutex.Lock()
		for c := range connections {
			if meetingFilter != "" && c.meetingID != meetingFilter {
				continue
			}
			select {
			case c.send <- msg:
			default:
				logger.Warn.Printf("Dropping broadcast message for connection %v", c.conn.RemoteAddr())
			}
		}
		connMutex.Unlock()

		PublishBroadcastBacklog(len(broadcast), meetingFilter)
	}
}
