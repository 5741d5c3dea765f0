// Package websocket provides the WebSocket signalling server for meetings.
// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go-meet-hub/logger"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single WebSocket connection for one client.
type Connection struct {
	conn      WSConn
	send      chan []byte
	meetingID string
	socketID  string
}

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// ServeWs upgrades the HTTP request to a WebSocket connection, assigns the
// socket id, and starts the read and write pumps.
func ServeWs(w http.ResponseWriter, r *http.Request) {
	meetingID := r.URL.Query().Get("meetingId")
	if meetingID == "" {
		logger.Error.Println("No meeting selected; rejecting WebSocket connection")
		http.Error(w, "No meeting selected", http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[ServeWs] Upgrading to WS: remoteAddr=%v, meetingId=%q", r.RemoteAddr, meetingID)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		conn:      wsConn,
		send:      make(chan []byte, 256),
		meetingID: meetingID,
		socketID:  uuid.NewString(),
	}
	registerConnection(c)

	// tell the client its server-assigned socket id before anything else
	c.sendEvent(map[string]interface{}{
		"action":    ActionConnected,
		"meetingId": meetingID,
		"socketId":  c.socketID,
	})

	go c.readPump()
	go c.writePump()
}

// readPump handles inbound messages from the client.
func (c *Connection) readPump() {
	defer func() {
		handleDisconnect(c)
		unregisterConnection(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Warn.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			break
		}
		if messageType != websocket.TextMessage {
			logger.Debug.Printf("[readPump] Ignoring non-text messageType=%d", messageType)
			continue
		}

		var ev EventMessage
		if err := json.Unmarshal(message, &ev); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		if ev.MeetingID == "" {
			ev.MeetingID = c.meetingID
		}
		handleIncoming(c, ev)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The channel was closed.
				logger.Debug.Printf("[writePump] Send channel closed for %v", c.conn.RemoteAddr())
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// sendEvent marshals and queues a message for this connection only.
func (c *Connection) sendEvent(msg map[string]interface{}) {
	out, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("[sendEvent] Error marshalling message: %v", err)
		return
	}
	select {
	case c.send <- out:
	default:
		logger.Warn.Printf("[sendEvent] Dropping message for slow connection %v", c.conn.RemoteAddr())
	}
}

// registerConnection adds the given connection to the global maps.
func registerConnection(c *Connection) {
	connMutex.Lock()
	defer connMutex.Unlock()
	connections[c] = true
	connBySocket[c.socketID] = c
}

// unregisterConnection removes the given connection from the global maps.
func unregisterConnection(c *Connection) {
	connMutex.Lock()
	defer connMutex.Unlock()
	if _, ok := connections[c]; ok {
		delete(connections, c)
		delete(connBySocket, c.socketID)
	}
}
