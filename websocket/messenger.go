// Package websocket Description: This file contains the implementation of the
// realMessenger struct, which delivers state-change notifications to meeting
// replicas: the whole room, one participant, or the host alone.
// file: websocket/messenger.go
package websocket

import (
	"encoding/json"

	"go-meet-hub/logger"
	"go-meet-hub/services"
)

var defaultMessenger Messenger = &realMessenger{meetings: services.NewMeetingService()}

// Messenger is an interface for delivering authoritative state changes.
type Messenger interface {
	BroadcastToMeeting(meetingID string, msg map[string]interface{})
	SendToSocket(socketID string, msg map[string]interface{})
	SendToHost(meetingID string, msg map[string]interface{})
	BroadcastRaw(msg []byte)
}

type realMessenger struct {
	meetings services.MeetingServiceInterface
}

// --------------- Methods on realMessenger -----------------

// BroadcastToMeeting marshals the message and sends it to every connection in
// the meeting. The meeting id is stamped into the envelope so the broadcast
// loop can filter.
func (r *realMessenger) BroadcastToMeeting(meetingID string, msg map[string]interface{}) {
	msg["meetingId"] = meetingID
	m, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("realMessenger: Error marshalling message: %v", err)
		return
	}
	broadcast <- m
	logger.Debug.Printf("realMessenger: BroadcastToMeeting sent to meeting %s", meetingID)
}

// SendToSocket delivers a message to a single participant's connection.
func (r *realMessenger) SendToSocket(socketID string, msg map[string]interface{}) {
	m, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("realMessenger: Error marshalling message: %v", err)
		return
	}

	connMutex.Lock()
	c, ok := connBySocket[socketID]
	connMutex.Unlock()
	if !ok {
		logger.Warn.Printf("realMessenger: No connection for socket=%s; dropping message", socketID)
		return
	}
	select {
	case c.send <- m:
	default:
		logger.Warn.Printf("realMessenger: Dropping message for slow socket=%s", socketID)
	}
}

// SendToHost delivers a message to the meeting's host connection only.
func (r *realMessenger) SendToHost(meetingID string, msg map[string]interface{}) {
	hostSocketID := r.meetings.HostSocketID(meetingID)
	if hostSocketID == "" {
		logger.Warn.Printf("realMessenger: Meeting %s has no host; dropping host message", meetingID)
		return
	}
	r.SendToSocket(hostSocketID, msg)
}

// BroadcastRaw sends a raw JSON message.
func (r *realMessenger) BroadcastRaw(msg []byte) {
	broadcast <- msg
	logger.Debug.Printf("realMessenger: BroadcastRaw sent: %s", string(msg))
}

// BroadcastToMeeting is the package-level convenience used by controllers.
func BroadcastToMeeting(meetingID string, msg map[string]interface{}) {
	defaultMessenger.BroadcastToMeeting(meetingID, msg)
}

// SendToSocket is the package-level convenience used by controllers.
func SendToSocket(socketID string, msg map[string]interface{}) {
	defaultMessenger.SendToSocket(socketID, msg)
}

// SendToHost is the package-level convenience used by controllers.
func SendToHost(meetingID string, msg map[string]interface{}) {
	defaultMessenger.SendToHost(meetingID, msg)
}

// BroadcastAll sends a message to every connection regardless of meeting.
// Used for process-wide state like the global chat flag.
func BroadcastAll(msg map[string]interface{}) {
	m, err := json.Marshal(msg)
	if err != nil {
		logger.Error.Printf("BroadcastAll: Error marshalling message: %v", err)
		return
	}
	defaultMessenger.BroadcastRaw(m)
}
