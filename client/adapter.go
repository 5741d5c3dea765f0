// Package client defines the contract the UI-side feature adapters program
// against. The adapters themselves live in the browser bundle; this package
// only pins down what they consume and produce.
// File: client/adapter.go
package client

import "encoding/json"

// ServerEvent is an authoritative state-change broadcast as the adapter
// receives it off the socket.
type ServerEvent struct {
	Action    string          `json:"action"`
	MeetingID string          `json:"meetingId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Intent is a user gesture translated into an outbound mutation request.
type Intent struct {
	Action    string      `json:"action"`
	MeetingID string      `json:"meetingId"`
	Payload   interface{} `json:"payload,omitempty"`
}

// IntentSender carries intents to the signalling channel.
type IntentSender interface {
	Send(intent Intent) error
}

// FeatureAdapter is one per feature, per page (host vs participant). It
// updates local UI state from broadcasts and emits intents for user
// gestures; it never mutates its local replica except in response to a
// broadcast or as a tracked optimistic echo.
type FeatureAdapter interface {
	// Actions lists the broadcast actions this adapter subscribes to.
	Actions() []string
	// HandleServerEvent applies an authoritative state change.
	HandleServerEvent(ev ServerEvent)
}

// Dispatcher fans received events out to the adapters subscribed to them.
type Dispatcher struct {
	subscribers map[string][]FeatureAdapter
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{subscribers: make(map[string][]FeatureAdapter)}
}

// Register subscribes an adapter to every action it declares.
func (d *Dispatcher) Register(a FeatureAdapter) {
	for _, action := range a.Actions() {
		d.subscribers[action] = append(d.subscribers[action], a)
	}
}

// Dispatch delivers an event to every adapter subscribed to its action.
func (d *Dispatcher) Dispatch(ev ServerEvent) {
	for _, a := range d.subscribers[ev.Action] {
		a.HandleServerEvent(ev)
	}
}
