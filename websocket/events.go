// Package websocket - websocket/events.go
// Inbound and outbound event payloads. Every inbound payload is parsed and
// validated here before any state is touched.
package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-meet-hub/models"
)

// Client -> server actions.
const (
	ActionRequestJoinMeeting        = "request-join-meeting"
	ActionAdmitParticipant          = "admit-participant"
	ActionAdmitAllParticipants      = "admit-all-participants"
	ActionDenyParticipant           = "deny-participant"
	ActionToggleMeetingLock         = "toggle-meeting-lock"
	ActionUpdateWaitingRoomSettings = "update-waiting-room-settings"
	ActionUpdateMeetingPermissions  = "update-meeting-permissions"
	ActionRenameParticipant         = "rename-participant"
	ActionHostRenameSelf            = "host-rename-self"
	ActionRaiseHand                 = "raise-hand"
	ActionLowerHand                 = "lower-hand"
	ActionRequestRecording          = "request-recording-permission"
	ActionRespondRecordingRequest   = "respond-recording-request"
	ActionSetCoHost                 = "set-co-host"
)

// Server -> client actions.
const (
	ActionConnected                  = "connected"
	ActionWaitingRoomJoined          = "waiting-room-participant-joined"
	ActionWaitingRoomLeft            = "waiting-room-participant-left"
	ActionWaitingRoomWaiting         = "waiting-room-waiting"
	ActionWaitingRoomAdmitted        = "waiting-room-admitted"
	ActionWaitingRoomDenied          = "waiting-room-denied"
	ActionMeetingInaccessible        = "meeting-inaccessible"
	ActionMeetingLockChanged         = "meeting-lock-changed"
	ActionMeetingPermissionsUpdated  = "meeting-permissions-updated"
	ActionParticipantJoined          = "participant-joined"
	ActionParticipantLeft            = "participant-left"
	ActionParticipantRenamed         = "participant-renamed"
	ActionHandRaiseChanged           = "hand-raise-changed"
	ActionWaitingRoomSettingsUpdated = "waiting-room-settings-updated"
	ActionCoHostChanged              = "co-host-changed"
	ActionRecordingRequestReceived   = "recording-request-received"
	ActionRecordingRequestAnswered   = "recording-request-answered"
	ActionRecordingPermissionChanged = "recording-permission-changed"
	ActionMeetingEnded               = "meeting-ended"
	ActionChatStateChanged           = "chat-state-changed"
	ActionError                      = "action-error"
)

// EventMessage is the envelope every inbound message arrives in. The action
// discriminates which payload type the raw bytes decode into.
type EventMessage struct {
	Action    string          `json:"action"`
	MeetingID string          `json:"meetingId"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// inbound payloads

// JoinPayload rides request-join-meeting.
type JoinPayload struct {
	ParticipantName string                `json:"participantName"`
	Devices         models.DeviceSettings `json:"deviceSettings"`
	AsHost          bool                  `json:"asHost,omitempty"`
}

// AdmitPayload rides admit-participant and deny-participant.
type AdmitPayload struct {
	ParticipantSocketID string `json:"participantSocketId"`
	Reason              string `json:"reason,omitempty"`
}

// LockPayload rides toggle-meeting-lock.
type LockPayload struct {
	IsLocked bool `json:"isLocked"`
}

// SettingsPayload rides update-waiting-room-settings.
type SettingsPayload struct {
	Settings models.WaitingRoomSettingsPatch `json:"settings"`
}

// PermissionsPayload rides update-meeting-permissions.
type PermissionsPayload struct {
	Permissions models.MeetingPermissionsPatch `json:"permissions"`
}

// RenamePayload rides rename-participant and host-rename-self.
type RenamePayload struct {
	NewName string `json:"newName"`
}

// RecordingRequestPayload rides request-recording-permission.
type RecordingRequestPayload struct {
	DisplayName string `json:"displayName"`
}

// RecordingRespondPayload rides respond-recording-request.
type RecordingRespondPayload struct {
	RequestID     string `json:"requestId"`
	Approve       bool   `json:"approve"`
	DontShowAgain bool   `json:"dontShowAgain,omitempty"`
}

// CoHostPayload rides set-co-host.
type CoHostPayload struct {
	ParticipantSocketID string `json:"participantSocketId"`
	IsCoHost            bool   `json:"isCoHost"`
}

var errMissingMeetingID = errors.New("meetingId is required")

// decodePayload unmarshals the raw payload into dst, treating an absent
// payload as an empty object.
func decodePayload(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	return nil
}

// validate checks the envelope before dispatch. Every action needs a meeting
// id; join additionally needs a participant name.
func (e *EventMessage) validate() error {
	if e.MeetingID == "" {
		return errMissingMeetingID
	}
	return nil
}
