// Package models defines data structures used across the application.
// File: models/meeting.go
package models

import "time"

// ----------------------- participant model -----------------------

// Participant represents a connected meeting member, keyed by socket id.
type Participant struct {
	SocketID    string `json:"socketId"`
	Name        string `json:"name"`
	IsMuted     bool   `json:"isMuted"`
	CameraOff   bool   `json:"cameraOff"`
	IsHost      bool   `json:"isHost"`
	IsCoHost    bool   `json:"isCoHost"`
	Spotlighted bool   `json:"spotlighted"`
	HandRaised  bool   `json:"handRaised"`
}

// DeviceSettings carries the mic/camera choices a participant made on the
// pre-join screen.
type DeviceSettings struct {
	MicEnabled    bool `json:"micEnabled"`
	CameraEnabled bool `json:"cameraEnabled"`
}

// ----------------------- waiting room model -----------------------

// WaitingStatus is the lifecycle state of a queued participant.
type WaitingStatus string

const (
	WaitingStatusWaiting  WaitingStatus = "waiting"
	WaitingStatusAdmitted WaitingStatus = "admitted"
	WaitingStatusDenied   WaitingStatus = "denied"
)

// WaitingParticipant is a participant held in the waiting room before the
// host admits or denies them. Admitted/denied are terminal: the record is
// removed from the waiting map when either is reached.
type WaitingParticipant struct {
	SocketID string         `json:"socketId"`
	Name     string         `json:"name"`
	Devices  DeviceSettings `json:"devices"`
	JoinedAt time.Time      `json:"joinedAt"`
	Status   WaitingStatus  `json:"status"`
}

// WaitingRoomSettings controls whether joins are queued and how admitted
// participants enter.
type WaitingRoomSettings struct {
	Enabled        bool   `json:"enabled"`
	MuteOnEntry    bool   `json:"muteOnEntry"`
	WelcomeMessage string `json:"welcomeMessage"`
}

// WaitingRoomSettingsPatch is a partial update; nil fields are left unchanged.
type WaitingRoomSettingsPatch struct {
	Enabled        *bool   `json:"enabled,omitempty"`
	MuteOnEntry    *bool   `json:"muteOnEntry,omitempty"`
	WelcomeMessage *string `json:"welcomeMessage,omitempty"`
}

// Merge applies the non-nil fields of the patch and returns the result.
func (s WaitingRoomSettings) Merge(p WaitingRoomSettingsPatch) WaitingRoomSettings {
	if p.Enabled != nil {
		s.Enabled = *p.Enabled
	}
	if p.MuteOnEntry != nil {
		s.MuteOnEntry = *p.MuteOnEntry
	}
	if p.WelcomeMessage != nil {
		s.WelcomeMessage = *p.WelcomeMessage
	}
	return s
}

// ----------------------- permissions model -----------------------

// MeetingPermissions is the flat bundle of meeting-wide toggles the host
// controls. Mutated atomically as a partial-update merge.
type MeetingPermissions struct {
	AllowRename         bool `json:"allowRename"`
	AllowUnmute         bool `json:"allowUnmute"`
	AllowHandRaising    bool `json:"allowHandRaising"`
	ChatEnabled         bool `json:"chatEnabled"`
	FileSharing         bool `json:"fileSharing"`
	EmojiReactions      bool `json:"emojiReactions"`
	MuteAllParticipants bool `json:"muteAllParticipants"`
}

// DefaultMeetingPermissions returns the permissive defaults a new meeting
// starts with.
func DefaultMeetingPermissions() MeetingPermissions {
	return MeetingPermissions{
		AllowRename:         true,
		AllowUnmute:         true,
		AllowHandRaising:    true,
		ChatEnabled:         true,
		FileSharing:         true,
		EmojiReactions:      true,
		MuteAllParticipants: false,
	}
}

// MeetingPermissionsPatch is a partial update; nil fields are left unchanged.
type MeetingPermissionsPatch struct {
	AllowRename         *bool `json:"allowRename,omitempty"`
	AllowUnmute         *bool `json:"allowUnmute,omitempty"`
	AllowHandRaising    *bool `json:"allowHandRaising,omitempty"`
	ChatEnabled         *bool `json:"chatEnabled,omitempty"`
	FileSharing         *bool `json:"fileSharing,omitempty"`
	EmojiReactions      *bool `json:"emojiReactions,omitempty"`
	MuteAllParticipants *bool `json:"muteAllParticipants,omitempty"`
}

// Merge applies the non-nil fields of the patch and returns the result.
func (m MeetingPermissions) Merge(p MeetingPermissionsPatch) MeetingPermissions {
	if p.AllowRename != nil {
		m.AllowRename = *p.AllowRename
	}
	if p.AllowUnmute != nil {
		m.AllowUnmute = *p.AllowUnmute
	}
	if p.AllowHandRaising != nil {
		m.AllowHandRaising = *p.AllowHandRaising
	}
	if p.ChatEnabled != nil {
		m.ChatEnabled = *p.ChatEnabled
	}
	if p.FileSharing != nil {
		m.FileSharing = *p.FileSharing
	}
	if p.EmojiReactions != nil {
		m.EmojiReactions = *p.EmojiReactions
	}
	if p.MuteAllParticipants != nil {
		m.MuteAllParticipants = *p.MuteAllParticipants
	}
	return m
}

// ----------------------- recording model -----------------------

// RecordingPermission is the meeting-wide recording state.
type RecordingPermission string

const (
	RecordingDisallowed RecordingPermission = "Don't Record"
	RecordingToComputer RecordingPermission = "Record to Computer"
)

// ValidRecordingPermission reports whether the value is one of the two
// accepted states.
func ValidRecordingPermission(p RecordingPermission) bool {
	return p == RecordingDisallowed || p == RecordingToComputer
}

// RecordingRequest is a participant's pending ask for recording rights,
// queued for the host until answered or expired.
type RecordingRequest struct {
	ID          string    `json:"id"`
	SocketID    string    `json:"socketId"`
	DisplayName string    `json:"displayName"`
	RequestedAt time.Time `json:"requestedAt"`
}

// ----------------------- meeting model -----------------------

// Meeting holds all authoritative state for one meeting. A socket id is a
// member of at most one of Participants and WaitingRoom at any time.
type Meeting struct {
	ID                  string
	HostSocketID        string
	HostKeyHash         []byte
	Participants        map[string]*Participant
	WaitingRoom         map[string]*WaitingParticipant
	WaitingRoomSettings WaitingRoomSettings
	IsLocked            bool
	RecordingPermission RecordingPermission
	RecordingRequests   map[string]*RecordingRequest
	// SuppressRecording is host state: when set, new recording requests are
	// dropped server-side instead of being queued.
	SuppressRecording  bool
	MeetingPermissions MeetingPermissions
	CreatedAt          time.Time
}

// ParticipantList returns the participants as a slice, suitable for
// broadcast payloads.
func (m *Meeting) ParticipantList() []Participant {
	list := make([]Participant, 0, len(m.Participants))
	for _, p := range m.Participants {
		list = append(list, *p)
	}
	return list
}
