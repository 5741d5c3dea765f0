// Package services: services/meeting_service.go
package services

import (
	"sync"
	"time"

	"go-meet-hub/logger"
	"go-meet-hub/models"
)

// registryMutex serialises every mutation of meeting state, standing in for
// the single-threaded event dispatch the signalling layer assumes. All
// feature services lock it before touching a meeting record.
var registryMutex sync.Mutex
var registry = make(map[string]*models.Meeting)

// MeetingServiceInterface is the registry plus the mutation gate.
type MeetingServiceInterface interface {
	Get(meetingID string) *models.Meeting
	Remove(meetingID string)
	CanMutate(meetingID, socketID string) bool
	AssignHost(meetingID, socketID string)
	HostSocketID(meetingID string) string
	SetCoHost(meetingID, actorSocketID, participantSocketID string, isCoHost bool) error
	Participants(meetingID string) []models.Participant
}

// MeetingService manages the in-memory meeting registry.
type MeetingService struct{}

// NewMeetingService creates a new MeetingService instance.
func NewMeetingService() *MeetingService {
	return &MeetingService{}
}

// newMeeting builds a meeting record with defaults: unlocked, chat enabled,
// no recording, waiting room off.
func newMeeting(meetingID string) *models.Meeting {
	return &models.Meeting{
		ID:                  meetingID,
		Participants:        make(map[string]*models.Participant),
		WaitingRoom:         make(map[string]*models.WaitingParticipant),
		RecordingPermission: models.RecordingDisallowed,
		RecordingRequests:   make(map[string]*models.RecordingRequest),
		MeetingPermissions:  models.DefaultMeetingPermissions(),
		CreatedAt:           time.Now(),
	}
}

// getMeeting fetches or creates the record for meetingID. Callers must hold
// registryMutex.
func getMeeting(meetingID string) *models.Meeting {
	m, exists := registry[meetingID]
	if !exists {
		logger.Info.Printf("[getMeeting] Creating new meeting record for meeting=%s", meetingID)
		m = newMeeting(meetingID)
		registry[meetingID] = m
	}
	return m
}

// Get returns the meeting record for meetingID, creating it lazily on first
// reference.
func (s *MeetingService) Get(meetingID string) *models.Meeting {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return getMeeting(meetingID)
}

// Remove deletes the meeting record for meetingID.
func (s *MeetingService) Remove(meetingID string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	if _, exists := registry[meetingID]; exists {
		delete(registry, meetingID)
		logger.Info.Printf("[Remove] Cleared meeting record for meeting=%s", meetingID)
	} else {
		logger.Warn.Printf("[Remove] Attempted to clear non-existent meeting=%s", meetingID)
	}
}

// canMutate is the mutation gate: host or co-host only. Callers must hold
// registryMutex.
func canMutate(m *models.Meeting, socketID string) bool {
	if socketID == "" {
		return false
	}
	if m.HostSocketID == socketID {
		return true
	}
	if p, ok := m.Participants[socketID]; ok {
		return p.IsCoHost
	}
	return false
}

// CanMutate reports whether socketID holds mutation rights over meetingID.
func (s *MeetingService) CanMutate(meetingID, socketID string) bool {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return canMutate(getMeeting(meetingID), socketID)
}

// AssignHost records socketID as the meeting host. A reconnecting host
// replaces the stale socket id; there is never more than one at a time.
func (s *MeetingService) AssignHost(meetingID, socketID string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if m.HostSocketID != "" && m.HostSocketID != socketID {
		logger.Info.Printf("[AssignHost] Replacing host socket %s with %s for meeting=%s",
			m.HostSocketID, socketID, meetingID)
		// demote the stale participant record if it survived the reconnect
		if old, ok := m.Participants[m.HostSocketID]; ok {
			old.IsHost = false
		}
	}
	m.HostSocketID = socketID
	if p, ok := m.Participants[socketID]; ok {
		p.IsHost = true
	}
	logger.Info.Printf("[AssignHost] Host for meeting=%s is now socket=%s", meetingID, socketID)
}

// HostSocketID returns the current host socket id for meetingID, or "" when
// no host has joined yet.
func (s *MeetingService) HostSocketID(meetingID string) string {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return getMeeting(meetingID).HostSocketID
}

// SetCoHost grants or revokes co-host rights. Gated to the host/co-host.
func (s *MeetingService) SetCoHost(meetingID, actorSocketID, participantSocketID string, isCoHost bool) error {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, actorSocketID) {
		logger.Warn.Printf("[SetCoHost] Rejected: socket=%s is not host/co-host of meeting=%s", actorSocketID, meetingID)
		return ErrNotAuthorized
	}
	p, ok := m.Participants[participantSocketID]
	if !ok {
		return ErrParticipantNotFound
	}
	p.IsCoHost = isCoHost
	logger.Info.Printf("[SetCoHost] meeting=%s participant=%s coHost=%t", meetingID, participantSocketID, isCoHost)
	return nil
}

// Participants returns a snapshot of the participant list for broadcasts.
func (s *MeetingService) Participants(meetingID string) []models.Participant {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return getMeeting(meetingID).ParticipantList()
}

// ResetRegistry drops every meeting record. Test hook.
func ResetRegistry() {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	registry = make(map[string]*models.Meeting)
}
