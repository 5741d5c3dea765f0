// Package services: services/waitingroom_service.go
package services

import (
	"time"

	"go-meet-hub/logger"
	"go-meet-hub/models"
)

// JoinOutcome is the result class of a join request.
type JoinOutcome string

const (
	// JoinOutcomeJoined - waiting room disabled, participant entered directly.
	JoinOutcomeJoined JoinOutcome = "joined"
	// JoinOutcomeQueued - participant is waiting for the host.
	JoinOutcomeQueued JoinOutcome = "queued"
	// JoinOutcomeLocked - meeting is locked; this is terminal, the
	// participant is not queued anywhere.
	JoinOutcomeLocked JoinOutcome = "locked"
)

// JoinResult describes what happened to a join request.
type JoinResult struct {
	Outcome        JoinOutcome
	Participant    *models.Participant
	Waiting        *models.WaitingParticipant
	WelcomeMessage string
	WaitingCount   int
}

// DenyResult carries the denial notice for the denied participant's socket.
type DenyResult struct {
	SocketID     string
	Name         string
	Reason       string
	WaitingCount int
}

// SettingsResult is the outcome of a waiting-room settings update. When the
// update disables the waiting room, every queued participant is admitted as a
// side effect and returned in AdmittedAll.
type SettingsResult struct {
	Settings    models.WaitingRoomSettings
	AdmittedAll []*models.Participant
}

// DisconnectResult reports what a departing socket was removed from.
type DisconnectResult struct {
	WasParticipant bool
	WasWaiting     bool
	WasHost        bool
	Name           string
	WaitingCount   int
}

// WaitingRoomServiceInterface is the waiting-room state machine:
// none -> waiting -> {admitted | denied}.
type WaitingRoomServiceInterface interface {
	RequestJoin(meetingID, socketID, name string, devices models.DeviceSettings, asHost bool) JoinResult
	Admit(meetingID, hostSocketID, participantSocketID string) (*models.Participant, error)
	AdmitAll(meetingID, hostSocketID string) ([]*models.Participant, error)
	Deny(meetingID, hostSocketID, participantSocketID, reason string) (*DenyResult, error)
	UpdateSettings(meetingID, hostSocketID string, patch models.WaitingRoomSettingsPatch) (*SettingsResult, error)
	Disconnect(meetingID, socketID string) DisconnectResult
}

// WaitingRoomService implements the waiting-room transitions over the shared
// registry.
type WaitingRoomService struct{}

// NewWaitingRoomService creates a new WaitingRoomService instance.
func NewWaitingRoomService() *WaitingRoomService {
	return &WaitingRoomService{}
}

// copyParticipant snapshots a live registry record. Results handed to callers
// are always copies; a pointer into the registry must never escape the lock,
// or a later mutation races whatever the caller does with it.
func copyParticipant(p *models.Participant) *models.Participant {
	cp := *p
	return &cp
}

// copyWaiting snapshots a live waiting-room record, same rule as
// copyParticipant.
func copyWaiting(w *models.WaitingParticipant) *models.WaitingParticipant {
	cw := *w
	return &cw
}

// admitLocked moves a waiting record into participants, applying MuteOnEntry.
// Callers must hold registryMutex.
func admitLocked(m *models.Meeting, w *models.WaitingParticipant) *models.Participant {
	delete(m.WaitingRoom, w.SocketID)
	w.Status = models.WaitingStatusAdmitted

	p := &models.Participant{
		SocketID:  w.SocketID,
		Name:      w.Name,
		IsMuted:   m.WaitingRoomSettings.MuteOnEntry || !w.Devices.MicEnabled,
		CameraOff: !w.Devices.CameraEnabled,
	}
	m.Participants[p.SocketID] = p
	return p
}

// RequestJoin handles an inbound join. Hosts bypass both the lock and the
// waiting room; everyone else is turned away while locked, queued while the
// waiting room is enabled, and admitted directly otherwise.
func (s *WaitingRoomService) RequestJoin(meetingID, socketID, name string, devices models.DeviceSettings, asHost bool) JoinResult {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)

	// a socket id lives in at most one of the two maps; a re-sent join from a
	// socket that is already a participant is a no-op
	if p, ok := m.Participants[socketID]; ok && !asHost {
		logger.Debug.Printf("[RequestJoin] socket=%s already a participant of meeting=%s; ignoring re-join", socketID, meetingID)
		return JoinResult{Outcome: JoinOutcomeJoined, Participant: copyParticipant(p)}
	}

	if asHost {
		delete(m.WaitingRoom, socketID)
		p := &models.Participant{
			SocketID:  socketID,
			Name:      name,
			IsHost:    true,
			IsMuted:   !devices.MicEnabled,
			CameraOff: !devices.CameraEnabled,
		}
		if m.HostSocketID != "" && m.HostSocketID != socketID {
			if old, ok := m.Participants[m.HostSocketID]; ok {
				old.IsHost = false
			}
		}
		m.HostSocketID = socketID
		m.Participants[socketID] = p
		logger.Info.Printf("[RequestJoin] Host %q joined meeting=%s (socket=%s)", name, meetingID, socketID)
		return JoinResult{Outcome: JoinOutcomeJoined, Participant: copyParticipant(p)}
	}

	if m.IsLocked {
		logger.Info.Printf("[RequestJoin] Rejected %q: meeting=%s is locked", name, meetingID)
		return JoinResult{Outcome: JoinOutcomeLocked}
	}

	if m.WaitingRoomSettings.Enabled {
		// a socket already queued keeps its place instead of re-queueing
		if w, ok := m.WaitingRoom[socketID]; ok {
			logger.Debug.Printf("[RequestJoin] socket=%s already waiting in meeting=%s; ignoring re-join", socketID, meetingID)
			return JoinResult{
				Outcome:        JoinOutcomeQueued,
				Waiting:        copyWaiting(w),
				WelcomeMessage: m.WaitingRoomSettings.WelcomeMessage,
				WaitingCount:   len(m.WaitingRoom),
			}
		}
		w := &models.WaitingParticipant{
			SocketID: socketID,
			Name:     name,
			Devices:  devices,
			JoinedAt: time.Now(),
			Status:   models.WaitingStatusWaiting,
		}
		m.WaitingRoom[socketID] = w
		logger.Info.Printf("[RequestJoin] Queued %q in waiting room of meeting=%s (depth=%d)",
			name, meetingID, len(m.WaitingRoom))
		return JoinResult{
			Outcome:        JoinOutcomeQueued,
			Waiting:        copyWaiting(w),
			WelcomeMessage: m.WaitingRoomSettings.WelcomeMessage,
			WaitingCount:   len(m.WaitingRoom),
		}
	}

	// waiting room disabled: direct join, clearing any stale queued record
	// from when the room was enabled
	delete(m.WaitingRoom, socketID)
	p := &models.Participant{
		SocketID:  socketID,
		Name:      name,
		IsMuted:   !devices.MicEnabled,
		CameraOff: !devices.CameraEnabled,
	}
	m.Participants[socketID] = p
	logger.Info.Printf("[RequestJoin] %q joined meeting=%s directly", name, meetingID)
	return JoinResult{Outcome: JoinOutcomeJoined, Participant: copyParticipant(p)}
}

// Admit moves one waiting participant into the meeting. Idempotent after the
// first application: a second call finds no waiting record and returns
// (nil, nil).
func (s *WaitingRoomService) Admit(meetingID, hostSocketID, participantSocketID string) (*models.Participant, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, hostSocketID) {
		logger.Warn.Printf("[Admit] Rejected: socket=%s is not host/co-host of meeting=%s", hostSocketID, meetingID)
		return nil, ErrNotAuthorized
	}

	w, ok := m.WaitingRoom[participantSocketID]
	if !ok {
		logger.Debug.Printf("[Admit] No waiting record for socket=%s in meeting=%s; no-op", participantSocketID, meetingID)
		return nil, nil
	}

	p := admitLocked(m, w)
	logger.Info.Printf("[Admit] %q admitted to meeting=%s (muted=%t)", p.Name, meetingID, p.IsMuted)
	return copyParticipant(p), nil
}

// AdmitAll is the batch variant of Admit.
func (s *WaitingRoomService) AdmitAll(meetingID, hostSocketID string) ([]*models.Participant, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, hostSocketID) {
		logger.Warn.Printf("[AdmitAll] Rejected: socket=%s is not host/co-host of meeting=%s", hostSocketID, meetingID)
		return nil, ErrNotAuthorized
	}

	admitted := make([]*models.Participant, 0, len(m.WaitingRoom))
	for _, w := range m.WaitingRoom {
		admitted = append(admitted, copyParticipant(admitLocked(m, w)))
	}
	logger.Info.Printf("[AdmitAll] Admitted %d waiting participants to meeting=%s", len(admitted), meetingID)
	return admitted, nil
}

// Deny removes a waiting participant and reports the denial notice destined
// for that participant's socket only.
func (s *WaitingRoomService) Deny(meetingID, hostSocketID, participantSocketID, reason string) (*DenyResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, hostSocketID) {
		logger.Warn.Printf("[Deny] Rejected: socket=%s is not host/co-host of meeting=%s", hostSocketID, meetingID)
		return nil, ErrNotAuthorized
	}

	w, ok := m.WaitingRoom[participantSocketID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	delete(m.WaitingRoom, participantSocketID)
	w.Status = models.WaitingStatusDenied

	logger.Info.Printf("[Deny] %q denied entry to meeting=%s: %s", w.Name, meetingID, reason)
	return &DenyResult{
		SocketID:     w.SocketID,
		Name:         w.Name,
		Reason:       reason,
		WaitingCount: len(m.WaitingRoom),
	}, nil
}

// UpdateSettings merges a settings patch. Disabling the waiting room while
// participants are queued auto-admits all of them; that side effect is
// intended behaviour, not incidental.
func (s *WaitingRoomService) UpdateSettings(meetingID, hostSocketID string, patch models.WaitingRoomSettingsPatch) (*SettingsResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, hostSocketID) {
		logger.Warn.Printf("[UpdateSettings] Rejected: socket=%s is not host/co-host of meeting=%s", hostSocketID, meetingID)
		return nil, ErrNotAuthorized
	}

	wasEnabled := m.WaitingRoomSettings.Enabled
	m.WaitingRoomSettings = m.WaitingRoomSettings.Merge(patch)

	result := &SettingsResult{Settings: m.WaitingRoomSettings}
	if wasEnabled && !m.WaitingRoomSettings.Enabled && len(m.WaitingRoom) > 0 {
		result.AdmittedAll = make([]*models.Participant, 0, len(m.WaitingRoom))
		for _, w := range m.WaitingRoom {
			result.AdmittedAll = append(result.AdmittedAll, copyParticipant(admitLocked(m, w)))
		}
		logger.Info.Printf("[UpdateSettings] Waiting room disabled for meeting=%s; auto-admitted %d queued participants",
			meetingID, len(result.AdmittedAll))
	}
	return result, nil
}

// Disconnect removes a departing socket from whichever of the participant or
// waiting maps holds it.
func (s *WaitingRoomService) Disconnect(meetingID, socketID string) DisconnectResult {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	result := DisconnectResult{}

	if p, ok := m.Participants[socketID]; ok {
		result.WasParticipant = true
		result.Name = p.Name
		delete(m.Participants, socketID)
		if m.HostSocketID == socketID {
			result.WasHost = true
			m.HostSocketID = ""
			logger.Warn.Printf("[Disconnect] Host left meeting=%s", meetingID)
		}
	}
	if w, ok := m.WaitingRoom[socketID]; ok {
		result.WasWaiting = true
		result.Name = w.Name
		delete(m.WaitingRoom, socketID)
		logger.Info.Printf("[Disconnect] %q left the waiting room of meeting=%s", w.Name, meetingID)
	}
	result.WaitingCount = len(m.WaitingRoom)
	return result
}
