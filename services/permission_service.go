// Package services: services/permission_service.go
package services

import (
	"strings"
	"unicode/utf8"

	"go-meet-hub/logger"
	"go-meet-hub/models"
)

// maxNameLength caps display names on rename, counted in characters rather
// than bytes so multibyte names are not cut short.
const maxNameLength = 50

// LockResult is the broadcast payload source for a lock change.
type LockResult struct {
	IsLocked  bool
	ChangedBy string
}

// PermissionsResult is the broadcast payload source for a permissions merge.
type PermissionsResult struct {
	Permissions  models.MeetingPermissions
	ChangedBy    string
	Participants []models.Participant
}

// RenameResult is the broadcast payload source for a validated rename.
type RenameResult struct {
	SocketID     string
	OldName      string
	NewName      string
	Participants []models.Participant
}

// HandRaiseResult reports a hand-raise toggle.
type HandRaiseResult struct {
	SocketID string
	Name     string
	Raised   bool
}

// PermissionServiceInterface covers meeting lock, the permissions bundle,
// renames and hand raising.
type PermissionServiceInterface interface {
	ToggleLock(meetingID, socketID string, isLocked bool) (*LockResult, error)
	UpdatePermissions(meetingID, socketID string, patch models.MeetingPermissionsPatch) (*PermissionsResult, error)
	Rename(meetingID, socketID, newName string, isHostRename bool) (*RenameResult, error)
	SetHandRaised(meetingID, socketID string, raised bool) (*HandRaiseResult, error)
}

// PermissionService implements the gated meeting-wide toggles.
type PermissionService struct{}

// NewPermissionService creates a new PermissionService instance.
func NewPermissionService() *PermissionService {
	return &PermissionService{}
}

// ToggleLock flips the meeting lock. Gated to the host only; co-hosts cannot
// lock or unlock.
func (s *PermissionService) ToggleLock(meetingID, socketID string, isLocked bool) (*LockResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if m.HostSocketID == "" || m.HostSocketID != socketID {
		logger.Warn.Printf("[ToggleLock] Rejected: socket=%s is not the host of meeting=%s", socketID, meetingID)
		return nil, ErrNotAuthorized
	}

	m.IsLocked = isLocked
	changedBy := ""
	if p, ok := m.Participants[socketID]; ok {
		changedBy = p.Name
	}
	logger.Info.Printf("[ToggleLock] meeting=%s locked=%t (by %q)", meetingID, isLocked, changedBy)
	return &LockResult{IsLocked: isLocked, ChangedBy: changedBy}, nil
}

// UpdatePermissions merges a partial permissions update atomically. Gated to
// host or co-host.
func (s *PermissionService) UpdatePermissions(meetingID, socketID string, patch models.MeetingPermissionsPatch) (*PermissionsResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, socketID) {
		logger.Warn.Printf("[UpdatePermissions] Rejected: socket=%s is not host/co-host of meeting=%s", socketID, meetingID)
		return nil, ErrNotAuthorized
	}

	m.MeetingPermissions = m.MeetingPermissions.Merge(patch)

	changedBy := ""
	if p, ok := m.Participants[socketID]; ok {
		changedBy = p.Name
	}
	logger.Info.Printf("[UpdatePermissions] meeting=%s permissions updated by %q: %+v",
		meetingID, changedBy, m.MeetingPermissions)
	return &PermissionsResult{
		Permissions:  m.MeetingPermissions,
		ChangedBy:    changedBy,
		Participants: m.ParticipantList(),
	}, nil
}

// Rename validates and applies a display-name change. Participants renaming
// themselves are subject to the AllowRename permission; the host's own rename
// path is not. Validation failures are explicit, user-visible errors.
func (s *PermissionService) Rename(meetingID, socketID, newName string, isHostRename bool) (*RenameResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	p, ok := m.Participants[socketID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	if !isHostRename && !p.IsHost && !m.MeetingPermissions.AllowRename {
		return nil, ErrRenameDisabled
	}

	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return nil, ErrEmptyName
	}
	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if strings.EqualFold(trimmed, p.Name) {
		return nil, ErrSameName
	}
	for sid, other := range m.Participants {
		if sid != socketID && strings.EqualFold(other.Name, trimmed) {
			return nil, ErrNameTaken
		}
	}

	oldName := p.Name
	p.Name = trimmed
	logger.Info.Printf("[Rename] meeting=%s socket=%s %q -> %q", meetingID, socketID, oldName, trimmed)
	return &RenameResult{
		SocketID:     socketID,
		OldName:      oldName,
		NewName:      trimmed,
		Participants: m.ParticipantList(),
	}, nil
}

// SetHandRaised toggles the hand-raise flag. Not gated, but honours the
// AllowHandRaising permission for non-hosts.
func (s *PermissionService) SetHandRaised(meetingID, socketID string, raised bool) (*HandRaiseResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	p, ok := m.Participants[socketID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	if raised && !p.IsHost && !m.MeetingPermissions.AllowHandRaising {
		return nil, ErrHandRaisingDisabled
	}

	p.HandRaised = raised
	logger.Debug.Printf("[SetHandRaised] meeting=%s %q raised=%t", meetingID, p.Name, raised)
	return &HandRaiseResult{SocketID: socketID, Name: p.Name, Raised: raised}, nil
}
