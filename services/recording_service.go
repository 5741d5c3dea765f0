// Package services: services/recording_service.go
package services

import (
	"time"

	"github.com/google/uuid"
	"go-meet-hub/logger"
	"go-meet-hub/models"
)

// requestTTL is how long a pending recording request waits for the host
// before it is auto-denied. Overridable in tests.
var requestTTL = 30 * time.Second

// afterFunc allows tests to intercept expiry scheduling.
var afterFunc = time.AfterFunc

// RecordingRespondResult reports how the host answered a request.
type RecordingRespondResult struct {
	RequesterSocketID string
	DisplayName       string
	Approved          bool
	Permission        models.RecordingPermission
}

// RecordingServiceInterface is the recording-permission state plus its
// request/response sub-protocol.
type RecordingServiceInterface interface {
	GetPermission(meetingID string) models.RecordingPermission
	SetPermission(meetingID, socketID string, perm models.RecordingPermission) error
	RequestPermission(meetingID, socketID, displayName string) (*models.RecordingRequest, bool)
	Respond(meetingID, hostSocketID, requestID string, approve, dontShowAgain bool) (*RecordingRespondResult, error)
	SetPermissionAsHost(meetingID string, perm models.RecordingPermission) error
	RespondAsHost(meetingID, requestID string, approve, dontShowAgain bool) (*RecordingRespondResult, error)
}

// RecordingService manages the two-valued recording state and the pending
// request queue.
type RecordingService struct {
	// OnExpire runs when a pending request times out without a host answer.
	// The signalling layer uses it to auto-deny the requester.
	OnExpire func(meetingID string, req *models.RecordingRequest)
}

// NewRecordingService creates a new RecordingService instance.
func NewRecordingService() *RecordingService {
	return &RecordingService{}
}

// GetPermission returns the current recording state for meetingID.
func (s *RecordingService) GetPermission(meetingID string) models.RecordingPermission {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return getMeeting(meetingID).RecordingPermission
}

// SetPermission sets the recording state directly. Gated to host or co-host.
func (s *RecordingService) SetPermission(meetingID, socketID string, perm models.RecordingPermission) error {
	if !models.ValidRecordingPermission(perm) {
		return ErrInvalidPermission
	}

	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, socketID) {
		logger.Warn.Printf("[SetPermission] Rejected: socket=%s is not host/co-host of meeting=%s", socketID, meetingID)
		return ErrNotAuthorized
	}
	m.RecordingPermission = perm
	logger.Info.Printf("[SetPermission] meeting=%s recording permission set to %q", meetingID, perm)
	return nil
}

// RequestPermission queues a participant's ask for recording rights. Returns
// (nil, true) when the host has suppressed further requests; suppression is
// server state, a reloading client cannot bypass it. A queued request is
// auto-denied after requestTTL if the host never answers.
func (s *RecordingService) RequestPermission(meetingID, socketID, displayName string) (*models.RecordingRequest, bool) {
	registryMutex.Lock()
	m := getMeeting(meetingID)
	if m.SuppressRecording {
		registryMutex.Unlock()
		logger.Debug.Printf("[RequestPermission] Dropped request from %q: host suppressed prompts for meeting=%s",
			displayName, meetingID)
		return nil, true
	}

	req := &models.RecordingRequest{
		ID:          uuid.NewString(),
		SocketID:    socketID,
		DisplayName: displayName,
		RequestedAt: time.Now(),
	}
	m.RecordingRequests[req.ID] = req
	snapshot := *req
	registryMutex.Unlock()

	logger.Info.Printf("[RequestPermission] %q requested recording in meeting=%s (request=%s)",
		displayName, meetingID, req.ID)

	afterFunc(requestTTL, func() {
		s.expire(meetingID, snapshot.ID)
	})
	// the caller gets a snapshot, never the live registry record
	return &snapshot, false
}

// expire removes a request that the host never answered and fires OnExpire.
func (s *RecordingService) expire(meetingID, requestID string) {
	registryMutex.Lock()
	m := getMeeting(meetingID)
	req, ok := m.RecordingRequests[requestID]
	if ok {
		delete(m.RecordingRequests, requestID)
	}
	registryMutex.Unlock()

	if !ok {
		return
	}
	logger.Info.Printf("[expire] Recording request=%s in meeting=%s timed out; auto-denying", requestID, meetingID)
	if s.OnExpire != nil {
		s.OnExpire(meetingID, req)
	}
}

// SetPermissionAsHost is the HTTP-path variant of SetPermission. The caller
// has already proven host identity via a meeting-scoped bearer token, so the
// socket gate is skipped.
func (s *RecordingService) SetPermissionAsHost(meetingID string, perm models.RecordingPermission) error {
	if !models.ValidRecordingPermission(perm) {
		return ErrInvalidPermission
	}

	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	m.RecordingPermission = perm
	logger.Info.Printf("[SetPermissionAsHost] meeting=%s recording permission set to %q", meetingID, perm)
	return nil
}

// Respond records the host's answer. Approval flips the meeting-wide state to
// "Record to Computer"; denial affects only the requester. dontShowAgain sets
// the server-side suppression flag.
func (s *RecordingService) Respond(meetingID, hostSocketID, requestID string, approve, dontShowAgain bool) (*RecordingRespondResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()

	m := getMeeting(meetingID)
	if !canMutate(m, hostSocketID) {
		logger.Warn.Printf("[Respond] Rejected: socket=%s is not host/co-host of meeting=%s", hostSocketID, meetingID)
		return nil, ErrNotAuthorized
	}
	return s.respondLocked(m, requestID, approve, dontShowAgain)
}

// RespondAsHost is the HTTP-path variant of Respond, pre-authorized by a
// meeting-scoped bearer token.
func (s *RecordingService) RespondAsHost(meetingID, requestID string, approve, dontShowAgain bool) (*RecordingRespondResult, error) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	return s.respondLocked(getMeeting(meetingID), requestID, approve, dontShowAgain)
}

// respondLocked applies the host's answer. Callers must hold registryMutex.
func (s *RecordingService) respondLocked(m *models.Meeting, requestID string, approve, dontShowAgain bool) (*RecordingRespondResult, error) {
	req, ok := m.RecordingRequests[requestID]
	if !ok {
		return nil, ErrRequestNotFound
	}
	delete(m.RecordingRequests, requestID)

	if dontShowAgain {
		m.SuppressRecording = true
		logger.Info.Printf("[respondLocked] Host suppressed further recording prompts for meeting=%s", m.ID)
	}

	if approve {
		m.RecordingPermission = models.RecordingToComputer
	}
	logger.Info.Printf("[respondLocked] Request=%s from %q in meeting=%s: approved=%t",
		requestID, req.DisplayName, m.ID, approve)
	return &RecordingRespondResult{
		RequesterSocketID: req.SocketID,
		DisplayName:       req.DisplayName,
		Approved:          approve,
		Permission:        m.RecordingPermission,
	}, nil
}
