// Package websocket - websocket/dispatch.go
// Routes validated inbound events through the feature services and turns
// their results into broadcasts.
package websocket

import (
	"go-meet-hub/logger"
	"go-meet-hub/models"
	"go-meet-hub/services"
)

// Feature services, injectable for tests.
var meetingService services.MeetingServiceInterface = services.NewMeetingService()
var waitingRoom services.WaitingRoomServiceInterface = services.NewWaitingRoomService()
var permissions services.PermissionServiceInterface = services.NewPermissionService()
var recording = services.NewRecordingService()

func init() {
	// a recording request the host never answers is auto-denied
	recording.OnExpire = func(meetingID string, req *models.RecordingRequest) {
		defaultMessenger.SendToSocket(req.SocketID, map[string]interface{}{
			"action":    ActionRecordingRequestAnswered,
			"meetingId": meetingID,
			"requestId": req.ID,
			"approved":  false,
			"expired":   true,
		})
	}
}

// sendError surfaces a rejected action to the offending socket. Gated events
// from non-hosts land here instead of being silently dropped.
func sendError(c *Connection, sourceAction string, err error) {
	logger.Warn.Printf("[sendError] action=%s socket=%s: %v", sourceAction, c.socketID, err)
	c.sendEvent(map[string]interface{}{
		"action":       ActionError,
		"meetingId":    c.meetingID,
		"sourceAction": sourceAction,
		"error":        err.Error(),
	})
}

// handleIncoming processes an inbound event envelope.
func handleIncoming(c *Connection, ev EventMessage) {
	logger.Debug.Printf("[handleIncoming] action=%s meeting=%s socket=%s", ev.Action, ev.MeetingID, c.socketID)
	if err := ev.validate(); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	switch ev.Action {
	case ActionRequestJoinMeeting:
		handleJoin(c, ev)
	case ActionAdmitParticipant:
		handleAdmit(c, ev)
	case ActionAdmitAllParticipants:
		handleAdmitAll(c, ev)
	case ActionDenyParticipant:
		handleDeny(c, ev)
	case ActionToggleMeetingLock:
		handleToggleLock(c, ev)
	case ActionUpdateWaitingRoomSettings:
		handleUpdateSettings(c, ev)
	case ActionUpdateMeetingPermissions:
		handleUpdatePermissions(c, ev)
	case ActionRenameParticipant:
		handleRename(c, ev, false)
	case ActionHostRenameSelf:
		handleRename(c, ev, true)
	case ActionRaiseHand:
		handleHandRaise(c, ev, true)
	case ActionLowerHand:
		handleHandRaise(c, ev, false)
	case ActionRequestRecording:
		handleRecordingRequest(c, ev)
	case ActionRespondRecordingRequest:
		handleRecordingRespond(c, ev)
	case ActionSetCoHost:
		handleSetCoHost(c, ev)
	default:
		logger.Debug.Printf("Unhandled action: %s", ev.Action)
	}
}

func handleJoin(c *Connection, ev EventMessage) {
	var p JoinPayload
	if err := decodePayload(ev.Payload, &p); err != nil {
		sendError(c, ev.Action, err)
		return
	}
	if p.ParticipantName == "" {
		sendError(c, ev.Action, services.ErrEmptyName)
		return
	}

	result := waitingRoom.RequestJoin(ev.MeetingID, c.socketID, p.ParticipantName, p.Devices, p.AsHost)
	switch result.Outcome {
	case services.JoinOutcomeLocked:
		// terminal: the client renders a full-page block, nothing is queued
		c.sendEvent(map[string]interface{}{
			"action":    ActionMeetingInaccessible,
			"meetingId": ev.MeetingID,
			"reason":    "This meeting has been locked by the host",
		})

	case services.JoinOutcomeQueued:
		c.sendEvent(map[string]interface{}{
			"action":         ActionWaitingRoomWaiting,
			"meetingId":      ev.MeetingID,
			"status":         result.Waiting.Status,
			"welcomeMessage": result.WelcomeMessage,
		})
		defaultMessenger.SendToHost(ev.MeetingID, map[string]interface{}{
			"action":       ActionWaitingRoomJoined,
			"meetingId":    ev.MeetingID,
			"participant":  result.Waiting,
			"waitingCount": result.WaitingCount,
		})
		PublishWaitingRoomDepth(result.WaitingCount, ev.MeetingID)

	case services.JoinOutcomeJoined:
		broadcastParticipantJoined(ev.MeetingID, result.Participant)
	}
}

// broadcastParticipantJoined announces an entry to the whole room and
// refreshes the replicated participant list.
func broadcastParticipantJoined(meetingID string, p *models.Participant) {
	participants := meetingService.Participants(meetingID)
	defaultMessenger.BroadcastToMeeting(meetingID, map[string]interface{}{
		"action":       ActionParticipantJoined,
		"participant":  p,
		"participants": participants,
	})
	PublishParticipantCount(len(participants), meetingID)
}

func handleAdmit(c *Connection, ev EventMessage) {
	var payload AdmitPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	p, err := waitingRoom.Admit(ev.MeetingID, c.socketID, payload.ParticipantSocketID)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	if p == nil {
		// already admitted or gone; idempotent no-op
		return
	}
	notifyAdmitted(ev.MeetingID, p)
}

func notifyAdmitted(meetingID string, p *models.Participant) {
	defaultMessenger.SendToSocket(p.SocketID, map[string]interface{}{
		"action":      ActionWaitingRoomAdmitted,
		"meetingId":   meetingID,
		"participant": p,
	})
	broadcastParticipantJoined(meetingID, p)
}

func handleAdmitAll(c *Connection, ev EventMessage) {
	admitted, err := waitingRoom.AdmitAll(ev.MeetingID, c.socketID)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	for _, p := range admitted {
		notifyAdmitted(ev.MeetingID, p)
	}
}

func handleDeny(c *Connection, ev EventMessage) {
	var payload AdmitPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	res, err := waitingRoom.Deny(ev.MeetingID, c.socketID, payload.ParticipantSocketID, payload.Reason)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.SendToSocket(res.SocketID, map[string]interface{}{
		"action":    ActionWaitingRoomDenied,
		"meetingId": ev.MeetingID,
		"reason":    res.Reason,
	})
	defaultMessenger.SendToHost(ev.MeetingID, map[string]interface{}{
		"action":       ActionWaitingRoomLeft,
		"meetingId":    ev.MeetingID,
		"name":         res.Name,
		"waitingCount": res.WaitingCount,
	})
	PublishWaitingRoomDepth(res.WaitingCount, ev.MeetingID)
}

func handleToggleLock(c *Connection, ev EventMessage) {
	var payload LockPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	res, err := permissions.ToggleLock(ev.MeetingID, c.socketID, payload.IsLocked)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.BroadcastToMeeting(ev.MeetingID, map[string]interface{}{
		"action":    ActionMeetingLockChanged,
		"isLocked":  res.IsLocked,
		"changedBy": res.ChangedBy,
	})
}

func handleUpdateSettings(c *Connection, ev EventMessage) {
	var payload SettingsPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	res, err := waitingRoom.UpdateSettings(ev.MeetingID, c.socketID, payload.Settings)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.SendToHost(ev.MeetingID, map[string]interface{}{
		"action":    ActionWaitingRoomSettingsUpdated,
		"meetingId": ev.MeetingID,
		"settings":  res.Settings,
	})
	// disabling the waiting room bulk-admits whoever was queued
	for _, p := range res.AdmittedAll {
		notifyAdmitted(ev.MeetingID, p)
	}
}

func handleUpdatePermissions(c *Connection, ev EventMessage) {
	var payload PermissionsPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	res, err := permissions.UpdatePermissions(ev.MeetingID, c.socketID, payload.Permissions)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.BroadcastToMeeting(ev.MeetingID, map[string]interface{}{
		"action":       ActionMeetingPermissionsUpdated,
		"permissions":  res.Permissions,
		"changedBy":    res.ChangedBy,
		"participants": res.Participants,
	})
}

func handleRename(c *Connection, ev EventMessage, isHostRename bool) {
	var payload RenamePayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	res, err := permissions.Rename(ev.MeetingID, c.socketID, payload.NewName, isHostRename)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.BroadcastToMeeting(ev.MeetingID, map[string]interface{}{
		"action":       ActionParticipantRenamed,
		"socketId":     res.SocketID,
		"oldName":      res.OldName,
		"newName":      res.NewName,
		"participants": res.Participants,
	})
}

func handleHandRaise(c *Connection, ev EventMessage, raised bool) {
	res, err := permissions.SetHandRaised(ev.MeetingID, c.socketID, raised)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.BroadcastToMeeting(ev.MeetingID, map[string]interface{}{
		"action":   ActionHandRaiseChanged,
		"socketId": res.SocketID,
		"name":     res.Name,
		"raised":   res.Raised,
	})
}

func handleRecordingRequest(c *Connection, ev EventMessage) {
	var payload RecordingRequestPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	req, suppressed := recording.RequestPermission(ev.MeetingID, c.socketID, payload.DisplayName)
	if suppressed {
		// host opted out of further prompts; drop without a reply
		return
	}
	defaultMessenger.SendToHost(ev.MeetingID, map[string]interface{}{
		"action":      ActionRecordingRequestReceived,
		"meetingId":   ev.MeetingID,
		"requestId":   req.ID,
		"socketId":    req.SocketID,
		"displayName": req.DisplayName,
	})
}

func handleRecordingRespond(c *Connection, ev EventMessage) {
	var payload RecordingRespondPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	res, err := recording.Respond(ev.MeetingID, c.socketID, payload.RequestID, payload.Approve, payload.DontShowAgain)
	if err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.SendToSocket(res.RequesterSocketID, map[string]interface{}{
		"action":    ActionRecordingRequestAnswered,
		"meetingId": ev.MeetingID,
		"requestId": payload.RequestID,
		"approved":  res.Approved,
	})
	if res.Approved {
		defaultMessenger.BroadcastToMeeting(ev.MeetingID, map[string]interface{}{
			"action":     ActionRecordingPermissionChanged,
			"permission": res.Permission,
		})
	}
}

func handleSetCoHost(c *Connection, ev EventMessage) {
	var payload CoHostPayload
	if err := decodePayload(ev.Payload, &payload); err != nil {
		sendError(c, ev.Action, err)
		return
	}

	if err := meetingService.SetCoHost(ev.MeetingID, c.socketID, payload.ParticipantSocketID, payload.IsCoHost); err != nil {
		sendError(c, ev.Action, err)
		return
	}
	defaultMessenger.BroadcastToMeeting(ev.MeetingID, map[string]interface{}{
		"action":       ActionCoHostChanged,
		"socketId":     payload.ParticipantSocketID,
		"isCoHost":     payload.IsCoHost,
		"participants": meetingService.Participants(ev.MeetingID),
	})
}

// handleDisconnect cleans up whichever map held the departing socket and
// tells the right audience.
func handleDisconnect(c *Connection) {
	logger.Warn.Printf("[handleDisconnect] WebSocket disconnected: %v (socket=%s)", c.conn.RemoteAddr(), c.socketID)
	result := waitingRoom.Disconnect(c.meetingID, c.socketID)

	if result.WasWaiting {
		defaultMessenger.SendToHost(c.meetingID, map[string]interface{}{
			"action":       ActionWaitingRoomLeft,
			"meetingId":    c.meetingID,
			"name":         result.Name,
			"waitingCount": result.WaitingCount,
		})
		PublishWaitingRoomDepth(result.WaitingCount, c.meetingID)
	}
	if result.WasParticipant {
		participants := meetingService.Participants(c.meetingID)
		defaultMessenger.BroadcastToMeeting(c.meetingID, map[string]interface{}{
			"action":       ActionParticipantLeft,
			"socketId":     c.socketID,
			"name":         result.Name,
			"wasHost":      result.WasHost,
			"participants": participants,
		})
		PublishParticipantCount(len(participants), c.meetingID)
	}
}
