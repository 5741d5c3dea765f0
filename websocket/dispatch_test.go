//go:build unit
// +build unit

// Unit tests for dispatch.go. A capturing Messenger replaces the real one so
// the tests can observe which audience each event reaches.

// file: websocket/dispatch_test.go
package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-meet-hub/models"
	"go-meet-hub/services"
)

// capturedSend records a SendToSocket or SendToHost delivery.
type capturedSend struct {
	target string
	msg    map[string]interface{}
}

// captureMessenger records every delivery instead of touching connections.
type captureMessenger struct {
	broadcasts []map[string]interface{}
	toSocket   []capturedSend
	toHost     []capturedSend
	raw        [][]byte
}

func (c *captureMessenger) BroadcastToMeeting(meetingID string, msg map[string]interface{}) {
	msg["meetingId"] = meetingID
	c.broadcasts = append(c.broadcasts, msg)
}

func (c *captureMessenger) SendToSocket(socketID string, msg map[string]interface{}) {
	c.toSocket = append(c.toSocket, capturedSend{target: socketID, msg: msg})
}

func (c *captureMessenger) SendToHost(meetingID string, msg map[string]interface{}) {
	c.toHost = append(c.toHost, capturedSend{target: meetingID, msg: msg})
}

func (c *captureMessenger) BroadcastRaw(msg []byte) {
	c.raw = append(c.raw, msg)
}

// setupDispatch resets shared state and installs a capturing messenger. The
// returned restore func must be deferred.
func setupDispatch(t *testing.T) (*captureMessenger, func()) {
	t.Helper()
	InitTest()
	services.ResetRegistry()

	cm := &captureMessenger{}
	original := defaultMessenger
	defaultMessenger = cm
	return cm, func() { defaultMessenger = original }
}

// drainEvent reads one queued message off a connection's send channel.
func drainEvent(t *testing.T, c *Connection) map[string]interface{} {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	default:
		t.Fatal("expected a queued message")
		return nil
	}
}

func joinAsHost(meetingID, socketID string) {
	services.NewWaitingRoomService().RequestJoin(meetingID, socketID, "Hana", models.DeviceSettings{}, true)
}

func TestHandleIncoming_MissingMeetingIDIsRejected(t *testing.T) {
	_, restore := setupDispatch(t)
	defer restore()

	conn := newTestConnection("", "sock-1")
	handleIncoming(conn, EventMessage{Action: ActionRaiseHand})

	msg := drainEvent(t, conn)
	assert.Equal(t, ActionError, msg["action"])
	assert.Equal(t, ActionRaiseHand, msg["sourceAction"])
}

func TestHandleJoin_HostEntersDirectly(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	conn := newTestConnection("m1", "host-sock")
	payload, _ := json.Marshal(JoinPayload{ParticipantName: "Hana", AsHost: true})
	handleIncoming(conn, EventMessage{Action: ActionRequestJoinMeeting, MeetingID: "m1", Payload: payload})

	require.Len(t, cm.broadcasts, 1)
	assert.Equal(t, ActionParticipantJoined, cm.broadcasts[0]["action"])
}

func TestHandleJoin_WaitingRoomQueuesAndNotifiesHost(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	_, err := services.NewWaitingRoomService().UpdateSettings("m1", "host-sock",
		models.WaitingRoomSettingsPatch{Enabled: boolPtr(true)})
	require.NoError(t, err)
	cm.broadcasts = nil

	conn := newTestConnection("m1", "alice-sock")
	payload, _ := json.Marshal(JoinPayload{ParticipantName: "Alice"})
	handleIncoming(conn, EventMessage{Action: ActionRequestJoinMeeting, MeetingID: "m1", Payload: payload})

	// the joiner hears it is waiting
	msg := drainEvent(t, conn)
	assert.Equal(t, ActionWaitingRoomWaiting, msg["action"])

	// the host hears someone arrived
	require.Len(t, cm.toHost, 1)
	assert.Equal(t, ActionWaitingRoomJoined, cm.toHost[0].msg["action"])
	assert.Empty(t, cm.broadcasts)
}

func TestHandleJoin_LockedMeetingIsTerminal(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	_, err := services.NewPermissionService().ToggleLock("m1", "host-sock", true)
	require.NoError(t, err)

	conn := newTestConnection("m1", "alice-sock")
	payload, _ := json.Marshal(JoinPayload{ParticipantName: "Alice"})
	handleIncoming(conn, EventMessage{Action: ActionRequestJoinMeeting, MeetingID: "m1", Payload: payload})

	msg := drainEvent(t, conn)
	assert.Equal(t, ActionMeetingInaccessible, msg["action"])
	// nothing queued, nobody else told
	assert.Empty(t, cm.toHost)
}

func TestHandleAdmit_DeliversAdmissionAndBroadcast(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	wr := services.NewWaitingRoomService()
	_, err := wr.UpdateSettings("m1", "host-sock", models.WaitingRoomSettingsPatch{Enabled: boolPtr(true)})
	require.NoError(t, err)
	wr.RequestJoin("m1", "alice-sock", "Alice", models.DeviceSettings{}, false)
	cm.broadcasts = nil

	hostConn := newTestConnection("m1", "host-sock")
	payload, _ := json.Marshal(AdmitPayload{ParticipantSocketID: "alice-sock"})
	handleIncoming(hostConn, EventMessage{Action: ActionAdmitParticipant, MeetingID: "m1", Payload: payload})

	require.Len(t, cm.toSocket, 1)
	assert.Equal(t, "alice-sock", cm.toSocket[0].target)
	assert.Equal(t, ActionWaitingRoomAdmitted, cm.toSocket[0].msg["action"])

	require.Len(t, cm.broadcasts, 1)
	assert.Equal(t, ActionParticipantJoined, cm.broadcasts[0]["action"])
}

func TestHandleToggleLock_NonHostGetsActionError(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	services.NewWaitingRoomService().RequestJoin("m1", "alice-sock", "Alice", models.DeviceSettings{}, false)
	cm.broadcasts = nil

	aliceConn := newTestConnection("m1", "alice-sock")
	payload, _ := json.Marshal(LockPayload{IsLocked: true})
	handleIncoming(aliceConn, EventMessage{Action: ActionToggleMeetingLock, MeetingID: "m1", Payload: payload})

	msg := drainEvent(t, aliceConn)
	assert.Equal(t, ActionError, msg["action"])
	assert.Equal(t, ActionToggleMeetingLock, msg["sourceAction"])
	assert.Empty(t, cm.broadcasts)
}

func TestHandleToggleLock_HostChangeIsBroadcast(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	cm.broadcasts = nil

	hostConn := newTestConnection("m1", "host-sock")
	payload, _ := json.Marshal(LockPayload{IsLocked: true})
	handleIncoming(hostConn, EventMessage{Action: ActionToggleMeetingLock, MeetingID: "m1", Payload: payload})

	require.Len(t, cm.broadcasts, 1)
	assert.Equal(t, ActionMeetingLockChanged, cm.broadcasts[0]["action"])
	assert.Equal(t, true, cm.broadcasts[0]["isLocked"])
}

func TestHandleRename_BroadcastsNewName(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	services.NewWaitingRoomService().RequestJoin("m1", "alice-sock", "Alice", models.DeviceSettings{}, false)
	cm.broadcasts = nil

	aliceConn := newTestConnection("m1", "alice-sock")
	payload, _ := json.Marshal(RenamePayload{NewName: "Alicia"})
	handleIncoming(aliceConn, EventMessage{Action: ActionRenameParticipant, MeetingID: "m1", Payload: payload})

	require.Len(t, cm.broadcasts, 1)
	assert.Equal(t, ActionParticipantRenamed, cm.broadcasts[0]["action"])
	assert.Equal(t, "Alice", cm.broadcasts[0]["oldName"])
	assert.Equal(t, "Alicia", cm.broadcasts[0]["newName"])
}

func TestHandleRecordingRespond_ApproveNotifiesRequesterAndRoom(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	services.NewWaitingRoomService().RequestJoin("m1", "alice-sock", "Alice", models.DeviceSettings{}, false)

	aliceConn := newTestConnection("m1", "alice-sock")
	reqPayload, _ := json.Marshal(RecordingRequestPayload{DisplayName: "Alice"})
	handleIncoming(aliceConn, EventMessage{Action: ActionRequestRecording, MeetingID: "m1", Payload: reqPayload})

	require.Len(t, cm.toHost, 1)
	requestID, ok := cm.toHost[0].msg["requestId"].(string)
	require.True(t, ok)
	cm.broadcasts = nil

	hostConn := newTestConnection("m1", "host-sock")
	respPayload, _ := json.Marshal(RecordingRespondPayload{RequestID: requestID, Approve: true})
	handleIncoming(hostConn, EventMessage{Action: ActionRespondRecordingRequest, MeetingID: "m1", Payload: respPayload})

	require.Len(t, cm.toSocket, 1)
	assert.Equal(t, "alice-sock", cm.toSocket[0].target)
	assert.Equal(t, ActionRecordingRequestAnswered, cm.toSocket[0].msg["action"])
	assert.Equal(t, true, cm.toSocket[0].msg["approved"])

	require.Len(t, cm.broadcasts, 1)
	assert.Equal(t, ActionRecordingPermissionChanged, cm.broadcasts[0]["action"])
}

func TestHandleDisconnect_ParticipantLeaveIsBroadcast(t *testing.T) {
	cm, restore := setupDispatch(t)
	defer restore()

	joinAsHost("m1", "host-sock")
	services.NewWaitingRoomService().RequestJoin("m1", "alice-sock", "Alice", models.DeviceSettings{}, false)
	cm.broadcasts = nil

	aliceConn := newTestConnection("m1", "alice-sock")
	handleDisconnect(aliceConn)

	require.Len(t, cm.broadcasts, 1)
	assert.Equal(t, ActionParticipantLeft, cm.broadcasts[0]["action"])
	assert.Equal(t, "Alice", cm.broadcasts[0]["name"])
	assert.Equal(t, false, cm.broadcasts[0]["wasHost"])
}

func boolPtr(b bool) *bool { return &b }
