// controllers/recording_controller_test.go
//go:build unit
// +build unit

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-meet-hub/models"
	"go-meet-hub/services"
)

func setupRecordingRouter(t *testing.T) (*gin.Engine, *services.RecordingService) {
	t.Helper()
	router := setupTestRouter()
	rec := services.NewRecordingService()
	rc := NewRecordingController(rec)

	// a host must exist so host-directed sends have a target to resolve
	services.NewWaitingRoomService().RequestJoin("m1", "host-sock", "Hana", models.DeviceSettings{}, true)

	router.GET("/api/recording-permission", rc.GetRecordingPermission)
	router.POST("/api/recording-permission", tokenStub("m1"), rc.SetRecordingPermission)
	router.POST("/api/request-recording-permission", rc.RequestRecordingPermission)
	router.POST("/api/respond-recording-request", tokenStub("m1"), rc.RespondRecordingRequest)
	return router, rec
}

func TestGetRecordingPermission(t *testing.T) {
	router, _ := setupRecordingRouter(t)

	req, _ := http.NewRequest("GET", "/api/recording-permission?meetingId=m1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Permission models.RecordingPermission `json:"permission"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RecordingDisallowed, resp.Permission)
}

func TestGetRecordingPermission_MissingMeetingID(t *testing.T) {
	router, _ := setupRecordingRouter(t)

	req, _ := http.NewRequest("GET", "/api/recording-permission", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetRecordingPermission(t *testing.T) {
	router, rec := setupRecordingRouter(t)

	w := postJSON(t, router, "/api/recording-permission",
		gin.H{"meetingId": "m1", "permission": "Record to Computer"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RecordingToComputer, rec.GetPermission("m1"))
}

func TestSetRecordingPermission_TokenMismatch(t *testing.T) {
	router, rec := setupRecordingRouter(t)

	w := postJSON(t, router, "/api/recording-permission",
		gin.H{"meetingId": "other-meeting", "permission": "Record to Computer"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.RecordingDisallowed, rec.GetPermission("other-meeting"))
}

func TestSetRecordingPermission_InvalidValue(t *testing.T) {
	router, _ := setupRecordingRouter(t)

	w := postJSON(t, router, "/api/recording-permission",
		gin.H{"meetingId": "m1", "permission": "Record to Cloud"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestAndRespondRecording_OverHTTP(t *testing.T) {
	router, rec := setupRecordingRouter(t)

	w := postJSON(t, router, "/api/request-recording-permission",
		gin.H{"meetingId": "m1", "participantId": "alice-sock", "displayName": "Alice"})
	require.Equal(t, http.StatusAccepted, w.Code)

	var reqResp struct {
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqResp))
	require.NotEmpty(t, reqResp.RequestID)

	w = postJSON(t, router, "/api/respond-recording-request",
		gin.H{"meetingId": "m1", "requestId": reqResp.RequestID, "approve": true})
	require.Equal(t, http.StatusOK, w.Code)

	var respResp struct {
		Approved   bool                       `json:"approved"`
		Permission models.RecordingPermission `json:"permission"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &respResp))
	assert.True(t, respResp.Approved)
	assert.Equal(t, models.RecordingToComputer, respResp.Permission)
	assert.Equal(t, models.RecordingToComputer, rec.GetPermission("m1"))
}

func TestRequestRecording_SuppressedAfterDontShowAgain(t *testing.T) {
	router, _ := setupRecordingRouter(t)

	w := postJSON(t, router, "/api/request-recording-permission",
		gin.H{"meetingId": "m1", "participantId": "alice-sock", "displayName": "Alice"})
	require.Equal(t, http.StatusAccepted, w.Code)
	var reqResp struct {
		RequestID string `json:"requestId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reqResp))

	w = postJSON(t, router, "/api/respond-recording-request",
		gin.H{"meetingId": "m1", "requestId": reqResp.RequestID, "approve": false, "dontShowAgain": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, router, "/api/request-recording-permission",
		gin.H{"meetingId": "m1", "participantId": "alice-sock", "displayName": "Alice"})
	require.Equal(t, http.StatusOK, w.Code)
	var supResp struct {
		Suppressed bool `json:"suppressed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &supResp))
	assert.True(t, supResp.Suppressed)
}

func TestRespondRecording_UnknownRequest(t *testing.T) {
	router, _ := setupRecordingRouter(t)

	w := postJSON(t, router, "/api/respond-recording-request",
		gin.H{"meetingId": "m1", "requestId": "ghost", "approve": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
