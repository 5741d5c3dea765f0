// Package controllers controllers/recording_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-meet-hub/logger"
	"go-meet-hub/models"
	"go-meet-hub/services"
	"go-meet-hub/websocket"
)

// RecordingController exposes the recording-permission state and its
// request/response flow over HTTP, mirroring the socket path.
type RecordingController struct {
	Recording services.RecordingServiceInterface
}

// NewRecordingController creates an instance of RecordingController.
func NewRecordingController(recording services.RecordingServiceInterface) *RecordingController {
	return &RecordingController{Recording: recording}
}

// GetRecordingPermission handles GET /api/recording-permission.
func (rc *RecordingController) GetRecordingPermission(c *gin.Context) {
	meetingID := c.Query("meetingId")
	if meetingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": rc.Recording.GetPermission(meetingID)})
}

// SetRecordingPermissionRequest is the POST /api/recording-permission body.
type SetRecordingPermissionRequest struct {
	MeetingID  string                     `json:"meetingId" binding:"required"`
	Permission models.RecordingPermission `json:"permission" binding:"required"`
}

// SetRecordingPermission handles POST /api/recording-permission. The token
// middleware has already proven the caller is the host of the meeting in the
// token subject.
func (rc *RecordingController) SetRecordingPermission(c *gin.Context) {
	var req SetRecordingPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId and permission are required"})
		return
	}
	if tokenMeeting, ok := c.Get("meetingId"); !ok || tokenMeeting != req.MeetingID {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is not valid for this meeting"})
		return
	}

	if err := rc.Recording.SetPermissionAsHost(req.MeetingID, req.Permission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	websocket.BroadcastToMeeting(req.MeetingID, map[string]interface{}{
		"action":     websocket.ActionRecordingPermissionChanged,
		"permission": req.Permission,
	})
	c.JSON(http.StatusOK, gin.H{"permission": req.Permission})
}

// RequestRecordingPermissionRequest is the POST /api/request-recording-permission body.
type RequestRecordingPermissionRequest struct {
	MeetingID     string `json:"meetingId" binding:"required"`
	ParticipantID string `json:"participantId" binding:"required"`
	DisplayName   string `json:"displayName" binding:"required"`
}

// RequestRecordingPermission handles a participant's ask over HTTP. When the
// host has suppressed prompts the request is dropped and the caller is told
// so; otherwise the host gets the queued item over the socket.
func (rc *RecordingController) RequestRecordingPermission(c *gin.Context) {
	var req RequestRecordingPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId, participantId and displayName are required"})
		return
	}

	record, suppressed := rc.Recording.RequestPermission(req.MeetingID, req.ParticipantID, req.DisplayName)
	if suppressed {
		c.JSON(http.StatusOK, gin.H{"suppressed": true})
		return
	}

	websocket.SendToHost(req.MeetingID, map[string]interface{}{
		"action":      websocket.ActionRecordingRequestReceived,
		"meetingId":   req.MeetingID,
		"requestId":   record.ID,
		"socketId":    record.SocketID,
		"displayName": record.DisplayName,
	})
	c.JSON(http.StatusAccepted, gin.H{"requestId": record.ID})
}

// RespondRecordingRequestRequest is the POST /api/respond-recording-request body.
type RespondRecordingRequestRequest struct {
	MeetingID     string `json:"meetingId" binding:"required"`
	RequestID     string `json:"requestId" binding:"required"`
	Approve       *bool  `json:"approve" binding:"required"`
	DontShowAgain bool   `json:"dontShowAgain"`
}

// RespondRecordingRequest handles the host's answer over HTTP.
func (rc *RecordingController) RespondRecordingRequest(c *gin.Context) {
	var req RespondRecordingRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId, requestId and approve are required"})
		return
	}
	if tokenMeeting, ok := c.Get("meetingId"); !ok || tokenMeeting != req.MeetingID {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is not valid for this meeting"})
		return
	}

	res, err := rc.Recording.RespondAsHost(req.MeetingID, req.RequestID, *req.Approve, req.DontShowAgain)
	if err != nil {
		logger.Warn.Printf("RespondRecordingRequest: meeting=%s request=%s: %v", req.MeetingID, req.RequestID, err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	websocket.SendToSocket(res.RequesterSocketID, map[string]interface{}{
		"action":    websocket.ActionRecordingRequestAnswered,
		"meetingId": req.MeetingID,
		"requestId": req.RequestID,
		"approved":  res.Approved,
	})
	if res.Approved {
		websocket.BroadcastToMeeting(req.MeetingID, map[string]interface{}{
			"action":     websocket.ActionRecordingPermissionChanged,
			"permission": res.Permission,
		})
	}
	c.JSON(http.StatusOK, gin.H{"approved": res.Approved, "permission": res.Permission})
}
