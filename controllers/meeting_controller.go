// Package controllers controllers/meeting_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go-meet-hub/logger"
	"go-meet-hub/services"
	"go-meet-hub/websocket"
	"golang.org/x/crypto/bcrypt"
)

// MeetingController handles meeting creation, teardown and invite QR codes.
type MeetingController struct {
	Meetings services.MeetingServiceInterface
	Auth     services.AuthServiceInterface
}

// NewMeetingController creates an instance of MeetingController.
func NewMeetingController(meetings services.MeetingServiceInterface, auth services.AuthServiceInterface) *MeetingController {
	logger.Debug.Println("NewMeetingController: Initializing MeetingController")
	return &MeetingController{Meetings: meetings, Auth: auth}
}

// CreateMeetingRequest is the POST /api/meetings body.
type CreateMeetingRequest struct {
	HostName string `json:"hostName" binding:"required"`
	Passcode string `json:"passcode" binding:"required"`
}

// CreateMeeting allocates a meeting id, stores the hashed host passcode, and
// hands back the API token the host uses for the /api mutation routes.
func (mc *MeetingController) CreateMeeting(c *gin.Context) {
	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hostName and passcode are required"})
		return
	}

	meetingID := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Passcode), bcrypt.DefaultCost)
	if err != nil {
		logger.Error.Printf("CreateMeeting: failed to hash passcode: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again"})
		return
	}

	m := mc.Meetings.Get(meetingID)
	m.HostKeyHash = hash

	token, err := mc.Auth.IssueToken(meetingID)
	if err != nil {
		logger.Error.Printf("CreateMeeting: failed to issue token for meeting=%s: %v", meetingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again"})
		return
	}

	logger.Info.Printf("CreateMeeting: meeting=%s created by %q", meetingID, req.HostName)
	c.JSON(http.StatusCreated, gin.H{
		"meetingId": meetingID,
		"token":     token,
	})
}

// EndMeeting removes the meeting record and tells every replica the meeting
// is over. Gated by the bearer token for this meeting.
func (mc *MeetingController) EndMeeting(c *gin.Context) {
	meetingID := c.Param("id")
	if tokenMeeting, ok := c.Get("meetingId"); !ok || tokenMeeting != meetingID {
		c.JSON(http.StatusForbidden, gin.H{"error": "token is not valid for this meeting"})
		return
	}

	websocket.BroadcastToMeeting(meetingID, map[string]interface{}{
		"action": websocket.ActionMeetingEnded,
	})
	mc.Meetings.Remove(meetingID)
	logger.Info.Printf("EndMeeting: meeting=%s ended", meetingID)
	c.JSON(http.StatusOK, gin.H{"ended": true})
}

// GetInviteQRCode returns a QR code PNG pointing at the participant join URL.
func (mc *MeetingController) GetInviteQRCode(c *gin.Context) {
	meetingID := c.Param("id")
	if meetingID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meeting id is required"})
		return
	}

	png, err := services.GenerateJoinQRCode(meetingID, 256)
	if err != nil {
		logger.Error.Printf("GetInviteQRCode: failed to generate QR code for meeting=%s: %v", meetingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
