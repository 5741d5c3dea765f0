// Package controllers controllers/auth_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-meet-hub/logger"
	"go-meet-hub/services"
	"golang.org/x/crypto/bcrypt"
)

// AuthController handles the host login flow: passcode check, session, and
// API token issuance.
type AuthController struct {
	Meetings services.MeetingServiceInterface
	Auth     services.AuthServiceInterface
}

// NewAuthController creates an instance of AuthController.
func NewAuthController(meetings services.MeetingServiceInterface, auth services.AuthServiceInterface) *AuthController {
	return &AuthController{Meetings: meetings, Auth: auth}
}

// ComparePasscodes checks if the given passcode matches the stored hash.
func ComparePasscodes(hash []byte, plain string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plain)) == nil
}

// LoginRequest is the POST /api/login body.
type LoginRequest struct {
	MeetingID string `json:"meetingId" binding:"required"`
	Passcode  string `json:"passcode" binding:"required"`
}

// PerformLogin verifies the host passcode for a meeting, stores the meeting
// in the session, and returns a fresh API token.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meetingId and passcode are required"})
		return
	}

	m := ac.Meetings.Get(req.MeetingID)
	if len(m.HostKeyHash) == 0 || !ComparePasscodes(m.HostKeyHash, req.Passcode) {
		logger.Warn.Printf("PerformLogin: bad passcode for meeting=%s", req.MeetingID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid meeting id or passcode"})
		return
	}

	session := sessions.Default(c)
	session.Set("meetingId", req.MeetingID)
	if err := session.Save(); err != nil {
		logger.Error.Printf("PerformLogin: error saving session for meeting=%s: %v", req.MeetingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again"})
		return
	}

	token, err := ac.Auth.IssueToken(req.MeetingID)
	if err != nil {
		logger.Error.Printf("PerformLogin: failed to issue token for meeting=%s: %v", req.MeetingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again"})
		return
	}

	logger.Info.Printf("PerformLogin: host logged in for meeting=%s", req.MeetingID)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Logout clears the host session.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: error clearing session: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"loggedOut": true})
}
