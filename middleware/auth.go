// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-meet-hub/logger"
)

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures a host session exists.
// How it works:
// - Retrieves the session from the request context.
// - Checks if the "meetingId" session variable is set (done at login).
// - If missing, redirects to the login page and aborts execution.
// - Otherwise, the request proceeds with the meeting id in the context.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	meetingID := session.Get("meetingId")

	// block request if host session is missing
	if meetingID == nil {
		logger.Warn.Println("AuthRequired: No host session found; redirecting to /login")
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	c.Set("sessionMeetingId", meetingID)
	logger.Debug.Println("[AuthRequired] Host session present - proceeding with request")
	c.Next()
}
