// Package controllers controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-meet-hub/logger"
)

var applicationURL string
var websocketURL string

// SetConfig stores the externally visible URLs handed to pages and clients.
func SetConfig(appURL, wsURL string) {
	applicationURL = appURL
	websocketURL = wsURL
}

// Health is the load-balancer health check.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GetClientConfig hands the client the URLs it needs to open its socket.
func GetClientConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"applicationUrl": applicationURL,
		"websocketUrl":   websocketURL,
	})
}

// ShowHostPage serves the pre-built host view.
func ShowHostPage(c *gin.Context) {
	logger.Debug.Println("ShowHostPage: serving host view")
	c.File("./static/host.html")
}

// ShowParticipantPage serves the pre-built participant view.
func ShowParticipantPage(c *gin.Context) {
	c.File("./static/participant.html")
}

// ShowWaitingRoomPage serves the pre-built waiting-room view.
func ShowWaitingRoomPage(c *gin.Context) {
	c.File("./static/waiting-room.html")
}
