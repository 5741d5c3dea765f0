// Package controllers controllers/chat_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go-meet-hub/logger"
	"go-meet-hub/services"
	"go-meet-hub/websocket"
)

// ChatController exposes the process-wide chat kill-switch. The per-meeting
// chat toggle rides update-meeting-permissions instead; the two are distinct
// flags on purpose.
type ChatController struct {
	Chat services.ChatStateServiceInterface
}

// NewChatController creates an instance of ChatController.
func NewChatController(chat services.ChatStateServiceInterface) *ChatController {
	return &ChatController{Chat: chat}
}

// GetChatState handles GET /api/chat-state.
func (cc *ChatController) GetChatState(c *gin.Context) {
	state := cc.Chat.State()
	c.JSON(http.StatusOK, gin.H{
		"chatDisabled": state.Disabled,
		"updatedBy":    state.UpdatedBy,
		"updatedAt":    state.UpdatedAt,
	})
}

// DisableChatRequest is the POST /api/disable-chat body.
type DisableChatRequest struct {
	Disabled  *bool  `json:"disabled" binding:"required"`
	UpdatedBy string `json:"updatedBy"`
}

// DisableChat handles POST /api/disable-chat. Every connected client is told
// about the new state, whatever meeting it is in.
func (cc *ChatController) DisableChat(c *gin.Context) {
	var req DisableChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "disabled boolean is required"})
		return
	}

	state := cc.Chat.SetDisabled(*req.Disabled, req.UpdatedBy)
	websocket.BroadcastAll(map[string]interface{}{
		"action":       websocket.ActionChatStateChanged,
		"chatDisabled": state.Disabled,
		"updatedBy":    state.UpdatedBy,
	})

	logger.Info.Printf("DisableChat: global chat disabled=%t", state.Disabled)
	c.JSON(http.StatusOK, gin.H{"chatDisabled": state.Disabled})
}
