// Package services: services/chat_service.go
package services

import (
	"sync"
	"time"

	"go-meet-hub/logger"
)

// Two distinct chat flags exist: MeetingPermissions.ChatEnabled is
// meeting-scoped, while GlobalChatState below is the process-wide
// kill-switch with an explicit init/reset lifecycle.

// GlobalChatState is the process-wide chat kill-switch record.
type GlobalChatState struct {
	Disabled  bool      `json:"disabled"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var globalChatMutex sync.Mutex
var globalChat *GlobalChatState

// ChatStateServiceInterface reads and writes the process-wide chat flag.
type ChatStateServiceInterface interface {
	State() GlobalChatState
	SetDisabled(disabled bool, updatedBy string) GlobalChatState
}

// ChatStateService implements the global chat flag over the named record.
type ChatStateService struct{}

// NewChatStateService creates a new ChatStateService instance.
func NewChatStateService() *ChatStateService {
	return &ChatStateService{}
}

// InitGlobalChatState creates (or resets) the record. Called once at process
// start; tests call it to get a clean slate.
func InitGlobalChatState() {
	globalChatMutex.Lock()
	defer globalChatMutex.Unlock()
	globalChat = &GlobalChatState{UpdatedAt: time.Now()}
	logger.Info.Println("[InitGlobalChatState] Global chat state initialised (enabled)")
}

// State returns a copy of the current record.
func (s *ChatStateService) State() GlobalChatState {
	globalChatMutex.Lock()
	defer globalChatMutex.Unlock()
	if globalChat == nil {
		globalChat = &GlobalChatState{UpdatedAt: time.Now()}
	}
	return *globalChat
}

// SetDisabled flips the process-wide flag and returns the new record.
func (s *ChatStateService) SetDisabled(disabled bool, updatedBy string) GlobalChatState {
	globalChatMutex.Lock()
	defer globalChatMutex.Unlock()
	if globalChat == nil {
		globalChat = &GlobalChatState{}
	}
	globalChat.Disabled = disabled
	globalChat.UpdatedBy = updatedBy
	globalChat.UpdatedAt = time.Now()
	logger.Info.Printf("[SetDisabled] Global chat disabled=%t (by %q)", disabled, updatedBy)
	return *globalChat
}
