// file: heartbeat.go
package main

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"go-meet-hub/logger"
)

// Waiting-room pages poll this endpoint over plain HTTP before their socket
// is established, so the host UI can show who is still around.
var (
	waitingSessions = make(map[string]time.Time)
	sessionLock     = sync.Mutex{}
)

// HeartbeatHandler updates the last seen timestamp of a waiting participant.
func HeartbeatHandler(w http.ResponseWriter, r *http.Request) {
	participantID := r.URL.Query().Get("participant_id")
	if participantID == "" {
		logger.Warn.Println("[HeartbeatHandler] Missing participant ID in query params")
		http.Error(w, "Missing participant ID", http.StatusBadRequest)
		return
	}

	sessionLock.Lock()
	waitingSessions[participantID] = time.Now()
	sessionLock.Unlock()

	logger.Debug.Printf("[HeartbeatHandler] Updated heartbeat for participant=%s at %v", participantID, time.Now())

	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprintln(w, "Heartbeat received"); err != nil {
		logger.Warn.Printf("[HeartbeatHandler] Error writing response for participant=%s: %v", participantID, err)
	}
}

// CleanupRoutine drops waiting participants that stopped polling.
func CleanupRoutine() {
	ticker := time.NewTicker(10 * time.Second)
	for range ticker.C {
		sessionLock.Lock()
		for id, lastSeen := range waitingSessions {
			if time.Since(lastSeen) > 120*time.Second {
				logger.Info.Printf("[CleanupRoutine] Removing inactive waiting participant=%s", id)
				delete(waitingSessions, id)
			}
		}
		sessionLock.Unlock()
	}
}
