// services/qrcode_service.go
package services

import (
	"errors"
	"os"

	"github.com/skip2/go-qrcode"
)

// GenerateJoinQRCode creates a QR code PNG for a meeting's join URL.
func GenerateJoinQRCode(meetingID string, size int) ([]byte, error) {
	if meetingID == "" {
		return nil, errors.New("meetingID is required")
	}
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}

	joinURL := applicationURL + "/participant?meetingId=" + meetingID
	png, err := qrcode.Encode(joinURL, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
