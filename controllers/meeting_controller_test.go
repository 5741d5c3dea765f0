// controllers/meeting_controller_test.go
//go:build unit
// +build unit

package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-meet-hub/services"
	"go-meet-hub/websocket"
)

// Shared router setup
func setupTestRouter() *gin.Engine {
	websocket.InitTest()
	services.ResetRegistry()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))
	return router
}

// tokenStub mimics the bearer middleware by pinning the token subject.
func tokenStub(meetingID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("meetingId", meetingID)
		c.Next()
	}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateMeeting(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	router := setupTestRouter()
	auth := services.NewAuthService()
	mc := NewMeetingController(services.NewMeetingService(), auth)
	router.POST("/api/meetings", mc.CreateMeeting)

	w := postJSON(t, router, "/api/meetings", gin.H{"hostName": "Hana", "passcode": "hunter2"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		MeetingID string `json:"meetingId"`
		Token     string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.MeetingID)

	// the token is scoped to the new meeting
	subject, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.MeetingID, subject)

	// the passcode hash landed on the meeting record
	m := services.NewMeetingService().Get(resp.MeetingID)
	assert.NotEmpty(t, m.HostKeyHash)
	assert.True(t, ComparePasscodes(m.HostKeyHash, "hunter2"))
}

func TestCreateMeeting_MissingFields(t *testing.T) {
	router := setupTestRouter()
	mc := NewMeetingController(services.NewMeetingService(), services.NewAuthService())
	router.POST("/api/meetings", mc.CreateMeeting)

	w := postJSON(t, router, "/api/meetings", gin.H{"hostName": "Hana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEndMeeting_RequiresMatchingToken(t *testing.T) {
	router := setupTestRouter()
	meetings := services.NewMeetingService()
	mc := NewMeetingController(meetings, services.NewAuthService())
	meetings.Get("m1")

	// token subject is a different meeting
	router.DELETE("/api/meetings/:id", tokenStub("other-meeting"), mc.EndMeeting)

	req, _ := http.NewRequest("DELETE", "/api/meetings/m1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEndMeeting_RemovesMeeting(t *testing.T) {
	router := setupTestRouter()
	meetings := services.NewMeetingService()
	mc := NewMeetingController(meetings, services.NewAuthService())
	meetings.Get("m1")

	router.DELETE("/api/meetings/:id", tokenStub("m1"), mc.EndMeeting)

	req, _ := http.NewRequest("DELETE", "/api/meetings/m1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// a later Get creates a fresh record with no host key
	assert.Empty(t, meetings.Get("m1").HostKeyHash)
}

func TestGetInviteQRCode(t *testing.T) {
	t.Setenv("APPLICATION_URL", "https://meet.example.com")
	router := setupTestRouter()
	mc := NewMeetingController(services.NewMeetingService(), services.NewAuthService())
	router.GET("/api/meetings/:id/qrcode", mc.GetInviteQRCode)

	req, _ := http.NewRequest("GET", "/api/meetings/m1/qrcode", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())
}
