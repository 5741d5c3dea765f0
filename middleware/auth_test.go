// file: middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Helper function to create a test router with session middleware
func setupAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("secret"))
	router.Use(sessions.Sessions("testsession", store))

	// route to establish a host session
	router.GET("/fake-login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set("meetingId", "m1")
		_ = session.Save()
		c.Status(http.StatusOK)
	})

	router.GET("/host", AuthRequired, func(c *gin.Context) {
		id, _ := c.Get("sessionMeetingId")
		c.String(http.StatusOK, "host page for %v", id)
	})

	return router
}

// Unauthenticated users are redirected to /login
func TestAuthRequired_Unauthenticated(t *testing.T) {
	router := setupAuthTestRouter()

	req, _ := http.NewRequest("GET", "/host", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code, "Expected 302 Redirect")
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

// A host with a session cookie gets through
func TestAuthRequired_Authenticated(t *testing.T) {
	router := setupAuthTestRouter()

	loginReq, _ := http.NewRequest("GET", "/fake-login", nil)
	loginW := httptest.NewRecorder()
	router.ServeHTTP(loginW, loginReq)

	req, _ := http.NewRequest("GET", "/host", nil)
	for _, cookie := range loginW.Result().Cookies() {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "m1")
}
