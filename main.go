// main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go-meet-hub/controllers"
	"go-meet-hub/logger"
	"go-meet-hub/middleware"
	"go-meet-hub/services"
	"go-meet-hub/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("No .env file loaded: %v", err)
	}
	logger.SetLogLevel(os.Getenv("ENV"))

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// Add this route for health checks
	router.GET("/health", controllers.Health)

	// Read configuration from environment variables
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default to localhost for local testing
	}

	websocketURL := os.Getenv("WEBSOCKET_URL")
	if websocketURL == "" {
		websocketURL = "ws://localhost:8080/signaling" // Default to localhost for local testing
	}
	controllers.SetConfig(applicationURL, websocketURL)

	// Initialize session store
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "dev-session-secret"
	}
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("meethub_session", store))

	// Serve static files under /static
	router.Static("/static", "./static")

	// Wire the services into their controllers
	services.InitGlobalChatState()
	meetingService := services.NewMeetingService()
	authService := services.NewAuthService()
	recordingService := services.NewRecordingService()
	chatService := services.NewChatStateService()

	meetingController := controllers.NewMeetingController(meetingService, authService)
	authController := controllers.NewAuthController(meetingService, authService)
	chatController := controllers.NewChatController(chatService)
	recordingController := controllers.NewRecordingController(recordingService)

	// Public routes
	router.POST("/api/meetings", meetingController.CreateMeeting)
	router.POST("/api/login", authController.PerformLogin)
	router.GET("/api/logout", authController.Logout)
	router.GET("/api/config", controllers.GetClientConfig)
	router.GET("/api/chat-state", chatController.GetChatState)
	router.GET("/api/recording-permission", recordingController.GetRecordingPermission)
	router.POST("/api/request-recording-permission", recordingController.RequestRecordingPermission)
	router.GET("/api/meetings/:id/qrcode", meetingController.GetInviteQRCode)

	// Token-gated mutation routes
	api := router.Group("/api", middleware.TokenRequired(authService))
	{
		api.POST("/disable-chat", chatController.DisableChat)
		api.POST("/recording-permission", recordingController.SetRecordingPermission)
		api.POST("/respond-recording-request", recordingController.RespondRecordingRequest)
		api.DELETE("/meetings/:id", meetingController.EndMeeting)
	}

	// Pre-built views
	router.GET("/participant", controllers.ShowParticipantPage)
	router.GET("/waiting-room", controllers.ShowWaitingRoomPage)
	host := router.Group("/", middleware.AuthRequired)
	{
		host.GET("/host", controllers.ShowHostPage)
	}

	// Signalling endpoint and presence heartbeat
	router.GET("/signaling", func(c *gin.Context) {
		websocket.ServeWs(c.Writer, c.Request)
	})
	router.GET("/heartbeat", gin.WrapF(HeartbeatHandler))

	// Start the broadcast fan-out and the waiting-room presence sweeper
	go websocket.HandleMessages()
	go CleanupRoutine()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
