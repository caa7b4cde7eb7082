package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"jobbot/handlers"
)

// RegisterChatRoutes registers the conversation endpoints.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1/chat")
	{
		api.POST("/message", hb.ChatMessageHandler)
		api.POST("/reset", hb.ChatResetHandler)
		api.GET("/session/:session_id", hb.ChatSessionHandler)
		api.GET("/ws", hb.ChatSocketHandler)
		api.POST("/voice", hb.ChatVoiceHandler)
	}
}

// RegisterCalendarRoutes registers availability and direct booking endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1/calendar")
	{
		api.POST("/available-slots", hb.AvailableSlotsHandler)
		api.POST("/book", hb.CalendarBookHandler)
		api.GET("/health", hb.CalendarHealthHandler)
		api.GET("/upcoming", hb.UpcomingBookingHandler)
	}
}

// RegisterBookingRoutes registers the confirmation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1/booking")
	{
		api.POST("/confirm", hb.ConfirmBookingHandler)
		api.GET("/summary/:booking_id", hb.BookingSummaryHandler)
		api.POST("/format-summary", hb.FormatSummaryHandler)
		api.POST("/book-test", hb.BookTestHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
