// File: jobbot/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Chat endpoints
	ChatMessageHandler gin.HandlerFunc
	ChatResetHandler   gin.HandlerFunc
	ChatSessionHandler gin.HandlerFunc
	ChatSocketHandler  gin.HandlerFunc
	ChatVoiceHandler   gin.HandlerFunc

	// Calendar endpoints
	AvailableSlotsHandler  gin.HandlerFunc
	CalendarBookHandler    gin.HandlerFunc
	CalendarHealthHandler  gin.HandlerFunc
	UpcomingBookingHandler gin.HandlerFunc

	// Booking endpoints
	ConfirmBookingHandler gin.HandlerFunc
	BookingSummaryHandler gin.HandlerFunc
	FormatSummaryHandler  gin.HandlerFunc
	BookTestHandler       gin.HandlerFunc

	// Service health
	HealthHandler gin.HandlerFunc
}
