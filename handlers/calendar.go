package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobbot/models"
	"jobbot/services/availability"
	"jobbot/services/calendar"
	"jobbot/utils"
)

const defaultUpcomingDays = 7

// SlotService is the availability engine as the HTTP layer sees it.
type SlotService interface {
	Availability(ctx context.Context, dayRef string, hours int) (models.AvailabilityResult, error)
	SlotAt(dayRef string, startHour, hours int) (models.TimeSlot, error)
	IsFree(ctx context.Context, slot models.TimeSlot) (bool, error)
	Reserve(ctx context.Context, slot models.TimeSlot, booking models.BookingData, jobID string) (*models.Reservation, error)
	MockMode() bool
	Calendar() calendar.Calendar
	Now() time.Time
}

type CalendarHandler struct {
	Slots  SlotService
	Logger *zap.Logger
}

func NewCalendarHandler(slots SlotService, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{Slots: slots, Logger: logger}
}

type availableSlotsRequest struct {
	Day           string `json:"day" binding:"required"`
	DurationHours *int   `json:"duration_hours"`
}

// AvailableSlotsHandler handles POST /api/v1/calendar/available-slots.
// An unrecognised day is reported in the body with success=false.
func (h *CalendarHandler) AvailableSlotsHandler(c *gin.Context) {
	var req availableSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	hours := availability.DefaultDurationHours
	if req.DurationHours != nil {
		hours = *req.DurationHours
	}
	if hours <= 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "duration_hours must be positive")
		return
	}

	res, err := h.Slots.Availability(c.Request.Context(), req.Day, hours)
	var dayErr *availability.DayError
	if err != nil && !errors.As(err, &dayErr) {
		h.Logger.Error("Availability lookup failed", zap.String("day", req.Day), zap.Error(err))
	}
	res.MockMode = res.MockMode || h.Slots.MockMode()
	c.JSON(http.StatusOK, res)
}

type bookRequest struct {
	BookingData models.BookingData `json:"booking_data"`
}

type bookResponse struct {
	Success      bool                     `json:"success"`
	EventID      string                   `json:"event_id,omitempty"`
	EventLink    string                   `json:"event_link,omitempty"`
	EventDetails *models.EventDetails     `json:"event_details,omitempty"`
	Error        string                   `json:"error,omitempty"`
	Alternatives []models.AlternativeTime `json:"alternatives,omitempty"`
	MockMode     bool                     `json:"mock_mode"`
}

// BookHandler handles POST /api/v1/calendar/book. The booking must carry a
// selected_slot; a busy slot yields 409 with alternative start times.
func (h *CalendarHandler) BookHandler(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	b := req.BookingData
	if b.SelectedSlot == nil {
		c.JSON(http.StatusBadRequest, bookResponse{Error: "selected_slot is required", MockMode: h.Slots.MockMode()})
		return
	}

	slot, err := bookingWindow(b)
	if err != nil {
		c.JSON(http.StatusBadRequest, bookResponse{Error: err.Error(), MockMode: h.Slots.MockMode()})
		return
	}
	ctx := c.Request.Context()

	free, err := h.Slots.IsFree(ctx, slot)
	if err != nil {
		h.Logger.Warn("Overlap check failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, bookResponse{Error: err.Error(), MockMode: h.Slots.MockMode()})
		return
	}
	if !free {
		start, _ := slot.Start()
		c.JSON(http.StatusConflict, bookResponse{
			Error:        "Time slot is not available",
			Alternatives: availability.SuggestAlternatives(start),
			MockMode:     h.Slots.MockMode(),
		})
		return
	}

	res, err := h.Slots.Reserve(ctx, slot, b, "")
	if err != nil {
		h.Logger.Error("Calendar booking failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, bookResponse{Error: err.Error(), MockMode: h.Slots.MockMode()})
		return
	}
	details := res.EventDetails
	c.JSON(http.StatusOK, bookResponse{
		Success:      true,
		EventID:      res.EventID,
		EventLink:    res.EventLink,
		EventDetails: &details,
		MockMode:     res.MockMode,
	})
}

// bookingWindow stretches the selected slot to the booking's duration when
// one is given.
func bookingWindow(b models.BookingData) (models.TimeSlot, error) {
	slot := *b.SelectedSlot
	start, err := slot.Start()
	if err != nil {
		return models.TimeSlot{}, err
	}
	hours := b.DurationHours
	if hours <= 0 && b.Duration != "" {
		hours = availability.ParseDurationHours(b.Duration)
	}
	if hours <= 0 {
		return slot, nil
	}
	return models.NewTimeSlot(start, start.Add(time.Duration(hours)*time.Hour)), nil
}

// HealthHandler handles GET /api/v1/calendar/health.
func (h *CalendarHandler) HealthHandler(c *gin.Context) {
	mock := h.Slots.MockMode()
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"service_available": !mock,
		"mock_mode":         mock,
	})
}

// UpcomingHandler handles GET /api/v1/calendar/upcoming?days=N.
func (h *CalendarHandler) UpcomingHandler(c *gin.Context) {
	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "days must be a positive integer")
			return
		}
		days = n
	}

	lister, ok := h.Slots.Calendar().(calendar.UpcomingLister)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "bookings": []models.UpcomingBooking{}, "mock_mode": true})
		return
	}
	from := h.Slots.Now()
	bookings, err := lister.Upcoming(c.Request.Context(), from, from.AddDate(0, 0, days), calendar.MaxUpcoming)
	if err != nil {
		h.Logger.Warn("Failed to list upcoming bookings", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"success": false, "bookings": []models.UpcomingBooking{}, "error": err.Error(), "mock_mode": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings, "mock_mode": false})
}
