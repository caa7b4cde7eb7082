package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ledgerRepo "jobbot/database/repository/ledger"
	"jobbot/models"
	"jobbot/services/booking"
	"jobbot/utils"
)

const (
	testSessionID = "test-session"
	testStartHour = 18
)

type BookingHandler struct {
	Finalizer booking.Finalizer
	Ledger    ledgerRepo.BookingLedger
	Slots     SlotService
	Logger    *zap.Logger
}

func NewBookingHandler(fin booking.Finalizer, ledger ledgerRepo.BookingLedger, slots SlotService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Finalizer: fin, Ledger: ledger, Slots: slots, Logger: logger}
}

type confirmRequest struct {
	SessionID   string             `json:"session_id" binding:"required"`
	BookingData models.BookingData `json:"booking_data"`
}

// ConfirmBookingHandler handles POST /api/v1/booking/confirm. The outcome
// is always a Confirmation; its status tells success from failure.
func (h *BookingHandler) ConfirmBookingHandler(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	conf := h.Finalizer.Finalize(c.Request.Context(), req.SessionID, req.BookingData)
	c.JSON(http.StatusOK, conf)
}

// BookingSummaryHandler handles GET /api/v1/booking/summary/:booking_id.
func (h *BookingHandler) BookingSummaryHandler(c *gin.Context) {
	id := c.Param("booking_id")
	rec, err := h.Ledger.GetByID(c.Request.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.JSONError(c, http.StatusNotFound, "booking not found", id)
		return
	}
	if err != nil {
		h.Logger.Error("Failed to load booking", zap.String("bookingId", id), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to load booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, rec)
}

// FormatSummaryHandler handles POST /api/v1/booking/format-summary.
func (h *BookingHandler) FormatSummaryHandler(c *gin.Context) {
	var b models.BookingData
	if err := c.ShouldBindJSON(&b); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"formatted_summary": booking.FormatSummary(b),
		"booking_data":      b,
	})
}

// BookTestHandler handles POST /api/v1/booking/book-test: a one hour test
// meeting today at 18:00 with fixed contact details.
func (h *BookingHandler) BookTestHandler(c *gin.Context) {
	slot, err := h.Slots.SlotAt("today", testStartHour, 1)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to book test meeting", err.Error())
		return
	}
	today := h.Slots.Now()
	b := models.BookingData{
		JobType:       "Test Meeting",
		Date:          today.Format("02/01/2006"),
		BookingDate:   today.Format(models.DateLayout),
		DateISO:       today.Format(models.ISODateLayout),
		Duration:      "1",
		DurationHours: 1,
		Location:      "Test Location",
		Budget:        "100",
		ContactName:   "Test Client",
		Phone:         "123-456-7890",
		Email:         "test@email.com",
		Details:       "This is a test booking.",
		SelectedSlot:  &slot,
		SelectedTime:  slot.Display,
	}
	c.JSON(http.StatusOK, h.Finalizer.Finalize(c.Request.Context(), testSessionID, b))
}
