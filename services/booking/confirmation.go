package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ledgerRepo "jobbot/database/repository/ledger"
	"jobbot/models"
	"jobbot/services/availability"
	"jobbot/services/tasks"
)

const (
	invalidDataMessage = "Please provide all required booking information."
	genericFailure     = "An unexpected error occurred. Please try again or contact support."

	// defaultStartHour is used when a booking names a day but no slot.
	defaultStartHour = 9
)

// requiredFields must all be present before anything is reserved. "date" is
// satisfied by a free-text date, a resolved date or a chosen slot.
var requiredFields = []string{
	models.FieldJobType, models.FieldDate, models.FieldDuration, models.FieldLocation,
	models.FieldBudget, models.FieldContactName, models.FieldPhone, models.FieldEmail,
}

// DefaultFinalizer reserves through Reserver and, when set, records the
// booking in Ledger and queues follow-ups on Queue.
type DefaultFinalizer struct {
	Reserver Reserver
	Ledger   ledgerRepo.BookingLedger
	Queue    tasks.Enqueuer
	Logger   *zap.Logger
}

// Validate reports the missing required fields.
func Validate(b models.BookingData) error {
	var missing []string
	for _, f := range requiredFields {
		if f == models.FieldDate {
			if !b.Has(models.FieldDate) && !b.Has(models.FieldBookingDate) && !b.Has(models.FieldSelectedSlot) {
				missing = append(missing, f)
			}
			continue
		}
		if !b.Has(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return NewValidationError(missing)
	}
	return nil
}

// Finalize never panics and never returns an error: every outcome is a
// Confirmation with a status.
func (f *DefaultFinalizer) Finalize(ctx context.Context, sessionID string, b models.BookingData) (conf models.Confirmation) {
	conf = models.Confirmation{
		BookingID: "BK-" + strings.ToUpper(uuid.NewString()[:8]),
		CreatedAt: f.Reserver.Now(),
	}
	defer func() {
		if r := recover(); r != nil {
			f.Logger.Error("Booking finalization panicked", zap.String("sessionId", sessionID), zap.Any("panic", r))
			conf.Status = models.StatusError
			conf.ConfirmationMessage = genericFailure
			conf.Reservation = nil
			conf.Error = fmt.Sprint(r)
		}
	}()

	if err := Validate(b); err != nil {
		conf.Status = models.StatusInvalidData
		conf.ConfirmationMessage = invalidDataMessage
		conf.Error = err.Error()
		return conf
	}

	slot, err := f.slotFor(b)
	if err != nil {
		conf.Status = models.StatusInvalidData
		conf.ConfirmationMessage = invalidDataMessage
		conf.Error = err.Error()
		return conf
	}

	res, err := f.Reserver.Reserve(ctx, slot, b, conf.BookingID)
	if err != nil {
		f.Logger.Error("Calendar booking failed", zap.String("sessionId", sessionID), zap.Error(err))
		conf.Status = models.StatusError
		conf.Error = err.Error()
		conf.ConfirmationMessage = RenderConfirmation(conf.BookingID, b, slot, nil) +
			"\n\nCalendar booking failed: " + err.Error()
		return conf
	}

	conf.Status = models.StatusConfirmed
	conf.Reservation = res
	conf.ConfirmationMessage = RenderConfirmation(conf.BookingID, b, slot, res)
	f.followUp(ctx, sessionID, b, slot, conf)
	return conf
}

// slotFor prefers the chosen slot and otherwise books the default start hour
// on the referenced day.
func (f *DefaultFinalizer) slotFor(b models.BookingData) (models.TimeSlot, error) {
	if b.SelectedSlot != nil {
		return *b.SelectedSlot, nil
	}
	hours := b.DurationHours
	if hours <= 0 {
		hours = availability.ParseDurationHours(b.Duration)
	}
	slot, err := f.Reserver.SlotAt(b.DateReference(), defaultStartHour, hours)
	if err != nil {
		return models.TimeSlot{}, fmt.Errorf("booking date %q: %w", b.DateReference(), err)
	}
	return slot, nil
}

// followUp is best effort: ledger and queue failures are logged only.
func (f *DefaultFinalizer) followUp(ctx context.Context, sessionID string, b models.BookingData, slot models.TimeSlot, conf models.Confirmation) {
	if f.Ledger != nil {
		err := f.Ledger.Save(ctx, models.BookingRecord{
			BookingID:   conf.BookingID,
			SessionID:   sessionID,
			Status:      conf.Status,
			Booking:     b,
			Reservation: conf.Reservation,
			CreatedAt:   conf.CreatedAt,
		})
		if err != nil {
			f.Logger.Warn("Failed to record booking", zap.String("bookingId", conf.BookingID), zap.Error(err))
		}
	}
	if f.Queue == nil {
		return
	}
	start, err := slot.Start()
	if err != nil {
		return
	}
	if err := tasks.ScheduleFollowUps(f.Queue, conf, b, start, f.Reserver.Now()); err != nil {
		f.Logger.Warn("Failed to queue booking follow-ups", zap.String("bookingId", conf.BookingID), zap.Error(err))
	}
}
