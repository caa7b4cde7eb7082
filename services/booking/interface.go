package booking

import (
	"context"
	"time"

	"jobbot/models"
)

// Finalizer turns a completed conversation into a confirmed booking.
type Finalizer interface {
	Finalize(ctx context.Context, sessionID string, booking models.BookingData) models.Confirmation
}

// Reserver is the part of the availability engine the finalizer books with.
type Reserver interface {
	Reserve(ctx context.Context, slot models.TimeSlot, booking models.BookingData, jobID string) (*models.Reservation, error)
	SlotAt(dayRef string, startHour, hours int) (models.TimeSlot, error)
	Now() time.Time
}
