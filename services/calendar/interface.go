package calendar

import (
	"context"
	"errors"
	"time"

	"jobbot/models"
)

// ErrUnavailable marks a calendar that cannot be reached at all. Callers
// treat it as absence and degrade to mock mode rather than failing.
var ErrUnavailable = errors.New("calendar backend unavailable")

// Calendar is the collaborator the availability engine books against.
type Calendar interface {
	// CheckOverlap reports whether any timed event intersects [start, end).
	CheckOverlap(ctx context.Context, start, end time.Time) (bool, error)
	CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.CreatedEvent, error)
}

// UpcomingLister is implemented by calendars that can list future events.
type UpcomingLister interface {
	Upcoming(ctx context.Context, from, to time.Time, limit int) ([]models.UpcomingBooking, error)
}

// MaxUpcoming caps the upcoming listing.
const MaxUpcoming = 10

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
