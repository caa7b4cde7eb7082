package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobbot/models"
	"jobbot/services/calendar"
)

const mockEventLink = "https://calendar.google.com/calendar/mock"

// Reserve books slot on the calendar. It is not idempotent: each call
// creates a new event. Without a reachable calendar a synthetic reservation
// is returned instead.
func (e *Engine) Reserve(ctx context.Context, slot models.TimeSlot, booking models.BookingData, jobID string) (*models.Reservation, error) {
	start, err := slot.Start()
	if err != nil {
		return nil, err
	}
	end, err := slot.End()
	if err != nil {
		return nil, err
	}
	event := BuildEvent(booking, start.In(e.loc), end.In(e.loc), jobID)
	event.TimeZone = e.loc.String()

	if e.calendar == nil {
		return syntheticReservation(event), nil
	}
	created, err := e.calendar.CreateEvent(ctx, event)
	if err != nil {
		if errors.Is(err, calendar.ErrUnavailable) {
			e.logger.Warn("Calendar unavailable, issuing synthetic reservation", zap.Error(err))
			return syntheticReservation(event), nil
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &models.Reservation{
		EventID:      created.ID,
		EventLink:    created.Link,
		EventDetails: detailsOf(event),
	}, nil
}

func syntheticReservation(event models.CalendarEvent) *models.Reservation {
	return &models.Reservation{
		EventID:      "mock_event_" + event.Start.Format("200601021504"),
		EventLink:    mockEventLink,
		EventDetails: detailsOf(event),
		MockMode:     true,
	}
}

func detailsOf(event models.CalendarEvent) models.EventDetails {
	return models.EventDetails{
		Summary:  event.Summary,
		Start:    event.Start.Format(time.RFC3339),
		End:      event.End.Format(time.RFC3339),
		Location: event.Location,
	}
}

// BuildEvent renders the calendar entry for a booking.
func BuildEvent(b models.BookingData, start, end time.Time, jobID string) models.CalendarEvent {
	name := orDefault(b.ContactName, "Client")
	jobType := orDefault(b.JobType, "Booking")

	var desc strings.Builder
	fmt.Fprintf(&desc, "Job type: %s\n", jobType)
	fmt.Fprintf(&desc, "Duration: %s\n", orDefault(b.Duration, fmt.Sprintf("%d hours", int(end.Sub(start).Hours()))))
	fmt.Fprintf(&desc, "Location: %s\n", orDefault(b.Location, "TBD"))
	fmt.Fprintf(&desc, "Budget: %s\n\n", orDefault(b.Budget, "Not specified"))
	fmt.Fprintf(&desc, "Contact: %s\n", name)
	fmt.Fprintf(&desc, "Phone: %s\n", orDefault(b.Phone, "Not provided"))
	fmt.Fprintf(&desc, "Email: %s\n", orDefault(b.Email, "Not provided"))
	if b.Details != "" {
		fmt.Fprintf(&desc, "\nNotes: %s\n", b.Details)
	}
	if jobID != "" {
		fmt.Fprintf(&desc, "\nJob reference: %s\n", jobID)
	}
	desc.WriteString("Booked via " + models.BookingSource)

	event := models.CalendarEvent{
		Summary:     jobType + " - " + name,
		Description: desc.String(),
		Location:    b.Location,
		Start:       start,
		End:         end,
		TimeZone:    start.Location().String(),
		Reminders: []models.EventReminder{
			{Method: "email", Minutes: 24 * 60},
			{Method: "popup", Minutes: 60},
		},
		ColorID: "10",
		Private: map[string]string{
			"booking_source": models.BookingSource,
			"job_id":         jobID,
			"budget":         b.Budget,
			"phone":          b.Phone,
			"booking_status": string(models.StatusConfirmed),
		},
	}
	if b.Email != "" {
		event.Attendees = []models.Attendee{{Email: b.Email, DisplayName: name}}
	}
	return event
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// alternativeOffsets are tried in order around a busy start.
var alternativeOffsets = []int{2, 4, -2}

const (
	maxAlternatives     = 3
	alternativeEarliest = 8
	alternativeLatest   = 18
)

// SuggestAlternatives proposes other start times on the same day.
func SuggestAlternatives(requested time.Time) []models.AlternativeTime {
	var out []models.AlternativeTime
	for _, off := range alternativeOffsets {
		alt := requested.Add(time.Duration(off) * time.Hour)
		if alt.Hour() < alternativeEarliest || alt.Hour() > alternativeLatest || !sameDay(alt, requested) {
			continue
		}
		out = append(out, models.AlternativeTime{
			Time:     alt.Format(models.ClockLayout),
			Date:     alt.Format(models.ISODateLayout),
			Display:  alt.Format("Monday, January 02 at 03:04 PM"),
			DateTime: alt.Format(time.RFC3339),
		})
		if len(out) == maxAlternatives {
			break
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
