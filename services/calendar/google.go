package calendar

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"jobbot/models"
)

// listPadding widens the event listing around a slot so long events that
// start well before it are still seen.
const listPadding = 12 * time.Hour

// GoogleCalendar books against a Google calendar with a service account.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
	timeZone   string
	logger     *zap.Logger
}

// NewGoogleCalendar returns ErrUnavailable when no usable credentials exist,
// so the caller can fall back to mock mode.
func NewGoogleCalendar(ctx context.Context, credentialsFile, calendarID, timeZone string, logger *zap.Logger) (*GoogleCalendar, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("%w: no credentials configured", ErrUnavailable)
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID, timeZone: timeZone, logger: logger}, nil
}

func (g *GoogleCalendar) CheckOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	events, err := g.svc.Events.List(g.calendarID).
		TimeMin(start.Add(-listPadding).Format(time.RFC3339)).
		TimeMax(end.Add(listPadding).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return false, classify("list events", err)
	}
	for _, item := range events.Items {
		// all-day events carry Date only and never block a slot
		if item.Start == nil || item.End == nil || item.Start.DateTime == "" {
			continue
		}
		evStart, err1 := time.Parse(time.RFC3339, item.Start.DateTime)
		evEnd, err2 := time.Parse(time.RFC3339, item.End.DateTime)
		if err1 != nil || err2 != nil {
			g.logger.Warn("Skipping event with unparseable times", zap.String("eventId", item.Id))
			continue
		}
		if overlaps(start, end, evStart, evEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.CreatedEvent, error) {
	created, err := g.svc.Events.Insert(g.calendarID, toGoogleEvent(event, g.timeZone)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("insert event", err)
	}
	g.logger.Info("Calendar event created", zap.String("eventId", created.Id))
	return &models.CreatedEvent{ID: created.Id, Link: created.HtmlLink}, nil
}

func (g *GoogleCalendar) Upcoming(ctx context.Context, from, to time.Time, limit int) ([]models.UpcomingBooking, error) {
	if limit <= 0 || limit > MaxUpcoming {
		limit = MaxUpcoming
	}
	events, err := g.svc.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(int64(limit)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify("list upcoming", err)
	}
	out := make([]models.UpcomingBooking, 0, len(events.Items))
	for _, item := range events.Items {
		out = append(out, fromGoogleEvent(item))
	}
	return out, nil
}

// classify maps transport failures and server errors to ErrUnavailable;
// anything else (bad request, permission) stays a plain error.
func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code < 500 {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}

func toGoogleEvent(ev models.CalendarEvent, defaultTZ string) *gcal.Event {
	tz := ev.TimeZone
	if tz == "" {
		tz = defaultTZ
	}
	out := &gcal.Event{
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		ColorId:     ev.ColorID,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: tz},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339), TimeZone: tz},
	}
	for _, a := range ev.Attendees {
		out.Attendees = append(out.Attendees, &gcal.EventAttendee{Email: a.Email, DisplayName: a.DisplayName})
	}
	if len(ev.Reminders) > 0 {
		out.Reminders = &gcal.EventReminders{UseDefault: false, ForceSendFields: []string{"UseDefault"}}
		for _, r := range ev.Reminders {
			out.Reminders.Overrides = append(out.Reminders.Overrides, &gcal.EventReminder{Method: r.Method, Minutes: int64(r.Minutes)})
		}
	}
	if len(ev.Private) > 0 {
		out.ExtendedProperties = &gcal.EventExtendedProperties{Private: ev.Private}
	}
	return out
}

func fromGoogleEvent(item *gcal.Event) models.UpcomingBooking {
	b := models.UpcomingBooking{
		ID:       item.Id,
		Summary:  item.Summary,
		Location: item.Location,
		Link:     item.HtmlLink,
	}
	if item.Start != nil {
		b.Start = firstNonEmpty(item.Start.DateTime, item.Start.Date)
	}
	if item.End != nil {
		b.End = firstNonEmpty(item.End.DateTime, item.End.Date)
	}
	if item.ExtendedProperties != nil {
		props := item.ExtendedProperties.Private
		b.IsBotBooking = props["booking_source"] == models.BookingSource
		b.JobID = props["job_id"]
		b.Status = props["booking_status"]
	}
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
