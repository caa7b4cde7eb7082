package calendar

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"jobbot/models"
)

type fakeRepo struct {
	inserted []models.EventRecord
	count    int64
	err      error
}

func (f *fakeRepo) Insert(_ context.Context, rec models.EventRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	rec.ID = "evt-1"
	f.inserted = append(f.inserted, rec)
	return rec.ID, nil
}

func (f *fakeRepo) GetByID(context.Context, string) (*models.EventRecord, error) { return nil, f.err }

func (f *fakeRepo) CountOverlapping(context.Context, time.Time, time.Time) (int64, error) {
	return f.count, f.err
}

func (f *fakeRepo) FindBetween(_ context.Context, _, _ time.Time, limit int64) ([]models.EventRecord, error) {
	start := time.Date(2025, 3, 6, 10, 0, 0, 0, time.UTC)
	return []models.EventRecord{{
		ID:    "evt-9",
		Start: start,
		End:   start.Add(2 * time.Hour),
		Event: models.CalendarEvent{
			Summary: "Audio - Sam",
			Private: map[string]string{"booking_source": models.BookingSource, "job_id": "J1"},
		},
	}}, f.err
}

func (f *fakeRepo) EnsureIndexes() error { return nil }

func TestMongoCalendar(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{count: 1}
	cal := NewMongoCalendar(repo, "/api/v1/calendar/events/", zaptest.NewLogger(t))

	busy, err := cal.CheckOverlap(ctx, time.Now(), time.Now().Add(time.Hour))
	if err != nil || !busy {
		t.Fatalf("CheckOverlap = %v, %v", busy, err)
	}

	created, err := cal.CreateEvent(ctx, models.CalendarEvent{Summary: "Audio - Sam"})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.ID != "evt-1" || created.Link != "/api/v1/calendar/events/evt-1" {
		t.Errorf("unexpected created event %+v", created)
	}

	list, err := cal.Upcoming(ctx, time.Now(), time.Now().AddDate(0, 0, 7), 50)
	if err != nil || len(list) != 1 {
		t.Fatalf("Upcoming = %v, %v", list, err)
	}
	if !list[0].IsBotBooking || list[0].JobID != "J1" || list[0].Link != "/api/v1/calendar/events/evt-9" {
		t.Errorf("unexpected upcoming booking %+v", list[0])
	}
}

func TestMongoCalendarPlainErrorIsNotAbsence(t *testing.T) {
	repo := &fakeRepo{err: errors.New("duplicate key")}
	cal := NewMongoCalendar(repo, "", zaptest.NewLogger(t))
	_, err := cal.CheckOverlap(context.Background(), time.Now(), time.Now())
	if err == nil || errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	if err := classify("insert", &googleapi.Error{Code: http.StatusForbidden}); errors.Is(err, ErrUnavailable) {
		t.Errorf("4xx should stay a plain error: %v", err)
	}
	if err := classify("insert", &googleapi.Error{Code: http.StatusServiceUnavailable}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("5xx should mark the calendar unavailable: %v", err)
	}
	if err := classify("insert", errors.New("dial tcp: timeout")); !errors.Is(err, ErrUnavailable) {
		t.Errorf("transport errors should mark the calendar unavailable: %v", err)
	}
}

func TestGoogleEventRoundTrip(t *testing.T) {
	start := time.Date(2025, 3, 6, 14, 0, 0, 0, time.UTC)
	ev := models.CalendarEvent{
		Summary:   "Audio - Sam",
		Start:     start,
		End:       start.Add(2 * time.Hour),
		Attendees: []models.Attendee{{Email: "sam@example.com"}},
		Reminders: []models.EventReminder{{Method: "email", Minutes: 1440}, {Method: "popup", Minutes: 60}},
		ColorID:   "10",
		Private:   map[string]string{"booking_source": models.BookingSource, "job_id": "J2"},
	}

	g := toGoogleEvent(ev, "America/Toronto")
	if g.Start.TimeZone != "America/Toronto" || g.Start.DateTime != "2025-03-06T14:00:00Z" {
		t.Errorf("unexpected start %+v", g.Start)
	}
	if g.Reminders == nil || g.Reminders.UseDefault || len(g.Reminders.Overrides) != 2 {
		t.Errorf("unexpected reminders %+v", g.Reminders)
	}
	if len(g.Attendees) != 1 || g.ColorId != "10" {
		t.Errorf("attendees or colour lost: %+v", g)
	}

	g.Id = "abc"
	g.HtmlLink = "https://calendar.google.com/event?eid=abc"
	b := fromGoogleEvent(g)
	if !b.IsBotBooking || b.JobID != "J2" || b.Start != g.Start.DateTime || b.Link != g.HtmlLink {
		t.Errorf("unexpected upcoming booking %+v", b)
	}

	allDay := fromGoogleEvent(&gcal.Event{Id: "x", Start: &gcal.EventDateTime{Date: "2025-03-07"}})
	if allDay.Start != "2025-03-07" || allDay.IsBotBooking {
		t.Errorf("all-day event mapped wrong: %+v", allDay)
	}
}

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time { return time.Date(2025, 3, 6, h, 0, 0, 0, time.UTC) }
	if !overlaps(at(9), at(11), at(10), at(12)) {
		t.Error("intersecting intervals should overlap")
	}
	if overlaps(at(9), at(11), at(11), at(12)) {
		t.Error("touching intervals should not overlap")
	}
}
