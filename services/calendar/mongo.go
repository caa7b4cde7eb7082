package calendar

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	eventRepo "jobbot/database/repository/event"
	"jobbot/models"
)

// MongoCalendar keeps events in our own database for deployments without a
// Google calendar.
type MongoCalendar struct {
	repo     eventRepo.EventRepository
	linkBase string
	logger   *zap.Logger
}

// NewMongoCalendar builds event links as linkBase + event id.
func NewMongoCalendar(repo eventRepo.EventRepository, linkBase string, logger *zap.Logger) *MongoCalendar {
	return &MongoCalendar{repo: repo, linkBase: linkBase, logger: logger}
}

func (m *MongoCalendar) CheckOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	n, err := m.repo.CountOverlapping(ctx, start, end)
	if err != nil {
		return false, mongoErr("count overlapping", err)
	}
	return n > 0, nil
}

func (m *MongoCalendar) CreateEvent(ctx context.Context, event models.CalendarEvent) (*models.CreatedEvent, error) {
	id, err := m.repo.Insert(ctx, models.EventRecord{Event: event})
	if err != nil {
		return nil, mongoErr("insert event", err)
	}
	m.logger.Info("Calendar event stored", zap.String("eventId", id))
	return &models.CreatedEvent{ID: id, Link: m.linkBase + id}, nil
}

func (m *MongoCalendar) Upcoming(ctx context.Context, from, to time.Time, limit int) ([]models.UpcomingBooking, error) {
	if limit <= 0 || limit > MaxUpcoming {
		limit = MaxUpcoming
	}
	recs, err := m.repo.FindBetween(ctx, from, to, int64(limit))
	if err != nil {
		return nil, mongoErr("list upcoming", err)
	}
	out := make([]models.UpcomingBooking, 0, len(recs))
	for _, r := range recs {
		out = append(out, models.UpcomingBooking{
			ID:           r.ID,
			Summary:      r.Event.Summary,
			Start:        r.Start.Format(time.RFC3339),
			End:          r.End.Format(time.RFC3339),
			Location:     r.Event.Location,
			IsBotBooking: r.Event.Private["booking_source"] == models.BookingSource,
			JobID:        r.Event.Private["job_id"],
			Status:       r.Event.Private["booking_status"],
			Link:         m.linkBase + r.ID,
		})
	}
	return out, nil
}

// mongoErr treats connectivity loss as calendar absence.
func mongoErr(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
