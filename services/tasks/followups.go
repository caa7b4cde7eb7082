package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"jobbot/models"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

var reminderLeads = []struct {
	label string
	lead  time.Duration
}{
	{"24h", 24 * time.Hour},
	{"1h", time.Hour},
}

// ScheduleFollowUps queues the reminders that still lie in the future and
// one CRM sync. Every enqueue is attempted; failures are joined.
func ScheduleFollowUps(q Enqueuer, conf models.Confirmation, booking models.BookingData, start, now time.Time) error {
	var errs []error
	eventID := ""
	link := ""
	if conf.Reservation != nil {
		eventID = conf.Reservation.EventID
		link = conf.Reservation.EventLink
	}

	for _, r := range reminderLeads {
		fireAt := start.Add(-r.lead)
		if !fireAt.After(now) {
			continue
		}
		task, opts, err := NewReminderTask(models.ReminderPayload{
			BookingID:   conf.BookingID,
			EventID:     eventID,
			ContactName: booking.ContactName,
			Email:       booking.Email,
			Phone:       booking.Phone,
			Title:       fmt.Sprintf("Upcoming %s booking", booking.JobType),
			Body:        fmt.Sprintf("Your %s session starts %s.", booking.JobType, start.Format("Monday, January 02 at 03:04 PM")),
			FireDate:    fireAt.Format(time.RFC3339),
			Lead:        r.label,
		}, fireAt)
		if err == nil {
			_, err = q.Enqueue(task, opts...)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("reminder %s: %w", r.label, err))
		}
	}

	task, opts, err := NewCRMSyncTask(models.CRMSyncPayload{
		BookingID: conf.BookingID,
		EventID:   eventID,
		EventLink: link,
		Booking:   booking,
	})
	if err == nil {
		_, err = q.Enqueue(task, opts...)
	}
	if err != nil {
		errs = append(errs, fmt.Errorf("crm sync: %w", err))
	}
	return errors.Join(errs...)
}
