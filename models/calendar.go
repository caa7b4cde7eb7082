package models

import "time"

// BookingSource marks events created by this service.
const BookingSource = "JobBot"

type Attendee struct {
	Email       string `json:"email" bson:"email"`
	DisplayName string `json:"display_name,omitempty" bson:"displayName,omitempty"`
}

type EventReminder struct {
	Method  string `json:"method" bson:"method"` // "email" or "popup"
	Minutes int    `json:"minutes" bson:"minutes"`
}

// CalendarEvent is the backend-neutral event we ask a calendar to create.
type CalendarEvent struct {
	Summary     string            `json:"summary" bson:"summary"`
	Description string            `json:"description" bson:"description"`
	Location    string            `json:"location,omitempty" bson:"location,omitempty"`
	Start       time.Time         `json:"start" bson:"start"`
	End         time.Time         `json:"end" bson:"end"`
	TimeZone    string            `json:"time_zone" bson:"timeZone"`
	Attendees   []Attendee        `json:"attendees,omitempty" bson:"attendees,omitempty"`
	Reminders   []EventReminder   `json:"reminders,omitempty" bson:"reminders,omitempty"`
	ColorID     string            `json:"color_id,omitempty" bson:"colorId,omitempty"`
	Private     map[string]string `json:"private,omitempty" bson:"private,omitempty"` // extended properties
}

// CreatedEvent is what a calendar hands back after an insert.
type CreatedEvent struct {
	ID   string
	Link string
}

// EventRecord is an event stored by the self-hosted calendar.
type EventRecord struct {
	ID        string        `bson:"id" json:"id"`
	Event     CalendarEvent `bson:"event" json:"event"`
	Start     time.Time     `bson:"start" json:"start"` // denormalized for range queries
	End       time.Time     `bson:"end" json:"end"`
	CreatedAt time.Time     `bson:"createdAt" json:"created_at"`
}

type EventDetails struct {
	Summary  string `json:"summary" bson:"summary"`
	Start    string `json:"start" bson:"start"`
	End      string `json:"end" bson:"end"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
}

// Reservation identifies a booked calendar event.
type Reservation struct {
	EventID      string       `json:"event_id" bson:"eventId"`
	EventLink    string       `json:"event_link" bson:"eventLink"`
	EventDetails EventDetails `json:"event_details" bson:"eventDetails"`
	MockMode     bool         `json:"mock_mode,omitempty" bson:"mockMode,omitempty"`
}

// UpcomingBooking is one entry in the upcoming events listing.
type UpcomingBooking struct {
	ID           string `json:"id"`
	Summary      string `json:"summary"`
	Start        string `json:"start"`
	End          string `json:"end"`
	Location     string `json:"location,omitempty"`
	IsBotBooking bool   `json:"is_bot_booking"`
	JobID        string `json:"job_id,omitempty"`
	Status       string `json:"status,omitempty"`
	Link         string `json:"link,omitempty"`
}
