package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	ClockLayout   = "15:04"
	DisplayLayout = "03:04 PM"
	DateLayout    = "Monday, January 02, 2006"
	ISODateLayout = "2006-01-02"
)

// TimeSlot is a bookable window on a single day. Values are immutable once
// built; the canonical start lives in DateTime (RFC3339 with offset).
type TimeSlot struct {
	StartTime string `json:"start_time" bson:"startTime"` // "09:00"
	EndTime   string `json:"end_time" bson:"endTime"`     // "11:00"
	Display   string `json:"display" bson:"display"`      // "09:00 AM - 11:00 AM"
	DateTime  string `json:"datetime" bson:"datetime"`    // start, RFC3339
}

// NewTimeSlot builds the slot covering [start, end). Both ends must fall on
// the same calendar day.
func NewTimeSlot(start, end time.Time) TimeSlot {
	return TimeSlot{
		StartTime: start.Format(ClockLayout),
		EndTime:   end.Format(ClockLayout),
		Display:   start.Format(DisplayLayout) + " - " + end.Format(DisplayLayout),
		DateTime:  start.Format(time.RFC3339),
	}
}

// Start parses the canonical start instant.
func (s TimeSlot) Start() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot start %q: %w", s.DateTime, err)
	}
	return t, nil
}

// End combines the start's date with EndTime.
func (s TimeSlot) End() (time.Time, error) {
	start, err := s.Start()
	if err != nil {
		return time.Time{}, err
	}
	clock, err := time.Parse(ClockLayout, s.EndTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot end %q: %w", s.EndTime, err)
	}
	return time.Date(start.Year(), start.Month(), start.Day(), clock.Hour(), clock.Minute(), 0, 0, start.Location()), nil
}

// Equal reports whether both slots cover the same interval.
func (s TimeSlot) Equal(other TimeSlot) bool {
	as, err1 := s.Start()
	bs, err2 := other.Start()
	if err1 != nil || err2 != nil {
		return s == other
	}
	return as.Equal(bs) && s.EndTime == other.EndTime
}

// StartLabel is the display text before the first " - ".
func (s TimeSlot) StartLabel() string {
	label, _, _ := strings.Cut(s.Display, " - ")
	return label
}

// SlotLabels returns the display label of every slot, in order.
func SlotLabels(slots []TimeSlot) []string {
	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Display)
	}
	return labels
}

// AvailabilityResult is the outcome of one day query.
type AvailabilityResult struct {
	Success        bool       `json:"success"`
	Date           string     `json:"date,omitempty"`     // "Monday, January 02, 2006"
	DateISO        string     `json:"date_iso,omitempty"` // "2006-01-02"
	AvailableSlots []TimeSlot `json:"available_slots"`
	DurationHours  int        `json:"duration_hours"`
	Error          string     `json:"error,omitempty"`
	MockMode       bool       `json:"mock_mode"`
	Day            time.Time  `json:"-"`
}

// AlternativeTime is a suggested start when the requested one is taken.
type AlternativeTime struct {
	Time     string `json:"time"`
	Date     string `json:"date"`
	Display  string `json:"display"`
	DateTime string `json:"datetime"`
}
