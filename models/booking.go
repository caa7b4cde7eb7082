package models

import (
	"sort"
	"strings"
)

// Booking field names as they appear on the wire and in extraction output.
const (
	FieldJobType       = "job_type"
	FieldDate          = "date"
	FieldSelectedDay   = "selected_day"
	FieldBookingDate   = "booking_date"
	FieldDateISO       = "date_iso"
	FieldDuration      = "duration"
	FieldDurationHours = "duration_hours"
	FieldLocation      = "location"
	FieldBudget        = "budget"
	FieldContactName   = "contact_name"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldDetails       = "details"
	FieldSelectedSlot  = "selected_slot"
	FieldSelectedTime  = "selected_time"
	FieldCalendarEvent = "calendar_event"
)

// reserved fields are owned by the dialogue itself and never taken from
// extraction output.
var reservedFields = map[string]bool{
	FieldSelectedDay:   true,
	FieldBookingDate:   true,
	FieldDateISO:       true,
	FieldDurationHours: true,
	FieldSelectedSlot:  true,
	FieldSelectedTime:  true,
	FieldCalendarEvent: true,
}

// BookingData accumulates what the customer has told us so far.
type BookingData struct {
	JobType       string            `json:"job_type,omitempty" bson:"jobType,omitempty"`
	Date          string            `json:"date,omitempty" bson:"date,omitempty"`                  // free text from extraction
	SelectedDay   string            `json:"selected_day,omitempty" bson:"selectedDay,omitempty"`   // raw day reference
	BookingDate   string            `json:"booking_date,omitempty" bson:"bookingDate,omitempty"`   // resolved, long form
	DateISO       string            `json:"date_iso,omitempty" bson:"dateIso,omitempty"`           // resolved, YYYY-MM-DD
	Duration      string            `json:"duration,omitempty" bson:"duration,omitempty"`          // free text
	DurationHours int               `json:"duration_hours,omitempty" bson:"durationHours,omitempty"` // parsed from Duration
	Location      string            `json:"location,omitempty" bson:"location,omitempty"`
	Budget        string            `json:"budget,omitempty" bson:"budget,omitempty"`
	ContactName   string            `json:"contact_name,omitempty" bson:"contactName,omitempty"`
	Phone         string            `json:"phone,omitempty" bson:"phone,omitempty"`
	Email         string            `json:"email,omitempty" bson:"email,omitempty"`
	Details       string            `json:"details,omitempty" bson:"details,omitempty"`
	SelectedSlot  *TimeSlot         `json:"selected_slot,omitempty" bson:"selectedSlot,omitempty"`
	SelectedTime  string            `json:"selected_time,omitempty" bson:"selectedTime,omitempty"`
	CalendarEvent *Reservation      `json:"calendar_event,omitempty" bson:"calendarEvent,omitempty"`
	Extra         map[string]string `json:"extra,omitempty" bson:"extra,omitempty"`
}

func (b *BookingData) stringField(name string) *string {
	switch name {
	case FieldJobType:
		return &b.JobType
	case FieldDate:
		return &b.Date
	case FieldSelectedDay:
		return &b.SelectedDay
	case FieldBookingDate:
		return &b.BookingDate
	case FieldDateISO:
		return &b.DateISO
	case FieldDuration:
		return &b.Duration
	case FieldLocation:
		return &b.Location
	case FieldBudget:
		return &b.Budget
	case FieldContactName:
		return &b.ContactName
	case FieldPhone:
		return &b.Phone
	case FieldEmail:
		return &b.Email
	case FieldDetails:
		return &b.Details
	case FieldSelectedTime:
		return &b.SelectedTime
	}
	return nil
}

// Get returns a string field, the slot label for selected_slot, or an
// Extra value.
func (b *BookingData) Get(name string) string {
	if name == FieldSelectedSlot {
		if b.SelectedSlot == nil {
			return ""
		}
		return b.SelectedSlot.Display
	}
	if p := b.stringField(name); p != nil {
		return *p
	}
	return b.Extra[name]
}

// Has reports whether a field carries a non-blank value.
func (b *BookingData) Has(name string) bool {
	switch name {
	case FieldSelectedSlot:
		return b.SelectedSlot != nil
	case FieldDurationHours:
		return b.DurationHours > 0
	case FieldCalendarEvent:
		return b.CalendarEvent != nil
	}
	if p := b.stringField(name); p != nil {
		return strings.TrimSpace(*p) != ""
	}
	return strings.TrimSpace(b.Extra[name]) != ""
}

// Missing returns the names among fields that Has rejects.
func (b *BookingData) Missing(fields []string) []string {
	var missing []string
	for _, f := range fields {
		if !b.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Merge applies extracted values, last write wins. Blank values carry no
// information and are skipped. Reserved field names are returned rather than
// applied.
func (b *BookingData) Merge(fields map[string]string) (rejected []string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := strings.TrimSpace(fields[k])
		if v == "" {
			continue
		}
		if reservedFields[k] {
			rejected = append(rejected, k)
			continue
		}
		if p := b.stringField(k); p != nil {
			*p = v
			continue
		}
		if b.Extra == nil {
			b.Extra = make(map[string]string)
		}
		b.Extra[k] = v
	}
	return rejected
}

// DateReference is the best available day reference: the resolved date,
// then the raw day, then free text.
func (b *BookingData) DateReference() string {
	switch {
	case b.DateISO != "":
		return b.DateISO
	case b.SelectedDay != "":
		return b.SelectedDay
	}
	return b.Date
}

// Clone returns a deep copy.
func (b BookingData) Clone() BookingData {
	out := b
	if b.SelectedSlot != nil {
		slot := *b.SelectedSlot
		out.SelectedSlot = &slot
	}
	if b.CalendarEvent != nil {
		ev := *b.CalendarEvent
		out.CalendarEvent = &ev
	}
	if b.Extra != nil {
		out.Extra = make(map[string]string, len(b.Extra))
		for k, v := range b.Extra {
			out.Extra[k] = v
		}
	}
	return out
}
