package models

import "time"

type BookingStatus string

const (
	StatusConfirmed   BookingStatus = "CONFIRMED"
	StatusInvalidData BookingStatus = "INVALID_DATA"
	StatusError       BookingStatus = "ERROR"
)

// Confirmation is the outcome of finalizing a booking.
type Confirmation struct {
	BookingID           string        `json:"booking_id"`
	Status              BookingStatus `json:"status"`
	ConfirmationMessage string        `json:"confirmation_message"`
	Reservation         *Reservation  `json:"calendar_data,omitempty"`
	Error               string        `json:"error,omitempty"` // raw collaborator error
	CreatedAt           time.Time     `json:"created_at"`
}

// BookingRecord is the ledger entry kept for every finalized booking.
type BookingRecord struct {
	BookingID   string        `bson:"bookingId" json:"booking_id"`
	SessionID   string        `bson:"sessionId,omitempty" json:"session_id,omitempty"`
	Status      BookingStatus `bson:"status" json:"status"`
	Booking     BookingData   `bson:"booking" json:"booking_data"`
	Reservation *Reservation  `bson:"reservation,omitempty" json:"calendar_data,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"created_at"`
}
