package models

import "time"

type ConversationState string

const (
	StateGreeting           ConversationState = "greeting"
	StateCollectingContact  ConversationState = "collecting_contact"
	StateCollectingJobType  ConversationState = "collecting_job_type"
	StateCollectingDuration ConversationState = "collecting_duration"
	StateCollectingDay      ConversationState = "collecting_day"
	StateCollectingTimeslot ConversationState = "collecting_timeslot"
	StateCollectingLocation ConversationState = "collecting_location"
	StateCollectingBudget   ConversationState = "collecting_budget"
	StateConfirmingDetails  ConversationState = "confirming_details"
	StateCompleted          ConversationState = "completed"
)

var knownStates = map[ConversationState]bool{
	StateGreeting: true, StateCollectingContact: true, StateCollectingJobType: true,
	StateCollectingDuration: true, StateCollectingDay: true, StateCollectingTimeslot: true,
	StateCollectingLocation: true, StateCollectingBudget: true, StateConfirmingDetails: true,
	StateCompleted: true,
}

// Valid reports whether s names a known state.
func (s ConversationState) Valid() bool { return knownStates[s] }

type MessageType string

const (
	MessageText              MessageType = "text"
	MessageBookingForm       MessageType = "booking_form"
	MessageConfirmation      MessageType = "confirmation"
	MessageError             MessageType = "error"
	MessageDaySelection      MessageType = "day_selection"
	MessageTimeslotSelection MessageType = "timeslot_selection"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type HistoryEntry struct {
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one customer's conversation. Callers get copies from the store
// and hand them back through Save.
type Session struct {
	ID             string            `json:"id"`
	State          ConversationState `json:"state"`
	Booking        BookingData       `json:"booking_data"`
	History        []HistoryEntry    `json:"history"`
	AvailableSlots []TimeSlot        `json:"available_slots,omitempty"`
	MockMode       bool              `json:"mock_mode,omitempty"`
	Finalized      bool              `json:"finalized,omitempty"`
	Confirmation   *Confirmation     `json:"confirmation,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateGreeting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append records one turn.
func (s *Session) Append(role, content string, at time.Time) {
	s.History = append(s.History, HistoryEntry{Role: role, Content: content, Timestamp: at})
}

// Recent returns up to n of the latest history entries.
func (s *Session) Recent(n int) []HistoryEntry {
	if n <= 0 || len(s.History) == 0 {
		return nil
	}
	from := len(s.History) - n
	if from < 0 {
		from = 0
	}
	out := make([]HistoryEntry, len(s.History)-from)
	copy(out, s.History[from:])
	return out
}

// Clone returns a deep copy that can be mutated without touching s.
func (s *Session) Clone() *Session {
	out := *s
	out.Booking = s.Booking.Clone()
	if s.History != nil {
		out.History = make([]HistoryEntry, len(s.History))
		copy(out.History, s.History)
	}
	if s.AvailableSlots != nil {
		out.AvailableSlots = make([]TimeSlot, len(s.AvailableSlots))
		copy(out.AvailableSlots, s.AvailableSlots)
	}
	if s.Confirmation != nil {
		c := *s.Confirmation
		out.Confirmation = &c
	}
	return &out
}

// ChatRequest is the inbound message payload.
type ChatRequest struct {
	Content           string            `json:"content" binding:"required,min=1,max=1000"`
	SessionID         string            `json:"session_id" binding:"required"`
	ConversationState ConversationState `json:"conversation_state,omitempty"`
}

// ChatResponse is what every transport renders back to the customer.
type ChatResponse struct {
	Message           string            `json:"message"`
	MessageType       MessageType       `json:"message_type"`
	ConversationState ConversationState `json:"conversation_state"`
	BookingData       BookingData       `json:"booking_data"`
	SuggestedActions  []string          `json:"suggested_actions"`
	AvailableSlots    []TimeSlot        `json:"available_slots,omitempty"`
	RequiresInput     bool              `json:"requires_input"`
}

// SessionSummary is the introspection view of a session.
type SessionSummary struct {
	SessionID         string            `json:"session_id"`
	ConversationState ConversationState `json:"conversation_state"`
	BookingData       BookingData       `json:"booking_data"`
	MessageCount      int               `json:"message_count"`
}
