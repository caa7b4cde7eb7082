package models

// ExtractionRequest is what the dialogue hands the language model.
type ExtractionRequest struct {
	Text    string            `json:"text"`
	History []HistoryEntry    `json:"history"` // turns before Text, oldest first
	State   ConversationState `json:"state"`
	Booking BookingData       `json:"booking_data"`
}

// ExtractionResult carries the assistant reply and any fields it picked out.
type ExtractionResult struct {
	Reply  string            `json:"reply"`
	Fields map[string]string `json:"fields,omitempty"`
}
