package models

// ReminderPayload is queued for each booking reminder.
type ReminderPayload struct {
	BookingID   string `json:"bookingId"`
	EventID     string `json:"eventId"`
	ContactName string `json:"contactName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	FireDate    string `json:"fireDate"` // RFC3339
	Lead        string `json:"lead"`     // "24h" or "1h"
}

// CRMSyncPayload hands a confirmed booking to the CRM worker.
type CRMSyncPayload struct {
	BookingID string      `json:"bookingId"`
	EventID   string      `json:"eventId"`
	EventLink string      `json:"eventLink,omitempty"`
	Booking   BookingData `json:"booking"`
}

// CRMContact is a customer record in the CRM.
type CRMContact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Source    string `json:"source"`
}

// CRMTask is a follow-up for the crew.
type CRMTask struct {
	ID        string `json:"id"`
	ContactID string `json:"contact_id"`
	Subject   string `json:"subject"`
	DueDate   string `json:"due_date"`
	Priority  string `json:"priority"` // High, Medium or Normal
	Status    string `json:"status"`
}

// CRMWorkflowResult summarizes one CRM sync run.
type CRMWorkflowResult struct {
	JobID   string     `json:"job_id"`
	Contact CRMContact `json:"contact"`
	Task    CRMTask    `json:"task"`
	Dossier string     `json:"dossier"`
}
