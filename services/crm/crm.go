package crm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"jobbot/models"
)

// MockCRM stands in for a hosted CRM. Records live in memory only.
type MockCRM struct {
	mu       sync.Mutex
	contacts map[string]models.CRMContact // keyed by lower-cased email or phone
	tasks    []models.CRMTask
	now      func() time.Time
	logger   *zap.Logger
}

func NewMockCRM(logger *zap.Logger) *MockCRM {
	return &MockCRM{
		contacts: make(map[string]models.CRMContact),
		now:      time.Now,
		logger:   logger,
	}
}

// Sync runs the contact, task and dossier workflow for one booking.
func (m *MockCRM) Sync(ctx context.Context, p models.CRMSyncPayload) (*models.CRMWorkflowResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := p.Booking
	if b.ContactName == "" {
		return nil, fmt.Errorf("crm sync %s: contact name missing", p.BookingID)
	}

	jobID := "JOB-" + strings.ToUpper(uuid.NewString()[:8])
	contact := m.upsertContact(b)

	jobDate := jobDateOf(b)
	task := models.CRMTask{
		ID:        uuid.NewString(),
		ContactID: contact.ID,
		Subject:   fmt.Sprintf("Prepare %s job for %s", orDefault(b.JobType, "booking"), b.ContactName),
		DueDate:   jobDate.Format(models.ISODateLayout),
		Priority:  Priority(jobDate, m.now()),
		Status:    "Not Started",
	}
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()

	res := &models.CRMWorkflowResult{
		JobID:   jobID,
		Contact: contact,
		Task:    task,
		Dossier: Dossier(jobID, p),
	}
	m.logger.Info("CRM workflow completed",
		zap.String("bookingId", p.BookingID),
		zap.String("jobId", jobID),
		zap.String("priority", task.Priority))
	return res, nil
}

func (m *MockCRM) upsertContact(b models.BookingData) models.CRMContact {
	key := strings.ToLower(orDefault(b.Email, b.Phone))
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.contacts[key]; ok && key != "" {
		return c
	}
	first, last, _ := strings.Cut(strings.TrimSpace(b.ContactName), " ")
	c := models.CRMContact{
		ID:        uuid.NewString(),
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     b.Email,
		Phone:     b.Phone,
		Source:    models.BookingSource,
	}
	if key != "" {
		m.contacts[key] = c
	}
	return c
}

// Tasks returns a copy of every task created so far.
func (m *MockCRM) Tasks() []models.CRMTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CRMTask(nil), m.tasks...)
}

// Priority grades urgency by whole days until the job.
func Priority(jobDate, now time.Time) string {
	days := int(jobDate.Sub(now).Hours() / 24)
	switch {
	case days <= 1:
		return "High"
	case days <= 3:
		return "Medium"
	}
	return "Normal"
}

func jobDateOf(b models.BookingData) time.Time {
	if b.SelectedSlot != nil {
		if t, err := b.SelectedSlot.Start(); err == nil {
			return t
		}
	}
	if t, err := time.Parse(models.ISODateLayout, b.DateISO); err == nil {
		return t
	}
	return time.Now()
}

// Dossier renders the crew briefing for a job.
func Dossier(jobID string, p models.CRMSyncPayload) string {
	b := p.Booking
	var sb strings.Builder
	fmt.Fprintf(&sb, "JOB DOSSIER %s\n", jobID)
	fmt.Fprintf(&sb, "Booking: %s\n\n", p.BookingID)
	fmt.Fprintf(&sb, "Client: %s\n", b.ContactName)
	fmt.Fprintf(&sb, "Phone: %s\n", orDefault(b.Phone, "Not provided"))
	fmt.Fprintf(&sb, "Email: %s\n\n", orDefault(b.Email, "Not provided"))
	fmt.Fprintf(&sb, "Job type: %s\n", orDefault(b.JobType, "Not specified"))
	fmt.Fprintf(&sb, "Date: %s\n", orDefault(b.BookingDate, b.DateReference()))
	fmt.Fprintf(&sb, "Time: %s\n", orDefault(b.SelectedTime, "TBD"))
	fmt.Fprintf(&sb, "Duration: %s\n", orDefault(b.Duration, "Not specified"))
	fmt.Fprintf(&sb, "Location: %s\n", orDefault(b.Location, "TBD"))
	fmt.Fprintf(&sb, "Budget: %s\n", orDefault(b.Budget, "Not specified"))
	if b.Details != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", b.Details)
	}
	if p.EventLink != "" {
		fmt.Fprintf(&sb, "\nCalendar: %s\n", p.EventLink)
	}
	return sb.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
