package booking

import (
	"fmt"
	"strings"

	"jobbot/models"
)

// RenderConfirmation is the customer-facing confirmation text. res may be
// nil when the reservation failed.
func RenderConfirmation(bookingID string, b models.BookingData, slot models.TimeSlot, res *models.Reservation) string {
	var sb strings.Builder
	if res != nil {
		sb.WriteString("Booking Confirmed!\n\n")
	} else {
		sb.WriteString("Booking Received\n\n")
	}
	fmt.Fprintf(&sb, "Thank you for your booking, %s!\n\n", b.ContactName)

	sb.WriteString("Booking Details:\n")
	fmt.Fprintf(&sb, "- Job Type: %s\n", b.JobType)
	fmt.Fprintf(&sb, "- Date: %s\n", dateLabel(b))
	fmt.Fprintf(&sb, "- Time: %s\n", orDefault(b.SelectedTime, slot.Display))
	fmt.Fprintf(&sb, "- Duration: %s\n", b.Duration)
	fmt.Fprintf(&sb, "- Location: %s\n", b.Location)
	fmt.Fprintf(&sb, "- Budget: %s\n", b.Budget)
	fmt.Fprintf(&sb, "- Phone: %s\n", b.Phone)
	fmt.Fprintf(&sb, "- Email: %s\n", b.Email)
	if b.Details != "" {
		fmt.Fprintf(&sb, "- Notes: %s\n", b.Details)
	}

	fmt.Fprintf(&sb, "\nBooking ID: %s\n", bookingID)
	if res != nil {
		fmt.Fprintf(&sb, "Calendar event: %s\n", res.EventID)
		if res.EventLink != "" {
			fmt.Fprintf(&sb, "View in calendar: %s\n", res.EventLink)
		}
		sb.WriteString("\nNext Steps:\n")
		sb.WriteString("1. You'll receive a confirmation email shortly\n")
		sb.WriteString("2. Our team will contact you within 24 hours\n")
		sb.WriteString("3. We'll send you a detailed quote and contract")
	}
	return strings.TrimSpace(sb.String())
}

// FormatSummary renders whatever is known so far, with placeholders.
func FormatSummary(b models.BookingData) string {
	var sb strings.Builder
	sb.WriteString("Booking Summary\n\n")
	sb.WriteString("Job Details:\n")
	fmt.Fprintf(&sb, "- Type: %s\n", orDefault(b.JobType, "Not specified"))
	fmt.Fprintf(&sb, "- Date: %s\n", orDefault(dateLabel(b), "Not specified"))
	fmt.Fprintf(&sb, "- Time: %s\n", orDefault(b.SelectedTime, "Not specified"))
	fmt.Fprintf(&sb, "- Duration: %s\n", orDefault(b.Duration, "Not specified"))
	fmt.Fprintf(&sb, "- Location: %s\n", orDefault(b.Location, "Not specified"))
	fmt.Fprintf(&sb, "- Budget: %s\n\n", orDefault(b.Budget, "Not specified"))
	sb.WriteString("Contact Information:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", orDefault(b.ContactName, "Not specified"))
	fmt.Fprintf(&sb, "- Phone: %s\n", orDefault(b.Phone, "Not specified"))
	fmt.Fprintf(&sb, "- Email: %s\n\n", orDefault(b.Email, "Not specified"))
	sb.WriteString("Additional Notes:\n")
	sb.WriteString(orDefault(b.Details, "No additional notes provided"))
	return sb.String()
}

func dateLabel(b models.BookingData) string {
	if b.BookingDate != "" {
		return b.BookingDate
	}
	return b.DateReference()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
