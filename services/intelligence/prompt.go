package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"jobbot/models"
)

const (
	bookingFunctionName        = "update_booking_data"
	bookingFunctionDescription = "Update booking information based on user input"
)

type fieldSpec struct {
	Name        string
	Description string
}

// bookingFields is the tool schema shared by every provider.
var bookingFields = []fieldSpec{
	{models.FieldJobType, "Type of job (e.g., Photography, Videography, Audio)"},
	{models.FieldDate, "Job date in DD/MM/YYYY format"},
	{models.FieldDuration, "Duration in hours"},
	{models.FieldLocation, "Job location or venue"},
	{models.FieldBudget, "Budget range"},
	{models.FieldContactName, "Client's full name"},
	{models.FieldPhone, "Client's phone number"},
	{models.FieldEmail, "Client's email address"},
	{models.FieldDetails, "Any extra notes about the job"},
}

var stageInstructions = map[models.ConversationState]string{
	models.StateCollectingContact:  "Ask for their name only, not phone or email.",
	models.StateCollectingJobType:  "The customer has given their name. Ask what kind of work they need (Photography, Videography, Audio, etc.). Do not greet them again.",
	models.StateCollectingDuration: "Ask how many hours the job will take.",
	models.StateCollectingLocation: "Ask where the job will take place.",
	models.StateCollectingBudget:   "Ask about their budget range.",
	models.StateConfirmingDetails:  "Summarize every booking detail using the customer's name and ask them to confirm. Collect phone and email if they are still missing.",
}

func buildSystemPrompt(state models.ConversationState, b models.BookingData) string {
	name := "the customer"
	if b.ContactName != "" {
		name = b.ContactName
	}

	var sb strings.Builder
	sb.WriteString("You are JobBot, a friendly and professional booking assistant for freelance creative jobs. ")
	sb.WriteString("Collect booking information conversationally, one question at a time, and keep replies short.\n")
	fmt.Fprintf(&sb, "The customer's name is %s. Address them by name and never call them 'Client'.\n", name)
	sb.WriteString("Whenever the customer gives a booking detail, call " + bookingFunctionName + " with it. ")
	sb.WriteString("If they ask to skip or just book, fill missing fields with sensible placeholder values and move on. Never ask for the same detail twice.\n")
	fmt.Fprintf(&sb, "Current booking stage: %s\n", state)
	if known := knownFields(b); known != "" {
		sb.WriteString("Known details: " + known + "\n")
	}
	sb.WriteString(stageInstructions[state])
	return sb.String()
}

func knownFields(b models.BookingData) string {
	var parts []string
	for _, f := range bookingFields {
		if b.Has(f.Name) {
			parts = append(parts, fmt.Sprintf("%s=%q", f.Name, b.Get(f.Name)))
		}
	}
	if b.SelectedTime != "" {
		parts = append(parts, fmt.Sprintf("%s=%q", models.FieldSelectedTime, b.SelectedTime))
	}
	return strings.Join(parts, ", ")
}

// parseArguments decodes tool-call arguments into string fields.
func parseArguments(raw string) (map[string]string, error) {
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	return stringify(args), nil
}

// stringify flattens scalar argument values; nested values are dropped.
func stringify(args map[string]any) map[string]string {
	out := make(map[string]string, len(args))
	for k, v := range args {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case int, int32, int64:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
