package dialogue

import "jobbot/models"

// nextState is the forward edge out of each collecting state. COMPLETED has
// no edge; only a reset leaves it.
var nextState = map[models.ConversationState]models.ConversationState{
	models.StateGreeting:           models.StateCollectingContact,
	models.StateCollectingContact:  models.StateCollectingJobType,
	models.StateCollectingJobType:  models.StateCollectingDuration,
	models.StateCollectingDuration: models.StateCollectingDay,
	models.StateCollectingDay:      models.StateCollectingTimeslot,
	models.StateCollectingTimeslot: models.StateCollectingLocation,
	models.StateCollectingLocation: models.StateCollectingBudget,
	models.StateCollectingBudget:   models.StateConfirmingDetails,
	models.StateConfirmingDetails:  models.StateCompleted,
}

// requiredFields gate each forward edge. States absent here advance freely.
var requiredFields = map[models.ConversationState][]string{
	models.StateCollectingContact:  {models.FieldContactName},
	models.StateCollectingJobType:  {models.FieldJobType},
	models.StateCollectingDuration: {models.FieldDuration},
	models.StateCollectingDay:      {models.FieldSelectedDay},
	models.StateCollectingTimeslot: {models.FieldSelectedSlot},
	models.StateCollectingLocation: {models.FieldLocation},
	models.StateCollectingBudget:   {models.FieldBudget},
}

var weekdayReplies = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// quickReplies are static per state; COLLECTING_TIMESLOT uses the cached
// slot labels instead.
var quickReplies = map[models.ConversationState][]string{
	models.StateGreeting:           {"Tell me about your job"},
	models.StateCollectingContact:  {"What's your name?"},
	models.StateCollectingJobType:  {"Photography", "Videography", "Audio", "Other"},
	models.StateCollectingDuration: {"2 hours", "4 hours", "8 hours", "Full day"},
	models.StateCollectingDay:      {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Today", "Tomorrow"},
	models.StateCollectingLocation: {"Studio", "Outdoor", "Client's venue", "My location"},
	models.StateCollectingBudget:   {"Under $500", "$500-$1000", "$1000+", "Discuss later"},
	models.StateConfirmingDetails:  {"Confirm booking", "Make changes"},
	models.StateCompleted:          {"Start new booking"},
}

// statePrompts stand in when the extractor gives no reply of its own.
var statePrompts = map[models.ConversationState]string{
	models.StateCollectingJobType:  "What type of job do you need? (Photography, Videography, Audio, or something else)",
	models.StateCollectingDuration: "How long will the job take?",
	models.StateCollectingDay:      "Which day works best for you?",
	models.StateCollectingLocation: "Where will the job take place?",
	models.StateCollectingBudget:   "What's your budget for this job?",
	models.StateConfirmingDetails:  "Please review your booking details and confirm. Include your phone number and email if you haven't shared them yet.",
	models.StateCompleted:          "Thanks! I'm finalizing your booking now.",
}

// NextState advances current when its required fields are all present.
func NextState(current models.ConversationState, b models.BookingData) models.ConversationState {
	next, ok := nextState[current]
	if !ok {
		return current
	}
	if len(b.Missing(requiredFields[current])) > 0 {
		return current
	}
	return next
}

// QuickReplies returns a fresh copy of the static replies for state.
func QuickReplies(state models.ConversationState) []string {
	return append([]string{}, quickReplies[state]...)
}
