package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobbot/models"
	"jobbot/services/availability"
	"jobbot/services/booking"
	ai "jobbot/services/intelligence"
	"jobbot/services/session"
)

const (
	greetingMessage  = "Hi! I'm JobBot, your AI booking assistant. I can help you book photography, videography, audio, or other freelance services. What's your name?"
	apologyMessage   = "I'm sorry, I encountered an error. Please try again."
	completedMessage = "Your booking is complete! Start a new booking if you'd like to book another job."

	// historyWindow is how many earlier turns the extractor sees.
	historyWindow = 5

	defaultCollaboratorTimeout = 30 * time.Second
)

// SlotFinder is the slice of the availability engine the dialogue needs.
type SlotFinder interface {
	Availability(ctx context.Context, dayRef string, hours int) (models.AvailabilityResult, error)
}

// Engine drives every conversation. Messages for one session are handled
// one at a time; different sessions proceed in parallel.
type Engine struct {
	store     session.Store
	locks     *session.KeyedMutex
	slots     SlotFinder
	extractor ai.Extractor
	finalizer booking.Finalizer
	timeout   time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

type Option func(*Engine)

// WithTimeout bounds each collaborator call.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(store session.Store, slots SlotFinder, extractor ai.Extractor, finalizer booking.Finalizer, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		locks:     session.NewKeyedMutex(),
		slots:     slots,
		extractor: extractor,
		finalizer: finalizer,
		timeout:   defaultCollaboratorTimeout,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessMessage handles one customer message. It never fails: faults are
// reported as an apology and the stored session is left as it was.
// stateHint is advisory; the stored state always wins.
func (e *Engine) ProcessMessage(ctx context.Context, sessionID, text string, stateHint models.ConversationState) (resp *models.ChatResponse) {
	unlock := e.locks.Lock(sessionID)
	defer unlock()

	sess, _, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		e.logger.Error("Failed to load session", zap.String("sessionId", sessionID), zap.Error(err))
		return apology(models.NewSession(sessionID, e.now()))
	}
	if stateHint != "" && stateHint != sess.State {
		e.logger.Debug("Ignoring stale state hint",
			zap.String("sessionId", sessionID),
			zap.String("hint", string(stateHint)),
			zap.String("state", string(sess.State)))
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Dialogue panicked", zap.String("sessionId", sessionID), zap.Any("panic", r))
			resp = apology(sess)
		}
	}()

	work := sess.Clone()
	resp, err = e.step(ctx, work, text)
	if err != nil {
		e.logger.Error("Failed to process message", zap.String("sessionId", sessionID), zap.Error(err))
		return apology(sess)
	}
	work.UpdatedAt = e.now()
	if err := e.store.Save(ctx, work); err != nil {
		e.logger.Error("Failed to save session", zap.String("sessionId", sessionID), zap.Error(err))
		return apology(sess)
	}
	return resp
}

// Reset discards a session and reports whether it existed.
func (e *Engine) Reset(ctx context.Context, sessionID string) (bool, error) {
	unlock := e.locks.Lock(sessionID)
	defer unlock()
	return e.store.Reset(ctx, sessionID)
}

// Summary is the introspection view of a session.
func (e *Engine) Summary(ctx context.Context, sessionID string) (*models.SessionSummary, error) {
	sess, err := e.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &models.SessionSummary{
		SessionID:         sess.ID,
		ConversationState: sess.State,
		BookingData:       sess.Booking,
		MessageCount:      len(sess.History),
	}, nil
}

func (e *Engine) step(ctx context.Context, s *models.Session, text string) (*models.ChatResponse, error) {
	if s.State == models.StateGreeting {
		s.State = models.StateCollectingContact
		return respond(s, greetingMessage, models.MessageText, []string{}), nil
	}

	trimmed := strings.TrimSpace(text)
	if trimmed != "" {
		s.Append(models.RoleUser, text, e.now())
	}

	switch s.State {
	case models.StateCollectingContact:
		return e.handleContact(s, trimmed), nil
	case models.StateCollectingDay:
		return e.handleDay(ctx, s, trimmed)
	case models.StateCollectingTimeslot:
		return e.handleTimeslot(s, trimmed), nil
	case models.StateCompleted:
		resp := respond(s, completedMessage, models.MessageConfirmation, QuickReplies(models.StateCompleted))
		resp.RequiresInput = false
		return resp, nil
	}
	if !s.State.Valid() {
		return nil, fmt.Errorf("unknown conversation state %q", s.State)
	}
	return e.handleExtraction(ctx, s, text)
}

func (e *Engine) handleContact(s *models.Session, name string) *models.ChatResponse {
	if name == "" {
		return respond(s, "Sorry, I didn't catch that. What's your name?", models.MessageError, []string{})
	}
	s.Booking.ContactName = name
	s.State = models.StateCollectingJobType
	return respond(s, fmt.Sprintf("Nice to meet you, %s! What type of job do you need help with?", name),
		models.MessageText, QuickReplies(models.StateCollectingJobType))
}

func (e *Engine) handleDay(ctx context.Context, s *models.Session, day string) (*models.ChatResponse, error) {
	if day == "" {
		return respond(s, "Which day works best for you?", models.MessageDaySelection, QuickReplies(models.StateCollectingDay)), nil
	}
	s.Booking.SelectedDay = day
	hours := availability.ParseDurationHours(s.Booking.Duration)
	if hours <= 0 {
		// a zero-hour job cannot be booked; ask for the duration again
		s.Booking.Duration = ""
		s.State = models.StateCollectingDuration
		return respond(s, "A booking needs to last at least one hour. How long will the job take?",
			models.MessageText, QuickReplies(models.StateCollectingDuration)), nil
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	res, err := e.slots.Availability(cctx, day, hours)
	s.AvailableSlots = res.AvailableSlots

	var dayErr *availability.DayError
	switch {
	case errors.As(err, &dayErr):
		msg := fmt.Sprintf("Sorry, I couldn't find available slots for %s. %s Please try another day.", day, dayErr.Message)
		return respond(s, msg, models.MessageError, weekdays()), nil
	case err != nil:
		e.logger.Warn("Availability lookup failed", zap.String("sessionId", s.ID), zap.Error(err))
		return respond(s, "Sorry, I encountered an error checking availability. Please try again.",
			models.MessageError, weekdays()), nil
	case len(res.AvailableSlots) == 0:
		msg := fmt.Sprintf("Unfortunately, there are no available %d-hour slots on %s. Please try another day.", hours, res.Date)
		return respond(s, msg, models.MessageText, weekdays()), nil
	}

	s.Booking.BookingDate = res.Date
	s.Booking.DateISO = res.DateISO
	s.Booking.DurationHours = hours
	s.MockMode = res.MockMode
	s.State = models.StateCollectingTimeslot

	resp := respond(s, fmt.Sprintf("Great! Here are the available %d-hour slots for %s:", hours, res.Date),
		models.MessageTimeslotSelection, models.SlotLabels(res.AvailableSlots))
	resp.AvailableSlots = res.AvailableSlots
	return resp, nil
}

func (e *Engine) handleTimeslot(s *models.Session, input string) *models.ChatResponse {
	slot, ok := availability.MatchSlot(input, s.AvailableSlots)
	if !ok {
		e.logger.Info("Unmatched timeslot", zap.String("sessionId", s.ID), zap.String("input", input))
		resp := respond(s, "I couldn't find that time slot. Please select from the available options:",
			models.MessageTimeslotSelection, models.SlotLabels(s.AvailableSlots))
		resp.AvailableSlots = s.AvailableSlots
		return resp
	}

	s.Booking.SelectedSlot = &slot
	s.Booking.SelectedTime = slot.Display
	s.State = models.StateCollectingLocation

	jobType := strings.ToLower(s.Booking.JobType)
	if jobType == "" {
		jobType = "booking"
	}
	msg := fmt.Sprintf("Perfect! I've reserved %s on %s for you. Now, where would you like the %s session to take place?",
		slot.Display, s.Booking.BookingDate, jobType)
	return respond(s, msg, models.MessageText, QuickReplies(models.StateCollectingLocation))
}

func (e *Engine) handleExtraction(ctx context.Context, s *models.Session, text string) (*models.ChatResponse, error) {
	req := models.ExtractionRequest{
		Text:    text,
		History: earlierTurns(s, historyWindow),
		State:   s.State,
		Booking: s.Booking.Clone(),
	}

	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	result, err := e.extractor.Extract(cctx, req)
	cancel()
	if err != nil {
		// no fields were understood, so the conversation stays where it is
		e.logger.Warn("Extraction failed", zap.String("sessionId", s.ID), zap.Error(err))
		s.Append(models.RoleAssistant, ai.RetryReply, e.now())
		return respond(s, ai.RetryReply, models.MessageText, QuickReplies(s.State)), nil
	}
	if rejected := s.Booking.Merge(result.Fields); len(rejected) > 0 {
		e.logger.Debug("Dropped reserved fields from extraction", zap.Strings("fields", rejected))
	}

	prev := s.State
	s.State = NextState(prev, s.Booking)

	reply := strings.TrimSpace(result.Reply)
	if reply == "" {
		reply = statePrompts[s.State]
	}
	s.Append(models.RoleAssistant, reply, e.now())

	resp := respond(s, reply, models.MessageText, QuickReplies(s.State))
	if s.State == models.StateCompleted && prev != models.StateCompleted && !s.Finalized {
		resp.MessageType = models.MessageConfirmation
		resp.RequiresInput = false
		e.finalize(ctx, s)
		resp.BookingData = s.Booking.Clone()
	}
	return resp, nil
}

// finalize runs at most once per session. A failed confirmation does not
// roll the state back.
func (e *Engine) finalize(ctx context.Context, s *models.Session) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	conf := e.finalizer.Finalize(cctx, s.ID, s.Booking.Clone())
	s.Finalized = true
	s.Confirmation = &conf
	if conf.Reservation != nil {
		s.Booking.CalendarEvent = conf.Reservation
	}
	e.logger.Info("Booking finalized",
		zap.String("sessionId", s.ID),
		zap.String("bookingId", conf.BookingID),
		zap.String("status", string(conf.Status)))
}

// earlierTurns returns up to n history entries before the current utterance.
func earlierTurns(s *models.Session, n int) []models.HistoryEntry {
	if len(s.History) == 0 {
		return nil
	}
	prior := &models.Session{History: s.History[:len(s.History)-1]}
	return prior.Recent(n)
}

func respond(s *models.Session, msg string, kind models.MessageType, actions []string) *models.ChatResponse {
	return &models.ChatResponse{
		Message:           msg,
		MessageType:       kind,
		ConversationState: s.State,
		BookingData:       s.Booking.Clone(),
		SuggestedActions:  actions,
		RequiresInput:     true,
	}
}

func apology(s *models.Session) *models.ChatResponse {
	return &models.ChatResponse{
		Message:           apologyMessage,
		MessageType:       models.MessageError,
		ConversationState: s.State,
		BookingData:       s.Booking.Clone(),
		SuggestedActions:  []string{"Try again"},
		RequiresInput:     true,
	}
}

func weekdays() []string { return append([]string{}, weekdayReplies...) }
