package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"jobbot/models"
	"jobbot/services/calendar"
)

const (
	BusinessStartHour = 9
	BusinessEndHour   = 17

	// guardBand pads each candidate on both sides before the overlap check.
	guardBand = time.Minute
)

// Engine computes candidate slots and reserves them. A nil calendar puts
// the engine in mock mode for good.
type Engine struct {
	calendar calendar.Calendar
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(cal calendar.Calendar, loc *time.Location, logger *zap.Logger, opts ...Option) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{calendar: cal, loc: loc, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MockMode reports whether no calendar backs the engine.
func (e *Engine) MockMode() bool { return e.calendar == nil }

// Now is the engine clock in the engine's location.
func (e *Engine) Now() time.Time { return e.now().In(e.loc) }

func (e *Engine) Location() *time.Location { return e.loc }

// Calendar exposes the backing calendar, nil in mock mode.
func (e *Engine) Calendar() calendar.Calendar { return e.calendar }

// ResolveDay resolves ref against the engine clock.
func (e *Engine) ResolveDay(ref string) (time.Time, bool) {
	return ResolveDay(ref, e.Now())
}

// CandidateSlots lists the free windows of the given length on date. The
// bool result reports whether the list was synthesized in mock mode.
func (e *Engine) CandidateSlots(ctx context.Context, date time.Time, hours int) ([]models.TimeSlot, bool, error) {
	if hours <= 0 {
		return nil, false, ErrInvalidDuration
	}
	day := midnight(date.In(e.loc))
	if e.calendar == nil {
		return mockSlots(day, hours), true, nil
	}

	slots := []models.TimeSlot{}
	for h := BusinessStartHour; h+hours <= BusinessEndHour; h++ {
		start := atHour(day, h)
		end := start.Add(time.Duration(hours) * time.Hour)

		busy, err := e.calendar.CheckOverlap(ctx, start.Add(-guardBand), end.Add(guardBand))
		if err != nil {
			if errors.Is(err, calendar.ErrUnavailable) {
				e.logger.Warn("Calendar unavailable, serving mock slots", zap.Error(err))
				return mockSlots(day, hours), true, nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, false, ctxErr
			}
			// an unverifiable slot is never offered
			e.logger.Warn("Overlap check failed, treating slot as busy",
				zap.Time("start", start), zap.Error(err))
			continue
		}
		if !busy {
			slots = append(slots, models.NewTimeSlot(start, end))
		}
	}
	return slots, false, nil
}

// Availability resolves dayRef and lists its slots. Unresolvable references
// yield a *DayError alongside a failed result.
func (e *Engine) Availability(ctx context.Context, dayRef string, hours int) (models.AvailabilityResult, error) {
	res := models.AvailabilityResult{DurationHours: hours, AvailableSlots: []models.TimeSlot{}}

	day, ok := e.ResolveDay(dayRef)
	if !ok {
		err := NewDayError(dayRef)
		res.Error = err.(*DayError).Message
		return res, err
	}
	res.Day = day
	res.Date = day.Format(models.DateLayout)
	res.DateISO = day.Format(models.ISODateLayout)

	slots, mock, err := e.CandidateSlots(ctx, day, hours)
	if err != nil {
		res.Error = err.Error()
		return res, fmt.Errorf("candidate slots for %s: %w", res.DateISO, err)
	}
	res.Success = true
	res.AvailableSlots = slots
	res.MockMode = mock
	return res, nil
}

// SlotAt builds the slot starting at startHour on the day dayRef resolves to.
func (e *Engine) SlotAt(dayRef string, startHour, hours int) (models.TimeSlot, error) {
	if hours <= 0 {
		return models.TimeSlot{}, ErrInvalidDuration
	}
	day, ok := e.ResolveDay(dayRef)
	if !ok {
		return models.TimeSlot{}, NewDayError(dayRef)
	}
	start := atHour(day, startHour)
	return models.NewTimeSlot(start, start.Add(time.Duration(hours)*time.Hour)), nil
}

// IsFree checks one explicit window. In mock mode every window is free.
func (e *Engine) IsFree(ctx context.Context, slot models.TimeSlot) (bool, error) {
	if e.calendar == nil {
		return true, nil
	}
	start, err := slot.Start()
	if err != nil {
		return false, err
	}
	end, err := slot.End()
	if err != nil {
		return false, err
	}
	busy, err := e.calendar.CheckOverlap(ctx, start.Add(-guardBand), end.Add(guardBand))
	if err != nil {
		if errors.Is(err, calendar.ErrUnavailable) {
			return true, nil
		}
		return false, err
	}
	return !busy, nil
}

// mockSlots is deterministic per (weekday kind, hours). Busy hours only
// exclude slots starting on them.
func mockSlots(day time.Time, hours int) []models.TimeSlot {
	busy := map[int]bool{12: true, 14: true}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		busy = map[int]bool{10: true, 15: true}
	}
	slots := []models.TimeSlot{}
	for h := BusinessStartHour; h+hours <= BusinessEndHour; h++ {
		if busy[h] {
			continue
		}
		start := atHour(day, h)
		slots = append(slots, models.NewTimeSlot(start, start.Add(time.Duration(hours)*time.Hour)))
	}
	return slots
}
