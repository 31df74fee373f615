package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubcourt/reserve/internal/store"
)

// SlotMinutes is the fixed width of a bookable time window.
const SlotMinutes = 30

const clockFormat = "15:04"

// Slot is one fixed 30-minute window within operating hours on a date.
type Slot struct {
	Start time.Time
	End   time.Time
	Label string
}

// GenerateSlots returns the ordered slots for a date. Days the calendar marks
// closed produce an empty sequence.
func (s *Service) GenerateSlots(ctx context.Context, date time.Time) ([]Slot, error) {
	hours, err := s.db.Store.GetOperatingHours(ctx, int64(date.Weekday()))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return buildSlots(date, hours)
}

// buildSlots emits contiguous 30-minute windows from opens_at, discarding any
// window whose end would pass closes_at.
func buildSlots(date time.Time, hours store.OperatingHours) ([]Slot, error) {
	opens, err := combineDayClock(date, hours.OpensAt)
	if err != nil {
		return nil, err
	}
	closes, err := combineDayClock(date, hours.ClosesAt)
	if err != nil {
		return nil, err
	}

	var slots []Slot
	for start := opens; !start.Add(SlotMinutes * time.Minute).After(closes); start = start.Add(SlotMinutes * time.Minute) {
		end := start.Add(SlotMinutes * time.Minute)
		slots = append(slots, Slot{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s - %s", start.Format(clockFormat), end.Format(clockFormat)),
		})
	}
	return slots, nil
}

// combineDayClock anchors an "HH:MM" wall-clock value on the given date.
func combineDayClock(date time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse(clockFormat, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock value %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), parsed.Hour(), parsed.Minute(), 0, 0, date.Location()), nil
}
