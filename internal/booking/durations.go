package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubcourt/reserve/internal/store"
)

// DurationOption is one legal booking length starting from a chosen slot.
type DurationOption struct {
	Minutes int64
	Label   string
	End     time.Time
}

// DurationOptions enumerates booking lengths for a start time, from the
// facility minimum up to closing time in 30-minute steps. A closed day yields
// an empty sequence.
func (s *Service) DurationOptions(ctx context.Context, date time.Time, start time.Time) ([]DurationOption, error) {
	hours, err := s.db.Store.GetOperatingHours(ctx, int64(date.Weekday()))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	settings, err := s.db.Store.GetFacilitySettings(ctx)
	if err != nil {
		return nil, err
	}

	closes, err := combineDayClock(date, hours.ClosesAt)
	if err != nil {
		return nil, err
	}

	var options []DurationOption
	for minutes := settings.MinDurationMinutes; ; minutes += SlotMinutes {
		end := start.Add(time.Duration(minutes) * time.Minute)
		if end.After(closes) {
			break
		}
		options = append(options, DurationOption{
			Minutes: minutes,
			Label:   FormatDuration(minutes),
			End:     end,
		})
	}
	return options, nil
}

// FormatDuration renders minutes as a human-readable label such as "30min",
// "1hr" or "1hr 30min".
func FormatDuration(minutes int64) string {
	hours := minutes / 60
	remainder := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dmin", remainder)
	case remainder == 0:
		return fmt.Sprintf("%dhr", hours)
	default:
		return fmt.Sprintf("%dhr %dmin", hours, remainder)
	}
}
