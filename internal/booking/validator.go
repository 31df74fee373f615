package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clubcourt/reserve/internal/store"
)

// Validate checks a proposed (date, start, duration) against calendar and
// policy constraints. All violations are collected; an empty slice means the
// request is valid.
func (s *Service) Validate(ctx context.Context, date time.Time, start time.Time, durationMinutes int64) ([]string, error) {
	settings, err := s.db.Store.GetFacilitySettings(ctx)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, settings, date, start, durationMinutes)
}

func (s *Service) validate(ctx context.Context, settings store.FacilitySettings, date time.Time, start time.Time, durationMinutes int64) ([]string, error) {
	var violations []string

	now := s.now()
	latest := now.AddDate(0, 0, int(settings.AdvanceBookingDays))
	if startOfDay(date).After(latest) {
		violations = append(violations, fmt.Sprintf("reservations may be made at most %d days in advance", settings.AdvanceBookingDays))
	}
	if start.Before(now) {
		violations = append(violations, "reservation time is in the past")
	}
	if durationMinutes < settings.MinDurationMinutes {
		violations = append(violations, fmt.Sprintf("minimum booking duration is %s", FormatDuration(settings.MinDurationMinutes)))
	}
	if durationMinutes%SlotMinutes != 0 {
		violations = append(violations, fmt.Sprintf("duration must be a multiple of %d minutes", SlotMinutes))
	}

	hours, err := s.db.Store.GetOperatingHours(ctx, int64(date.Weekday()))
	if errors.Is(err, store.ErrNotFound) {
		violations = append(violations, fmt.Sprintf("the facility is closed on %s", date.Weekday()))
		return violations, nil
	}
	if err != nil {
		return nil, err
	}

	opens, err := combineDayClock(date, hours.OpensAt)
	if err != nil {
		return nil, err
	}
	closes, err := combineDayClock(date, hours.ClosesAt)
	if err != nil {
		return nil, err
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	if start.Before(opens) || start.After(closes) || end.After(closes) {
		violations = append(violations, fmt.Sprintf("requested time must fall within operating hours (%s - %s)", hours.OpensAt, hours.ClosesAt))
	}

	return violations, nil
}

func startOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
