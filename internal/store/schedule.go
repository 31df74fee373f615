package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// OperatingHours is the weekly calendar entry for one day. A day without a
// row is closed.
type OperatingHours struct {
	DayOfWeek int64
	OpensAt   string
	ClosesAt  string
}

// FacilitySettings is the singleton booking configuration record.
type FacilitySettings struct {
	CourtCount         int64
	MinDurationMinutes int64
	AdvanceBookingDays int64
}

// GetOperatingHours returns the calendar entry for the given day of week, or
// ErrNotFound when the facility is closed that day.
func (s *Store) GetOperatingHours(ctx context.Context, dayOfWeek int64) (OperatingHours, error) {
	const q = `SELECT day_of_week, opens_at, closes_at FROM operating_hours WHERE day_of_week = ?`
	var hours OperatingHours
	err := s.db.QueryRowContext(ctx, q, dayOfWeek).Scan(&hours.DayOfWeek, &hours.OpensAt, &hours.ClosesAt)
	if errors.Is(err, sql.ErrNoRows) {
		return OperatingHours{}, ErrNotFound
	}
	if err != nil {
		return OperatingHours{}, fmt.Errorf("get operating hours for day %d: %w", dayOfWeek, err)
	}
	return hours, nil
}

// ListOperatingHours returns all open days ordered by day of week.
func (s *Store) ListOperatingHours(ctx context.Context) ([]OperatingHours, error) {
	const q = `SELECT day_of_week, opens_at, closes_at FROM operating_hours ORDER BY day_of_week`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list operating hours: %w", err)
	}
	defer rows.Close()

	var all []OperatingHours
	for rows.Next() {
		var hours OperatingHours
		if err := rows.Scan(&hours.DayOfWeek, &hours.OpensAt, &hours.ClosesAt); err != nil {
			return nil, fmt.Errorf("scan operating hours: %w", err)
		}
		all = append(all, hours)
	}
	return all, rows.Err()
}

// UpsertOperatingHours sets the open window for a day of week.
func (s *Store) UpsertOperatingHours(ctx context.Context, hours OperatingHours) error {
	const q = `
		INSERT INTO operating_hours (day_of_week, opens_at, closes_at)
		VALUES (?, ?, ?)
		ON CONFLICT (day_of_week) DO UPDATE
		SET opens_at = excluded.opens_at,
		    closes_at = excluded.closes_at,
		    updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, q, hours.DayOfWeek, hours.OpensAt, hours.ClosesAt); err != nil {
		return fmt.Errorf("upsert operating hours for day %d: %w", hours.DayOfWeek, err)
	}
	return nil
}

// DeleteOperatingHours marks a day of week closed by removing its row.
func (s *Store) DeleteOperatingHours(ctx context.Context, dayOfWeek int64) error {
	const q = `DELETE FROM operating_hours WHERE day_of_week = ?`
	if _, err := s.db.ExecContext(ctx, q, dayOfWeek); err != nil {
		return fmt.Errorf("delete operating hours for day %d: %w", dayOfWeek, err)
	}
	return nil
}

// GetFacilitySettings returns the singleton settings record.
func (s *Store) GetFacilitySettings(ctx context.Context) (FacilitySettings, error) {
	const q = `SELECT court_count, min_duration_minutes, advance_booking_days FROM facility_settings WHERE id = 1`
	var settings FacilitySettings
	err := s.db.QueryRowContext(ctx, q).Scan(
		&settings.CourtCount,
		&settings.MinDurationMinutes,
		&settings.AdvanceBookingDays,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return FacilitySettings{}, ErrNotFound
	}
	if err != nil {
		return FacilitySettings{}, fmt.Errorf("get facility settings: %w", err)
	}
	return settings, nil
}

// UpdateFacilitySettings mutates the singleton settings record in place.
func (s *Store) UpdateFacilitySettings(ctx context.Context, settings FacilitySettings) error {
	const q = `
		UPDATE facility_settings
		SET court_count = ?,
		    min_duration_minutes = ?,
		    advance_booking_days = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = 1`
	result, err := s.db.ExecContext(ctx, q,
		settings.CourtCount,
		settings.MinDurationMinutes,
		settings.AdvanceBookingDays,
	)
	if err != nil {
		return fmt.Errorf("update facility settings: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update facility settings: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
