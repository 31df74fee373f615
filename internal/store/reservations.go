package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryPool  = "POOL"
	CategoryCourt = "COURT"

	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
)

const dayFormat = "2006-01-02"

// FormatDay renders a date as the DATE column value used by this schema.
func FormatDay(date time.Time) string {
	return date.Format(dayFormat)
}

type Reservation struct {
	ID                 int64
	MemberID           int64
	Category           string
	CourtNumber        sql.NullInt64
	Day                string
	StartTime          time.Time
	EndTime            time.Time
	DurationMinutes    int64
	Status             string
	CancelledAt        sql.NullTime
	CancellationReason sql.NullString
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const reservationColumns = `id, member_id, category, court_number, day, start_time, end_time,
	duration_minutes, status, cancelled_at, cancellation_reason, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (Reservation, error) {
	var r Reservation
	err := row.Scan(
		&r.ID, &r.MemberID, &r.Category, &r.CourtNumber, &r.Day,
		&r.StartTime, &r.EndTime, &r.DurationMinutes, &r.Status,
		&r.CancelledAt, &r.CancellationReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// CreateReservation inserts a reservation guarded against conflicting rows.
// The insert only succeeds when the member has no overlapping active
// reservation and, for court bookings, the court is free for the window.
// A rejected insert is classified and returned as ErrUserOverlap or
// ErrCourtTaken, so a losing concurrent writer sees the same failure the
// pre-checks would have produced.
func (s *Store) CreateReservation(ctx context.Context, r Reservation) (Reservation, error) {
	const q = `
		INSERT INTO reservations (member_id, category, court_number, day, start_time, end_time, duration_minutes, status)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE member_id = ? AND status != 'CANCELLED'
			  AND start_time < ? AND end_time > ?
		)
		AND (? IS NULL OR NOT EXISTS (
			SELECT 1 FROM reservations
			WHERE category = 'COURT' AND court_number = ? AND day = ?
			  AND status != 'CANCELLED'
			  AND start_time < ? AND end_time > ?
		))`

	result, err := s.db.ExecContext(ctx, q,
		r.MemberID, r.Category, r.CourtNumber, r.Day, r.StartTime, r.EndTime, r.DurationMinutes, r.Status,
		r.MemberID, r.EndTime, r.StartTime,
		r.CourtNumber, r.CourtNumber, r.Day, r.EndTime, r.StartTime,
	)
	if err != nil {
		return Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	if affected == 0 {
		overlap, err := s.MemberHasOverlap(ctx, r.MemberID, r.StartTime, r.EndTime, 0)
		if err != nil {
			return Reservation{}, err
		}
		if overlap {
			return Reservation{}, ErrUserOverlap
		}
		return Reservation{}, ErrCourtTaken
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	return s.GetReservation(ctx, id)
}

// GetReservation returns a reservation by ID or ErrNotFound.
func (s *Store) GetReservation(ctx context.Context, id int64) (Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	r, err := scanReservation(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("get reservation %d: %w", id, err)
	}
	return r, nil
}

// ListActiveCourtReservationsOnDay returns non-cancelled court bookings for a
// day, ordered by start time.
func (s *Store) ListActiveCourtReservationsOnDay(ctx context.Context, day string) ([]Reservation, error) {
	q := `SELECT ` + reservationColumns + `
		FROM reservations
		WHERE day = ? AND category = 'COURT' AND status != 'CANCELLED'
		ORDER BY start_time, court_number`
	rows, err := s.db.QueryContext(ctx, q, day)
	if err != nil {
		return nil, fmt.Errorf("list court reservations for %s: %w", day, err)
	}
	defer rows.Close()

	var all []Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		all = append(all, r)
	}
	return all, rows.Err()
}

// MemberHasOverlap reports whether the member holds a non-cancelled
// reservation overlapping [start, end). excludeID, when non-zero, skips one
// reservation, used when re-validating an existing record.
func (s *Store) MemberHasOverlap(ctx context.Context, memberID int64, start, end time.Time, excludeID int64) (bool, error) {
	const q = `
		SELECT COUNT(1) FROM reservations
		WHERE member_id = ? AND status != 'CANCELLED'
		  AND id != ?
		  AND start_time < ? AND end_time > ?`
	var count int64
	if err := s.db.QueryRowContext(ctx, q, memberID, excludeID, end, start).Scan(&count); err != nil {
		return false, fmt.Errorf("check member overlap for %d: %w", memberID, err)
	}
	return count > 0, nil
}

// CourtHasConflict reports whether a court has a non-cancelled booking
// overlapping [start, end) on the given day.
func (s *Store) CourtHasConflict(ctx context.Context, day string, courtNumber int64, start, end time.Time) (bool, error) {
	const q = `
		SELECT COUNT(1) FROM reservations
		WHERE category = 'COURT' AND court_number = ? AND day = ?
		  AND status != 'CANCELLED'
		  AND start_time < ? AND end_time > ?`
	var count int64
	if err := s.db.QueryRowContext(ctx, q, courtNumber, day, end, start).Scan(&count); err != nil {
		return false, fmt.Errorf("check court %d conflict: %w", courtNumber, err)
	}
	return count > 0, nil
}

// CancelReservation marks a reservation cancelled. The caller is responsible
// for lifecycle guards; the status filter here only prevents double writes.
func (s *Store) CancelReservation(ctx context.Context, id int64, at time.Time, reason sql.NullString) (Reservation, error) {
	const q = `
		UPDATE reservations
		SET status = 'CANCELLED', cancelled_at = ?, cancellation_reason = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status != 'CANCELLED'`
	result, err := s.db.ExecContext(ctx, q, at, reason, id)
	if err != nil {
		return Reservation{}, fmt.Errorf("cancel reservation %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Reservation{}, fmt.Errorf("cancel reservation %d: %w", id, err)
	}
	if affected == 0 {
		return Reservation{}, ErrNotFound
	}
	return s.GetReservation(ctx, id)
}

// CompleteExpiredReservations transitions confirmed reservations whose end
// time has passed to COMPLETED and returns how many rows changed.
func (s *Store) CompleteExpiredReservations(ctx context.Context, now time.Time) (int64, error) {
	const q = `
		UPDATE reservations
		SET status = 'COMPLETED', updated_at = CURRENT_TIMESTAMP
		WHERE status = 'CONFIRMED' AND end_time < ?`
	result, err := s.db.ExecContext(ctx, q, now)
	if err != nil {
		return 0, fmt.Errorf("complete expired reservations: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("complete expired reservations: %w", err)
	}
	return affected, nil
}

// ReservationDetail is a reservation joined with member identity for listing
// views.
type ReservationDetail struct {
	Reservation
	MemberName  string
	MemberEmail sql.NullString
}

// ReservationFilter narrows ListReservations. Zero values are ignored.
type ReservationFilter struct {
	Day         string
	FromDay     string
	ToDay       string
	CourtNumber int64
	Status      string
	MemberID    int64
	Search      string
	Limit       int64
	Offset      int64
}

// ListReservations returns reservations matching the filter, newest first,
// with limit/offset pagination. Search matches member name or email.
func (s *Store) ListReservations(ctx context.Context, filter ReservationFilter) ([]ReservationDetail, error) {
	query := `
		SELECT r.id, r.member_id, r.category, r.court_number, r.day, r.start_time, r.end_time,
		       r.duration_minutes, r.status, r.cancelled_at, r.cancellation_reason, r.created_at, r.updated_at,
		       m.first_name || ' ' || m.last_name, m.email
		FROM reservations r
		JOIN members m ON m.id = r.member_id
		WHERE 1 = 1`
	var args []interface{}

	if filter.Day != "" {
		query += ` AND r.day = ?`
		args = append(args, filter.Day)
	}
	if filter.FromDay != "" {
		query += ` AND r.day >= ?`
		args = append(args, filter.FromDay)
	}
	if filter.ToDay != "" {
		query += ` AND r.day <= ?`
		args = append(args, filter.ToDay)
	}
	if filter.CourtNumber > 0 {
		query += ` AND r.court_number = ?`
		args = append(args, filter.CourtNumber)
	}
	if filter.Status != "" {
		query += ` AND r.status = ?`
		args = append(args, filter.Status)
	}
	if filter.MemberID > 0 {
		query += ` AND r.member_id = ?`
		args = append(args, filter.MemberID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query += ` AND (m.first_name || ' ' || m.last_name LIKE ? OR m.email LIKE ?)`
		args = append(args, pattern, pattern)
	}

	query += ` ORDER BY r.start_time DESC, r.id DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var all []ReservationDetail
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.MemberID, &d.Category, &d.CourtNumber, &d.Day,
			&d.StartTime, &d.EndTime, &d.DurationMinutes, &d.Status,
			&d.CancelledAt, &d.CancellationReason, &d.CreatedAt, &d.UpdatedAt,
			&d.MemberName, &d.MemberEmail,
		); err != nil {
			return nil, fmt.Errorf("scan reservation detail: %w", err)
		}
		all = append(all, d)
	}
	return all, rows.Err()
}

// ListConfirmedStartingBetween returns confirmed reservations starting in
// [from, to), joined with member contact details, for reminder delivery.
func (s *Store) ListConfirmedStartingBetween(ctx context.Context, from, to time.Time) ([]ReservationDetail, error) {
	const q = `
		SELECT r.id, r.member_id, r.category, r.court_number, r.day, r.start_time, r.end_time,
		       r.duration_minutes, r.status, r.cancelled_at, r.cancellation_reason, r.created_at, r.updated_at,
		       m.first_name || ' ' || m.last_name, m.email
		FROM reservations r
		JOIN members m ON m.id = r.member_id
		WHERE r.status = 'CONFIRMED' AND r.start_time >= ? AND r.start_time < ?
		ORDER BY r.start_time`
	rows, err := s.db.QueryContext(ctx, q, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming reservations: %w", err)
	}
	defer rows.Close()

	var all []ReservationDetail
	for rows.Next() {
		var d ReservationDetail
		if err := rows.Scan(
			&d.ID, &d.MemberID, &d.Category, &d.CourtNumber, &d.Day,
			&d.StartTime, &d.EndTime, &d.DurationMinutes, &d.Status,
			&d.CancelledAt, &d.CancellationReason, &d.CreatedAt, &d.UpdatedAt,
			&d.MemberName, &d.MemberEmail,
		); err != nil {
			return nil, fmt.Errorf("scan reservation detail: %w", err)
		}
		all = append(all, d)
	}
	return all, rows.Err()
}
