// Package booking implements the reservation scheduling and allocation
// engine: slot generation, availability, duration options, validation,
// allocation, and transactional reservation creation and cancellation.
package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/clubcourt/reserve/internal/db"
	"github.com/clubcourt/reserve/internal/store"
)

// Policy carries the booking decisions that are configuration, not code.
type Policy struct {
	// AutoConfirm makes new reservations CONFIRMED; otherwise they start
	// PENDING and wait for staff approval.
	AutoConfirm bool
}

type Service struct {
	db     *db.DB
	subs   SubscriptionDirectory
	policy Policy
	now    func() time.Time
}

type Option func(*Service)

// WithSubscriptions overrides the store-backed subscription lookup.
func WithSubscriptions(subs SubscriptionDirectory) Option {
	return func(s *Service) { s.subs = subs }
}

// WithClock overrides the time source. Tests use this to pin "now".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(database *db.DB, policy Policy, opts ...Option) (*Service, error) {
	if database == nil {
		return nil, errors.New("booking service requires a database")
	}
	s := &Service{
		db:     database,
		subs:   storeSubscriptions{store: database.Store},
		policy: policy,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateParams describes one reservation request.
type CreateParams struct {
	MemberID        int64
	Category        Category
	Date            time.Time
	Start           time.Time
	DurationMinutes int64
	// PreferredCourt is tested first for court bookings; zero means no
	// preference.
	PreferredCourt int64
}

// CreateReservation runs the full check sequence and persists the
// reservation as one unit of work: eligibility, validation, member overlap,
// court allocation, then a conflict-guarded insert. A losing concurrent
// writer is rejected by the insert guard and mapped to the same ErrOverlap /
// ErrNoCourtAvailable the pre-checks produce.
func (s *Service) CreateReservation(ctx context.Context, params CreateParams) (store.Reservation, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_service").
		Int64("member_id", params.MemberID).
		Str("category", string(params.Category)).
		Str("day", store.FormatDay(params.Date)).
		Time("start_time", params.Start).
		Logger()

	if !params.Category.Valid() {
		return store.Reservation{}, fmt.Errorf("unknown booking category: %s", params.Category)
	}

	eligible, err := s.subs.HasActiveSubscription(ctx, params.MemberID, params.Category)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to check subscription eligibility")
		return store.Reservation{}, fmt.Errorf("check eligibility for member %d: %w", params.MemberID, err)
	}
	if !eligible {
		logger.Info().Msg("Reservation rejected: member not eligible")
		return store.Reservation{}, ErrNotEligible
	}

	var created store.Reservation
	err = s.db.RunInTx(ctx, func(txdb *db.DB) error {
		settings, err := txdb.Store.GetFacilitySettings(ctx)
		if err != nil {
			return err
		}

		violations, err := s.validate(ctx, settings, params.Date, params.Start, params.DurationMinutes)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			return &ValidationError{Violations: violations}
		}

		end := params.Start.Add(time.Duration(params.DurationMinutes) * time.Minute)

		overlap, err := txdb.Store.MemberHasOverlap(ctx, params.MemberID, params.Start, end, 0)
		if err != nil {
			return err
		}
		if overlap {
			return ErrOverlap
		}

		capacity, err := findAvailableCourt(ctx, txdb.Store, params.Date, params.Start, end, params.Category, params.PreferredCourt)
		if err != nil {
			return err
		}

		created, err = txdb.Store.CreateReservation(ctx, store.Reservation{
			MemberID:        params.MemberID,
			Category:        string(params.Category),
			CourtNumber:     capacity.columnValue(),
			Day:             store.FormatDay(params.Date),
			StartTime:       params.Start,
			EndTime:         end,
			DurationMinutes: params.DurationMinutes,
			Status:          s.initialStatus(),
		})
		switch {
		case errors.Is(err, store.ErrUserOverlap):
			return ErrOverlap
		case errors.Is(err, store.ErrCourtTaken):
			return ErrNoCourtAvailable
		case err != nil:
			return err
		}
		return nil
	})
	if err != nil {
		logFailedCreate(logger, err)
		return store.Reservation{}, err
	}

	logger.Info().
		Int64("reservation_id", created.ID).
		Str("capacity", capacityLabel(created)).
		Str("status", created.Status).
		Msg("Reservation created")
	return created, nil
}

// Cancel transitions a reservation to CANCELLED exactly once. Cancelling an
// already-cancelled reservation fails without mutation; members cannot
// cancel completed reservations, administrators can.
func (s *Service) Cancel(ctx context.Context, reservationID int64, byAdmin bool, reason string) (store.Reservation, error) {
	logger := log.Ctx(ctx).With().
		Str("component", "booking_service").
		Int64("reservation_id", reservationID).
		Bool("by_admin", byAdmin).
		Logger()

	var cancelled store.Reservation
	err := s.db.RunInTx(ctx, func(txdb *db.DB) error {
		existing, err := txdb.Store.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if existing.Status == store.StatusCancelled {
			return ErrAlreadyCancelled
		}
		if existing.Status == store.StatusCompleted && !byAdmin {
			return ErrNotCancellable
		}

		cancelled, err = txdb.Store.CancelReservation(ctx, reservationID, s.now(), nullString(reason))
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) || errors.Is(err, ErrNotCancellable) {
			logger.Info().Err(err).Msg("Cancellation rejected")
		} else {
			logger.Error().Err(err).Msg("Failed to cancel reservation")
		}
		return store.Reservation{}, err
	}

	logger.Info().Str("reason", reason).Msg("Reservation cancelled")
	return cancelled, nil
}

func (s *Service) initialStatus() string {
	if s.policy.AutoConfirm {
		return store.StatusConfirmed
	}
	return store.StatusPending
}

func logFailedCreate(logger zerolog.Logger, err error) {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation),
		errors.Is(err, ErrOverlap),
		errors.Is(err, ErrNoCourtAvailable):
		logger.Info().Err(err).Msg("Reservation rejected")
	default:
		logger.Error().Err(err).Msg("Failed to create reservation")
	}
}

func capacityLabel(r store.Reservation) string {
	if r.CourtNumber.Valid {
		return CourtCapacity(r.CourtNumber.Int64).String()
	}
	return PoolCapacity().String()
}

func nullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
