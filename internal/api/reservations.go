package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clubcourt/reserve/internal/booking"
	"github.com/clubcourt/reserve/internal/db"
	"github.com/clubcourt/reserve/internal/email"
	"github.com/clubcourt/reserve/internal/store"
)

const dateFormat = "2006-01-02"

type Handlers struct {
	db       *db.DB
	bookings *booking.Service
	notifier *email.Notifier
}

func NewHandlers(database *db.DB, bookings *booking.Service, notifier *email.Notifier) *Handlers {
	return &Handlers{
		db:       database,
		bookings: bookings,
		notifier: notifier,
	}
}

type reservationView struct {
	ID                 int64      `json:"id"`
	MemberID           int64      `json:"member_id"`
	Category           string     `json:"category"`
	CourtNumber        *int64     `json:"court_number,omitempty"`
	Day                string     `json:"day"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	DurationMinutes    int64      `json:"duration_minutes"`
	Status             string     `json:"status"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	MemberName         string     `json:"member_name,omitempty"`
}

func viewFromReservation(r store.Reservation) reservationView {
	view := reservationView{
		ID:              r.ID,
		MemberID:        r.MemberID,
		Category:        r.Category,
		Day:             r.Day,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		Status:          r.Status,
	}
	if r.CourtNumber.Valid {
		view.CourtNumber = &r.CourtNumber.Int64
	}
	if r.CancelledAt.Valid {
		view.CancelledAt = &r.CancelledAt.Time
	}
	if r.CancellationReason.Valid {
		view.CancellationReason = r.CancellationReason.String
	}
	return view
}

type createReservationRequest struct {
	MemberID        int64  `json:"member_id"`
	Category        string `json:"category"`
	Date            string `json:"date"`
	Start           string `json:"start"`
	DurationMinutes int64  `json:"duration_minutes"`
	PreferredCourt  int64  `json:"preferred_court,omitempty"`
}

// POST /api/v1/reservations
func (h *Handlers) HandleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req createReservationRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	date, err := time.Parse(dateFormat, req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be in YYYY-MM-DD format", nil)
		return
	}
	startClock, err := time.Parse("15:04", req.Start)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start must be in HH:MM format", nil)
		return
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)

	created, err := h.bookings.CreateReservation(r.Context(), booking.CreateParams{
		MemberID:        req.MemberID,
		Category:        booking.Category(strings.ToUpper(req.Category)),
		Date:            date,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		PreferredCourt:  req.PreferredCourt,
	})
	if err != nil {
		writeBookingError(w, r, err)
		return
	}

	if h.notifier != nil {
		if member, memberErr := h.db.Store.GetMember(r.Context(), created.MemberID); memberErr == nil {
			h.notifier.SendConfirmation(r.Context(), member, created, log.Ctx(r.Context()))
		}
	}

	if err := WriteJSON(w, http.StatusCreated, viewFromReservation(created)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write reservation response")
	}
}

type cancelReservationRequest struct {
	Reason        string `json:"reason,omitempty"`
	AdminOverride bool   `json:"admin_override,omitempty"`
}

// POST /api/v1/reservations/{id}/cancel
func (h *Handlers) HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "reservation id must be a positive integer", nil)
		return
	}

	var req cancelReservationRequest
	if r.ContentLength > 0 {
		if err := DecodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	cancelled, err := h.bookings.Cancel(r.Context(), id, req.AdminOverride, req.Reason)
	if err != nil {
		writeBookingError(w, r, err)
		return
	}

	if h.notifier != nil {
		if member, memberErr := h.db.Store.GetMember(r.Context(), cancelled.MemberID); memberErr == nil {
			h.notifier.SendCancellation(r.Context(), member, cancelled, log.Ctx(r.Context()))
		}
	}

	if err := WriteJSON(w, http.StatusOK, viewFromReservation(cancelled)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write cancellation response")
	}
}

// GET /api/v1/reservations
func (h *Handlers) HandleListReservations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := store.ReservationFilter{
		Day:     strings.TrimSpace(query.Get("day")),
		FromDay: strings.TrimSpace(query.Get("from")),
		ToDay:   strings.TrimSpace(query.Get("to")),
		Status:  strings.ToUpper(strings.TrimSpace(query.Get("status"))),
		Search:  query.Get("q"),
	}
	filter.CourtNumber, _ = strconv.ParseInt(query.Get("court"), 10, 64)
	filter.MemberID, _ = strconv.ParseInt(query.Get("member_id"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(query.Get("limit"), 10, 64)
	filter.Offset, _ = strconv.ParseInt(query.Get("offset"), 10, 64)

	details, err := h.db.Store.ListReservations(r.Context(), filter)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list reservations")
		writeError(w, r, http.StatusInternalServerError, "failed to list reservations", nil)
		return
	}

	views := make([]reservationView, 0, len(details))
	for _, detail := range details {
		view := viewFromReservation(detail.Reservation)
		view.MemberName = detail.MemberName
		views = append(views, view)
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"reservations": views}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write reservation list response")
	}
}

func writeBookingError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *booking.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, r, http.StatusUnprocessableEntity, "reservation request is invalid", validation.Violations)
	case errors.Is(err, booking.ErrNotEligible):
		writeError(w, r, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, booking.ErrOverlap),
		errors.Is(err, booking.ErrNoCourtAvailable),
		errors.Is(err, booking.ErrAlreadyCancelled),
		errors.Is(err, booking.ErrNotCancellable):
		writeError(w, r, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "reservation not found", nil)
	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("Reservation request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error", nil)
	}
}

func parseDateParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	date, err := time.Parse(dateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return date.UTC(), nil
}
