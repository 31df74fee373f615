package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clubcourt/reserve/internal/store"
)

const clockFormat = "15:04"

// GET /api/v1/slots?date=YYYY-MM-DD
func (h *Handlers) HandleSlots(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	slots, err := h.bookings.GenerateSlots(r.Context(), date)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("date", date.Format(dateFormat)).Msg("Failed to generate slots")
		writeError(w, r, http.StatusInternalServerError, "failed to generate slots", nil)
		return
	}

	type slotView struct {
		Start time.Time `json:"start"`
		End   time.Time `json:"end"`
		Label string    `json:"label"`
	}
	views := make([]slotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, slotView{Start: slot.Start, End: slot.End, Label: slot.Label})
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"slots": views}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write slots response")
	}
}

// GET /api/v1/availability?date=YYYY-MM-DD&court=N
func (h *Handlers) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	courtFilter, _ := strconv.ParseInt(r.URL.Query().Get("court"), 10, 64)

	annotated, err := h.bookings.AvailableSlots(r.Context(), date, courtFilter)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("date", date.Format(dateFormat)).Msg("Failed to compute availability")
		writeError(w, r, http.StatusInternalServerError, "failed to compute availability", nil)
		return
	}

	type availabilityView struct {
		Start          time.Time `json:"start"`
		End            time.Time `json:"end"`
		Label          string    `json:"label"`
		AvailableCount int64     `json:"available_count"`
		IsAvailable    bool      `json:"is_available"`
		OccupiedCourts []int64   `json:"occupied_courts,omitempty"`
	}
	views := make([]availabilityView, 0, len(annotated))
	for _, slot := range annotated {
		views = append(views, availabilityView{
			Start:          slot.Start,
			End:            slot.End,
			Label:          slot.Label,
			AvailableCount: slot.AvailableCount,
			IsAvailable:    slot.IsAvailable,
			OccupiedCourts: slot.OccupiedCourts,
		})
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"slots": views}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write availability response")
	}
}

// GET /api/v1/duration-options?date=YYYY-MM-DD&start=HH:MM
func (h *Handlers) HandleDurationOptions(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateParam(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	startClock, err := time.Parse(clockFormat, strings.TrimSpace(r.URL.Query().Get("start")))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "start must be in HH:MM format", nil)
		return
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), startClock.Hour(), startClock.Minute(), 0, 0, time.UTC)

	options, err := h.bookings.DurationOptions(r.Context(), date, start)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Str("date", date.Format(dateFormat)).Msg("Failed to compute duration options")
		writeError(w, r, http.StatusInternalServerError, "failed to compute duration options", nil)
		return
	}

	type optionView struct {
		Minutes int64     `json:"duration_minutes"`
		Label   string    `json:"label"`
		End     time.Time `json:"end_time"`
	}
	views := make([]optionView, 0, len(options))
	for _, option := range options {
		views = append(views, optionView{Minutes: option.Minutes, Label: option.Label, End: option.End})
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"options": views}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write duration options response")
	}
}

// GET /api/v1/operating-hours
func (h *Handlers) HandleListOperatingHours(w http.ResponseWriter, r *http.Request) {
	hours, err := h.db.Store.ListOperatingHours(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to list operating hours")
		writeError(w, r, http.StatusInternalServerError, "failed to list operating hours", nil)
		return
	}

	type dayView struct {
		DayOfWeek int64  `json:"day_of_week"`
		OpensAt   string `json:"opens_at,omitempty"`
		ClosesAt  string `json:"closes_at,omitempty"`
		IsClosed  bool   `json:"is_closed"`
	}
	byDay := make(map[int64]store.OperatingHours, len(hours))
	for _, entry := range hours {
		byDay[entry.DayOfWeek] = entry
	}
	days := make([]dayView, 0, 7)
	for day := int64(0); day < 7; day++ {
		entry, open := byDay[day]
		view := dayView{DayOfWeek: day, IsClosed: !open}
		if open {
			view.OpensAt = entry.OpensAt
			view.ClosesAt = entry.ClosesAt
		}
		days = append(days, view)
	}
	if err := WriteJSON(w, http.StatusOK, map[string]any{"days": days}); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write operating hours response")
	}
}

type operatingHoursRequest struct {
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
	IsClosed bool   `json:"is_closed"`
}

// PUT /api/v1/operating-hours/{day_of_week}
func (h *Handlers) HandleUpdateOperatingHours(w http.ResponseWriter, r *http.Request) {
	dayOfWeek, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("day_of_week")), 10, 64)
	if err != nil || dayOfWeek < 0 || dayOfWeek > 6 {
		writeError(w, r, http.StatusBadRequest, "day_of_week must be between 0 and 6", nil)
		return
	}

	var req operatingHoursRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if req.IsClosed {
		if err := h.db.Store.DeleteOperatingHours(r.Context(), dayOfWeek); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Int64("day_of_week", dayOfWeek).Msg("Failed to clear operating hours")
			writeError(w, r, http.StatusInternalServerError, "failed to update operating hours", nil)
			return
		}
		if err := WriteJSON(w, http.StatusOK, map[string]any{"day_of_week": dayOfWeek, "is_closed": true}); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write operating hours response")
		}
		return
	}

	opens, err := parseOperatingTime(req.OpensAt, "opens_at")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	closes, err := parseOperatingTime(req.ClosesAt, "closes_at")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if opens >= closes {
		writeError(w, r, http.StatusBadRequest, "opens_at must be before closes_at", nil)
		return
	}

	hours := store.OperatingHours{DayOfWeek: dayOfWeek, OpensAt: opens, ClosesAt: closes}
	if err := h.db.Store.UpsertOperatingHours(r.Context(), hours); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Int64("day_of_week", dayOfWeek).Msg("Failed to upsert operating hours")
		writeError(w, r, http.StatusInternalServerError, "failed to update operating hours", nil)
		return
	}
	view := map[string]any{
		"day_of_week": hours.DayOfWeek,
		"opens_at":    hours.OpensAt,
		"closes_at":   hours.ClosesAt,
		"is_closed":   false,
	}
	if err := WriteJSON(w, http.StatusOK, view); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write operating hours response")
	}
}

type facilitySettingsRequest struct {
	CourtCount         int64 `json:"court_count"`
	MinDurationMinutes int64 `json:"min_duration_minutes"`
	AdvanceBookingDays int64 `json:"advance_booking_days"`
}

func settingsView(settings store.FacilitySettings) map[string]any {
	return map[string]any{
		"court_count":          settings.CourtCount,
		"min_duration_minutes": settings.MinDurationMinutes,
		"advance_booking_days": settings.AdvanceBookingDays,
	}
}

// PUT /api/v1/facility-settings
func (h *Handlers) HandleUpdateFacilitySettings(w http.ResponseWriter, r *http.Request) {
	var req facilitySettingsRequest
	if err := DecodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	switch {
	case req.CourtCount < 1:
		writeError(w, r, http.StatusBadRequest, "court_count must be at least 1", nil)
		return
	case req.MinDurationMinutes <= 0 || req.MinDurationMinutes%30 != 0:
		writeError(w, r, http.StatusBadRequest, "min_duration_minutes must be a positive multiple of 30", nil)
		return
	case req.AdvanceBookingDays < 1 || req.AdvanceBookingDays > 365:
		writeError(w, r, http.StatusBadRequest, "advance_booking_days must be between 1 and 365", nil)
		return
	}

	settings := store.FacilitySettings{
		CourtCount:         req.CourtCount,
		MinDurationMinutes: req.MinDurationMinutes,
		AdvanceBookingDays: req.AdvanceBookingDays,
	}
	if err := h.db.Store.UpdateFacilitySettings(r.Context(), settings); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to update facility settings")
		writeError(w, r, http.StatusInternalServerError, "failed to update facility settings", nil)
		return
	}
	if err := WriteJSON(w, http.StatusOK, settingsView(settings)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write facility settings response")
	}
}

// GET /api/v1/facility-settings
func (h *Handlers) HandleGetFacilitySettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.db.Store.GetFacilitySettings(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load facility settings")
		writeError(w, r, http.StatusInternalServerError, "failed to load facility settings", nil)
		return
	}
	if err := WriteJSON(w, http.StatusOK, settingsView(settings)); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write facility settings response")
	}
}

func parseOperatingTime(raw, field string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	parsed, err := time.Parse(clockFormat, raw)
	if err != nil {
		return "", fmt.Errorf("%s must be in HH:MM format", field)
	}
	return parsed.Format(clockFormat), nil
}
