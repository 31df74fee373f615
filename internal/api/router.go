package api

import "net/http"

// NewRouter builds the API mux.
func NewRouter(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /api/v1/slots", h.HandleSlots)
	mux.HandleFunc("GET /api/v1/availability", h.HandleAvailability)
	mux.HandleFunc("GET /api/v1/duration-options", h.HandleDurationOptions)

	mux.HandleFunc("POST /api/v1/reservations", h.HandleCreateReservation)
	mux.HandleFunc("GET /api/v1/reservations", h.HandleListReservations)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", h.HandleCancelReservation)

	mux.HandleFunc("GET /api/v1/operating-hours", h.HandleListOperatingHours)
	mux.HandleFunc("PUT /api/v1/operating-hours/{day_of_week}", h.HandleUpdateOperatingHours)
	mux.HandleFunc("GET /api/v1/facility-settings", h.HandleGetFacilitySettings)
	mux.HandleFunc("PUT /api/v1/facility-settings", h.HandleUpdateFacilitySettings)

	return mux
}
