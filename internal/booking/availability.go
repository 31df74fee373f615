package booking

import (
	"context"
	"time"

	"github.com/clubcourt/reserve/internal/store"
)

// SlotAvailability annotates a slot with court occupancy.
type SlotAvailability struct {
	Slot
	AvailableCount int64
	IsAvailable    bool
	OccupiedCourts []int64
}

// AvailableSlots returns every slot for the date annotated with how many
// courts are free. courtFilter, when non-zero, restricts the occupancy count
// to that single court.
func (s *Service) AvailableSlots(ctx context.Context, date time.Time, courtFilter int64) ([]SlotAvailability, error) {
	slots, err := s.GenerateSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, nil
	}

	settings, err := s.db.Store.GetFacilitySettings(ctx)
	if err != nil {
		return nil, err
	}

	reservations, err := s.db.Store.ListActiveCourtReservationsOnDay(ctx, store.FormatDay(date))
	if err != nil {
		return nil, err
	}

	capacity := settings.CourtCount
	if courtFilter > 0 {
		capacity = 1
	}

	annotated := make([]SlotAvailability, 0, len(slots))
	for _, slot := range slots {
		occupied := occupiedCourts(reservations, slot, courtFilter)
		available := capacity - int64(len(occupied))
		annotated = append(annotated, SlotAvailability{
			Slot:           slot,
			AvailableCount: available,
			IsAvailable:    available > 0,
			OccupiedCourts: occupied,
		})
	}
	return annotated, nil
}

// occupiedCourts collects the distinct courts whose reservations overlap the
// slot window. Overlap rule: existing.start < slot.end && existing.end > slot.start.
func occupiedCourts(reservations []store.Reservation, slot Slot, courtFilter int64) []int64 {
	seen := make(map[int64]struct{})
	var courts []int64
	for _, r := range reservations {
		if !r.CourtNumber.Valid {
			continue
		}
		court := r.CourtNumber.Int64
		if courtFilter > 0 && court != courtFilter {
			continue
		}
		if !r.StartTime.Before(slot.End) || !r.EndTime.After(slot.Start) {
			continue
		}
		if _, ok := seen[court]; ok {
			continue
		}
		seen[court] = struct{}{}
		courts = append(courts, court)
	}
	return courts
}
