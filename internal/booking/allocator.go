package booking

import (
	"context"
	"time"

	"github.com/clubcourt/reserve/internal/store"
)

// FindAvailableCourt returns a free court for [start, end) on the date. Pool
// requests need no per-unit allocation and return the pool capacity
// immediately. A preferred court inside [1, court_count] is tested first;
// otherwise courts are scanned in ascending order and the lowest free one
// wins. ErrNoCourtAvailable is returned when every court conflicts.
func (s *Service) FindAvailableCourt(ctx context.Context, date time.Time, start, end time.Time, category Category, preferredCourt int64) (Capacity, error) {
	return findAvailableCourt(ctx, s.db.Store, date, start, end, category, preferredCourt)
}

func findAvailableCourt(ctx context.Context, st *store.Store, date time.Time, start, end time.Time, category Category, preferredCourt int64) (Capacity, error) {
	if category != CategoryCourt {
		return PoolCapacity(), nil
	}

	settings, err := st.GetFacilitySettings(ctx)
	if err != nil {
		return Capacity{}, err
	}
	day := store.FormatDay(date)

	if preferredCourt >= 1 && preferredCourt <= settings.CourtCount {
		conflict, err := st.CourtHasConflict(ctx, day, preferredCourt, start, end)
		if err != nil {
			return Capacity{}, err
		}
		if !conflict {
			return CourtCapacity(preferredCourt), nil
		}
	}

	for court := int64(1); court <= settings.CourtCount; court++ {
		if court == preferredCourt {
			continue
		}
		conflict, err := st.CourtHasConflict(ctx, day, court, start, end)
		if err != nil {
			return Capacity{}, err
		}
		if !conflict {
			return CourtCapacity(court), nil
		}
	}
	return Capacity{}, ErrNoCourtAvailable
}
