package booking

import (
	"context"
	"time"
)

// HasOverlap reports whether the member holds any non-cancelled reservation
// overlapping [start, end). excludeReservationID, when non-zero, skips one
// existing record so it can be re-validated against its peers.
func (s *Service) HasOverlap(ctx context.Context, memberID int64, start, end time.Time, excludeReservationID int64) (bool, error) {
	return s.db.Store.MemberHasOverlap(ctx, memberID, start, end, excludeReservationID)
}
