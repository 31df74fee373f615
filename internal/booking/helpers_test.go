package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/clubcourt/reserve/internal/db"
	"github.com/clubcourt/reserve/internal/store"
	"github.com/clubcourt/reserve/internal/testutil"
)

// testDay is a fixed booking date; the matching clock sits at 07:00 that
// morning so same-day requests are never in the past.
var (
	testDay   = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	testClock = time.Date(2026, time.March, 2, 7, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T, policy Policy) (*Service, *db.DB) {
	t.Helper()

	database := testutil.NewTestDB(t)
	service, err := NewService(database, policy, WithClock(func() time.Time { return testClock }))
	if err != nil {
		t.Fatalf("create booking service: %v", err)
	}
	return service, database
}

func seedOperatingHours(t *testing.T, database *db.DB, date time.Time, opensAt, closesAt string) {
	t.Helper()

	err := database.Store.UpsertOperatingHours(context.Background(), store.OperatingHours{
		DayOfWeek: int64(date.Weekday()),
		OpensAt:   opensAt,
		ClosesAt:  closesAt,
	})
	if err != nil {
		t.Fatalf("seed operating hours: %v", err)
	}
}

func seedSettings(t *testing.T, database *db.DB, courts, minDuration, advanceDays int64) {
	t.Helper()

	err := database.Store.UpdateFacilitySettings(context.Background(), store.FacilitySettings{
		CourtCount:         courts,
		MinDurationMinutes: minDuration,
		AdvanceBookingDays: advanceDays,
	})
	if err != nil {
		t.Fatalf("seed facility settings: %v", err)
	}
}

func seedMember(t *testing.T, database *db.DB, category Category) int64 {
	t.Helper()

	member, err := database.Store.CreateMember(context.Background(), store.Member{
		FirstName: "Test",
		LastName:  "Member",
		Email:     sql.NullString{String: "member@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}

	seedSubscription(t, database, member.ID, category)
	return member.ID
}

func seedSubscription(t *testing.T, database *db.DB, memberID int64, category Category) {
	t.Helper()

	_, err := database.Store.CreateSubscription(context.Background(), store.Subscription{
		MemberID: memberID,
		Category: string(category),
		StartsOn: "2026-01-01",
	})
	if err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
}

func at(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

func mustCreate(t *testing.T, service *Service, params CreateParams) store.Reservation {
	t.Helper()

	created, err := service.CreateReservation(context.Background(), params)
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return created
}
