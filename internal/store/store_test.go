package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/clubcourt/reserve/internal/db"
	"github.com/clubcourt/reserve/internal/store"
	"github.com/clubcourt/reserve/internal/testutil"
)

var day = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) (*store.Store, *db.DB) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return database.Store, database
}

func clock(hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func addMember(t *testing.T, st *store.Store, name string) int64 {
	t.Helper()
	member, err := st.CreateMember(context.Background(), store.Member{
		FirstName: name,
		LastName:  "Player",
		Email:     sql.NullString{String: name + "@example.com", Valid: true},
	})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	return member.ID
}

func courtReservation(memberID, court int64, start, end time.Time) store.Reservation {
	return store.Reservation{
		MemberID:        memberID,
		Category:        store.CategoryCourt,
		CourtNumber:     sql.NullInt64{Int64: court, Valid: true},
		Day:             store.FormatDay(start),
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: int64(end.Sub(start) / time.Minute),
		Status:          store.StatusConfirmed,
	}
}
