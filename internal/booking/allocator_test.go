package booking

import (
	"context"
	"errors"
	"testing"
)

func TestFindAvailableCourt_LowestFreeCourtWins(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedSettings(t, database, 3, 60, 14)
	seedOperatingHours(t, database, testDay, "08:00", "22:00")
	memberID := seedMember(t, database, CategoryCourt)

	mustCreate(t, service, CreateParams{
		MemberID:        memberID,
		Category:        CategoryCourt,
		Date:            testDay,
		Start:           at(testDay, 9, 0),
		DurationMinutes: 60,
		PreferredCourt:  1,
	})

	capacity, err := service.FindAvailableCourt(context.Background(), testDay, at(testDay, 9, 0), at(testDay, 10, 0), CategoryCourt, 0)
	if err != nil {
		t.Fatalf("find court: %v", err)
	}
	court, ok := capacity.Court()
	if !ok || court != 2 {
		t.Fatalf("expected court 2, got %s", capacity)
	}
}

func TestFindAvailableCourt_PreferredCourtFirst(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedSettings(t, database, 4, 60, 14)
	seedOperatingHours(t, database, testDay, "08:00", "22:00")

	capacity, err := service.FindAvailableCourt(context.Background(), testDay, at(testDay, 9, 0), at(testDay, 10, 0), CategoryCourt, 3)
	if err != nil {
		t.Fatalf("find court: %v", err)
	}
	court, ok := capacity.Court()
	if !ok || court != 3 {
		t.Fatalf("expected preferred court 3, got %s", capacity)
	}
}

func TestFindAvailableCourt_PreferredTakenFallsBack(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedSettings(t, database, 2, 60, 14)
	seedOperatingHours(t, database, testDay, "08:00", "22:00")
	memberID := seedMember(t, database, CategoryCourt)

	mustCreate(t, service, CreateParams{
		MemberID:        memberID,
		Category:        CategoryCourt,
		Date:            testDay,
		Start:           at(testDay, 9, 0),
		DurationMinutes: 60,
		PreferredCourt:  2,
	})

	capacity, err := service.FindAvailableCourt(context.Background(), testDay, at(testDay, 9, 0), at(testDay, 10, 0), CategoryCourt, 2)
	if err != nil {
		t.Fatalf("find court: %v", err)
	}
	court, ok := capacity.Court()
	if !ok || court != 1 {
		t.Fatalf("expected fallback to court 1, got %s", capacity)
	}
}

func TestFindAvailableCourt_OutOfRangePreferredIgnored(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedSettings(t, database, 2, 60, 14)
	seedOperatingHours(t, database, testDay, "08:00", "22:00")

	capacity, err := service.FindAvailableCourt(context.Background(), testDay, at(testDay, 9, 0), at(testDay, 10, 0), CategoryCourt, 9)
	if err != nil {
		t.Fatalf("find court: %v", err)
	}
	court, ok := capacity.Court()
	if !ok || court != 1 {
		t.Fatalf("expected court 1, got %s", capacity)
	}
}

func TestFindAvailableCourt_AllCourtsTaken(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedSettings(t, database, 2, 60, 14)
	seedOperatingHours(t, database, testDay, "08:00", "22:00")

	for court := int64(1); court <= 2; court++ {
		memberID := seedMember(t, database, CategoryCourt)
		mustCreate(t, service, CreateParams{
			MemberID:        memberID,
			Category:        CategoryCourt,
			Date:            testDay,
			Start:           at(testDay, 9, 0),
			DurationMinutes: 60,
			PreferredCourt:  court,
		})
	}

	_, err := service.FindAvailableCourt(context.Background(), testDay, at(testDay, 9, 30), at(testDay, 10, 30), CategoryCourt, 0)
	if !errors.Is(err, ErrNoCourtAvailable) {
		t.Fatalf("expected ErrNoCourtAvailable, got %v", err)
	}
}

func TestFindAvailableCourt_PoolNeedsNoCourt(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedSettings(t, database, 2, 60, 14)

	capacity, err := service.FindAvailableCourt(context.Background(), testDay, at(testDay, 9, 0), at(testDay, 10, 0), CategoryPool, 0)
	if err != nil {
		t.Fatalf("find court: %v", err)
	}
	if _, ok := capacity.Court(); ok {
		t.Fatalf("pool capacity should carry no court, got %s", capacity)
	}
}
