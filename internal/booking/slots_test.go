package booking

import (
	"context"
	"testing"
	"time"
)

func TestGenerateSlots_ClosedDay(t *testing.T) {
	service, _ := newTestService(t, Policy{AutoConfirm: true})

	slots, err := service.GenerateSlots(context.Background(), testDay)
	if err != nil {
		t.Fatalf("generate slots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a closed day, got %d", len(slots))
	}
}

func TestGenerateSlots_WidthAndContiguity(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedOperatingHours(t, database, testDay, "08:00", "21:00")

	slots, err := service.GenerateSlots(context.Background(), testDay)
	if err != nil {
		t.Fatalf("generate slots: %v", err)
	}
	// 08:00 to 21:00 is 13 hours = 26 half-hour windows
	if len(slots) != 26 {
		t.Fatalf("expected 26 slots, got %d", len(slots))
	}

	closes := at(testDay, 21, 0)
	for i, slot := range slots {
		if got := slot.End.Sub(slot.Start); got != 30*time.Minute {
			t.Errorf("slot %d width = %v, want 30m", i, got)
		}
		if slot.End.After(closes) {
			t.Errorf("slot %d ends %v after closing time", i, slot.End)
		}
		if i > 0 && !slots[i-1].End.Equal(slot.Start) {
			t.Errorf("slot %d not contiguous: previous ends %v, starts %v", i, slots[i-1].End, slot.Start)
		}
	}

	if slots[0].Label != "08:00 - 08:30" {
		t.Errorf("first slot label = %q", slots[0].Label)
	}
}

func TestGenerateSlots_NoPartialTrailingSlot(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	// 45 minutes of opening time only fits one full slot
	seedOperatingHours(t, database, testDay, "09:00", "09:45")

	slots, err := service.GenerateSlots(context.Background(), testDay)
	if err != nil {
		t.Fatalf("generate slots: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].End.Equal(at(testDay, 9, 30)) {
		t.Errorf("slot end = %v, want 09:30", slots[0].End)
	}
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	service, database := newTestService(t, Policy{AutoConfirm: true})
	seedOperatingHours(t, database, testDay, "10:00", "12:00")

	first, err := service.GenerateSlots(context.Background(), testDay)
	if err != nil {
		t.Fatalf("generate slots: %v", err)
	}
	second, err := service.GenerateSlots(context.Background(), testDay)
	if err != nil {
		t.Fatalf("generate slots: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("slot counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("slot %d differs between runs", i)
		}
	}
}
