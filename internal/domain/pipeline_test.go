package domain

import (
	"testing"
	"time"
)

func TestRefine_TomorrowScenario(t *testing.T) {
	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	got, ok := Refine(RawSlot{Date: "завтра", StartTime: "10", EndTime: "13", Type: "URGENT"}, today)
	if !ok {
		t.Fatal("expected candidate to survive")
	}
	want := Slot{"2025-06-02", "10:00", "13:00", TypeURGENT}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRefine_WeekdayScenario(t *testing.T) {
	today := time.Date(2025, 6, 4, 9, 0, 0, 0, time.UTC) // Wednesday

	got, ok := Refine(RawSlot{Date: "monday", StartTime: "14", EndTime: "18", Type: "VP"}, today)
	if !ok {
		t.Fatal("expected candidate to survive")
	}
	want := Slot{"2025-06-09", "14:00", "18:00", TypeVP}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestRefine_RoundsBeforeValidating(t *testing.T) {
	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	got, ok := Refine(RawSlot{Date: "2025-06-02", StartTime: "10:30", EndTime: "13:05", Type: "URGENT"}, today)
	if !ok {
		t.Fatal("expected candidate to survive")
	}
	if got.StartTime != "10:00" || got.EndTime != "14:00" {
		t.Errorf("rounding wrong: %s-%s", got.StartTime, got.EndTime)
	}

	// 10:30-10:45 collapses to 10:00-11:00 after rounding and stays valid.
	got, ok = Refine(RawSlot{Date: "2025-06-02", StartTime: "10:30", EndTime: "10:45", Type: "URGENT"}, today)
	if !ok || got.EndTime != "11:00" {
		t.Errorf("sub-hour range should round out to a full hour, got %+v ok=%v", got, ok)
	}
}

func TestRefine_Drops(t *testing.T) {
	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  RawSlot
	}{
		{"unparseable date", RawSlot{Date: "колись", StartTime: "10", EndTime: "13", Type: "URGENT"}},
		{"out of window", RawSlot{Date: "2025-08-01", StartTime: "10", EndTime: "13", Type: "URGENT"}},
		{"past date", RawSlot{Date: "2025-05-20", StartTime: "10", EndTime: "13", Type: "URGENT"}},
		{"bad start", RawSlot{Date: "завтра", StartTime: "25", EndTime: "13", Type: "URGENT"}},
		{"bad end", RawSlot{Date: "завтра", StartTime: "10", EndTime: "x", Type: "URGENT"}},
		{"inverted range", RawSlot{Date: "завтра", StartTime: "13", EndTime: "10", Type: "URGENT"}},
		{"same hour", RawSlot{Date: "завтра", StartTime: "10:00", EndTime: "10:00", Type: "URGENT"}},
		{"unknown type", RawSlot{Date: "завтра", StartTime: "10", EndTime: "13", Type: "EXTRA"}},
		{"lowercase type", RawSlot{Date: "завтра", StartTime: "10", EndTime: "13", Type: "vp"}},
	}
	for _, c := range cases {
		if _, ok := Refine(c.raw, today); ok {
			t.Errorf("%s: candidate %+v should have been dropped", c.name, c.raw)
		}
	}
}

func TestRefine_WindowBoundary(t *testing.T) {
	today := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	if _, ok := Refine(RawSlot{Date: "2025-07-02", StartTime: "10", EndTime: "13", Type: "URGENT"}, today); !ok {
		t.Error("day 31 must be accepted")
	}
	if _, ok := Refine(RawSlot{Date: "2025-07-03", StartTime: "10", EndTime: "13", Type: "URGENT"}, today); ok {
		t.Error("day 32 must be rejected")
	}
}
