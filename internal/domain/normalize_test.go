package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestNormalizeDate_RelativeWords(t *testing.T) {
	today := date(2025, 6, 1) // Sunday

	cases := []struct {
		in   string
		want string
	}{
		{"сьогодні", "2025-06-01"},
		{"today", "2025-06-01"},
		{"сегодня", "2025-06-01"},
		{"завтра", "2025-06-02"},
		{"tomorrow", "2025-06-02"},
		{"післязавтра", "2025-06-03"},
		{"після завтра", "2025-06-03"},
		{"after tomorrow", "2025-06-03"},
		{"  Завтра  ", "2025-06-02"},
	}
	for _, c := range cases {
		got, ok := NormalizeDate(c.in, today)
		if !ok {
			t.Errorf("NormalizeDate(%q) not recognized", c.in)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeDate(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate_Weekdays(t *testing.T) {
	today := date(2025, 6, 4) // Wednesday

	cases := []struct {
		in   string
		want string
	}{
		{"monday", "2025-06-09"},
		{"понеділок", "2025-06-09"},
		{"у понеділок", "2025-06-09"},
		{"понедельник", "2025-06-09"},
		{"thursday", "2025-06-05"},
		{"у суботу", "2025-06-07"},
		{"неділя", "2025-06-08"},
		{"пятница", "2025-06-06"},
	}
	for _, c := range cases {
		got, ok := NormalizeDate(c.in, today)
		if !ok {
			t.Errorf("NormalizeDate(%q) not recognized", c.in)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeDate(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate_SameWeekdayRollsForward(t *testing.T) {
	today := date(2025, 6, 4) // Wednesday

	for _, in := range []string{"wednesday", "середа", "у середу", "среда"} {
		got, ok := NormalizeDate(in, today)
		if !ok {
			t.Fatalf("NormalizeDate(%q) not recognized", in)
		}
		if got != "2025-06-11" {
			t.Errorf("NormalizeDate(%q) = %s, want next week 2025-06-11", in, got)
		}
	}
}

func TestNormalizeDate_Absolute(t *testing.T) {
	today := date(2025, 6, 1)

	if got, ok := NormalizeDate("2025-06-15", today); !ok || got != "2025-06-15" {
		t.Errorf("canonical date should pass through, got %q ok=%v", got, ok)
	}
	if got, ok := NormalizeDate("15.06.2025", today); !ok || got != "2025-06-15" {
		t.Errorf("dotted date = %q ok=%v, want 2025-06-15", got, ok)
	}
	if _, ok := NormalizeDate("not a date", today); ok {
		t.Error("garbage should not normalize")
	}
	if _, ok := NormalizeDate("", today); ok {
		t.Error("empty string should not normalize")
	}
}

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"10:30", "10:30", true},
		{"9:05", "09:05", true},
		{"9", "09:00", true},
		{"23", "23:00", true},
		{"0", "00:00", true},
		{"24", "", false},
		{"25:00", "", false},
		{"10:75", "", false},
		{"9:3", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeTime(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("NormalizeTime(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestRounding(t *testing.T) {
	if got := RoundStartDown("10:30"); got != "10:00" {
		t.Errorf("RoundStartDown(10:30) = %s", got)
	}
	if got := RoundEndUp("13:05"); got != "14:00" {
		t.Errorf("RoundEndUp(13:05) = %s", got)
	}
	if got := RoundEndUp("23:30"); got != "23:00" {
		t.Errorf("RoundEndUp(23:30) = %s, must never roll into the next day", got)
	}
}

func TestRoundingIdempotent(t *testing.T) {
	for h := 0; h < 24; h++ {
		v := RoundStartDown(RoundStartDown("10:30"))
		if v != "10:00" {
			t.Fatalf("start rounding not idempotent: %s", v)
		}
	}
	if RoundEndUp(RoundEndUp("13:05")) != RoundEndUp("13:05") {
		t.Error("end rounding not idempotent")
	}
	if RoundEndUp("14:00") != "14:00" {
		t.Error("already-rounded end time must be unchanged")
	}
}

func TestWithinPlanningWindow(t *testing.T) {
	today := date(2025, 6, 1)

	cases := []struct {
		date string
		want bool
	}{
		{"2025-06-01", true},  // today, inclusive
		{"2025-07-02", true},  // exactly 31 days out, inclusive
		{"2025-07-03", false}, // 32 days out
		{"2025-05-31", false}, // yesterday
		{"garbage", false},
	}
	for _, c := range cases {
		if got := WithinPlanningWindow(c.date, today); got != c.want {
			t.Errorf("WithinPlanningWindow(%s) = %v, want %v", c.date, got, c.want)
		}
	}
}
