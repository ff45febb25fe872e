package bot

import (
	"testing"
	"time"

	"github.com/petsos-dev/availability/internal/domain"
)

func TestFormatSlots(t *testing.T) {
	slots := []domain.Slot{
		{Date: "2025-06-02", StartTime: "10:00", EndTime: "13:00", Type: domain.TypeURGENT},
		{Date: "2025-06-03", StartTime: "15:00", EndTime: "18:00", Type: domain.TypeVP},
	}
	got := formatSlots(slots)
	want := "1) 2025-06-02, 10:00–13:00 — Невідкладна допомога\n2) 2025-06-03, 15:00–18:00 — Плановий прийом"
	if got != want {
		t.Errorf("formatSlots:\ngot  %q\nwant %q", got, want)
	}
}

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data   string
		action string
		owner  int64
		ok     bool
	}{
		{"confirm_42", "confirm", 42, true},
		{"edit_42", "edit", 42, true},
		{"cancel_9000000001", "cancel", 9000000001, true},
		{"clear_confirm_42", "clear_confirm", 42, true},
		{"clear_cancel_42", "clear_cancel", 42, true},
		{"confirm_", "", 0, false},
		{"confirm_abc", "", 0, false},
		{"_42", "", 0, false},
		{"junk", "", 0, false},
	}
	for _, c := range cases {
		action, owner, ok := parseCallback(c.data)
		if ok != c.ok || action != c.action || owner != c.owner {
			t.Errorf("parseCallback(%q) = (%q, %d, %v), want (%q, %d, %v)",
				c.data, action, owner, ok, c.action, c.owner, c.ok)
		}
	}
}

func TestParseYearMonth(t *testing.T) {
	b := &Bot{
		loc: time.UTC,
		now: func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}

	got, err := b.parseYearMonth("")
	if err != nil || got != "2025-06" {
		t.Errorf("empty arg: got (%q, %v), want 2025-06", got, err)
	}
	got, err = b.parseYearMonth("next")
	if err != nil || got != "2025-07" {
		t.Errorf("next: got (%q, %v), want 2025-07", got, err)
	}
	got, err = b.parseYearMonth("2024-12")
	if err != nil || got != "2024-12" {
		t.Errorf("explicit: got (%q, %v), want 2024-12", got, err)
	}
	if _, err := b.parseYearMonth("June"); err == nil {
		t.Error("invalid month should error")
	}
}

func TestParseAdminMonth(t *testing.T) {
	b := &Bot{
		loc: time.UTC,
		now: func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	}

	cases := []struct {
		arg  string
		want string
	}{
		{"", "2025-06"},
		{"0", "2025-06"},
		{"1", "2025-07"},
		{"2", "2025-08"},
	}
	for _, c := range cases {
		got, err := b.parseAdminMonth(c.arg)
		if err != nil || got != c.want {
			t.Errorf("parseAdminMonth(%q) = (%q, %v), want %q", c.arg, got, err, c.want)
		}
	}
	for _, bad := range []string{"3", "-1", "июнь"} {
		if _, err := b.parseAdminMonth(bad); err == nil {
			t.Errorf("parseAdminMonth(%q) should error", bad)
		}
	}
}

func TestMonthOffset_EndOfMonth(t *testing.T) {
	// January 31 + one month must land in February, not March.
	jan31 := time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)
	if got := monthOffset(jan31, 1); got != "2025-02" {
		t.Errorf("monthOffset(jan31, 1) = %s, want 2025-02", got)
	}
	dec := time.Date(2025, 12, 5, 10, 0, 0, 0, time.UTC)
	if got := monthOffset(dec, 1); got != "2026-01" {
		t.Errorf("monthOffset(dec, 1) = %s, want 2026-01", got)
	}
}

func TestSplitExportArgs(t *testing.T) {
	cases := []struct {
		in            string
		month, format string
	}{
		{"", "", ""},
		{"2025-06", "2025-06", ""},
		{"2025-06 csv", "2025-06", "csv"},
		{"csv 2025-06", "2025-06", "csv"},
		{"XLSX", "", "xlsx"},
	}
	for _, c := range cases {
		month, format := splitExportArgs(c.in)
		if month != c.month || format != c.format {
			t.Errorf("splitExportArgs(%q) = (%q, %q), want (%q, %q)", c.in, month, format, c.month, c.format)
		}
	}
}
