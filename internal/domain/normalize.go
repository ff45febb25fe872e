package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PlanningWindowDays is the rolling horizon within which availability may be
// declared, inclusive on both ends.
const PlanningWindowDays = 31

const DateLayout = "2006-01-02"

// weekdays maps natural-language weekday names (Ukrainian with prepositional
// variants, English, Russian) to time.Weekday. The richness of this table is
// load-bearing: transcripts arrive in any of the three languages.
var weekdays = map[string]time.Weekday{
	// Ukrainian
	"понеділок":   time.Monday,
	"у понеділок": time.Monday,
	"в понеділок": time.Monday,
	"вівторок":    time.Tuesday,
	"у вівторок":  time.Tuesday,
	"в вівторок":  time.Tuesday,
	"середа":      time.Wednesday,
	"у середу":    time.Wednesday,
	"в середу":    time.Wednesday,
	"четвер":      time.Thursday,
	"у четвер":    time.Thursday,
	"в четвер":    time.Thursday,
	"п'ятниця":    time.Friday,
	"пятниця":     time.Friday,
	"у п'ятницю":  time.Friday,
	"у пятницю":   time.Friday,
	"в п'ятницю":  time.Friday,
	"в пятницю":   time.Friday,
	"субота":      time.Saturday,
	"у суботу":    time.Saturday,
	"в суботу":    time.Saturday,
	"неділя":      time.Sunday,
	"у неділю":    time.Sunday,
	"в неділю":    time.Sunday,

	// English
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,

	// Russian
	"понедельник": time.Monday,
	"вторник":     time.Tuesday,
	"среда":       time.Wednesday,
	"четверг":     time.Thursday,
	"пятница":     time.Friday,
	"суббота":     time.Saturday,
	"воскресенье": time.Sunday,
}

var todayWords = map[string]int{
	"сьогодні": 0, "today": 0, "сегодня": 0,
	"завтра": 1, "tomorrow": 1,
	"післязавтра": 2, "після завтра": 2, "after tomorrow": 2, "послезавтра": 2,
}

// absoluteLayouts are the fallback layouts tried for absolute dates that are
// not already in canonical form.
var absoluteLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
}

// NormalizeDate resolves a raw date expression against today and returns the
// canonical YYYY-MM-DD form, or ok=false when nothing matches.
//
// A bare weekday name resolves to its next occurrence strictly after today:
// naming today's weekday yields the date seven days out, never today.
func NormalizeDate(raw string, today time.Time) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return "", false
	}

	if offset, ok := todayWords[lower]; ok {
		return today.AddDate(0, 0, offset).Format(DateLayout), true
	}

	if target, ok := weekdays[lower]; ok {
		days := int(target - today.Weekday())
		if days <= 0 {
			days += 7
		}
		return today.AddDate(0, 0, days).Format(DateLayout), true
	}

	trimmed := strings.TrimSpace(raw)
	if dateRE.MatchString(trimmed) {
		return trimmed, true
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DateLayout), true
		}
	}

	return "", false
}

var (
	shortTimeRE = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
	bareHourRE  = regexp.MustCompile(`^\d{1,2}$`)
)

// NormalizeTime accepts HH:mm, H:mm, or a bare hour in [0,23] and returns
// HH:mm, or ok=false.
func NormalizeTime(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)

	if shortTimeRE.MatchString(trimmed) {
		h, m := splitHHMM(trimmed)
		if h <= 23 && m <= 59 {
			return fmt.Sprintf("%02d:%02d", h, m), true
		}
		return "", false
	}

	if bareHourRE.MatchString(trimmed) {
		h, _ := splitHHMM(trimmed + ":00")
		if h <= 23 {
			return fmt.Sprintf("%02d:00", h), true
		}
	}

	return "", false
}

// RoundStartDown rounds a start time down to the top of its hour.
// Idempotent on already-rounded values.
func RoundStartDown(hhmm string) string {
	h, _ := splitHHMM(hhmm)
	return fmt.Sprintf("%02d:00", h)
}

// RoundEndUp rounds an end time with any non-zero minutes up to the top of
// the next hour, capped at 23:00 so a slot never rolls into the next day.
// Idempotent on already-rounded values.
func RoundEndUp(hhmm string) string {
	h, m := splitHHMM(hhmm)
	if m > 0 {
		h++
	}
	if h >= 24 {
		h = 23
	}
	return fmt.Sprintf("%02d:00", h)
}

// WithinPlanningWindow reports whether date falls in the closed interval
// [today, today+31d].
func WithinPlanningWindow(date string, today time.Time) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	floor := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	ceil := floor.AddDate(0, 0, PlanningWindowDays)
	return !d.Before(floor) && !d.After(ceil)
}

func splitHHMM(hhmm string) (int, int) {
	var h, m int
	_, _ = fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	return h, m
}
