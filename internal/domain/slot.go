package domain

import (
	"fmt"
	"regexp"
)

// SlotType is the availability category of a slot.
type SlotType string

const (
	// TypeURGENT marks short triage consultations.
	TypeURGENT SlotType = "URGENT"
	// TypeVP marks extended specialist consultations.
	TypeVP SlotType = "VP"
)

// Slot is one confirmed-or-candidate availability window on the hourly grid.
// Date is YYYY-MM-DD, times are HH:mm local to the operating timezone.
type Slot struct {
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Type      SlotType `json:"type"`
}

// Key is the identity tuple used for deduplication. Two slots with the same
// key are the same slot regardless of end time or source.
type Key struct {
	Date      string
	StartTime string
	Type      SlotType
}

func (s Slot) Key() Key {
	return Key{Date: s.Date, StartTime: s.StartTime, Type: s.Type}
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s (%s)", s.Date, s.StartTime, s.EndTime, s.Type)
}

var (
	dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRE = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Validate is the pure accept/reject gate for a normalized, rounded
// candidate: exact field shapes, strict start<end ordering in minutes,
// case-sensitive type membership. No coercion happens here.
func Validate(s Slot) bool {
	if !dateRE.MatchString(s.Date) {
		return false
	}
	if !timeRE.MatchString(s.StartTime) || !timeRE.MatchString(s.EndTime) {
		return false
	}
	if minutesOfDay(s.EndTime) <= minutesOfDay(s.StartTime) {
		return false
	}
	return s.Type == TypeURGENT || s.Type == TypeVP
}

func minutesOfDay(hhmm string) int {
	var h, m int
	_, _ = fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	return h*60 + m
}
