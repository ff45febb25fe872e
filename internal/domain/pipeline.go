package domain

import "time"

// RawSlot is a candidate as it comes back from language extraction, before
// any normalization. All fields are untrusted.
type RawSlot struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Type      string `json:"type"`
}

// stage transforms a candidate or drops it. Stages run in the fixed order
// given to Refine; the order (normalize before round, round before validate)
// is enforced structurally rather than by convention.
type stage func(Slot, time.Time) (Slot, bool)

var stages = []stage{
	stageNormalizeDate,
	stagePlanningWindow,
	stageNormalizeTimes,
	stageRound,
	stageValidate,
}

// Refine runs one raw candidate through the full normalization pipeline and
// returns the canonical slot, or ok=false when any stage drops it.
func Refine(raw RawSlot, today time.Time) (Slot, bool) {
	s := Slot{
		Date:      raw.Date,
		StartTime: raw.StartTime,
		EndTime:   raw.EndTime,
		Type:      SlotType(raw.Type),
	}
	for _, st := range stages {
		var ok bool
		if s, ok = st(s, today); !ok {
			return Slot{}, false
		}
	}
	return s, true
}

func stageNormalizeDate(s Slot, today time.Time) (Slot, bool) {
	date, ok := NormalizeDate(s.Date, today)
	if !ok {
		return s, false
	}
	s.Date = date
	return s, true
}

func stagePlanningWindow(s Slot, today time.Time) (Slot, bool) {
	return s, WithinPlanningWindow(s.Date, today)
}

func stageNormalizeTimes(s Slot, _ time.Time) (Slot, bool) {
	start, ok := NormalizeTime(s.StartTime)
	if !ok {
		return s, false
	}
	end, ok := NormalizeTime(s.EndTime)
	if !ok {
		return s, false
	}
	s.StartTime, s.EndTime = start, end
	return s, true
}

func stageRound(s Slot, _ time.Time) (Slot, bool) {
	s.StartTime = RoundStartDown(s.StartTime)
	s.EndTime = RoundEndUp(s.EndTime)
	return s, true
}

func stageValidate(s Slot, _ time.Time) (Slot, bool) {
	return s, Validate(s)
}
