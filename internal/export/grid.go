package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/petsos-dev/availability/internal/domain"
)

// NamedSlot pairs a slot with the owning vet's display name for the admin
// coverage views.
type NamedSlot struct {
	Slot    domain.Slot
	VetName string
}

// ScheduleGrid lays a month of one type's slots out as an hour×day table:
// first column is the hour, one column per calendar day, each cell the
// newline-joined names of the vets covering that hour.
func ScheduleGrid(slots []NamedSlot, yearMonth string) ([][]string, error) {
	days, err := daysInMonth(yearMonth)
	if err != nil {
		return nil, err
	}

	// date → hour → set of names
	coverage := make(map[string]map[int]map[string]struct{})
	for _, ns := range slots {
		startHour := hourOf(ns.Slot.StartTime)
		endHour := hourOf(ns.Slot.EndTime)
		for h := startHour; h < endHour; h++ {
			if coverage[ns.Slot.Date] == nil {
				coverage[ns.Slot.Date] = make(map[int]map[string]struct{})
			}
			if coverage[ns.Slot.Date][h] == nil {
				coverage[ns.Slot.Date][h] = make(map[string]struct{})
			}
			coverage[ns.Slot.Date][h][ns.VetName] = struct{}{}
		}
	}

	header := make([]string, 0, len(days)+1)
	header = append(header, "Година")
	for i := range days {
		header = append(header, fmt.Sprintf("День %d", i+1))
	}

	rows := [][]string{header}
	for h := 0; h < 24; h++ {
		row := make([]string, 0, len(days)+1)
		row = append(row, fmt.Sprintf("%02d:00", h))
		for _, day := range days {
			names := coverage[day][h]
			if len(names) == 0 {
				row = append(row, "")
				continue
			}
			sorted := make([]string, 0, len(names))
			for n := range names {
				sorted = append(sorted, n)
			}
			sort.Strings(sorted)
			row = append(row, strings.Join(sorted, "\n"))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func daysInMonth(yearMonth string) ([]string, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return nil, fmt.Errorf("invalid year-month %q", yearMonth)
	}
	last := t.AddDate(0, 1, -1).Day()
	days := make([]string, 0, last)
	for d := 1; d <= last; d++ {
		days = append(days, fmt.Sprintf("%s-%02d", yearMonth, d))
	}
	return days, nil
}

func hourOf(hhmm string) int {
	var h, m int
	_, _ = fmt.Sscanf(hhmm, "%d:%d", &h, &m)
	return h
}
