package bot

import (
	"fmt"
	"strings"

	"github.com/petsos-dev/availability/internal/domain"
	"github.com/petsos-dev/availability/internal/storage"
)

func typeLabel(t domain.SlotType) string {
	switch t {
	case domain.TypeURGENT:
		return "Невідкладна допомога"
	case domain.TypeVP:
		return "Плановий прийом"
	default:
		return string(t)
	}
}

// formatSlots renders a proposal as the numbered list shown for
// confirmation.
func formatSlots(slots []domain.Slot) string {
	var sb strings.Builder
	for i, s := range slots {
		fmt.Fprintf(&sb, "%d) %s, %s–%s — %s\n", i+1, s.Date, s.StartTime, s.EndTime, typeLabel(s.Type))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatRecords(records []storage.SlotRecord) string {
	var sb strings.Builder
	for i, r := range records {
		fmt.Fprintf(&sb, "%d) %s, %s–%s — %s\n", i+1, r.Slot.Date, r.Slot.StartTime, r.Slot.EndTime, typeLabel(r.Slot.Type))
	}
	return strings.TrimRight(sb.String(), "\n")
}
