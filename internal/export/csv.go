package export

import (
	"bytes"
	"encoding/csv"

	"github.com/petsos-dev/availability/internal/domain"
)

var csvHeader = []string{"Дата", "Час початку", "Час закінчення", "Тип"}

// MonthCSV renders a vet's slots as a CSV document.
func MonthCSV(slots []domain.Slot) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, s := range slots {
		if err := w.Write([]string{s.Date, s.StartTime, s.EndTime, string(s.Type)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
