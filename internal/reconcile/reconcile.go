package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/petsos-dev/availability/internal/domain"
)

// Store is the slice of persistent storage the engine needs. Batch insert
// and range delete must each be a single atomic operation.
type Store interface {
	ExistingKeys(ctx context.Context, vetID int64) (map[domain.Key]struct{}, error)
	InsertBatch(ctx context.Context, vetID int64, slots []domain.Slot, source string) (int64, error)
	DeleteRange(ctx context.Context, vetID int64, firstDay, lastDay string) (int64, error)
}

// Engine is the single gate between validated slot candidates and storage.
// It excludes candidates whose identity tuple (date, startTime, type) is
// already persisted, so resubmitting a batch is idempotent.
type Engine struct {
	store  Store
	logger *slog.Logger
}

func NewEngine(store Store, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// SaveSlots merges validated candidates into the vet's stored schedule and
// returns the count actually inserted. Zero is a normal outcome when every
// candidate already exists.
func (e *Engine) SaveSlots(ctx context.Context, vetID int64, slots []domain.Slot, source string) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	existing, err := e.store.ExistingKeys(ctx, vetID)
	if err != nil {
		return 0, fmt.Errorf("load existing slots: %w", err)
	}

	seen := make(map[domain.Key]struct{}, len(slots))
	var fresh []domain.Slot
	for _, s := range slots {
		key := s.Key()
		if _, ok := existing[key]; ok {
			continue
		}
		// Also drop in-batch duplicates so one submission cannot insert
		// the same identity twice.
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, s)
	}

	if len(fresh) == 0 {
		e.logger.Info("no new slots to insert", "vet_id", vetID, "submitted", len(slots))
		return 0, nil
	}

	inserted, err := e.store.InsertBatch(ctx, vetID, fresh, source)
	if err != nil {
		return 0, fmt.Errorf("insert slots: %w", err)
	}
	e.logger.Info("slots reconciled", "vet_id", vetID, "submitted", len(slots), "inserted", inserted)
	return inserted, nil
}

// ClearMonth deletes exactly the slots dated within the given year-month
// and returns the count removed.
func (e *Engine) ClearMonth(ctx context.Context, vetID int64, yearMonth string) (int64, error) {
	first, last, err := MonthBounds(yearMonth)
	if err != nil {
		return 0, err
	}
	removed, err := e.store.DeleteRange(ctx, vetID, first, last)
	if err != nil {
		return 0, fmt.Errorf("delete month: %w", err)
	}
	e.logger.Info("month cleared", "vet_id", vetID, "month", yearMonth, "removed", removed)
	return removed, nil
}

// MonthBounds returns the inclusive first and last calendar day of a
// YYYY-MM month.
func MonthBounds(yearMonth string) (string, string, error) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return "", "", fmt.Errorf("invalid year-month %q", yearMonth)
	}
	first := t.Format(domain.DateLayout)
	last := t.AddDate(0, 1, -1).Format(domain.DateLayout)
	return first, last, nil
}
