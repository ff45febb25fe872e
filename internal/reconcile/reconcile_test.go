package reconcile

import (
	"context"
	"log/slog"
	"testing"

	"github.com/petsos-dev/availability/internal/domain"
)

// fakeStore keeps slots in memory keyed by identity tuple.
type fakeStore struct {
	slots map[int64]map[domain.Key]domain.Slot
}

func newFakeStore() *fakeStore {
	return &fakeStore{slots: make(map[int64]map[domain.Key]domain.Slot)}
}

func (f *fakeStore) ExistingKeys(_ context.Context, vetID int64) (map[domain.Key]struct{}, error) {
	keys := make(map[domain.Key]struct{})
	for k := range f.slots[vetID] {
		keys[k] = struct{}{}
	}
	return keys, nil
}

func (f *fakeStore) InsertBatch(_ context.Context, vetID int64, slots []domain.Slot, _ string) (int64, error) {
	if f.slots[vetID] == nil {
		f.slots[vetID] = make(map[domain.Key]domain.Slot)
	}
	for _, s := range slots {
		f.slots[vetID][s.Key()] = s
	}
	return int64(len(slots)), nil
}

func (f *fakeStore) DeleteRange(_ context.Context, vetID int64, firstDay, lastDay string) (int64, error) {
	var removed int64
	for k := range f.slots[vetID] {
		if k.Date >= firstDay && k.Date <= lastDay {
			delete(f.slots[vetID], k)
			removed++
		}
	}
	return removed, nil
}

func batch() []domain.Slot {
	return []domain.Slot{
		{Date: "2025-06-02", StartTime: "10:00", EndTime: "13:00", Type: domain.TypeURGENT},
		{Date: "2025-06-02", StartTime: "15:00", EndTime: "17:00", Type: domain.TypeVP},
	}
}

func TestSaveSlots_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	engine := NewEngine(store, slog.Default())

	n, err := engine.SaveSlots(ctx, 1, batch(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("first save inserted %d, want 2", n)
	}

	n, err = engine.SaveSlots(ctx, 1, batch(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second save inserted %d, want 0", n)
	}
}

func TestSaveSlots_PartialOverlap(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	engine := NewEngine(store, slog.Default())

	if _, err := engine.SaveSlots(ctx, 1, batch()[:1], "text"); err != nil {
		t.Fatal(err)
	}
	n, err := engine.SaveSlots(ctx, 1, batch(), "voice")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("overlapping save inserted %d, want 1", n)
	}
}

func TestSaveSlots_EndTimeDoesNotChangeIdentity(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	engine := NewEngine(store, slog.Default())

	first := []domain.Slot{{Date: "2025-06-02", StartTime: "10:00", EndTime: "13:00", Type: domain.TypeURGENT}}
	second := []domain.Slot{{Date: "2025-06-02", StartTime: "10:00", EndTime: "14:00", Type: domain.TypeURGENT}}

	if _, err := engine.SaveSlots(ctx, 1, first, "text"); err != nil {
		t.Fatal(err)
	}
	n, err := engine.SaveSlots(ctx, 1, second, "text")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("same identity with different end time inserted %d, want 0", n)
	}
}

func TestSaveSlots_InBatchDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	engine := NewEngine(store, slog.Default())

	dup := []domain.Slot{batch()[0], batch()[0]}
	n, err := engine.SaveSlots(ctx, 1, dup, "text")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("duplicated batch inserted %d, want 1", n)
	}
}

func TestSaveSlots_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	engine := NewEngine(store, slog.Default())

	if _, err := engine.SaveSlots(ctx, 1, batch(), "text"); err != nil {
		t.Fatal(err)
	}
	n, err := engine.SaveSlots(ctx, 2, batch(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("second owner inserted %d, want 2", n)
	}
}

func TestSaveSlots_EmptyBatch(t *testing.T) {
	engine := NewEngine(newFakeStore(), slog.Default())
	n, err := engine.SaveSlots(context.Background(), 1, nil, "text")
	if err != nil || n != 0 {
		t.Fatalf("empty batch: n=%d err=%v", n, err)
	}
}

func TestClearMonth_Bounds(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	engine := NewEngine(store, slog.Default())

	slots := []domain.Slot{
		{Date: "2025-01-31", StartTime: "10:00", EndTime: "11:00", Type: domain.TypeURGENT},
		{Date: "2025-02-01", StartTime: "10:00", EndTime: "11:00", Type: domain.TypeURGENT},
		{Date: "2025-02-28", StartTime: "10:00", EndTime: "11:00", Type: domain.TypeURGENT},
		{Date: "2025-03-01", StartTime: "10:00", EndTime: "11:00", Type: domain.TypeURGENT},
	}
	if _, err := engine.SaveSlots(ctx, 1, slots, "text"); err != nil {
		t.Fatal(err)
	}

	removed, err := engine.ClearMonth(ctx, 1, "2025-02")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 2 {
		t.Fatalf("removed %d, want 2", removed)
	}

	keys, _ := store.ExistingKeys(ctx, 1)
	for k := range keys {
		if k.Date != "2025-01-31" && k.Date != "2025-03-01" {
			t.Errorf("slot %s should have survived the February clear", k.Date)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"2025-02", "2025-02-01", "2025-02-28"},
		{"2024-02", "2024-02-01", "2024-02-29"},
		{"2025-12", "2025-12-01", "2025-12-31"},
	}
	for _, c := range cases {
		first, last, err := MonthBounds(c.in)
		if err != nil {
			t.Fatalf("MonthBounds(%s): %v", c.in, err)
		}
		if first != c.first || last != c.last {
			t.Errorf("MonthBounds(%s) = %s..%s, want %s..%s", c.in, first, last, c.first, c.last)
		}
	}
	if _, _, err := MonthBounds("junk"); err == nil {
		t.Error("invalid year-month should error")
	}
}
