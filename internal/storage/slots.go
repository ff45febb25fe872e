package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/petsos-dev/availability/internal/domain"
	"github.com/petsos-dev/availability/internal/outbox"
	"github.com/petsos-dev/availability/libs/db"
)

// SlotRecord is a persisted availability slot.
type SlotRecord struct {
	ID        int64
	VetID     int64
	Slot      domain.Slot
	Source    string
	CreatedAt time.Time
}

// SlotWithVet joins a slot with its owner's display name for admin views.
type SlotWithVet struct {
	SlotRecord
	VetName string
}

type SlotRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewSlotRepository(pool *db.Pool, outboxRepo *outbox.Repository) *SlotRepository {
	return &SlotRepository{pool: pool, outbox: outboxRepo}
}

// ExistingKeys returns the identity tuples already stored for a vet.
func (r *SlotRepository) ExistingKeys(ctx context.Context, vetID int64) (map[domain.Key]struct{}, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT date, start_time, slot_type
		FROM availability_slots
		WHERE vet_id = $1
	`, vetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[domain.Key]struct{})
	for rows.Next() {
		var k domain.Key
		var typ string
		if err := rows.Scan(&k.Date, &k.StartTime, &typ); err != nil {
			return nil, err
		}
		k.Type = domain.SlotType(typ)
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

// InsertBatch writes all slots in one statement inside one transaction,
// together with the confirmed-slots outbox event, so the write is all or
// nothing.
func (r *SlotRepository) InsertBatch(ctx context.Context, vetID int64, slots []domain.Slot, source string) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(slots)*6)
	sb.WriteString("INSERT INTO availability_slots (vet_id, date, start_time, end_time, slot_type, source) VALUES ")
	for i, s := range slots {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, vetID, s.Date, s.StartTime, s.EndTime, string(s.Type), source)
	}

	var inserted int64
	err := r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sb.String(), args...)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected()

		payload, err := json.Marshal(struct {
			VetID  int64         `json:"vet_id"`
			Source string        `json:"source"`
			Slots  []domain.Slot `json:"slots"`
		}{VetID: vetID, Source: source, Slots: slots})
		if err != nil {
			return err
		}
		return r.outbox.Insert(ctx, tx, outbox.Event{
			AggregateType: "vet",
			AggregateID:   strconv.FormatInt(vetID, 10),
			EventType:     outbox.EventSlotsConfirmed,
			Payload:       payload,
		})
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// DeleteRange removes exactly the slots whose date falls in the closed
// [firstDay, lastDay] range, atomically, emitting the month-cleared event.
func (r *SlotRepository) DeleteRange(ctx context.Context, vetID int64, firstDay, lastDay string) (int64, error) {
	var removed int64
	err := r.pool.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM availability_slots
			WHERE vet_id = $1 AND date >= $2 AND date <= $3
		`, vetID, firstDay, lastDay)
		if err != nil {
			return err
		}
		removed = tag.RowsAffected()

		payload, err := json.Marshal(struct {
			VetID    int64  `json:"vet_id"`
			FirstDay string `json:"first_day"`
			LastDay  string `json:"last_day"`
			Removed  int64  `json:"removed"`
		}{VetID: vetID, FirstDay: firstDay, LastDay: lastDay, Removed: removed})
		if err != nil {
			return err
		}
		return r.outbox.Insert(ctx, tx, outbox.Event{
			AggregateType: "vet",
			AggregateID:   strconv.FormatInt(vetID, 10),
			EventType:     outbox.EventMonthCleared,
			Payload:       payload,
		})
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ListRange returns a vet's slots within the closed date range, ordered by
// date then start time.
func (r *SlotRepository) ListRange(ctx context.Context, vetID int64, firstDay, lastDay string) ([]SlotRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vet_id, date, start_time, end_time, slot_type, source, created_at
		FROM availability_slots
		WHERE vet_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, start_time ASC
	`, vetID, firstDay, lastDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SlotRecord
	for rows.Next() {
		var rec SlotRecord
		var typ string
		if err := rows.Scan(&rec.ID, &rec.VetID, &rec.Slot.Date, &rec.Slot.StartTime, &rec.Slot.EndTime, &typ, &rec.Source, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Slot.Type = domain.SlotType(typ)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRangeByType returns all vets' slots of one type within the closed
// date range, joined with the owner name, for the admin schedule.
func (r *SlotRepository) ListRangeByType(ctx context.Context, firstDay, lastDay string, slotType domain.SlotType) ([]SlotWithVet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.vet_id, s.date, s.start_time, s.end_time, s.slot_type, s.source, s.created_at,
			COALESCE(v.name, 'ID' || v.id::text)
		FROM availability_slots s
		JOIN vets v ON v.id = s.vet_id
		WHERE s.date >= $1 AND s.date <= $2 AND s.slot_type = $3
		ORDER BY s.date ASC, s.start_time ASC
	`, firstDay, lastDay, string(slotType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SlotWithVet
	for rows.Next() {
		var rec SlotWithVet
		var typ string
		if err := rows.Scan(&rec.ID, &rec.VetID, &rec.Slot.Date, &rec.Slot.StartTime, &rec.Slot.EndTime, &typ, &rec.Source, &rec.CreatedAt, &rec.VetName); err != nil {
			return nil, err
		}
		rec.Slot.Type = domain.SlotType(typ)
		records = append(records, rec)
	}
	return records, rows.Err()
}
