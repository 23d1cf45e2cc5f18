package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/encounterctl/internal/save"
)

// SaveRepository keeps save slots in PostgreSQL, one row per section.
// Implements save.Store.
type SaveRepository struct {
	db *pgxpool.Pool
}

// NewSaveRepository creates a new SaveRepository.
func NewSaveRepository(db *pgxpool.Pool) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save replaces all sections of slot in one transaction.
func (r *SaveRepository) Save(ctx context.Context, slot int, c *save.Contents) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "slot", slot, "error", err)
		}
	}()

	if err := r.SaveTx(ctx, tx, slot, c); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// SaveTx saves slot within an existing transaction.
func (r *SaveRepository) SaveTx(ctx context.Context, tx pgx.Tx, slot int, c *save.Contents) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM save_sections WHERE slot = $1`,
		slot,
	); err != nil {
		return fmt.Errorf("deleting old sections of slot %d: %w", slot, err)
	}

	keys := c.Keys()
	rows := make([][]any, 0, len(keys)+1)
	for _, k := range keys {
		raw, _ := c.Section(k)
		rows = append(rows, []any{slot, k, string(raw)})
	}
	if len(rows) == 0 {
		rows = append(rows, []any{slot, emptySaveMarker, "{}"})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"save_sections"},
		[]string{"slot", "section", "payload"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting sections of slot %d: %w", slot, err)
	}

	return nil
}

// emptySaveMarker is the section row written for a save with no
// sections, so Load can tell "empty save" from "never saved".
const emptySaveMarker = ""

// Load reads every section of slot. ok is false when the slot has no rows.
func (r *SaveRepository) Load(ctx context.Context, slot int) (*save.Contents, bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT section, payload::text FROM save_sections WHERE slot = $1 ORDER BY section`,
		slot,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying sections of slot %d: %w", slot, err)
	}
	defer rows.Close()

	c := save.NewContents()
	found := false
	for rows.Next() {
		var (
			section string
			payload string
		)
		if err := rows.Scan(&section, &payload); err != nil {
			return nil, false, fmt.Errorf("scanning section row: %w", err)
		}
		found = true
		if section == emptySaveMarker {
			continue
		}
		c.PutRaw(section, json.RawMessage(payload))
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating section rows: %w", err)
	}

	if !found {
		return nil, false, nil
	}
	return c, true, nil
}

// DeleteSlot removes a save slot.
func (r *SaveRepository) DeleteSlot(ctx context.Context, slot int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM save_sections WHERE slot = $1`,
		slot,
	)
	if err != nil {
		return fmt.Errorf("deleting slot %d: %w", slot, err)
	}
	return nil
}
