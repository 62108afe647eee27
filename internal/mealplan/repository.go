package mealplan

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// PlanRepository is a SQLite-backed PlanStore. Each (date, slot) pair is
// one row with the item list stored as JSON, so replace and append stay
// single-document writes.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a PlanRepository over an existing connection.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// GetDayPlan loads the stored slots for a date. Slots with no stored row
// are synthesized empty, so callers always observe all four keys.
func (r *PlanRepository) GetDayPlan(ctx context.Context, dateKey string) (*DayPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slot, items FROM day_plans WHERE date = ?`, dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query day plan for %s: %w", dateKey, err)
	}
	defer rows.Close()

	plan := NewDayPlan(dateKey)
	for rows.Next() {
		var slot, itemsJSON string
		if err := rows.Scan(&slot, &itemsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan day plan row for %s: %w", dateKey, err)
		}
		var items []PlannedItem
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items for %s/%s: %w", dateKey, slot, err)
		}
		if items == nil {
			items = []PlannedItem{}
		}
		plan.Meals[MealSlot(slot)] = items
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read day plan rows for %s: %w", dateKey, err)
	}
	return plan, nil
}

// ReplaceMealSlot overwrites the slot's item list wholesale.
func (r *PlanRepository) ReplaceMealSlot(ctx context.Context, dateKey string, slot MealSlot, items []PlannedItem) error {
	if items == nil {
		items = []PlannedItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items for %s/%s: %w", dateKey, slot, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO day_plans (date, slot, items, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, slot) DO UPDATE SET
			items = excluded.items,
			updated_at = excluded.updated_at`,
		dateKey, string(slot), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to replace slot %s/%s: %w", dateKey, slot, err)
	}
	return nil
}

// AppendToMealSlot adds one item to the end of the slot. The read and
// write happen in a single transaction so concurrent appends do not lose
// items.
func (r *PlanRepository) AppendToMealSlot(ctx context.Context, dateKey string, slot MealSlot, item PlannedItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var itemsJSON string
	items := []PlannedItem{}
	err = tx.QueryRowContext(ctx,
		`SELECT items FROM day_plans WHERE date = ? AND slot = ?`, dateKey, string(slot)).Scan(&itemsJSON)
	switch {
	case err == sql.ErrNoRows:
		// First item for this slot.
	case err != nil:
		return fmt.Errorf("failed to read slot %s/%s: %w", dateKey, slot, err)
	default:
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			return fmt.Errorf("failed to unmarshal items for %s/%s: %w", dateKey, slot, err)
		}
	}

	items = append(items, item)
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items for %s/%s: %w", dateKey, slot, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO day_plans (date, slot, items, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, slot) DO UPDATE SET
			items = excluded.items,
			updated_at = excluded.updated_at`,
		dateKey, string(slot), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append to slot %s/%s: %w", dateKey, slot, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append to %s/%s: %w", dateKey, slot, err)
	}
	return nil
}
