package pantry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is a SQLite-backed pantry store. It implements Source for the
// reconciliation engine and offers the explicit write operations the engine
// itself never performs.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an existing connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ListPantry returns all pantry items, sorted by name.
func (r *Repository) ListPantry(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, grams, count, unit, updated_at
		FROM pantry_items
		ORDER BY name COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pantry items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var grams sql.NullFloat64
		var count sql.NullInt64
		var unit sql.NullString
		if err := rows.Scan(&it.ID, &it.Name, &grams, &count, &unit, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pantry item: %w", err)
		}
		if grams.Valid {
			g := grams.Float64
			it.Grams = &g
		}
		if count.Valid {
			c := int(count.Int64)
			it.Count = &c
		}
		if unit.Valid {
			it.Unit = unit.String
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pantry rows: %w", err)
	}
	return items, nil
}

// Upsert inserts the item, or updates it when its id already exists. A
// missing id is assigned.
func (r *Repository) Upsert(ctx context.Context, it Item) (Item, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.UpdatedAt = time.Now().UTC()

	var grams sql.NullFloat64
	if it.Grams != nil {
		grams = sql.NullFloat64{Float64: *it.Grams, Valid: true}
	}
	var count sql.NullInt64
	if it.Count != nil {
		count = sql.NullInt64{Int64: int64(*it.Count), Valid: true}
	}
	var unit sql.NullString
	if it.Unit != "" {
		unit = sql.NullString{String: it.Unit, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pantry_items (id, name, grams, count, unit, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			grams = excluded.grams,
			count = excluded.count,
			unit = excluded.unit,
			updated_at = excluded.updated_at`,
		it.ID, it.Name, grams, count, unit, it.UpdatedAt)
	if err != nil {
		return Item{}, fmt.Errorf("failed to upsert pantry item %q: %w", it.Name, err)
	}
	return it, nil
}

// Delete removes a pantry item by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pantry_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete pantry item %s: %w", id, err)
	}
	return nil
}
