package pantry

import (
	"context"
	"time"
)

// Item is one inventory entry. Name is the reconciliation join key, matched
// case-insensitively and exactly; there is no fuzzy matching and no unit
// normalization between grams and count.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Grams     *float64  `json:"grams,omitempty"`
	Count     *int      `json:"count,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Source lists current pantry inventory. The reconciliation engine only
// ever reads through it; depletion is an explicit write by the caller.
type Source interface {
	ListPantry(ctx context.Context) ([]Item, error)
}
