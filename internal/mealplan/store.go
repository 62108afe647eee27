package mealplan

import "context"

// PlanStore is the persistence boundary for day plans. The engine never
// talks to a storage technology directly, only to this interface.
//
// Implementations must synthesize an empty four-slot DayPlan when no record
// exists for a date: GetDayPlan never returns nil on success. Errors from
// the underlying store propagate unchanged; the engine has no retry or
// backoff policy of its own.
type PlanStore interface {
	GetDayPlan(ctx context.Context, dateKey string) (*DayPlan, error)

	// ReplaceMealSlot overwrites the slot's item list wholesale. Used by
	// weekly plan distribution; replacing with an empty list clears the
	// slot.
	ReplaceMealSlot(ctx context.Context, dateKey string, slot MealSlot, items []PlannedItem) error

	// AppendToMealSlot adds one item to the end of the slot without
	// touching what is already there. Used by manual-entry flows.
	AppendToMealSlot(ctx context.Context, dateKey string, slot MealSlot, item PlannedItem) error
}
