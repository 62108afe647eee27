package mealplan

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Distributor maps a generated weekly plan onto seven concrete calendar
// dates, writing through a PlanStore.
type Distributor struct {
	store PlanStore
}

// NewDistributor creates a Distributor backed by the given store.
func NewDistributor(store PlanStore) *Distributor {
	return &Distributor{store: store}
}

var servingGramsRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*g\s*$`)

// Distribute writes the weekly plan onto the seven dates starting at
// weekStart. Offset 0 is always bound to "Sun" regardless of the actual
// weekday of weekStart: callers must pass a weekStart already aligned to
// the first day of the week under the convention the plan was generated
// with (see StartOfWeek).
//
// Each date's four slots are fully replaced in canonical slot order: slot i
// receives the day's item at position i, and a slot with no positional item
// is cleared to an empty list. Items beyond position 3 are dropped. The
// call issues exactly 28 slot writes and is idempotent. A failing write
// aborts the remaining writes but does not roll back prior ones.
func (d *Distributor) Distribute(ctx context.Context, weekStart time.Time, plan AIWeeklyPlan) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("invalid weekly plan: %w", err)
	}

	byDay := make(map[string][]AIItem, len(plan.Meals))
	for _, dm := range plan.Meals {
		byDay[dm.Day] = dm.Items
	}

	for i := 0; i < 7; i++ {
		dateKey := DateKey(AddDays(weekStart, i))
		items := byDay[Weekdays[i]]

		for pos, slot := range Slots {
			if pos >= len(items) {
				if err := d.store.ReplaceMealSlot(ctx, dateKey, slot, []PlannedItem{}); err != nil {
					return fmt.Errorf("failed to clear %s %s: %w", dateKey, slot, err)
				}
				continue
			}
			assigned := buildPlannedItem(items[pos])
			if err := d.store.ReplaceMealSlot(ctx, dateKey, slot, []PlannedItem{assigned}); err != nil {
				return fmt.Errorf("failed to write %s %s: %w", dateKey, slot, err)
			}
		}
	}
	return nil
}

// buildPlannedItem converts a generated item into a stored one: fresh id,
// recipe source, macros rounded to whole units, grams taken from the
// explicit field or parsed from a trailing "<number> g" in the serving
// text, else left unset.
func buildPlannedItem(src AIItem) PlannedItem {
	item := PlannedItem{
		ID:     uuid.NewString(),
		Name:   src.Name,
		Source: SourceRecipe,
		Macros: &Macros{
			Kcal:    int(math.Round(src.Calories)),
			Protein: int(math.Round(src.Protein)),
			Carbs:   int(math.Round(src.Carbs)),
			Fat:     int(math.Round(src.Fat)),
		},
		Components: src.Components,
	}

	if src.Grams > 0 {
		item.Grams = src.Grams
	} else if m := servingGramsRe.FindStringSubmatch(src.Serving); m != nil {
		if g, err := strconv.ParseFloat(m[1], 64); err == nil {
			item.Grams = g
		}
	}
	return item
}
