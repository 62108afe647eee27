package grocery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"mealweek/internal/mealplan"
)

// Aggregator reduces a contiguous date range of stored day plans into one
// deduplicated grocery needs list. It is a pure reduction over persisted
// plan data: no writes, no caching.
type Aggregator struct {
	store mealplan.PlanStore
}

// NewAggregator creates an Aggregator reading through the given store.
func NewAggregator(store mealplan.PlanStore) *Aggregator {
	return &Aggregator{store: store}
}

// Aggregate scans days consecutive dates from start and merges every
// ingredient component across all four slots, in slot-then-item order, into
// a single needs list keyed by normalized name.
//
// A planned item without a component breakdown contributes nothing to the
// totals, even when it carries its own grams or macros; it is recorded as
// "<date>: <name>" in Missing instead.
func (a *Aggregator) Aggregate(ctx context.Context, start time.Time, days int) (List, error) {
	if days <= 0 {
		return List{}, fmt.Errorf("days must be positive, got %d", days)
	}

	agg := make(map[string]*Item)
	list := List{Items: []Item{}, Missing: []string{}}

	for i := 0; i < days; i++ {
		dateKey := mealplan.DateKey(mealplan.AddDays(start, i))
		plan, err := a.store.GetDayPlan(ctx, dateKey)
		if err != nil {
			return List{}, fmt.Errorf("failed to load day plan for %s: %w", dateKey, err)
		}

		for _, slot := range mealplan.Slots {
			for _, item := range plan.Meals[slot] {
				if !item.HasBreakdown() {
					list.Missing = append(list.Missing, fmt.Sprintf("%s: %s", dateKey, item.Name))
					continue
				}
				for _, c := range item.Components {
					key := NormalizeName(c.Name)
					if existing, ok := agg[key]; ok {
						existing.Grams += c.Grams
						existing.Count++
					} else {
						agg[key] = &Item{
							Name:  strings.TrimSpace(c.Name),
							Grams: c.Grams,
							Count: 1,
						}
					}
				}
			}
		}
	}

	for _, it := range agg {
		list.Items = append(list.Items, *it)
	}
	sort.Slice(list.Items, func(i, j int) bool {
		return strings.ToLower(list.Items[i].Name) < strings.ToLower(list.Items[j].Name)
	})
	return list, nil
}
