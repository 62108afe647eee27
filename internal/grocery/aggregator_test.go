package grocery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mealweek/internal/mealplan"
)

// memStore serves canned DayPlans keyed by date.
type memStore struct {
	plans map[string]*mealplan.DayPlan
}

func newMemStore() *memStore {
	return &memStore{plans: make(map[string]*mealplan.DayPlan)}
}

func (m *memStore) GetDayPlan(ctx context.Context, dateKey string) (*mealplan.DayPlan, error) {
	if p, ok := m.plans[dateKey]; ok {
		return p, nil
	}
	return mealplan.NewDayPlan(dateKey), nil
}

func (m *memStore) ReplaceMealSlot(ctx context.Context, dateKey string, slot mealplan.MealSlot, items []mealplan.PlannedItem) error {
	plan, ok := m.plans[dateKey]
	if !ok {
		plan = mealplan.NewDayPlan(dateKey)
		m.plans[dateKey] = plan
	}
	plan.Meals[slot] = items
	return nil
}

func (m *memStore) AppendToMealSlot(ctx context.Context, dateKey string, slot mealplan.MealSlot, item mealplan.PlannedItem) error {
	plan, ok := m.plans[dateKey]
	if !ok {
		plan = mealplan.NewDayPlan(dateKey)
		m.plans[dateKey] = plan
	}
	plan.Meals[slot] = append(plan.Meals[slot], item)
	return nil
}

type failingStore struct{}

func (failingStore) GetDayPlan(ctx context.Context, dateKey string) (*mealplan.DayPlan, error) {
	return nil, fmt.Errorf("storage unavailable")
}
func (failingStore) ReplaceMealSlot(ctx context.Context, dateKey string, slot mealplan.MealSlot, items []mealplan.PlannedItem) error {
	return fmt.Errorf("storage unavailable")
}
func (failingStore) AppendToMealSlot(ctx context.Context, dateKey string, slot mealplan.MealSlot, item mealplan.PlannedItem) error {
	return fmt.Errorf("storage unavailable")
}

func mustDate(t *testing.T, key string) time.Time {
	t.Helper()
	day, err := mealplan.ParseDateKey(key)
	if err != nil {
		t.Fatalf("Failed to parse date %q: %v", key, err)
	}
	return day
}

func breakfastItem(name string, components ...mealplan.Component) mealplan.PlannedItem {
	return mealplan.PlannedItem{
		ID:         "id-" + name,
		Name:       name,
		Source:     mealplan.SourceRecipe,
		Components: components,
	}
}

func TestAggregateTwoDays(t *testing.T) {
	// Two consecutive dates, each with one breakfast item made of 150 g of
	// rice, merge into a single 300 g entry with count 2.
	store := newMemStore()
	ctx := context.Background()
	store.ReplaceMealSlot(ctx, "2026-09-06", mealplan.SlotBreakfast,
		[]mealplan.PlannedItem{breakfastItem("Rice bowl", mealplan.Component{Name: "Rice", Grams: 150})})
	store.ReplaceMealSlot(ctx, "2026-09-07", mealplan.SlotBreakfast,
		[]mealplan.PlannedItem{breakfastItem("Rice bowl", mealplan.Component{Name: "Rice", Grams: 150})})

	list, err := NewAggregator(store).Aggregate(ctx, mustDate(t, "2026-09-06"), 2)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(list.Items) != 1 {
		t.Fatalf("Expected 1 aggregated item, got %d", len(list.Items))
	}
	rice := list.Items[0]
	if rice.Name != "Rice" || rice.Grams != 300 || rice.Count != 2 {
		t.Errorf("Expected {Rice 300 2}, got %+v", rice)
	}
	if len(list.Missing) != 0 {
		t.Errorf("Expected no missing entries, got %v", list.Missing)
	}
}

func TestAggregateMergesCaseInsensitively(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	store.ReplaceMealSlot(ctx, "2026-09-06", mealplan.SlotLunch, []mealplan.PlannedItem{
		breakfastItem("Salad",
			mealplan.Component{Name: "Tomato", Grams: 100},
			mealplan.Component{Name: " tomato ", Grams: 50},
		),
	})

	list, err := NewAggregator(store).Aggregate(ctx, mustDate(t, "2026-09-06"), 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(list.Items) != 1 {
		t.Fatalf("Expected the variants to merge into 1 item, got %d", len(list.Items))
	}
	if list.Items[0].Name != "Tomato" {
		t.Errorf("Expected the first-seen display name 'Tomato', got '%s'", list.Items[0].Name)
	}
	if list.Items[0].Grams != 150 || list.Items[0].Count != 2 {
		t.Errorf("Expected 150 g over 2 occurrences, got %+v", list.Items[0])
	}
}

func TestAggregateMissingBreakdown(t *testing.T) {
	// An item without components contributes exactly one missing entry and
	// zero grams, even when it has its own grams.
	store := newMemStore()
	ctx := context.Background()
	store.ReplaceMealSlot(ctx, "2026-09-06", mealplan.SlotDinner, []mealplan.PlannedItem{
		{ID: "x", Name: "Takeout burger", Source: mealplan.SourceSearch, Grams: 400},
	})

	list, err := NewAggregator(store).Aggregate(ctx, mustDate(t, "2026-09-06"), 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(list.Items) != 0 {
		t.Errorf("Expected no grocery items, got %v", list.Items)
	}
	if len(list.Missing) != 1 {
		t.Fatalf("Expected exactly 1 missing entry, got %d", len(list.Missing))
	}
	if list.Missing[0] != "2026-09-06: Takeout burger" {
		t.Errorf("Expected '2026-09-06: Takeout burger', got '%s'", list.Missing[0])
	}
}

func TestAggregateSortsByNameCaseInsensitive(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	store.ReplaceMealSlot(ctx, "2026-09-06", mealplan.SlotBreakfast, []mealplan.PlannedItem{
		breakfastItem("Mixed",
			mealplan.Component{Name: "banana", Grams: 100},
			mealplan.Component{Name: "Apple", Grams: 100},
			mealplan.Component{Name: "Cocoa", Grams: 10},
		),
	})

	list, err := NewAggregator(store).Aggregate(ctx, mustDate(t, "2026-09-06"), 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	got := []string{list.Items[0].Name, list.Items[1].Name, list.Items[2].Name}
	want := []string{"Apple", "banana", "Cocoa"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}

func TestAggregateMergeLaw(t *testing.T) {
	// Aggregating a concatenated range equals the item-wise sum of
	// aggregating its pieces.
	store := newMemStore()
	ctx := context.Background()
	store.ReplaceMealSlot(ctx, "2026-09-06", mealplan.SlotLunch,
		[]mealplan.PlannedItem{breakfastItem("A", mealplan.Component{Name: "Rice", Grams: 100}, mealplan.Component{Name: "Beans", Grams: 50})})
	store.ReplaceMealSlot(ctx, "2026-09-07", mealplan.SlotDinner,
		[]mealplan.PlannedItem{breakfastItem("B", mealplan.Component{Name: "Rice", Grams: 75})})

	agg := NewAggregator(store)
	whole, err := agg.Aggregate(ctx, mustDate(t, "2026-09-06"), 2)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	day1, _ := agg.Aggregate(ctx, mustDate(t, "2026-09-06"), 1)
	day2, _ := agg.Aggregate(ctx, mustDate(t, "2026-09-07"), 1)

	sum := make(map[string]Item)
	for _, part := range [][]Item{day1.Items, day2.Items} {
		for _, it := range part {
			key := NormalizeName(it.Name)
			acc := sum[key]
			acc.Name = it.Name
			acc.Grams += it.Grams
			acc.Count += it.Count
			sum[key] = acc
		}
	}

	for _, it := range whole.Items {
		acc, ok := sum[NormalizeName(it.Name)]
		if !ok {
			t.Fatalf("Item %q missing from piecewise sum", it.Name)
		}
		if acc.Grams != it.Grams || acc.Count != it.Count {
			t.Errorf("Merge law violated for %q: whole=%+v, sum=%+v", it.Name, it, acc)
		}
	}
}

func TestAggregateInvalidDays(t *testing.T) {
	agg := NewAggregator(newMemStore())
	for _, days := range []int{0, -3} {
		if _, err := agg.Aggregate(context.Background(), mustDate(t, "2026-09-06"), days); err == nil {
			t.Errorf("Expected an error for days=%d, got nil", days)
		}
	}
}

func TestAggregateStoreErrorPropagates(t *testing.T) {
	agg := NewAggregator(failingStore{})
	if _, err := agg.Aggregate(context.Background(), mustDate(t, "2026-09-06"), 1); err == nil {
		t.Error("Expected the store error to propagate, got nil")
	}
}
