package mealplan

// MealSlot identifies one of the four fixed meal slots of a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// Slots lists the meal slots in canonical order. The order is significant:
// it is the fallback mapping when assigning positional items from a
// generated weekly plan (slot 0 receives item 0, and so on).
var Slots = [4]MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// ItemSource records where a planned item came from.
type ItemSource string

const (
	SourcePantry ItemSource = "pantry"
	SourceCustom ItemSource = "custom"
	SourceRecipe ItemSource = "recipe"
	SourceSearch ItemSource = "search"
)

// Macros holds per-item nutrition totals, rounded to whole units.
type Macros struct {
	Kcal    int `json:"kcal"`
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
}

// Component is one ingredient-level entry of a composite meal item. The
// component list, when present, is the authoritative breakdown used for
// grocery derivation.
type Component struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

// PlannedItem is a single planned food entry inside a meal slot.
type PlannedItem struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Source     ItemSource  `json:"source"`
	Grams      float64     `json:"grams,omitempty"`
	Macros     *Macros     `json:"macros,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// HasBreakdown reports whether the item carries an ingredient breakdown.
// Items without one are invisible to grocery aggregation.
func (p PlannedItem) HasBreakdown() bool {
	return len(p.Components) > 0
}

// DayPlan is the four-slot record of planned food for one calendar date.
// Meals always contains all four slot keys; a missing slot is never a valid
// observed state.
type DayPlan struct {
	Date  string                     `json:"date"`
	Meals map[MealSlot][]PlannedItem `json:"meals"`
}

// NewDayPlan returns an empty DayPlan for the given date key with all four
// slot keys present.
func NewDayPlan(dateKey string) *DayPlan {
	meals := make(map[MealSlot][]PlannedItem, len(Slots))
	for _, s := range Slots {
		meals[s] = []PlannedItem{}
	}
	return &DayPlan{Date: dateKey, Meals: meals}
}
