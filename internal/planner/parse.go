package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"mealweek/internal/mealplan"
)

// rawItem mirrors the generator's item shape with pointer macro fields, so
// an absent field is distinguishable from an explicit zero.
type rawItem struct {
	Name       string               `json:"name"`
	Serving    string               `json:"serving"`
	Grams      *float64             `json:"grams"`
	Calories   *float64             `json:"calories"`
	Protein    *float64             `json:"protein"`
	Carbs      *float64             `json:"carbs"`
	Fat        *float64             `json:"fat"`
	Components []mealplan.Component `json:"components"`
}

type rawDay struct {
	Day   string    `json:"day"`
	Items []rawItem `json:"items"`
}

type rawPlan struct {
	Meals []rawDay `json:"meals"`
}

// ParseWeeklyPlan decodes generator output into an AIWeeklyPlan. An item
// that omits any of the required numeric macro fields is an error, never
// silently coerced to zero. Absent grams stays unset; that is a defined
// default, not an error.
func ParseWeeklyPlan(data []byte) (mealplan.AIWeeklyPlan, error) {
	var raw rawPlan
	if err := json.Unmarshal(data, &raw); err != nil {
		return mealplan.AIWeeklyPlan{}, fmt.Errorf("failed to unmarshal weekly plan: %w", err)
	}

	var plan mealplan.AIWeeklyPlan
	for _, day := range raw.Meals {
		bucket := mealplan.AIDayMeals{Day: day.Day}
		for _, it := range day.Items {
			if strings.TrimSpace(it.Name) == "" {
				return mealplan.AIWeeklyPlan{}, fmt.Errorf("weekly plan: item with empty name on %q", day.Day)
			}
			if it.Calories == nil || it.Protein == nil || it.Carbs == nil || it.Fat == nil {
				return mealplan.AIWeeklyPlan{}, fmt.Errorf("weekly plan: item %q on %q is missing a required macro field", it.Name, day.Day)
			}

			item := mealplan.AIItem{
				Name:       it.Name,
				Serving:    it.Serving,
				Calories:   *it.Calories,
				Protein:    *it.Protein,
				Carbs:      *it.Carbs,
				Fat:        *it.Fat,
				Components: it.Components,
			}
			if it.Grams != nil {
				item.Grams = *it.Grams
			}
			bucket.Items = append(bucket.Items, item)
		}
		plan.Meals = append(plan.Meals, bucket)
	}

	if err := plan.Validate(); err != nil {
		return mealplan.AIWeeklyPlan{}, fmt.Errorf("weekly plan: %w", err)
	}
	return plan, nil
}
