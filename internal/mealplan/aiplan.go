package mealplan

import (
	"fmt"
	"strings"
)

// Weekdays is the canonical weekday naming used by generated weekly plans,
// indexed from the first day of the week.
var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// AIItem is one generated meal entry before distribution onto calendar
// dates.
type AIItem struct {
	Name       string      `json:"name"`
	Serving    string      `json:"serving,omitempty"`
	Grams      float64     `json:"grams,omitempty"`
	Calories   float64     `json:"calories"`
	Protein    float64     `json:"protein"`
	Carbs      float64     `json:"carbs"`
	Fat        float64     `json:"fat"`
	Components []Component `json:"components,omitempty"`
}

// AIDayMeals groups the generated items for one weekday bucket.
type AIDayMeals struct {
	Day   string   `json:"day"`
	Items []AIItem `json:"items"`
}

// AIWeeklyPlan is a generated 7-day plan keyed by weekday name. It is
// consumed exactly once by Distribute and is not persisted in this form.
type AIWeeklyPlan struct {
	Meals []AIDayMeals `json:"meals"`
}

// Validate checks that every bucket uses a canonical weekday name and that
// every item has a name.
func (p AIWeeklyPlan) Validate() error {
	valid := make(map[string]bool, len(Weekdays))
	for _, d := range Weekdays {
		valid[d] = true
	}
	for _, dm := range p.Meals {
		if !valid[dm.Day] {
			return fmt.Errorf("unknown weekday name %q (expected one of Sun..Sat)", dm.Day)
		}
		for _, it := range dm.Items {
			if strings.TrimSpace(it.Name) == "" {
				return fmt.Errorf("item with empty name on %s", dm.Day)
			}
		}
	}
	return nil
}
