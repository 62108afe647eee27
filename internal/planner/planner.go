package planner

import (
	"context"
	"fmt"
	"time"

	"mealweek/internal/llm"
	"mealweek/internal/mealplan"
	"mealweek/internal/shared"
)

// Planner turns a household request into a validated weekly plan ready for
// distribution.
type Planner struct {
	textGen llm.TextGenerator
}

// NewPlanner creates a Planner using the given text generator.
func NewPlanner(textGen llm.TextGenerator) *Planner {
	return &Planner{textGen: textGen}
}

// PlanningContext carries household details interpolated into the prompt.
type PlanningContext struct {
	Adults   int
	Children int
	Notes    string
}

const weeklyPlanPrompt = `# Weekly Meal Planner

You plan a week of meals for a household of %d adult(s) and %d child(ren).
Household notes: %s

User request: "%s"

Produce a 7-day plan, one bucket per weekday named exactly "Sun", "Mon",
"Tue", "Wed", "Thu", "Fri", "Sat". Each bucket has up to 4 items in meal
order: breakfast, lunch, dinner, snack. Every item MUST include numeric
"calories", "protein", "carbs" and "fat" values, a "serving" description
(for example "1 bowl, 250 g"), and a "components" array breaking the meal
down into raw ingredients with gram weights.

Return ONLY a raw JSON object with this exact structure, no markdown fences:
{
  "meals": [
    {
      "day": "Sun",
      "items": [
        {
          "name": "Oatmeal with banana",
          "serving": "1 bowl, 300 g",
          "grams": 300,
          "calories": 350,
          "protein": 12,
          "carbs": 60,
          "fat": 7,
          "components": [
            {"name": "Oats", "grams": 80},
            {"name": "Banana", "grams": 120},
            {"name": "Milk", "grams": 100}
          ]
        }
      ]
    }
  ]
}`

// GenerateWeeklyPlan prompts the model for a 7-day plan and parses the
// reply into an AIWeeklyPlan. The returned AgentMeta is valid even when the
// generation fails, so callers can still record usage.
func (p *Planner) GenerateWeeklyPlan(ctx context.Context, request string, pCtx PlanningContext) (mealplan.AIWeeklyPlan, shared.AgentMeta, error) {
	notes := pCtx.Notes
	if notes == "" {
		notes = "none"
	}
	prompt := fmt.Sprintf(weeklyPlanPrompt, pCtx.Adults, pCtx.Children, notes, request)

	start := time.Now()
	resp, err := p.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: "weekly-planner",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return mealplan.AIWeeklyPlan{}, meta, fmt.Errorf("failed to generate weekly plan: %w", err)
	}

	plan, err := ParseWeeklyPlan([]byte(resp.Content))
	if err != nil {
		return mealplan.AIWeeklyPlan{}, meta, err
	}
	return plan, meta, nil
}
