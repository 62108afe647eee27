package acceptance_tests

import (
	"context"
	"path/filepath"
	"testing"

	"mealweek/internal/app"
	"mealweek/internal/clipper"
	"mealweek/internal/config"
	"mealweek/internal/database"
	"mealweek/internal/llm"
	"mealweek/internal/mealplan"
	"mealweek/internal/metrics"
	"mealweek/internal/pantry"
	"mealweek/internal/planner"
	"mealweek/internal/pricing"
	"mealweek/internal/shared"
)

// mockLLMClient replies with a fixed two-day weekly plan.
type mockLLMClient struct {
	generateContentCalls int
}

func (m *mockLLMClient) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.generateContentCalls++
	return llm.ContentResponse{
		Content: `{
			"meals": [
				{"day": "Sun", "items": [
					{"name": "Rice bowl", "serving": "1 bowl, 300 g",
					 "calories": 500, "protein": 20, "carbs": 80, "fat": 10,
					 "components": [{"name": "Rice", "grams": 150}, {"name": "Chicken breast", "grams": 120}]}
				]},
				{"day": "Mon", "items": [
					{"name": "Rice salad", "grams": 350,
					 "calories": 450, "protein": 15, "carbs": 70, "fat": 12,
					 "components": [{"name": "Rice", "grams": 150}, {"name": "Tomato", "grams": 90}]},
					{"name": "Takeout pizza",
					 "calories": 900, "protein": 35, "carbs": 100, "fat": 40}
				]}
			]
		}`,
		Usage: shared.TokenUsage{PromptTokens: 200, CompletionTokens: 120, Model: "mock"},
	}, nil
}

func TestWeeklyPlanToGroceryReportFlow(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "acceptance.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	planRepo := mealplan.NewPlanRepository(db.SQL)
	pantryRepo := pantry.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	gen := &mockLLMClient{}
	cfg := &config.Config{DefaultAdults: 2}

	application := app.NewApp(
		planRepo,
		pantryRepo,
		planner.NewPlanner(gen),
		clipper.NewClipper(gen),
		metricsStore,
		pricing.Table{{Pattern: "chicken", PerGram: 0.009}, {Pattern: "rice", PerGram: 0.002}},
		cfg,
	)

	// Stock the pantry with 100 g of rice before planning.
	grams := 100.0
	if _, err := pantryRepo.Upsert(ctx, pantry.Item{Name: "Rice", Grams: &grams}); err != nil {
		t.Fatalf("Failed to stock pantry: %v", err)
	}

	weekStart, err := mealplan.ParseDateKey("2026-09-06") // a Sunday
	if err != nil {
		t.Fatalf("Failed to parse week start: %v", err)
	}

	// 1. Plan the week through the mock model.
	if _, err := application.PlanWeek(ctx, "simple week", weekStart); err != nil {
		t.Fatalf("PlanWeek failed: %v", err)
	}
	if gen.generateContentCalls != 1 {
		t.Errorf("Expected 1 model call, got %d", gen.generateContentCalls)
	}

	// 2. The distributed plan is readable back through the store.
	sunday, err := planRepo.GetDayPlan(ctx, "2026-09-06")
	if err != nil {
		t.Fatalf("GetDayPlan failed: %v", err)
	}
	breakfast := sunday.Meals[mealplan.SlotBreakfast]
	if len(breakfast) != 1 || breakfast[0].Name != "Rice bowl" {
		t.Fatalf("Expected Sunday breakfast 'Rice bowl', got %v", breakfast)
	}
	if breakfast[0].Grams != 300 {
		t.Errorf("Expected grams parsed from serving text, got %v", breakfast[0].Grams)
	}

	// 3. Aggregate, reconcile and price the first two days.
	rep, err := application.BuildGroceryReport(ctx, weekStart, 2)
	if err != nil {
		t.Fatalf("BuildGroceryReport failed: %v", err)
	}

	// Rice appears twice at 150 g: 300 g total, 100 g covered by pantry.
	var needRice, haveRice float64
	for _, it := range rep.Need {
		if it.Name == "Rice" {
			needRice = it.Grams
		}
	}
	for _, it := range rep.Have {
		if it.Name == "Rice" {
			haveRice = it.Grams
		}
	}
	if haveRice != 100 || needRice != 200 {
		t.Errorf("Expected rice split 100 have / 200 need, got %v / %v", haveRice, needRice)
	}

	// The breakdown-less pizza is tracked, not priced.
	if len(rep.List.Missing) != 1 || rep.List.Missing[0] != "2026-09-07: Takeout pizza" {
		t.Errorf("Expected the pizza in missing, got %v", rep.List.Missing)
	}

	// Need: rice 200 g @0.002 + chicken 120 g @0.009 + tomato 90 g default.
	want := 0.4 + 1.08 + 0.36
	if rep.EstimatedCost != 1.84 {
		t.Errorf("Expected estimated cost 1.84 (%.2f), got %v", want, rep.EstimatedCost)
	}

	// 4. Planning again replaces rather than duplicates.
	if _, err := application.PlanWeek(ctx, "simple week", weekStart); err != nil {
		t.Fatalf("Second PlanWeek failed: %v", err)
	}
	sunday, _ = planRepo.GetDayPlan(ctx, "2026-09-06")
	if got := len(sunday.Meals[mealplan.SlotBreakfast]); got != 1 {
		t.Errorf("Expected distribution to stay idempotent, got %d breakfast items", got)
	}

	// 5. Metrics for both model calls were recorded.
	usage, err := metricsStore.GetDailyUsage(1)
	if err != nil {
		t.Fatalf("GetDailyUsage failed: %v", err)
	}
	if len(usage) != 1 || usage[0].TotalExecution != 2 {
		t.Errorf("Expected 2 recorded executions today, got %+v", usage)
	}
}
