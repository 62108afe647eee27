package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"mealweek/internal/clipper"
	"mealweek/internal/config"
	"mealweek/internal/grocery"
	"mealweek/internal/mealplan"
	"mealweek/internal/metrics"
	"mealweek/internal/pantry"
	"mealweek/internal/planner"
	"mealweek/internal/pricing"
)

// App holds the application's dependencies and wires the engine's pure
// operations into end-to-end flows.
type App struct {
	store        mealplan.PlanStore
	distributor  *mealplan.Distributor
	aggregator   *grocery.Aggregator
	pantrySource pantry.Source
	mealPlanner  *planner.Planner
	recipeClip   *clipper.Clipper
	metricsStore *metrics.Store
	priceTable   pricing.Table
	cfg          *config.Config
}

// NewApp creates and initializes a new App instance.
func NewApp(
	store mealplan.PlanStore,
	pantrySource pantry.Source,
	mealPlanner *planner.Planner,
	recipeClip *clipper.Clipper,
	metricsStore *metrics.Store,
	priceTable pricing.Table,
	cfg *config.Config,
) *App {
	return &App{
		store:        store,
		distributor:  mealplan.NewDistributor(store),
		aggregator:   grocery.NewAggregator(store),
		pantrySource: pantrySource,
		mealPlanner:  mealPlanner,
		recipeClip:   recipeClip,
		metricsStore: metricsStore,
		priceTable:   priceTable,
		cfg:          cfg,
	}
}

// PlanWeek generates a weekly plan for the request and distributes it onto
// the seven dates starting at weekStart. weekStart must be the first day of
// the week under the plan's Sun..Sat convention.
func (a *App) PlanWeek(ctx context.Context, request string, weekStart time.Time) (mealplan.AIWeeklyPlan, error) {
	pCtx := planner.PlanningContext{
		Adults:   a.cfg.DefaultAdults,
		Children: a.cfg.DefaultChildren,
		Notes:    a.cfg.PlanNotes,
	}

	plan, meta, err := a.mealPlanner.GenerateWeeklyPlan(ctx, request, pCtx)
	if recErr := a.metricsStore.RecordMeta(meta); recErr != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, recErr)
	}
	if err != nil {
		return mealplan.AIWeeklyPlan{}, fmt.Errorf("failed to generate plan: %w", err)
	}

	if err := a.distributor.Distribute(ctx, weekStart, plan); err != nil {
		return mealplan.AIWeeklyPlan{}, fmt.Errorf("failed to distribute plan: %w", err)
	}
	return plan, nil
}

// GroceryReport is the combined outcome of aggregation, pantry
// reconciliation and cost estimation for a date range.
type GroceryReport struct {
	List          grocery.List
	Need          []grocery.Item
	Have          []grocery.Item
	EstimatedCost float64
}

// BuildGroceryReport aggregates the date range, nets it against the pantry
// and prices the residual need list.
func (a *App) BuildGroceryReport(ctx context.Context, start time.Time, days int) (*GroceryReport, error) {
	list, err := a.aggregator.Aggregate(ctx, start, days)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate groceries: %w", err)
	}

	pantryItems, err := a.pantrySource.ListPantry(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pantry: %w", err)
	}

	res := pantry.Reconcile(list.Items, pantryItems)
	cost := pricing.EstimateCost(res.Need, a.priceTable)

	return &GroceryReport{
		List:          list,
		Need:          res.Need,
		Have:          res.Have,
		EstimatedCost: cost,
	}, nil
}

// ListPantry returns the current pantry inventory.
func (a *App) ListPantry(ctx context.Context) ([]pantry.Item, error) {
	return a.pantrySource.ListPantry(ctx)
}

// ClipToSlot extracts a meal entry from a recipe URL and appends it to the
// given date's slot without disturbing what is already planned there.
func (a *App) ClipToSlot(ctx context.Context, url, dateKey string, slot mealplan.MealSlot) (mealplan.PlannedItem, error) {
	item, err := a.recipeClip.ClipURL(ctx, url)
	if err != nil {
		return mealplan.PlannedItem{}, err
	}
	if err := a.store.AppendToMealSlot(ctx, dateKey, slot, item); err != nil {
		return mealplan.PlannedItem{}, fmt.Errorf("failed to append clipped item: %w", err)
	}
	return item, nil
}

// PrintWeeklyPlan writes a human-readable plan summary to stdout.
func (a *App) PrintWeeklyPlan(plan mealplan.AIWeeklyPlan, weekStart time.Time) {
	fmt.Println("\n=== WEEKLY MEAL PLAN ===")
	byDay := make(map[string][]mealplan.AIItem, len(plan.Meals))
	for _, dm := range plan.Meals {
		byDay[dm.Day] = dm.Items
	}
	for i := 0; i < 7; i++ {
		date := mealplan.AddDays(weekStart, i)
		fmt.Printf("%s (%s):\n", mealplan.Weekdays[i], mealplan.DateKey(date))
		items := byDay[mealplan.Weekdays[i]]
		if len(items) == 0 {
			fmt.Println("  (nothing planned)")
			continue
		}
		for pos, it := range items {
			if pos >= len(mealplan.Slots) {
				break
			}
			fmt.Printf("  % -10s %s\n", mealplan.Slots[pos]+":", it.Name)
		}
	}
}

// PrintGroceryReport writes a human-readable report to stdout.
func (a *App) PrintGroceryReport(rep *GroceryReport) {
	fmt.Println("\n=== GROCERY NEEDS ===")
	if len(rep.Need) == 0 {
		fmt.Println("Nothing to buy.")
	}
	for _, it := range rep.Need {
		fmt.Printf("- %s: %.0f g\n", it.Name, it.Grams)
	}

	if len(rep.Have) > 0 {
		fmt.Println("\n=== ALREADY IN PANTRY ===")
		for _, it := range rep.Have {
			fmt.Printf("- %s: %.0f g\n", it.Name, it.Grams)
		}
	}

	if len(rep.List.Missing) > 0 {
		fmt.Println("\n=== NO INGREDIENT BREAKDOWN ===")
		for _, m := range rep.List.Missing {
			fmt.Printf("- %s\n", m)
		}
	}

	fmt.Printf("\nEstimated cost: %.2f\n", rep.EstimatedCost)
}
