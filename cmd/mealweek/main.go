package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

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
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := mealplan.NewPlanRepository(db.SQL)
	pantryRepo := pantry.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		week := planCmd.String("week", "", "Week start date (YYYY-MM-DD, a Sunday); defaults to next Sunday")
		request := planCmd.String("request", "a balanced week of family meals", "What kind of week to plan")
		planCmd.Parse(os.Args[2:])

		if err := cfg.RequireLLM(); err != nil {
			log.Fatalf("Planning needs a model backend: %v", err)
		}

		weekStart := mealplan.NextWeekStart(time.Now())
		if *week != "" {
			weekStart, err = mealplan.ParseDateKey(*week)
			if err != nil {
				log.Fatalf("Invalid -week: %v", err)
			}
		}

		textGen, closeFn := newTextGenerator(ctx, cfg)
		defer closeFn()

		application := newApp(cfg, planRepo, pantryRepo, metricsStore, textGen)
		plan, err := application.PlanWeek(ctx, *request, weekStart)
		if err != nil {
			log.Fatalf("Planning failed: %v", err)
		}
		application.PrintWeeklyPlan(plan, weekStart)

	case "grocery":
		groceryCmd := flag.NewFlagSet("grocery", flag.ExitOnError)
		start := groceryCmd.String("start", "", "First date to scan (YYYY-MM-DD); defaults to today")
		days := groceryCmd.Int("days", 7, "Number of consecutive days to scan")
		groceryCmd.Parse(os.Args[2:])

		from := time.Now()
		if *start != "" {
			from, err = mealplan.ParseDateKey(*start)
			if err != nil {
				log.Fatalf("Invalid -start: %v", err)
			}
		}

		application := newApp(cfg, planRepo, pantryRepo, metricsStore, nil)
		rep, err := application.BuildGroceryReport(ctx, from, *days)
		if err != nil {
			log.Fatalf("Grocery report failed: %v", err)
		}
		application.PrintGroceryReport(rep)

	case "pantry":
		runPantryCommand(ctx, pantryRepo, os.Args[2:])

	case "clip":
		clipCmd := flag.NewFlagSet("clip", flag.ExitOnError)
		url := clipCmd.String("url", "", "Recipe page URL")
		date := clipCmd.String("date", mealplan.DateKey(time.Now()), "Target date (YYYY-MM-DD)")
		slot := clipCmd.String("slot", string(mealplan.SlotSnack), "Target slot (breakfast|lunch|dinner|snack)")
		clipCmd.Parse(os.Args[2:])

		if *url == "" {
			log.Fatal("clip requires -url")
		}
		if err := cfg.RequireLLM(); err != nil {
			log.Fatalf("Clipping needs a model backend: %v", err)
		}

		textGen, closeFn := newTextGenerator(ctx, cfg)
		defer closeFn()

		application := newApp(cfg, planRepo, pantryRepo, metricsStore, textGen)
		item, err := application.ClipToSlot(ctx, *url, *date, mealplan.MealSlot(*slot))
		if err != nil {
			log.Fatalf("Clip failed: %v", err)
		}
		fmt.Printf("Added %q to %s %s\n", item.Name, *date, *slot)

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPantryCommand(ctx context.Context, repo *pantry.Repository, args []string) {
	if len(args) < 1 {
		log.Fatal("pantry requires a subcommand: list | add | remove")
	}

	switch args[0] {
	case "list":
		items, err := repo.ListPantry(ctx)
		if err != nil {
			log.Fatalf("Failed to list pantry: %v", err)
		}
		if len(items) == 0 {
			fmt.Println("The pantry is empty.")
			return
		}
		for _, it := range items {
			switch {
			case it.Grams != nil:
				fmt.Printf("%s  %s: %.0f g\n", it.ID, it.Name, *it.Grams)
			case it.Count != nil:
				fmt.Printf("%s  %s: %d %s\n", it.ID, it.Name, *it.Count, it.Unit)
			default:
				fmt.Printf("%s  %s\n", it.ID, it.Name)
			}
		}

	case "add":
		addCmd := flag.NewFlagSet("pantry add", flag.ExitOnError)
		name := addCmd.String("name", "", "Item name")
		grams := addCmd.Float64("grams", -1, "Quantity in grams")
		count := addCmd.Int("count", -1, "Quantity as a count")
		unit := addCmd.String("unit", "", "Unit label for counted items")
		addCmd.Parse(args[1:])

		if *name == "" {
			log.Fatal("pantry add requires -name")
		}

		item := pantry.Item{Name: *name, Unit: *unit}
		if *grams >= 0 {
			item.Grams = grams
		}
		if *count >= 0 {
			item.Count = count
		}

		saved, err := repo.Upsert(ctx, item)
		if err != nil {
			log.Fatalf("Failed to add pantry item: %v", err)
		}
		fmt.Printf("Added %q (id %s)\n", saved.Name, saved.ID)

	case "remove":
		removeCmd := flag.NewFlagSet("pantry remove", flag.ExitOnError)
		id := removeCmd.String("id", "", "Item id to remove")
		removeCmd.Parse(args[1:])

		if *id == "" {
			log.Fatal("pantry remove requires -id")
		}
		if err := repo.Delete(ctx, *id); err != nil {
			log.Fatalf("Failed to remove pantry item: %v", err)
		}
		fmt.Println("Removed.")

	default:
		log.Fatalf("Unknown pantry subcommand: %s", args[0])
	}
}

func newTextGenerator(ctx context.Context, cfg *config.Config) (llm.TextGenerator, func()) {
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		return geminiClient, func() { geminiClient.Close() }
	}
	return llm.NewGroqClient(cfg), func() {}
}

func newApp(
	cfg *config.Config,
	planRepo *mealplan.PlanRepository,
	pantryRepo *pantry.Repository,
	metricsStore *metrics.Store,
	textGen llm.TextGenerator,
) *app.App {
	var mealPlanner *planner.Planner
	var recipeClip *clipper.Clipper
	if textGen != nil {
		mealPlanner = planner.NewPlanner(textGen)
		recipeClip = clipper.NewClipper(textGen)
	}
	return app.NewApp(planRepo, pantryRepo, mealPlanner, recipeClip, metricsStore, pricing.DefaultTable, cfg)
}

func printUsage() {
	fmt.Println("Usage: mealweek <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan              Generate a weekly plan and write it onto calendar dates")
	fmt.Println("  grocery           Aggregate grocery needs, net against pantry, estimate cost")
	fmt.Println("  pantry            Manage pantry inventory (list | add | remove)")
	fmt.Println("  clip              Extract a meal from a recipe URL into a slot")
	fmt.Println("  metrics-cleanup   Remove old metric records")
}
