package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"mealweek/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Telegram not configured: %v", err)
	}
	if err := cfg.RequireLLM(); err != nil {
		log.Fatalf("No model backend configured: %v", err)
	}

	ctx := context.Background()

	var textGen llm.TextGenerator
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	} else {
		textGen = llm.NewGroqClient(cfg)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := mealplan.NewPlanRepository(db.SQL)
	pantryRepo := pantry.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	application := app.NewApp(
		planRepo,
		pantryRepo,
		planner.NewPlanner(textGen),
		clipper.NewClipper(textGen),
		metricsStore,
		pricing.DefaultTable,
		cfg,
	)

	bot, err := telegram.NewBot(cfg, application)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
