package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the configuration for the application.
type Config struct {
	DBPath string

	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string

	// Household defaults interpolated into planning prompts.
	DefaultAdults   int
	DefaultChildren int
	PlanNotes       string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables. LLM
// and Telegram keys are optional here; the entry points that need them
// check for their presence.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("MEALWEEK_DB_PATH")
	if dbPath == "" {
		dbPath = "data/mealweek.db"
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash"
	}

	adults, err := envInt("MEALWEEK_ADULTS", 2)
	if err != nil {
		return nil, err
	}
	children, err := envInt("MEALWEEK_CHILDREN", 0)
	if err != nil {
		return nil, err
	}

	var allowedIDs []int64
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	return &Config{
		DBPath:                 dbPath,
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModel:            geminiModel,
		GroqAPIKey:             os.Getenv("GROQ_API_KEY"),
		DefaultAdults:          adults,
		DefaultChildren:        children,
		PlanNotes:              os.Getenv("MEALWEEK_PLAN_NOTES"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
	}, nil
}

// RequireLLM verifies that at least one text-generation backend is
// configured.
func (c *Config) RequireLLM() error {
	if c.GeminiAPIKey == "" && c.GroqAPIKey == "" {
		return fmt.Errorf("neither GEMINI_API_KEY nor GROQ_API_KEY is set")
	}
	return nil
}

// RequireTelegram verifies the settings the bot entry point needs.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, raw, err)
	}
	return v, nil
}
