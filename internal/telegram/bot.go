package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mealweek/internal/app"
	"mealweek/internal/config"
	"mealweek/internal/mealplan"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API around the meal-planning flows.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{api: api, app: application, cfg: cfg}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}
	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/grocery"):
		b.handleGroceryRequest(msg)
	case strings.HasPrefix(text, "/pantry"):
		b.handlePantryRequest(msg)
	case strings.HasPrefix(text, "http://"), strings.HasPrefix(text, "https://"):
		b.handleClipperRequest(msg)
	default:
		b.handlePlannerRequest(msg)
	}
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	sentMsg, ok := b.sendStatus(msg.Chat.ID, "🧑‍🍳 *Thinking...* \n(Generating your weekly plan)")
	if !ok {
		return
	}

	ctx := context.Background()
	weekStart := mealplan.NextWeekStart(time.Now())

	plan, err := b.app.PlanWeek(ctx, msg.Text, weekStart)
	if err != nil {
		log.Printf("Error generating plan: %v", err)
		b.editStatus(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("❌ *Error generating plan:*\n```\n%v\n```", sanitize(err)))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *Week of %s planned!*\n", mealplan.DateKey(weekStart)))
	byDay := make(map[string][]mealplan.AIItem, len(plan.Meals))
	for _, dm := range plan.Meals {
		byDay[dm.Day] = dm.Items
	}
	for i, day := range mealplan.Weekdays {
		items := byDay[day]
		sb.WriteString(fmt.Sprintf("\n*%s %s*\n", day, mealplan.DateKey(mealplan.AddDays(weekStart, i))))
		if len(items) == 0 {
			sb.WriteString("_nothing planned_\n")
			continue
		}
		for pos, it := range items {
			if pos >= len(mealplan.Slots) {
				break
			}
			sb.WriteString(fmt.Sprintf("%s: %s\n", mealplan.Slots[pos], it.Name))
		}
	}
	b.editStatus(msg.Chat.ID, sentMsg.MessageID, sb.String())
}

func (b *Bot) handleGroceryRequest(msg *tgbotapi.Message) {
	days := 7
	fields := strings.Fields(msg.Text)
	if len(fields) > 1 {
		if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
			days = n
		}
	}

	rep, err := b.app.BuildGroceryReport(context.Background(), time.Now(), days)
	if err != nil {
		log.Printf("Error building grocery report: %v", err)
		b.sendStatus(msg.Chat.ID, fmt.Sprintf("❌ *Error:*\n```\n%v\n```", sanitize(err)))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Groceries for the next %d day(s)*\n", days))
	if len(rep.Need) == 0 {
		sb.WriteString("\nNothing to buy.\n")
	} else {
		sb.WriteString("\n*To buy:*\n")
		for _, it := range rep.Need {
			sb.WriteString(fmt.Sprintf("- %s: %.0f g\n", it.Name, it.Grams))
		}
	}
	if len(rep.Have) > 0 {
		sb.WriteString("\n*Covered by pantry:*\n")
		for _, it := range rep.Have {
			sb.WriteString(fmt.Sprintf("- %s: %.0f g\n", it.Name, it.Grams))
		}
	}
	if len(rep.List.Missing) > 0 {
		sb.WriteString("\n*No ingredient breakdown:*\n")
		for _, m := range rep.List.Missing {
			sb.WriteString(fmt.Sprintf("- %s\n", m))
		}
	}
	sb.WriteString(fmt.Sprintf("\nEstimated cost: *%.2f*", rep.EstimatedCost))
	b.sendStatus(msg.Chat.ID, sb.String())
}

func (b *Bot) handlePantryRequest(msg *tgbotapi.Message) {
	items, err := b.app.ListPantry(context.Background())
	if err != nil {
		log.Printf("Error listing pantry: %v", err)
		b.sendStatus(msg.Chat.ID, fmt.Sprintf("❌ *Error:*\n```\n%v\n```", sanitize(err)))
		return
	}

	if len(items) == 0 {
		b.sendStatus(msg.Chat.ID, "🥫 The pantry is empty.")
		return
	}

	var sb strings.Builder
	sb.WriteString("🥫 *Pantry*\n")
	for _, it := range items {
		switch {
		case it.Grams != nil:
			sb.WriteString(fmt.Sprintf("- %s: %.0f g\n", it.Name, *it.Grams))
		case it.Count != nil:
			sb.WriteString(fmt.Sprintf("- %s: %d %s\n", it.Name, *it.Count, it.Unit))
		default:
			sb.WriteString(fmt.Sprintf("- %s\n", it.Name))
		}
	}
	b.sendStatus(msg.Chat.ID, sb.String())
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	sentMsg, ok := b.sendStatus(msg.Chat.ID, "✂️ *Clipping recipe...* \n(Extracting and adding to today's snacks)")
	if !ok {
		return
	}

	today := mealplan.DateKey(time.Now())
	item, err := b.app.ClipToSlot(context.Background(), msg.Text, today, mealplan.SlotSnack)
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		b.editStatus(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", sanitize(err)))
		return
	}

	b.editStatus(msg.Chat.ID, sentMsg.MessageID,
		fmt.Sprintf("✅ *Added to %s (%s):* %s", mealplan.SlotSnack, today, item.Name))
}

func (b *Bot) sendStatus(chatID int64, text string) (tgbotapi.Message, bool) {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = "Markdown"
	sent, err := b.api.Send(reply)
	if err != nil {
		log.Printf("Failed to send reply: %v", err)
		return tgbotapi.Message{}, false
	}
	return sent, true
}

func (b *Bot) editStatus(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit reply: %v", err)
	}
}

func sanitize(err error) string {
	return strings.ReplaceAll(err.Error(), "`", "'")
}
