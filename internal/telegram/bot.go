package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"meal-planner/internal/config"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ShoppingService is the part of shopping.Service the bot drives.
type ShoppingService interface {
	Generate(ctx context.Context, start time.Time) (*shopping.ShoppingList, error)
	Toggle(ctx context.Context, start time.Time, itemID string, checked bool) error
	AddCustomItem(ctx context.Context, start time.Time, in shopping.CustomItemInput) (shopping.ShoppingItem, error)
	RemoveItem(ctx context.Context, start time.Time, itemID string) (bool, error)
	Prune(ctx context.Context, start time.Time) (int, error)
}

// Bot wraps the Telegram API and the shopping-list service.
type Bot struct {
	api          *tgbotapi.BotAPI
	shopping     ShoppingService
	metricsStore *metrics.Store
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, service ShoppingService, metricsStore *metrics.Store) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		shopping:     service,
		metricsStore: metricsStore,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the given mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
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

	if update.CallbackQuery != nil {
		if !b.isAllowed(update.CallbackQuery.From.ID) {
			return
		}
		go b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "list", "start":
		b.handleList(ctx, msg.Chat.ID, args)
	case "check", "uncheck":
		b.handleCheck(ctx, msg.Chat.ID, args, msg.Command() == "check")
	case "add":
		b.handleAdd(ctx, msg.Chat.ID, args)
	case "remove":
		b.handleRemove(ctx, msg.Chat.ID, args)
	case "prune":
		b.handlePrune(ctx, msg.Chat.ID, args)
	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.send(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
			return
		}
		b.handleMetricsCommand(msg.Chat.ID)
	default:
		b.send(msg.Chat.ID, helpText)
	}
}

const helpText = "🛒 *Shopping list commands*\n" +
	"/list `[YYYY-MM-DD]` show the week's list\n" +
	"/check `id`, /uncheck `id` tick or untick an item\n" +
	"/add `name; quantity; unit; category` add an item\n" +
	"/remove `id` remove an item\n" +
	"/prune `[YYYY-MM-DD]` forget checkmarks of dropped ingredients"

func (b *Bot) handleList(ctx context.Context, chatID int64, args string) {
	week, err := resolveWeek(args, time.Now())
	if err != nil {
		b.sendError(chatID, "Invalid week", err)
		return
	}

	list, err := b.shopping.Generate(ctx, week)
	if err != nil {
		log.Printf("Error generating shopping list: %v", err)
		b.sendError(chatID, "Error generating shopping list", err)
		return
	}

	reply := tgbotapi.NewMessage(chatID, formatShoppingListMarkdown(list))
	reply.ParseMode = "Markdown"
	if kb, ok := checklistKeyboard(list); ok {
		reply.ReplyMarkup = kb
	}
	if _, err := b.api.Send(reply); err != nil {
		log.Printf("Failed to send shopping list: %v", err)
	}
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64, args string, checked bool) {
	if args == "" {
		b.send(chatID, "Usage: /check `id`")
		return
	}
	week := planner.WeekStart(time.Now())
	if err := b.shopping.Toggle(ctx, week, args, checked); err != nil {
		b.sendError(chatID, "Error updating item", err)
		return
	}
	if checked {
		b.send(chatID, "✅ Checked.")
	} else {
		b.send(chatID, "↩️ Unchecked.")
	}
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) {
	week := planner.WeekStart(time.Now())
	in, err := parseAddArgs(args)
	if err != nil {
		b.sendError(chatID, "Usage: /add name; quantity; unit; category", err)
		return
	}

	item, err := b.shopping.AddCustomItem(ctx, week, in)
	if err != nil {
		b.sendError(chatID, "Error adding item", err)
		return
	}
	b.send(chatID, fmt.Sprintf("✅ Added *%s* to %s (`%s`)", item.Name, item.Category, item.ID))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.send(chatID, "Usage: /remove `id`")
		return
	}
	week := planner.WeekStart(time.Now())

	removed, err := b.shopping.RemoveItem(ctx, week, args)
	if err != nil {
		b.sendError(chatID, "Error removing item", err)
		return
	}
	if !removed {
		b.send(chatID, "🤷 No such item.")
		return
	}
	b.send(chatID, "🗑 Removed.")
}

func (b *Bot) handlePrune(ctx context.Context, chatID int64, args string) {
	week, err := resolveWeek(args, time.Now())
	if err != nil {
		b.sendError(chatID, "Invalid week", err)
		return
	}
	n, err := b.shopping.Prune(ctx, week)
	if err != nil {
		b.sendError(chatID, "Error pruning checkmarks", err)
		return
	}
	b.send(chatID, fmt.Sprintf("🧹 Pruned %d stale checkmarks.", n))
}

// handleCallbackQuery toggles an item from the inline checklist and redraws it.
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	week, itemID, checked, err := parseToggleData(query.Data)
	if err != nil {
		log.Printf("Ignoring callback %q: %v", query.Data, err)
		return
	}

	// Answer callback to remove spinner
	b.api.Request(tgbotapi.NewCallback(query.ID, ""))

	if err := b.shopping.Toggle(ctx, week, itemID, checked); err != nil {
		log.Printf("Error toggling %s: %v", itemID, err)
		b.sendError(query.Message.Chat.ID, "Error updating item", err)
		return
	}

	list, err := b.shopping.Generate(ctx, week)
	if err != nil {
		b.sendError(query.Message.Chat.ID, "Error generating shopping list", err)
		return
	}

	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, formatShoppingListMarkdown(list))
	edit.ParseMode = "Markdown"
	if kb, ok := checklistKeyboard(list); ok {
		edit.ReplyMarkup = &kb
	}
	b.api.Send(edit)
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.send(chatID, "❌ Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth("data")

	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Shopping List Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d lists, %d edits, %d failed (avg %.0fms)\n",
			d.Date, d.Generations, d.Mutations, d.Failures, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))

	b.send(chatID, sb.String())
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (b *Bot) sendError(chatID int64, title string, err error) {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.send(chatID, fmt.Sprintf("❌ *%s:*\n```\n%v\n```", title, safeErr))
}
