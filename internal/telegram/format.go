package telegram

import (
	"fmt"
	"strings"
	"time"

	"meal-planner/internal/planner"
	"meal-planner/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram limits an inline keyboard; longer lists are shown without buttons.
const maxKeyboardItems = 50

func formatShoppingListMarkdown(list *shopping.ShoppingList) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *Shopping List* (%s – %s)\n",
		planner.FormatDate(list.StartDate), planner.FormatDate(list.EndDate)))

	if len(list.Categories) == 0 {
		sb.WriteString("\n_Nothing planned for this week._\n")
		return sb.String()
	}

	for _, group := range list.Categories {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", group.Category))
		for _, item := range group.Items {
			mark := "▫️"
			if item.IsChecked {
				mark = "✅"
			}
			sb.WriteString(fmt.Sprintf("%s %s", mark, item.Name))
			if qty := formatQuantity(item); qty != "" {
				sb.WriteString(fmt.Sprintf(" - %s", qty))
			}
			if item.IsCustom {
				sb.WriteString(" _(added)_")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func formatQuantity(item shopping.ShoppingItem) string {
	return strings.TrimSpace(strings.TrimSpace(item.Quantity) + " " + item.Unit)
}

// checklistKeyboard builds one toggle button per item.
func checklistKeyboard(list *shopping.ShoppingList) (tgbotapi.InlineKeyboardMarkup, bool) {
	if list.ItemCount() == 0 || list.ItemCount() > maxKeyboardItems {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, group := range list.Categories {
		for _, item := range group.Items {
			label := "☐ " + item.Name
			if item.IsChecked {
				label = "☑ " + item.Name
			}
			data := toggleData(list.StartDate, item.ID, !item.IsChecked)
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
		}
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// toggleData encodes a toggle as "t|<week>|<0|1>|<id>"; it stays within
// Telegram's 64-byte callback limit for both id namespaces.
func toggleData(week time.Time, itemID string, checked bool) string {
	flag := "0"
	if checked {
		flag = "1"
	}
	return fmt.Sprintf("t|%s|%s|%s", planner.FormatDate(week), flag, itemID)
}

func parseToggleData(data string) (time.Time, string, bool, error) {
	parts := strings.SplitN(data, "|", 4)
	if len(parts) != 4 || parts[0] != "t" {
		return time.Time{}, "", false, fmt.Errorf("unknown callback data")
	}
	week, err := planner.ParseDate(parts[1])
	if err != nil {
		return time.Time{}, "", false, err
	}
	if parts[3] == "" {
		return time.Time{}, "", false, fmt.Errorf("missing item id")
	}
	return week, parts[3], parts[2] == "1", nil
}

// parseAddArgs reads "name; quantity; unit; category", where everything
// after the name is optional.
func parseAddArgs(args string) (shopping.CustomItemInput, error) {
	parts := strings.Split(args, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 0 || parts[0] == "" {
		return shopping.CustomItemInput{}, fmt.Errorf("item name is required")
	}
	if len(parts) > 4 {
		return shopping.CustomItemInput{}, fmt.Errorf("too many fields")
	}

	in := shopping.CustomItemInput{Name: parts[0]}
	if len(parts) > 1 {
		in.Quantity = parts[1]
	}
	if len(parts) > 2 {
		in.Unit = parts[2]
	}
	if len(parts) > 3 && parts[3] != "" {
		c, err := shopping.ParseCategory(parts[3])
		if err != nil {
			return shopping.CustomItemInput{}, err
		}
		in.Category = c
	}
	return in, nil
}

// resolveWeek returns the week named by args, or the current week.
func resolveWeek(args string, now time.Time) (time.Time, error) {
	if args == "" {
		return planner.WeekStart(now), nil
	}
	return planner.ParseDate(args)
}
