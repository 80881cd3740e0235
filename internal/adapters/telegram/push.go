// Package telegram delivers notifications over the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/example/brigadir/internal/models"
	"github.com/example/brigadir/internal/ports/secondary"
)

// Telegram caps a single inline keyboard row; we cap the whole keyboard at
// three action buttons so critical choices stay above the fold on mobile.
const maxActionButtons = 3

// callbackPrefix tags action callbacks so the update handler can route them.
const callbackPrefix = "act"

// sender is the slice of tgbotapi.BotAPI the channel needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// PushChannel implements secondary.PushChannel over a Telegram bot.
type PushChannel struct {
	bot        sender
	miniAppURL string
	logger     *zap.Logger
}

// NewPushChannel connects to the Bot API with the given token.
func NewPushChannel(token, miniAppURL string, logger *zap.Logger) (*PushChannel, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	logger.Info("telegram bot connected", zap.String("username", bot.Self.UserName))
	return &PushChannel{bot: bot, miniAppURL: miniAppURL, logger: logger}, nil
}

// NewPushChannelWithSender wires an existing sender (used by tests).
func NewPushChannelWithSender(bot sender, miniAppURL string, logger *zap.Logger) *PushChannel {
	return &PushChannel{bot: bot, miniAppURL: miniAppURL, logger: logger}
}

// Deliver sends one notification to a chat. Low and normal priority messages
// go silent so phones only buzz for high and critical ones.
func (p *PushChannel) Deliver(ctx context.Context, chatID int64, n *models.Notification) error {
	msg := tgbotapi.NewMessage(chatID, formatMessage(n))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableNotification = n.Priority == models.PriorityLow || n.Priority == models.PriorityNormal

	if kb, ok := p.buildKeyboard(n); ok {
		msg.ReplyMarkup = kb
	}

	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to deliver to chat %d: %w", chatID, err)
	}
	return nil
}

// buildKeyboard assembles the inline keyboard: up to three action buttons in
// one row, plus an open-in-app link row when a deep link is available.
func (p *PushChannel) buildKeyboard(n *models.Notification) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton

	if n.IsActionable && len(n.Actions) > 0 {
		actions := n.Actions
		if len(actions) > maxActionButtons {
			actions = actions[:maxActionButtons]
		}
		var row []tgbotapi.InlineKeyboardButton
		for _, a := range actions {
			data := strings.Join([]string{callbackPrefix, n.ID, a.Key}, ":")
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(a.Label, data))
		}
		rows = append(rows, row)
	}

	if p.miniAppURL != "" && n.DeepLink.Valid {
		url := strings.TrimSuffix(p.miniAppURL, "/") + n.DeepLink.String
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📱 Открыть в приложении", url)))
	}

	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}

// ParseCallback splits an inline button payload back into notification ID and
// action key. Returns false for payloads this channel did not produce.
func ParseCallback(data string) (notificationID, actionKey string, ok bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != callbackPrefix {
		return "", "", false
	}
	return parts[1], parts[2], true
}

func formatMessage(n *models.Notification) string {
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(escapeHTML(n.Title))
	b.WriteString("</b>\n\n")
	b.WriteString(escapeHTML(n.Body))
	if n.ObjectName.Valid {
		b.WriteString("\n\n🏗 ")
		b.WriteString(escapeHTML(n.ObjectName.String))
	}
	return b.String()
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// Ensure PushChannel implements the interface
var _ secondary.PushChannel = (*PushChannel)(nil)
