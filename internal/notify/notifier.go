// Package notify delivers best-effort messages to employees: broadcast
// mailings with attachments, new-content announcements from the outbox, and
// daily quiz reminders. Failures are logged and dropped, never escalated.
package notify

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Notifier is fire-and-forget plain-text delivery. No retry, no delivery
// confirmation.
type Notifier interface {
	Notify(ctx context.Context, chatIDs []int64, text string)
}

type TelegramNotifier struct {
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

func NewTelegramNotifier(api *tgbotapi.BotAPI, perSecond float64) *TelegramNotifier {
	return &TelegramNotifier{api: api, limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}
}

func (n *TelegramNotifier) Notify(ctx context.Context, chatIDs []int64, text string) {
	for _, id := range chatIDs {
		if err := n.limiter.Wait(ctx); err != nil {
			return
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(id, text)); err != nil {
			slog.Warn("notify failed", "chat_id", id, "err", err)
		}
	}
}
