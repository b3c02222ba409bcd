package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

// GateStore resolves chat identities to employees.
type GateStore interface {
	GetEmployee(ctx context.Context, id int64) (hr.Employee, error)
	CreateEmployee(ctx context.Context, e hr.Employee) error
}

// resolveEmployee is the access gate in front of every handler. Unknown
// users are registered inactive and told to wait for HR approval; inactive
// users are held at the door. Only an active employee reaches a handler.
func (b *Bot) resolveEmployee(ctx context.Context, from *tgbotapi.User, callbackID string) (hr.Employee, bool) {
	if from == nil {
		return hr.Employee{}, false
	}
	emp, err := b.store.GetEmployee(ctx, from.ID)
	if errors.Is(err, hr.ErrNotFound) {
		emp = hr.Employee{
			ID:        from.ID,
			Username:  from.UserName,
			FirstName: from.FirstName,
			LastName:  from.LastName,
		}
		if err := b.store.CreateEmployee(ctx, emp); err != nil {
			slog.Error("employee auto-register failed", "chat_id", from.ID, "err", err)
			return hr.Employee{}, false
		}
		b.reply(from.ID, callbackID, textRegistered)
		return hr.Employee{}, false
	}
	if err != nil {
		slog.Error("employee lookup failed", "chat_id", from.ID, "err", err)
		return hr.Employee{}, false
	}
	if !emp.IsActive {
		b.reply(from.ID, callbackID, textPendingApprove)
		return hr.Employee{}, false
	}
	return emp, true
}

// reply answers in whatever shape the event arrived: an alert for callback
// queries, a plain message otherwise.
func (b *Bot) reply(chatID int64, callbackID, text string) {
	if callbackID != "" {
		b.answerCallback(callbackID, text, true)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}
