// Package bot is the employee-facing Telegram surface: a long-polling
// update loop behind the access gate, menu handlers over the content store
// and the quiz flow driven by the session engine.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/quiz"
	"github.com/welcomedesk/welcomedesk/internal/storage"
)

// sender is the slice of tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// ContentStore is what the menus read.
type ContentStore interface {
	GateStore
	DocumentsByDepartment(ctx context.Context, departmentID int64) ([]hr.Document, error)
	GetDocument(ctx context.Context, id int64) (hr.Document, error)
	AboutSections(ctx context.Context) ([]hr.AboutSection, error)
	GetAboutSection(ctx context.Context, id int64) (hr.AboutSection, error)
	HelpContent(ctx context.Context) (hr.HelpContent, error)
}

type Bot struct {
	tg     *tgbotapi.BotAPI
	api    sender
	store  ContentStore
	engine *quiz.Engine
	blobs  storage.BlobStore
}

func New(tg *tgbotapi.BotAPI, store ContentStore, engine *quiz.Engine, blobs storage.BlobStore) *Bot {
	return &Bot{tg: tg, api: tg, store: store, engine: engine, blobs: blobs}
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	slog.Info("bot authorised", "username", b.tg.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.tg.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	emp, ok := b.resolveEmployee(ctx, msg.From, "")
	if !ok {
		return
	}
	switch {
	case msg.IsCommand() && msg.Command() == "start":
		b.handleStart(emp)
	case msg.Text == btnDocuments:
		b.handleDocuments(ctx, emp)
	case msg.Text == btnQuizzes:
		b.handleQuizzes(ctx, emp)
	case msg.Text == btnAbout:
		b.handleAbout(ctx, emp)
	case msg.Text == btnHelp:
		b.handleHelp(ctx, emp)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	emp, ok := b.resolveEmployee(ctx, cb.From, cb.ID)
	if !ok {
		return
	}
	if cb.Data == cbAboutBack {
		b.handleAboutBack(ctx, cb)
		return
	}
	prefix, id, ok := parseCallback(cb.Data)
	if !ok {
		b.answerCallback(cb.ID, "", false)
		return
	}
	switch prefix {
	case cbDocument:
		b.handleDocumentPress(ctx, emp, cb, id)
	case cbQuiz:
		b.handleQuizPress(ctx, emp, cb, id)
	case cbAnswer:
		b.handleAnswerPress(ctx, emp, cb, id)
	case cbAbout:
		b.handleAboutPress(ctx, cb, id)
	default:
		b.answerCallback(cb.ID, "", false)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		slog.Warn("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(id, text string, alert bool) {
	cfg := tgbotapi.NewCallback(id, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(cfg); err != nil {
		slog.Warn("callback answer failed", "err", err)
	}
}
