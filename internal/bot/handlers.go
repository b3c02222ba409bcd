package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/welcomedesk/welcomedesk/internal/hr"
)

func (b *Bot) handleStart(emp hr.Employee) {
	name := emp.FirstName
	if name == "" {
		name = emp.Username
	}
	msg := tgbotapi.NewMessage(emp.ID, fmt.Sprintf(textGreeting, name))
	msg.ReplyMarkup = mainMenuKeyboard
	b.send(msg)
}

func (b *Bot) handleDocuments(ctx context.Context, emp hr.Employee) {
	if emp.DepartmentID == nil {
		b.send(tgbotapi.NewMessage(emp.ID, textNoDepartment))
		return
	}
	docs, err := b.store.DocumentsByDepartment(ctx, *emp.DepartmentID)
	if err != nil {
		b.sendError(emp.ID, err)
		return
	}
	if len(docs) == 0 {
		b.send(tgbotapi.NewMessage(emp.ID, textNoDocuments))
		return
	}
	msg := tgbotapi.NewMessage(emp.ID, textDocumentsList)
	msg.ReplyMarkup = documentsKeyboard(docs)
	b.send(msg)
}

func (b *Bot) handleDocumentPress(ctx context.Context, emp hr.Employee, cb *tgbotapi.CallbackQuery, docID int64) {
	doc, err := b.store.GetDocument(ctx, docID)
	if errors.Is(err, hr.ErrNotFound) {
		b.answerCallback(cb.ID, textDocDeleted, true)
		return
	}
	if err != nil {
		b.answerCallback(cb.ID, textDocDeleted, true)
		return
	}
	rc, err := b.blobs.Get(doc.FileKey)
	if err != nil {
		b.answerCallback(cb.ID, textDocFileLost, true)
		return
	}
	defer rc.Close()

	cfg := tgbotapi.NewDocument(emp.ID, tgbotapi.FileReader{Name: path.Base(doc.FileKey), Reader: rc})
	cfg.Caption = doc.Description
	b.send(cfg)
	b.answerCallback(cb.ID, "", false)
}

func (b *Bot) handleAbout(ctx context.Context, emp hr.Employee) {
	sections, err := b.store.AboutSections(ctx)
	if err != nil {
		b.sendError(emp.ID, err)
		return
	}
	if len(sections) == 0 {
		b.send(tgbotapi.NewMessage(emp.ID, textNoAbout))
		return
	}
	msg := tgbotapi.NewMessage(emp.ID, textPickSection)
	msg.ReplyMarkup = aboutKeyboard(sections)
	b.send(msg)
}

func (b *Bot) handleAboutPress(ctx context.Context, cb *tgbotapi.CallbackQuery, sectionID int64) {
	section, err := b.store.GetAboutSection(ctx, sectionID)
	if errors.Is(err, hr.ErrNotFound) {
		b.answerCallback(cb.ID, textSectionGone, true)
		b.handleAboutBack(ctx, cb)
		return
	}
	if err != nil {
		b.answerCallback(cb.ID, textSectionGone, true)
		return
	}
	edit := tgbotapi.NewEditMessageText(
		cb.Message.Chat.ID, cb.Message.MessageID,
		fmt.Sprintf("🏢 *%s*\n\n%s", section.Title, section.Text),
	)
	edit.ParseMode = tgbotapi.ModeMarkdown
	kb := backToAboutKeyboard()
	edit.ReplyMarkup = &kb
	b.send(edit)
	b.answerCallback(cb.ID, "", false)
}

func (b *Bot) handleAboutBack(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	sections, err := b.store.AboutSections(ctx)
	if err != nil {
		b.answerCallback(cb.ID, "", false)
		return
	}
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, textPickSection)
	kb := aboutKeyboard(sections)
	edit.ReplyMarkup = &kb
	b.send(edit)
	b.answerCallback(cb.ID, "", false)
}

func (b *Bot) handleHelp(ctx context.Context, emp hr.Employee) {
	help, err := b.store.HelpContent(ctx)
	if err != nil {
		b.sendError(emp.ID, err)
		return
	}
	text := help.Text
	if text == "" {
		text = textHelpFallback
	}
	msg := tgbotapi.NewMessage(emp.ID, text)
	if len(help.Buttons) > 0 {
		msg.ReplyMarkup = helpKeyboard(help.Buttons)
	}
	b.send(msg)
}

func (b *Bot) sendError(chatID int64, err error) {
	// infra failures surface as a generic apology; details go to the log
	slog.Error("handler failed", "chat_id", chatID, "err", err)
	b.send(tgbotapi.NewMessage(chatID, "Что-то пошло не так. Попробуйте позже."))
}
