package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/quiz"
)

func (b *Bot) handleQuizzes(ctx context.Context, emp hr.Employee) {
	statuses, err := b.engine.Overview(ctx, emp)
	if errors.Is(err, quiz.ErrNoDepartment) {
		b.send(tgbotapi.NewMessage(emp.ID, textNoDepartment))
		return
	}
	if err != nil {
		b.sendError(emp.ID, err)
		return
	}
	if len(statuses) == 0 {
		b.send(tgbotapi.NewMessage(emp.ID, textNoQuizzes))
		return
	}
	msg := tgbotapi.NewMessage(emp.ID, textQuizzesList)
	msg.ReplyMarkup = quizzesKeyboard(statuses)
	b.send(msg)
}

func (b *Bot) handleQuizPress(ctx context.Context, emp hr.Employee, cb *tgbotapi.CallbackQuery, quizID int64) {
	prompt, err := b.engine.Start(ctx, emp, quizID)
	switch {
	case errors.Is(err, quiz.ErrNoDepartment):
		b.answerCallback(cb.ID, textNoDepartment, true)
		return
	case errors.Is(err, quiz.ErrAlreadyTaken):
		b.answerCallback(cb.ID, textQuizTaken, true)
		return
	case errors.Is(err, quiz.ErrEmptyQuiz):
		b.answerCallback(cb.ID, textQuizEmpty, true)
		return
	case errors.Is(err, quiz.ErrQuizNotAvailable):
		b.answerCallback(cb.ID, textQuizGone, true)
		return
	case errors.Is(err, quiz.ErrQuizChanged):
		b.answerCallback(cb.ID, textQuizChanged, true)
		return
	case err != nil:
		b.answerCallback(cb.ID, "", false)
		b.sendError(emp.ID, err)
		return
	}
	b.answerCallback(cb.ID, "", false)
	b.sendPrompt(emp.ID, prompt)
}

func (b *Bot) handleAnswerPress(ctx context.Context, emp hr.Employee, cb *tgbotapi.CallbackQuery, answerID int64) {
	prompt, summary, err := b.engine.Answer(ctx, emp, answerID)
	switch {
	case errors.Is(err, quiz.ErrNoSession):
		// answer control from a dead session; nothing to do
		b.answerCallback(cb.ID, "", false)
		return
	case errors.Is(err, quiz.ErrAnswerMismatch):
		b.answerCallback(cb.ID, "", false)
		return
	case errors.Is(err, quiz.ErrQuizChanged):
		b.answerCallback(cb.ID, textQuizChanged, true)
		return
	case errors.Is(err, quiz.ErrAlreadyTaken):
		b.answerCallback(cb.ID, textQuizTaken, true)
		return
	case errors.Is(err, quiz.ErrNotSaved):
		b.answerCallback(cb.ID, "", false)
		b.send(tgbotapi.NewMessage(emp.ID, textQuizNotSaved))
		return
	case err != nil:
		b.answerCallback(cb.ID, "", false)
		b.sendError(emp.ID, err)
		return
	}

	// drop the answered question message so only the current one shows
	if cb.Message != nil {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(cb.Message.Chat.ID, cb.Message.MessageID)); err != nil {
			slog.Warn("delete message failed", "err", err)
		}
	}
	b.answerCallback(cb.ID, "", false)

	if summary != nil {
		b.send(tgbotapi.NewMessage(emp.ID, fmt.Sprintf(textQuizFinished, summary.Score, summary.Total)))
		return
	}
	b.sendPrompt(emp.ID, *prompt)
}

func (b *Bot) sendPrompt(chatID int64, p quiz.Prompt) {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(textQuestion, p.Number, p.Total, p.Question.Text))
	msg.ReplyMarkup = answersKeyboard(p.Answers)
	b.send(msg)
}
