package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/welcomedesk/welcomedesk/internal/hr"
	"github.com/welcomedesk/welcomedesk/internal/quiz"
)

// Callback data prefixes. Payload format is "<prefix>:<id>".
const (
	cbDocument  = "doc"
	cbQuiz      = "quiz"
	cbAnswer    = "ans"
	cbAbout     = "about"
	cbAboutBack = "about:back"
)

func callbackData(prefix string, id int64) string {
	return fmt.Sprintf("%s:%d", prefix, id)
}

func parseCallback(data string) (prefix string, id int64, ok bool) {
	i := strings.LastIndexByte(data, ':')
	if i < 0 {
		return "", 0, false
	}
	id, err := strconv.ParseInt(data[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return data[:i], id, true
}

var mainMenuKeyboard = tgbotapi.NewReplyKeyboard(
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnDocuments),
		tgbotapi.NewKeyboardButton(btnQuizzes),
	),
	tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnAbout),
		tgbotapi.NewKeyboardButton(btnHelp),
	),
)

func documentsKeyboard(docs []hr.Document) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(d.Title, callbackData(cbDocument, d.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func quizzesKeyboard(statuses []quiz.QuizStatus) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(statuses))
	for _, st := range statuses {
		mark := textQuizOpenMark
		if st.Taken {
			mark = textQuizTakenMark
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s - %s", st.Quiz.Title, mark),
				callbackData(cbQuiz, st.Quiz.ID),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func answersKeyboard(answers []hr.Answer) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(a.Text, callbackData(cbAnswer, a.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func aboutKeyboard(sections []hr.AboutSection) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(sections))
	for _, s := range sections {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(s.Title, callbackData(cbAbout, s.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func backToAboutKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(textBackToAbout, cbAboutBack),
		),
	)
}

func helpKeyboard(buttons []hr.HelpButton) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
