package keyboard

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/quiz"
)

// Callback uniques handled by the router.
const (
	CallbackSetLanguage = "setlang"
	CallbackQuizAnswer  = quiz.CallbackUnique
)

// Builder creates inline keyboards for the bot's interactions.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{log: log}
}

// LanguageMenu builds the /start language picker.
func (b *Builder) LanguageMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: "Русский 🇷🇺",
				Data: b.encode(CallbackSetLanguage, "ru"),
			},
			{
				Text: "English 🇺🇸",
				Data: b.encode(CallbackSetLanguage, "en"),
			},
		},
	}
	return markup
}

// QuizAnswers builds the two answer buttons for a round. Each button's
// payload carries the round's ground truth plus that button's choice, which
// is the entire verification token.
func (b *Builder) QuizAnswers(t i18n.Translator, isTrueFact bool) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text: t.T("quiz.answer_true"),
				Data: b.encode(CallbackQuizAnswer, quiz.EncodeAnswerData(isTrueFact, true)),
			},
			{
				Text: t.T("quiz.answer_false"),
				Data: b.encode(CallbackQuizAnswer, quiz.EncodeAnswerData(isTrueFact, false)),
			},
		},
	}
	return markup
}

// ShareButton builds a single switch-inline-query button for forwarding text.
func (b *Builder) ShareButton(t i18n.Translator, query string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			{
				Text:        t.T("fact.share"),
				InlineQuery: query,
			},
		},
	}
	return markup
}

func (b *Builder) encode(unique, data string) string {
	payload, err := EncodeCallback(unique, data)
	if err != nil {
		b.log.Error("failed to encode callback data",
			slog.String("unique", unique),
			slog.String("data", data),
			slog.Any("error", err),
		)
		return unique
	}

	return payload
}
