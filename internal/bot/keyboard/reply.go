package keyboard

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/i18n"
)

// MainMenu builds the localized reply keyboard with the fact and quiz buttons.
func MainMenu(t i18n.Translator) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: false,
	}

	lookup := func(key string) string {
		if t == nil {
			return key
		}
		return t.T(key)
	}

	factBtn := markup.Text(lookup("menu.fact"))
	quizBtn := markup.Text(lookup("menu.quiz"))

	markup.Reply(
		markup.Row(factBtn, quizBtn),
	)

	return markup
}
