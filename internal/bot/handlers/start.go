package handlers

import (
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/keyboard"
	"github.com/faktbot/faktbot/internal/domain"
	"github.com/faktbot/faktbot/internal/i18n"
)

// NewStartHandler returns the /start command handler: a bilingual language
// picker. The user record is created only once a language is picked.
func NewStartHandler(kb *keyboard.Builder, locales *i18n.Manager, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			if log != nil {
				log.Warn("start handler invoked without sender")
			}
			return nil
		}

		t := locales.Translator(domain.DefaultLanguage)

		return c.Send(t.T("start.choose_language"), kb.LanguageMenu())
	}
}
