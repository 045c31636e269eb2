package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/keyboard"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/repository"
)

// NewHelpHandler returns the /help command handler, localized to the user's
// stored preference.
func NewHelpHandler(ledger repository.Ledger, locales *i18n.Manager, log *slog.Logger) Handler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		lang, err := ledger.Language(context.Background(), c.Sender().ID)
		if err != nil {
			if log != nil {
				log.Warn("failed to load language, using default", slog.Any("error", err))
			}
			lang = ""
		}

		t := locales.Translator(lang)

		return c.Send(t.T("help.text"), keyboard.MainMenu(t))
	}
}
