package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/keyboard"
	"github.com/faktbot/faktbot/internal/domain"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/repository"
)

// HandleSetLanguage returns the callback handler for the language picker.
// The preference is upserted: last pick wins.
func HandleSetLanguage(ledger repository.Ledger, locales *i18n.Manager, log *slog.Logger) CallbackHandler {
	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		data := ""
		if cb := c.Callback(); cb != nil {
			data = cb.Data
		}

		_, lang, err := keyboard.DecodeCallback(data)
		if err != nil || !domain.KnownLanguage(lang) {
			return respondCallback(c, "Unknown language option", true)
		}

		ctx := context.Background()
		if err := ledger.SetLanguage(ctx, c.Sender().ID, lang); err != nil {
			return err
		}

		if log != nil {
			log.Info("language set", slog.Int64("user_id", c.Sender().ID), slog.String("lang", lang))
		}

		t := locales.Translator(lang)

		if err := c.Send(t.T("start.ready"), keyboard.MainMenu(t)); err != nil {
			return err
		}

		return respondCallback(c, "", false)
	}
}

func respondCallback(c telebot.Context, text string, alert bool) error {
	if c == nil {
		return nil
	}
	return c.Respond(&telebot.CallbackResponse{
		Text:      text,
		ShowAlert: alert,
	})
}
