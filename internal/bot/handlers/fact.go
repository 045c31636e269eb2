package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/keyboard"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/facts"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/render"
	"github.com/faktbot/faktbot/internal/repository"
	"github.com/faktbot/faktbot/pkg/logger"
)

// interactionTimeout bounds one fact or quiz interaction end to end, so a
// stalled upstream cannot hang the update forever.
const interactionTimeout = 30 * time.Second

// NewFactHandler returns the /fact handler: acquire a novel fact, render it
// onto a card, send the photo, drop the placeholder.
func NewFactHandler(
	acquirer *facts.Acquirer,
	renderer *render.Renderer,
	ledger repository.Ledger,
	kb *keyboard.Builder,
	locales *i18n.Manager,
	log *slog.Logger,
) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil || c.Sender() == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(logger.WithCorrelationID(context.Background()), interactionTimeout)
		defer cancel()

		userID := c.Sender().ID

		lang, err := ledger.Language(ctx, userID)
		if err != nil {
			return apperrors.NewLedgerError(err)
		}
		t := locales.Translator(lang)

		waitMsg, err := c.Bot().Send(c.Recipient(), t.T("fact.generating"))
		if err != nil {
			log.Warn("failed to send placeholder", slog.Int64("user_id", userID), slog.Any("error", err))
		}

		text, err := acquirer.AcquireUnique(ctx, userID, lang)
		if err != nil {
			return err
		}

		img, err := renderer.Render(text, render.ModePlain)
		if err != nil {
			return apperrors.NewRenderError(err)
		}

		photo := &telebot.Photo{
			File:    telebot.FromReader(bytes.NewReader(img)),
			Caption: text,
		}

		if err := c.Send(photo, kb.ShareButton(t, text)); err != nil {
			return err
		}

		if waitMsg != nil {
			if delErr := c.Bot().Delete(waitMsg); delErr != nil {
				log.Debug("failed to delete placeholder", slog.Any("error", delErr))
			}
		}

		return nil
	}
}
