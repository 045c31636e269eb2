package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/faktbot/faktbot/internal/bot/keyboard"
	apperrors "github.com/faktbot/faktbot/internal/errors"
	"github.com/faktbot/faktbot/internal/domain"
	"github.com/faktbot/faktbot/internal/i18n"
	"github.com/faktbot/faktbot/internal/quiz"
	"github.com/faktbot/faktbot/internal/render"
	"github.com/faktbot/faktbot/pkg/logger"
)

// NewQuizHandler returns the /quiz handler. A round is presented as a photo
// whose answer buttons carry the verification token; nothing about the round
// is stored.
func NewQuizHandler(
	factory *quiz.RoundFactory,
	renderer *render.Renderer,
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

		round, err := factory.NewRound(ctx, c.Sender().ID)
		if err != nil {
			return err
		}

		img, err := renderer.Render(round.DisplayedText, render.ModeQuiz)
		if err != nil {
			return apperrors.NewRenderError(err)
		}

		t := locales.Translator(domain.LangRU)

		photo := &telebot.Photo{
			File:    telebot.FromReader(bytes.NewReader(img)),
			Caption: t.T("quiz.caption"),
		}

		return c.Send(photo, kb.QuizAnswers(t, round.IsTrueFact))
	}
}

// HandleQuizAnswer resolves a round from its token alone. Replays recompute
// the same outcome; a caption edit that changes nothing is not an error.
func HandleQuizAnswer(kb *keyboard.Builder, locales *i18n.Manager, log *slog.Logger) CallbackHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c == nil {
			return nil
		}

		cb := c.Callback()
		if cb == nil {
			return nil
		}

		_, payload, err := keyboard.DecodeCallback(cb.Data)
		if err != nil {
			return apperrors.NewTokenError("empty quiz callback")
		}

		answer, err := quiz.DecodeAnswerData(payload)
		if err != nil {
			return err
		}

		outcome := quiz.Resolve(answer)

		t := locales.Translator(domain.LangRU)

		resultKey := "quiz.incorrect"
		if outcome.Correct {
			resultKey = "quiz.correct"
		}
		disclosureKey := "quiz.was_myth"
		if outcome.WasTrueFact {
			disclosureKey = "quiz.was_fact"
		}

		caption := t.T(resultKey) + "\n\n" + t.T(disclosureKey)

		share := t.T("quiz.share_prefix") + caption
		if err := c.EditCaption(caption, kb.ShareButton(t, share)); err != nil && !isNotModified(err) {
			return err
		}

		return respondCallback(c, "", false)
	}
}

// isNotModified recognizes the transport's rejection of a no-op edit, which
// is exactly what a replayed answer produces.
func isNotModified(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, telebot.ErrSameMessageContent) {
		return true
	}
	return strings.Contains(err.Error(), "message is not modified")
}
